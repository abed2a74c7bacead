// Copyright (C) 2023 Levycas, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package calc_test

import (
	"testing"

	"github.com/levycas/levycas/calc"
	"github.com/levycas/levycas/expr"
)

func TestIntegrate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		// table forms
		{"0", "0"},
		{"y", "x*y"},
		{"x", "1/2*x^2"},
		{"x^2", "1/3*x^3"},
		{"x^(-2)", "-x^(-1)"},
		{"x^(1/2)", "2/3*x^(3/2)"},
		{"1/x", "ln(x)"},
		{"sin(x)", "-cos(x)"},
		{"cos(x)", "sin(x)"},
		{"exp(x)", "exp(x)"},
		{"sec(x)^2", "tan(x)"},
		{"csc(x)^2", "-cot(x)"},
		{"sec(x)*tan(x)", "sec(x)"},
		{"csc(x)*cot(x)", "-csc(x)"},
		{"ln(x)", "x*ln(x) - x"},
		{"2^x", "2^x / ln(2)"},

		// linearity
		{"3*x^2 + 2", "x^3 + 2*x"},
		{"2*x + (1/2)*x^2", "x^2 + (1/6)*x^3"},
		{"5*sin(x)", "-5*cos(x)"},
		{"y*x^2", "(1/3)*y*x^3"},

		// substitution
		{"cos(2*x + 1)", "(1/2)*sin(2*x + 1)"},
		{"2*x*exp(x^2)", "exp(x^2)"},
		{"sin(x)*cos(x)", "(1/2)*sin(x)^2"},
		{"2*x*(x^2+1)^5", "(1/6)*(x^2+1)^6"},
		{"cos(x)/sin(x)", "ln(sin(x))"},

		// rational functions
		{"1/(x+2)", "ln(x + 2)"},
		{"1/(2*x+4)", "(1/2)*ln(2*x + 4)"},
		{"1/(x^2+2*x+2)", "arctan(x + 1)"},
		{"1/(x^2+2*x+1)", "-2/(2*x + 2)"},
		{"1/(x^2-1)", "(1/2)*(ln(x-1) - ln(x+1))"},
		{"(x^3+x)/x", "(1/3)*x^3 + x"},
		{"x/(x+1)", "x - ln(x + 1)"},

		// by parts
		{"x*exp(x)", "x*exp(x) - exp(x)"},
		{"x*cos(x)", "x*sin(x) + cos(x)"},
		{"x^2*sin(x)", "-x^2*cos(x) + 2*x*sin(x) + 2*cos(x)"},

		// expansion retry
		{"(x+1)*(x+2)", "(1/3)*x^3 + (3/2)*x^2 + 2*x"},

		// trig retry
		{"sin(x)^2", "(1/2)*x - (1/4)*sin(2*x)"},
	}
	for _, tc := range tests {
		got, err := calc.Integrate(mustSimplify(t, tc.in), x)
		if err != nil {
			t.Fatalf("integrate %q: %s", tc.in, err)
		}
		want := mustSimplify(t, tc.want)
		if !expr.Equal(got, want) {
			t.Errorf("integrate(%q) = %q, want %q",
				tc.in, expr.ToString(got), expr.ToString(want))
		}
	}
}

// Differentiating an antiderivative must give back the
// integrand; for sums of rational terms equality is
// checked after putting everything over a common
// denominator.
func TestIntegrateRoundTrip(t *testing.T) {
	inputs := []string{
		"x^5",
		"3*x^2 + 2*x + 1",
		"sin(x)",
		"cos(2*x + 1)",
		"x*exp(x)",
		"1/(x+2)",
		"x/(x+1)",
		"1/((x+1)*(x+2))",
	}
	for _, src := range inputs {
		in := mustSimplify(t, src)
		anti, err := calc.Integrate(in, x)
		if err != nil {
			t.Fatalf("integrate %q: %s", src, err)
		}
		back, err := calc.Derivative(anti, x)
		if err != nil {
			t.Fatalf("derivative of %q: %s", expr.ToString(anti), err)
		}
		diff, err := expr.Rationalize(expr.Sub(back, in))
		if err != nil {
			t.Fatal(err)
		}
		num, err := expr.Expand(expr.Numerator(diff))
		if err != nil {
			t.Fatal(err)
		}
		if !expr.IsZero(num) {
			t.Errorf("%q: d/dx %q = %q, does not match",
				src, expr.ToString(anti), expr.ToString(back))
		}
	}
}

func TestIntegrateQuadraticDenominator(t *testing.T) {
	// 1/((x+1)(x+2)) = 1/(x+1) - 1/(x+2)
	in := mustSimplify(t, "1/((x+1)*(x+2))")
	got, err := calc.Integrate(in, x)
	if err != nil {
		t.Fatal(err)
	}
	want := mustSimplify(t, "ln(x+1) - ln(x+2)")
	if !expr.Equal(got, want) {
		t.Errorf("got %q, want %q", expr.ToString(got), expr.ToString(want))
	}
}

func TestIntegratePartialFractions(t *testing.T) {
	// the denominator splits square-free as
	// (x+2) * (x+1)^2, and
	// 1/((x+1)^2 (x+2)) = 1/(x+2) - x/(x+1)^2
	in := mustSimplify(t, "1/((x+1)^2*(x+2))")
	got, err := calc.Integrate(in, x)
	if err != nil {
		t.Fatal(err)
	}
	want := mustSimplify(t,
		"ln(x+2) - (1/2)*ln(x^2+2*x+1) - 2/(2*x+2)")
	if !expr.Equal(got, want) {
		t.Errorf("got %q, want %q", expr.ToString(got), expr.ToString(want))
	}
}

func TestIntegrateNoAntiderivative(t *testing.T) {
	for _, src := range []string{"exp(x^2)", "sin(x)/x"} {
		_, err := calc.Integrate(mustSimplify(t, src), x)
		if err != calc.ErrNoAntiderivative {
			t.Errorf("integrate(%q): got %v, want ErrNoAntiderivative", src, err)
		}
	}
}

func TestIntegrateUndefined(t *testing.T) {
	got, err := calc.Integrate(mustSimplify(t, "x + 0^0"), x)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(expr.Undefined); !ok {
		t.Errorf("got %q, want undefined", expr.ToString(got))
	}
}
