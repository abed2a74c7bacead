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
	"github.com/levycas/levycas/expr/parser"
)

const x = expr.Variable("x")

func mustSimplify(t *testing.T, src string) expr.Node {
	t.Helper()
	n, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %s", src, err)
	}
	out, err := expr.Simplify(n)
	if err != nil {
		t.Fatalf("simplify %q: %s", src, err)
	}
	return out
}

func TestDerivative(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"x", "1"},
		{"7", "0"},
		{"y", "0"},
		{"x^2", "2*x"},
		{"x^(-2)", "-2 * x^(-3)"},
		{"x^(1/2)", "1/2 * x^(-1/2)"},
		{"3*x^2 + 2*x + 1", "6*x + 2"},
		{"sin(x)", "cos(x)"},
		{"cos(x)", "-sin(x)"},
		{"tan(x)", "sec(x)^2"},
		{"sec(x)", "sec(x)*tan(x)"},
		{"exp(x)", "exp(x)"},
		{"ln(x)", "1/x"},
		{"arctan(x)", "1/(1 + x^2)"},
		{"arcsin(x)", "(1 - x^2)^(-1/2)"},
		{"arccos(x)", "-(1 - x^2)^(-1/2)"},

		// chain rule
		{"sin(x^2)", "2*x*cos(x^2)"},
		{"exp(3*x)", "3*exp(3*x)"},
		{"ln(x^2 + 1)", "2*x/(x^2 + 1)"},

		// product and quotient shapes
		{"x*sin(x)", "sin(x) + x*cos(x)"},
		{"x^2*exp(x)", "2*x*exp(x) + x^2*exp(x)"},

		// generalized power rule
		{"x^x", "x^x + x^x*ln(x)"},
	}
	for _, tc := range tests {
		got, err := calc.Derivative(mustSimplify(t, tc.in), x)
		if err != nil {
			t.Fatalf("derivative %q: %s", tc.in, err)
		}
		want := mustSimplify(t, tc.want)
		if !expr.Equal(got, want) {
			t.Errorf("d/dx %q = %q, want %q",
				tc.in, expr.ToString(got), expr.ToString(want))
		}
	}
}

func TestDerivativeUndefined(t *testing.T) {
	got, err := calc.Derivative(mustSimplify(t, "x + 1/0"), x)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(expr.Undefined); !ok {
		t.Errorf("got %q, want undefined", expr.ToString(got))
	}
}

// With no applicable rule the engine produces an
// unresolved-derivative marker instead of a wrong
// answer.
func TestDerivativeMarker(t *testing.T) {
	got, err := calc.Derivative(mustSimplify(t, "x!"), x)
	if err != nil {
		t.Fatal(err)
	}
	if expr.ToString(got) != "deriv(x!, x)" {
		t.Errorf("got %q, want deriv(x!, x)", expr.ToString(got))
	}
}
