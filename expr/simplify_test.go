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

package expr_test

import (
	"testing"

	"github.com/levycas/levycas/expr"
	"github.com/levycas/levycas/expr/parser"
)

// simplifyStr parses src and returns the canonical
// text of its simplified form.
func simplifyStr(t *testing.T, src string) string {
	t.Helper()
	n, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %s", src, err)
	}
	out, err := expr.Simplify(n)
	if err != nil {
		t.Fatalf("simplify %q: %s", src, err)
	}
	return expr.ToString(out)
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		// sums
		{"x + x", "2 * x"},
		{"x - x", "0"},
		{"x + 0", "x"},
		{"x + y + x", "2 * x + y"},
		{"y + x", "x + y"},
		{"2*(x+1) + 3*(x+1)", "5 + 5 * x"},
		{"1/3 + 1/6", "1/2"},
		{"3*x - 2*x", "x"},

		// products
		{"x * 1", "x"},
		{"x * 0", "0"},
		{"x*x", "x^2"},
		{"x^2 * x^3", "x^5"},
		{"x^(1/2) * x^(1/2)", "x"},
		{"2 * 3 * x", "6 * x"},
		{"0.5 * x", "1/2 * x"},

		// powers
		{"x^0", "1"},
		{"x^1", "x"},
		{"1^x", "1"},
		{"0^2", "0"},
		{"0^0", "undefined"},
		{"0^(-1)", "undefined"},
		{"2^10", "1024"},
		{"2^(-2)", "1/4"},
		{"4^(1/2)", "2"},
		{"8^(1/3)", "2"},
		{"(4/9)^(1/2)", "2/3"},
		{"2^(1/2)", "2^(1/2)"},
		{"(x^(1/2))^2", "x"},
		{"(2*x)^2", "4 * x^2"},

		// quotients
		{"x/x", "1"},
		{"3/6", "1/2"},
		{"1/0", "undefined"},
		{"0/0", "undefined"},
		{"x/0", "undefined"},
		{"(x+1)/(x+1)", "1"},
		{"x*y/z", "x * y * z^(-1)"},

		// factorials
		{"0!", "1"},
		{"1!", "1"},
		{"3!", "6"},
		{"5!", "120"},

		// elementary reflexes
		{"sin(0)", "0"},
		{"cos(0)", "1"},
		{"tan(0)", "0"},
		{"sec(0)", "1"},
		{"csc(0)", "undefined"},
		{"cot(0)", "undefined"},
		{"arcsin(0)", "0"},
		{"arctan(0)", "0"},
		{"sin(-x)", "-1 * sin(x)"},
		{"cos(-x)", "cos(x)"},
		{"tan(-2*x)", "-1 * tan(2 * x)"},
		{"sin(-3)", "-1 * sin(3)"},
		{"exp(0)", "1"},
		{"ln(1)", "0"},
		{"ln(-2)", "undefined"},
		{"ln(0)", "undefined"},
		{"ln(x^2)", "2 * ln(x)"},
		{"ln(x*y)", "ln(x) + ln(y)"},
	}
	for _, tc := range tests {
		if got := simplifyStr(t, tc.in); got != tc.want {
			t.Errorf("simplify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Simplification must be idempotent: simplifying a
// canonical form changes nothing.
func TestSimplifyIdempotent(t *testing.T) {
	inputs := []string{
		"2*(x+1) + 3*(x+1)",
		"x^2 * x^3 * y",
		"sin(-x) + cos(-x)",
		"(2*x)^2 / (4*x)",
		"ln(x^2 * y)",
		"x + y + z + 1/2",
	}
	for _, src := range inputs {
		n, err := parser.Parse(src)
		if err != nil {
			t.Fatalf("parse %q: %s", src, err)
		}
		once, err := expr.Simplify(n)
		if err != nil {
			t.Fatalf("simplify %q: %s", src, err)
		}
		twice, err := expr.Simplify(once)
		if err != nil {
			t.Fatalf("re-simplify %q: %s", src, err)
		}
		if !expr.Equal(once, twice) {
			t.Errorf("%q: not idempotent: %q != %q",
				src, expr.ToString(once), expr.ToString(twice))
		}
	}
}

func TestUndefinedAbsorption(t *testing.T) {
	x := expr.Variable("x")
	u := expr.Undefined{}
	outs := []expr.Node{
		expr.Add(u, x),
		expr.Mul(u, x),
		expr.Pow(u, x),
		expr.Pow(x, u),
		expr.Divide(u, x),
		expr.Divide(x, u),
		expr.Sin(u),
		expr.Fact(u),
	}
	for i, n := range outs {
		if _, ok := n.(expr.Undefined); !ok {
			t.Errorf("case %d: got %q, want undefined", i, expr.ToString(n))
		}
	}
}

// Exact arithmetic only: a decimal literal is a
// rational, and repeated addition stays exact.
func TestExactRationals(t *testing.T) {
	var n expr.Node = expr.NewInt(0)
	for i := 0; i < 10; i++ {
		n = expr.Add(n, expr.NewRat(1, 10))
	}
	if got := expr.ToString(n); got != "1" {
		t.Errorf("10 * 1/10 = %q, want 1", got)
	}
	if got := simplifyStr(t, "0.1 + 0.2"); got != "3/10" {
		t.Errorf("0.1+0.2 = %q, want 3/10", got)
	}
}

func TestFactorialTooComplex(t *testing.T) {
	_, err := expr.Simplify(&expr.Factorial{Arg: expr.NewInt(1 << 20)})
	if err != expr.ErrTooComplex {
		t.Errorf("got %v, want ErrTooComplex", err)
	}
}

func TestNegativeFactorialUnevaluated(t *testing.T) {
	if got := simplifyStr(t, "(-3)!"); got != "(-3)!" {
		t.Errorf("(-3)! = %q, want unevaluated", got)
	}
}
