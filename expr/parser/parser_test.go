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

package parser

import (
	"testing"

	"github.com/levycas/levycas/expr"
)

// parseSimplify is the usual pipeline; the raw tree
// shape is covered separately below.
func parseSimplify(t *testing.T, src string) string {
	t.Helper()
	n, err := Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %s", src, err)
	}
	out, err := expr.Simplify(n)
	if err != nil {
		t.Fatalf("simplify %q: %s", src, err)
	}
	return expr.ToString(out)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		// precedence and associativity
		{"2+3*4^2", "50"},
		{"2^3^2", "512"},    // ^ is right-associative
		{"(2^3)^2", "64"},
		{"2-3-4", "-5"},     // - is left-associative
		{"12/3/2", "2"},
		{"-x^2 + x^2", "0"}, // unary minus binds looser than ^
		{"2*-3", "-6"},
		{"3!", "6"},
		{"3!!", "720"},      // (3!)! postfix chains
		{"x!^2", "x!^2"},    // postfix binds tighter than ^

		// implicit multiplication
		{"2x", "2 * x"},
		{"2x y", "2 * x * y"},
		{"x(x+1)", "x * (1 + x)"},
		{"(x+1)(x-1)", "(-1 + x) * (1 + x)"},
		{"2sin(x)", "2 * sin(x)"},
		{"x sin(x)", "x * sin(x)"},

		// numbers are exact
		{"0.25", "1/4"},
		{"1.5x", "3/2 * x"},

		// functions, case-insensitive, longest match
		{"SIN(x)", "sin(x)"},
		{"arcsin(0)", "0"},
		{"ln(exp(0))", "0"},
		{"sec(x)", "sec(x)"},
	}
	for _, tc := range tests {
		if got := parseSimplify(t, tc.in); got != tc.want {
			t.Errorf("parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Parse output is raw: no simplification happens
// before the caller asks for it.
func TestParseRaw(t *testing.T) {
	n, err := Parse("x - x")
	if err != nil {
		t.Fatal(err)
	}
	s, ok := n.(*expr.Sum)
	if !ok || len(s.Terms) != 2 {
		t.Fatalf("x - x should parse to a two-term sum, got %q", expr.ToString(n))
	}
	n, err = Parse("2/4")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := n.(*expr.Div); !ok {
		t.Fatalf("2/4 should parse to a quotient node, got %q", expr.ToString(n))
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"x +",
		"(x",
		"x)",
		"2..3",
		"sin x",
		"sin()",
		"x $ y",
		"* x",
	}
	for _, src := range bad {
		if n, err := Parse(src); err == nil {
			t.Errorf("parse(%q) should fail, got %q", src, expr.ToString(n))
		}
	}
}

func TestParseCalls(t *testing.T) {
	arity := map[string]int{"f": 1, "g": 2}
	n, err := ParseCalls("f(x) + g(x, y)", arity)
	if err != nil {
		t.Fatal(err)
	}
	if got := expr.ToString(n); got != "f(x) + g(x, y)" {
		t.Errorf("got %q", got)
	}
	if _, err := ParseCalls("f(x, y)", arity); err == nil {
		t.Error("wrong arity should fail")
	}
	// without the arity entry, "f" is not a name and
	// f(x) is a product of f and x... but f is not a
	// single known letter either: it parses as the
	// variable f times x
	n, err = Parse("f(x)")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := n.(*expr.Product); !ok {
		t.Errorf("f(x) without arity should be a product, got %q", expr.ToString(n))
	}
}
