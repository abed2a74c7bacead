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
)

func TestTrigSubstitute(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tan(x)", "sin(x) / cos(x)"},
		{"cot(x)", "cos(x) / sin(x)"},
		{"sec(x)", "1 / cos(x)"},
		{"csc(x)", "1 / sin(x)"},
		{"sin(x) + 1", "sin(x) + 1"},
	}
	for _, tc := range tests {
		in := mustSimplify(t, tc.in)
		want := mustSimplify(t, tc.want)
		got, err := expr.TrigSubstitute(in)
		if err != nil {
			t.Fatalf("%q: %s", tc.in, err)
		}
		if !expr.Equal(got, want) {
			t.Errorf("TrigSubstitute(%q) = %q, want %q",
				tc.in, expr.ToString(got), expr.ToString(want))
		}
	}
}

func TestTrigExpand(t *testing.T) {
	x, y := expr.Variable("x"), expr.Variable("y")
	tests := []struct {
		in   string
		want expr.Node
	}{
		{"sin(2*x)", expr.Mul(expr.NewInt(2), expr.Sin(x), expr.Cos(x))},
		{"cos(2*x)", expr.Sub(expr.Pow(expr.Cos(x), expr.NewInt(2)), expr.Pow(expr.Sin(x), expr.NewInt(2)))},
		{"sin(x+y)", expr.Add(
			expr.Mul(expr.Sin(x), expr.Cos(y)),
			expr.Mul(expr.Cos(x), expr.Sin(y)))},
		{"cos(x+y)", expr.Sub(
			expr.Mul(expr.Cos(x), expr.Cos(y)),
			expr.Mul(expr.Sin(x), expr.Sin(y)))},
	}
	for _, tc := range tests {
		in := mustSimplify(t, tc.in)
		got, err := expr.TrigExpand(in)
		if err != nil {
			t.Fatalf("%q: %s", tc.in, err)
		}
		if !expr.Equal(got, tc.want) {
			t.Errorf("TrigExpand(%q) = %q, want %q",
				tc.in, expr.ToString(got), expr.ToString(tc.want))
		}
	}
}

func TestTrigContract(t *testing.T) {
	x := expr.Variable("x")
	two := expr.NewInt(2)
	tests := []struct {
		in   string
		want expr.Node
	}{
		{"sin(x)*cos(x)", expr.Mul(expr.NewRat(1, 2), expr.Sin(expr.Mul(two, x)))},
		{"sin(x)^2", expr.Sub(expr.NewRat(1, 2),
			expr.Mul(expr.NewRat(1, 2), expr.Cos(expr.Mul(two, x))))},
		{"cos(x)^2", expr.Add(expr.NewRat(1, 2),
			expr.Mul(expr.NewRat(1, 2), expr.Cos(expr.Mul(two, x))))},
	}
	for _, tc := range tests {
		in := mustSimplify(t, tc.in)
		got, err := expr.TrigContract(in)
		if err != nil {
			t.Fatalf("%q: %s", tc.in, err)
		}
		if !expr.Equal(got, tc.want) {
			t.Errorf("TrigContract(%q) = %q, want %q",
				tc.in, expr.ToString(got), expr.ToString(tc.want))
		}
	}
}

// The composition must cancel classic identities.
func TestTrigSimplifyIdentities(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"sin(x)^2 + cos(x)^2", "1"},
		{"sin(x)^2 + cos(x)^2 - 1", "0"},
		{"2*sin(x)*cos(x)", "sin(2*x)"},
	}
	for _, tc := range tests {
		in := mustSimplify(t, tc.in)
		want := mustSimplify(t, tc.want)
		got, err := expr.TrigSimplify(in)
		if err != nil {
			t.Fatalf("%q: %s", tc.in, err)
		}
		if !expr.Equal(got, want) {
			t.Errorf("TrigSimplify(%q) = %q, want %q",
				tc.in, expr.ToString(got), expr.ToString(want))
		}
	}
}

// Round trip: expanding sin(2x) and contracting the
// result restores the original.
func TestTrigRoundTrip(t *testing.T) {
	in := mustSimplify(t, "sin(2*x)")
	ex, err := expr.TrigExpand(in)
	if err != nil {
		t.Fatal(err)
	}
	back, err := expr.TrigContract(ex)
	if err != nil {
		t.Fatal(err)
	}
	if !expr.Equal(back, in) {
		t.Errorf("round trip: %q -> %q -> %q",
			expr.ToString(in), expr.ToString(ex), expr.ToString(back))
	}
}
