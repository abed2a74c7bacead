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

package poly_test

import (
	"testing"

	"github.com/levycas/levycas/expr"
	"github.com/levycas/levycas/expr/parser"
	"github.com/levycas/levycas/poly"
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

func TestDegree(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"x^3 + 2*x", 3, true},
		{"5", 0, true},
		{"y^2", 0, true}, // free of x
		{"3*x*y^2", 1, true},
		{"x^2 + sin(x)", 0, false},
		{"x^(1/2)", 0, false},
		{"1/x", 0, false},
	}
	for _, tc := range tests {
		got, ok := poly.Degree(mustSimplify(t, tc.in), x)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("Degree(%q) = %d,%v, want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsPolynomial(t *testing.T) {
	if !poly.IsPolynomial(mustSimplify(t, "x^2 + y*x + 1"), x) {
		t.Error("symbolic coefficients are fine")
	}
	if poly.IsPolynomial(mustSimplify(t, "sin(x)"), x) {
		t.Error("sin(x) is not a polynomial in x")
	}
	if !poly.IsMonomial(mustSimplify(t, "3*y*x^2"), x) {
		t.Error("3*y*x^2 is a monomial in x")
	}
}

func TestCoefficients(t *testing.T) {
	cs, ok := poly.Coefficients(mustSimplify(t, "x^2 + 3*x + 2"), x)
	if !ok || len(cs) != 3 {
		t.Fatalf("got %v coefficients, ok=%v", len(cs), ok)
	}
	for i, want := range []int64{2, 3, 1} {
		if !expr.Equal(cs[i], expr.NewInt(want)) {
			t.Errorf("coefficient %d = %q, want %d", i, expr.ToString(cs[i]), want)
		}
	}
	lc, ok := poly.LeadingCoefficient(mustSimplify(t, "y*x^2 + x"), x)
	if !ok || !expr.Equal(lc, expr.Variable("y")) {
		t.Errorf("leading coefficient = %q", expr.ToString(lc))
	}
}

func TestLinearQuadraticForm(t *testing.T) {
	a, b, ok := poly.LinearForm(mustSimplify(t, "3*x + 4"), x)
	if !ok || !expr.Equal(a, expr.NewInt(3)) || !expr.Equal(b, expr.NewInt(4)) {
		t.Errorf("LinearForm: a=%q b=%q ok=%v", expr.ToString(a), expr.ToString(b), ok)
	}
	if _, _, ok := poly.LinearForm(mustSimplify(t, "x^2"), x); ok {
		t.Error("x^2 is not linear")
	}
	qa, qb, qc, ok := poly.QuadraticForm(mustSimplify(t, "2*x^2 + 3"), x)
	if !ok || !expr.Equal(qa, expr.NewInt(2)) || !expr.Equal(qb, expr.NewInt(0)) || !expr.Equal(qc, expr.NewInt(3)) {
		t.Errorf("QuadraticForm: a=%q b=%q c=%q ok=%v",
			expr.ToString(qa), expr.ToString(qb), expr.ToString(qc), ok)
	}
}

func TestDivide(t *testing.T) {
	tests := []struct {
		u, v, q, r string
	}{
		{"x^2 + 3*x + 2", "x + 1", "x + 2", "0"},
		{"x^3 - 1", "x - 1", "x^2 + x + 1", "0"},
		{"x^2", "x + 1", "x - 1", "1"},
		{"x", "x^2", "0", "x"},
	}
	for _, tc := range tests {
		q, r, ok := poly.Divide(mustSimplify(t, tc.u), mustSimplify(t, tc.v), x)
		if !ok {
			t.Fatalf("divide %q by %q failed", tc.u, tc.v)
		}
		if !expr.Equal(q, mustSimplify(t, tc.q)) || !expr.Equal(r, mustSimplify(t, tc.r)) {
			t.Errorf("%q / %q = %q rem %q, want %q rem %q",
				tc.u, tc.v, expr.ToString(q), expr.ToString(r), tc.q, tc.r)
		}
	}
}

func TestGCD(t *testing.T) {
	g, ok := poly.GCD(mustSimplify(t, "x^2 - 1"), mustSimplify(t, "x^2 + 2*x + 1"), x)
	if !ok || !expr.Equal(g, mustSimplify(t, "x + 1")) {
		t.Errorf("gcd = %q, want x + 1", expr.ToString(g))
	}
	g, ok = poly.GCD(mustSimplify(t, "x + 1"), mustSimplify(t, "x + 2"), x)
	if !ok || !expr.Equal(g, expr.NewInt(1)) {
		t.Errorf("gcd of coprime = %q, want 1", expr.ToString(g))
	}
}

func TestSquareFree(t *testing.T) {
	// (x+1)^2 * (x+2) expanded
	u := mustSimplify(t, "x^3 + 4*x^2 + 5*x + 2")
	co, factors, ok := poly.SquareFree(u, x)
	if !ok {
		t.Fatal("square-free factorization failed")
	}
	if !expr.Equal(co, expr.NewInt(1)) {
		t.Errorf("content = %q, want 1", expr.ToString(co))
	}
	if len(factors) != 2 {
		t.Fatalf("got %d factors, want 2", len(factors))
	}
	if !expr.Equal(factors[0].Part, mustSimplify(t, "x + 2")) || factors[0].Mult != 1 {
		t.Errorf("factor 0 = %q^%d", expr.ToString(factors[0].Part), factors[0].Mult)
	}
	if !expr.Equal(factors[1].Part, mustSimplify(t, "x + 1")) || factors[1].Mult != 2 {
		t.Errorf("factor 1 = %q^%d", expr.ToString(factors[1].Part), factors[1].Mult)
	}
}

func TestPartialFractions(t *testing.T) {
	pol, u1, u2, ok := poly.PartialFractions(
		expr.NewInt(1),
		mustSimplify(t, "x + 1"),
		mustSimplify(t, "x + 2"), x)
	if !ok {
		t.Fatal("partial fractions failed")
	}
	// 1/((x+1)(x+2)) = 1/(x+1) - 1/(x+2)
	if !expr.IsZero(pol) {
		t.Errorf("polynomial part = %q, want 0", expr.ToString(pol))
	}
	if !expr.Equal(u1, expr.NewInt(1)) {
		t.Errorf("u1 = %q, want 1", expr.ToString(u1))
	}
	if !expr.Equal(u2, expr.NewInt(-1)) {
		t.Errorf("u2 = %q, want -1", expr.ToString(u2))
	}
	// common factors are rejected
	if _, _, _, ok := poly.PartialFractions(
		expr.NewInt(1),
		mustSimplify(t, "x + 1"),
		mustSimplify(t, "x^2 + 2*x + 1"), x); ok {
		t.Error("non-coprime denominators should fail")
	}
}
