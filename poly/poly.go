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

// Package poly analyzes expressions as polynomials in
// a chosen variable. The structural predicates work on
// symbolic coefficients; the division and
// factorization routines require exact rational
// coefficients.
package poly

import (
	"math/big"

	"github.com/levycas/levycas/expr"
)

// IsMonomial reports whether u is a monomial in x: a
// product of a coefficient free of x and a power of x
// with a non-negative integer exponent.
func IsMonomial(u expr.Node, x expr.Variable) bool {
	_, ok := monomialDegree(u, x)
	return ok
}

// IsPolynomial reports whether u is a polynomial in x.
func IsPolynomial(u expr.Node, x expr.Variable) bool {
	_, ok := Degree(u, x)
	return ok
}

// Degree returns the degree of u as a polynomial in x.
// The zero polynomial has degree 0 here; non-polynomial
// input returns false.
func Degree(u expr.Node, x expr.Variable) (int, bool) {
	if s, ok := u.(*expr.Sum); ok {
		max := 0
		for _, t := range s.Terms {
			d, ok := monomialDegree(t, x)
			if !ok {
				return 0, false
			}
			if d > max {
				max = d
			}
		}
		return max, true
	}
	return monomialDegree(u, x)
}

func monomialDegree(u expr.Node, x expr.Variable) (int, bool) {
	if expr.FreeOf(u, x) {
		return 0, true
	}
	if expr.Equal(u, x) {
		return 1, true
	}
	switch e := u.(type) {
	case *expr.Power:
		if !expr.Equal(e.Base, x) {
			return 0, false
		}
		i, ok := expr.IsInteger(e.Exp)
		if !ok || i.Sign() < 0 || !i.IsInt64() || i.Int64() > maxPolyDegree {
			return 0, false
		}
		return int(i.Int64()), true
	case *expr.Product:
		total := 0
		for _, f := range e.Factors {
			d, ok := monomialDegree(f, x)
			if !ok {
				return 0, false
			}
			total += d
		}
		return total, true
	}
	return 0, false
}

// maxPolyDegree bounds dense coefficient vectors.
const maxPolyDegree = 1 << 12

// monomialSplit returns the degree of a monomial and
// its coefficient (the part free of x).
func monomialSplit(u expr.Node, x expr.Variable) (int, expr.Node, bool) {
	d, ok := monomialDegree(u, x)
	if !ok {
		return 0, nil, false
	}
	if d == 0 {
		return 0, u, true
	}
	co := expr.Divide(u, expr.Pow(x, expr.NewInt(int64(d))))
	if !expr.FreeOf(co, x) {
		return 0, nil, false
	}
	return d, co, true
}

// Coefficients returns the dense coefficient list of u
// in x, constant term first. Coefficients may be
// symbolic, but must be free of x.
func Coefficients(u expr.Node, x expr.Variable) ([]expr.Node, bool) {
	deg, ok := Degree(u, x)
	if !ok {
		return nil, false
	}
	out := make([]expr.Node, deg+1)
	for i := range out {
		out[i] = expr.NewInt(0)
	}
	terms := []expr.Node{u}
	if s, ok := u.(*expr.Sum); ok {
		terms = s.Terms
	}
	for _, t := range terms {
		d, co, ok := monomialSplit(t, x)
		if !ok {
			return nil, false
		}
		out[d] = expr.Add(out[d], co)
	}
	return out, true
}

// LeadingCoefficient returns the coefficient of the
// highest power of x in u.
func LeadingCoefficient(u expr.Node, x expr.Variable) (expr.Node, bool) {
	cs, ok := Coefficients(u, x)
	if !ok {
		return nil, false
	}
	return cs[len(cs)-1], true
}

// LinearForm matches u against a*x + b with a and b
// free of x.
func LinearForm(u expr.Node, x expr.Variable) (a, b expr.Node, ok bool) {
	cs, ok := Coefficients(u, x)
	if !ok || len(cs) > 2 {
		return nil, nil, false
	}
	a, b = expr.NewInt(0), cs[0]
	if len(cs) == 2 {
		a = cs[1]
	}
	return a, b, true
}

// QuadraticForm matches u against a*x^2 + b*x + c with
// the coefficients free of x.
func QuadraticForm(u expr.Node, x expr.Variable) (a, b, c expr.Node, ok bool) {
	cs, ok := Coefficients(u, x)
	if !ok || len(cs) > 3 {
		return nil, nil, nil, false
	}
	a, b, c = expr.NewInt(0), expr.NewInt(0), cs[0]
	if len(cs) >= 2 {
		b = cs[1]
	}
	if len(cs) == 3 {
		a = cs[2]
	}
	return a, b, c, true
}

// RatCoefficients is Coefficients restricted to exact
// rational values; it fails when any coefficient is
// symbolic.
func RatCoefficients(u expr.Node, x expr.Variable) ([]*big.Rat, bool) {
	cs, ok := Coefficients(u, x)
	if !ok {
		return nil, false
	}
	out := make([]*big.Rat, len(cs))
	for i, c := range cs {
		r, ok := expr.AsConstant(c)
		if !ok {
			return nil, false
		}
		out[i] = new(big.Rat).Set(r)
	}
	return out, true
}
