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

package poly

import (
	"math/big"

	"github.com/levycas/levycas/expr"
)

// ratPoly is a dense polynomial over Q, constant term
// first, with no trailing zero coefficients. The zero
// polynomial is the empty slice.
type ratPoly []*big.Rat

func (p ratPoly) norm() ratPoly {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

func (p ratPoly) deg() int { return len(p) - 1 }

func (p ratPoly) isZero() bool { return len(p) == 0 }

func (p ratPoly) clone() ratPoly {
	out := make(ratPoly, len(p))
	for i := range p {
		out[i] = new(big.Rat).Set(p[i])
	}
	return out
}

func polyAdd(a, b ratPoly) ratPoly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(ratPoly, n)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(a) {
			out[i].Add(out[i], a[i])
		}
		if i < len(b) {
			out[i].Add(out[i], b[i])
		}
	}
	return out.norm()
}

func polySub(a, b ratPoly) ratPoly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(ratPoly, n)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(a) {
			out[i].Add(out[i], a[i])
		}
		if i < len(b) {
			out[i].Sub(out[i], b[i])
		}
	}
	return out.norm()
}

func polyMul(a, b ratPoly) ratPoly {
	if a.isZero() || b.isZero() {
		return nil
	}
	out := make(ratPoly, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	for i := range a {
		for j := range b {
			out[i+j].Add(out[i+j], new(big.Rat).Mul(a[i], b[j]))
		}
	}
	return out.norm()
}

func polyScale(a ratPoly, c *big.Rat) ratPoly {
	if c.Sign() == 0 {
		return nil
	}
	out := make(ratPoly, len(a))
	for i := range a {
		out[i] = new(big.Rat).Mul(a[i], c)
	}
	return out
}

// polyDivMod divides a by b over Q; b must be nonzero.
func polyDivMod(a, b ratPoly) (q, r ratPoly) {
	r = a.clone()
	if a.deg() < b.deg() {
		return nil, r
	}
	q = make(ratPoly, a.deg()-b.deg()+1)
	for i := range q {
		q[i] = new(big.Rat)
	}
	lead := b[len(b)-1]
	for !r.isZero() && r.deg() >= b.deg() {
		shift := r.deg() - b.deg()
		c := new(big.Rat).Quo(r[len(r)-1], lead)
		q[shift].Set(c)
		// r -= c * x^shift * b
		for i := range b {
			r[shift+i].Sub(r[shift+i], new(big.Rat).Mul(c, b[i]))
		}
		r = r.norm()
	}
	return q.norm(), r
}

func (p ratPoly) deriv() ratPoly {
	if p.deg() < 1 {
		return nil
	}
	out := make(ratPoly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = new(big.Rat).Mul(p[i], new(big.Rat).SetInt64(int64(i)))
	}
	return out.norm()
}

// monic scales p so that its leading coefficient is 1.
func (p ratPoly) monic() ratPoly {
	if p.isZero() {
		return p
	}
	inv := new(big.Rat).Inv(p[len(p)-1])
	return polyScale(p, inv)
}

func polyGCD(a, b ratPoly) ratPoly {
	a, b = a.clone(), b.clone()
	for !b.isZero() {
		_, r := polyDivMod(a, b)
		a, b = b, r
	}
	if a.isZero() {
		return a
	}
	return a.monic()
}

// polyExtGCD returns monic g and s, t with
// s*a + t*b = g.
func polyExtGCD(a, b ratPoly) (g, s, t ratPoly) {
	r0, r1 := a.clone(), b.clone()
	s0, s1 := ratPoly{new(big.Rat).SetInt64(1)}, ratPoly(nil)
	t0, t1 := ratPoly(nil), ratPoly{new(big.Rat).SetInt64(1)}
	for !r1.isZero() {
		q, r := polyDivMod(r0, r1)
		r0, r1 = r1, r
		s0, s1 = s1, polySub(s0, polyMul(q, s1))
		t0, t1 = t1, polySub(t0, polyMul(q, t1))
	}
	if r0.isZero() {
		return r0, s0, t0
	}
	inv := new(big.Rat).Inv(r0[len(r0)-1])
	return polyScale(r0, inv), polyScale(s0, inv), polyScale(t0, inv)
}

func fromExpr(u expr.Node, x expr.Variable) (ratPoly, bool) {
	cs, ok := RatCoefficients(u, x)
	if !ok {
		return nil, false
	}
	return ratPoly(cs).norm(), true
}

func toExpr(p ratPoly, x expr.Variable) expr.Node {
	if p.isZero() {
		return expr.NewInt(0)
	}
	terms := make([]expr.Node, 0, len(p))
	for i, c := range p {
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, expr.Mul(expr.Number(c), expr.Pow(x, expr.NewInt(int64(i)))))
	}
	return expr.Add(terms...)
}

// Divide performs exact polynomial division of u by v
// in x, returning quotient and remainder. It fails
// when either input is not a polynomial in x with
// rational coefficients, or when v is zero.
func Divide(u, v expr.Node, x expr.Variable) (q, r expr.Node, ok bool) {
	pu, ok1 := fromExpr(u, x)
	pv, ok2 := fromExpr(v, x)
	if !ok1 || !ok2 || pv.isZero() {
		return nil, nil, false
	}
	pq, pr := polyDivMod(pu, pv)
	return toExpr(pq, x), toExpr(pr, x), true
}

// GCD returns the monic greatest common divisor of u
// and v as polynomials in x.
func GCD(u, v expr.Node, x expr.Variable) (expr.Node, bool) {
	pu, ok1 := fromExpr(u, x)
	pv, ok2 := fromExpr(v, x)
	if !ok1 || !ok2 {
		return nil, false
	}
	return toExpr(polyGCD(pu, pv), x), true
}

// Factor is one square-free part of a factorization,
// occurring Mult times.
type Factor struct {
	Part expr.Node
	Mult int
}

// SquareFree computes the square-free factorization of
// u in x by Yun's algorithm:
//
//	u = co * f1 * f2^2 * ... * fk^k
//
// with the fi monic, square-free, and pairwise
// coprime. Factors equal to 1 are omitted.
func SquareFree(u expr.Node, x expr.Variable) (co expr.Node, factors []Factor, ok bool) {
	p, ok := fromExpr(u, x)
	if !ok || p.isZero() {
		return nil, nil, false
	}
	lead := new(big.Rat).Set(p[len(p)-1])
	f := p.monic()
	if f.deg() < 1 {
		return expr.Number(lead), nil, true
	}
	df := f.deriv()
	g := polyGCD(f, df)
	c, _ := polyDivMod(f, g)
	quot, _ := polyDivMod(df, g)
	d := polySub(quot, c.deriv())
	for i := 1; c.deg() > 0 || !polySub(c, ratPoly{new(big.Rat).SetInt64(1)}).isZero(); i++ {
		a := polyGCD(c, d)
		if a.deg() > 0 {
			factors = append(factors, Factor{Part: toExpr(a, x), Mult: i})
		}
		c2, _ := polyDivMod(c, a)
		quot, _ := polyDivMod(d, a)
		c, d = c2, polySub(quot, c2.deriv())
		if i > maxPolyDegree {
			return nil, nil, false
		}
	}
	return expr.Number(lead), factors, true
}

// PartialFractions splits u/(v1*v2) with coprime v1,
// v2 into pol + u1/v1 + u2/v2 where the ui have lower
// degree than their denominators.
func PartialFractions(u, v1, v2 expr.Node, x expr.Variable) (pol, u1, u2 expr.Node, ok bool) {
	pu, ok1 := fromExpr(u, x)
	p1, ok2 := fromExpr(v1, x)
	p2, ok3 := fromExpr(v2, x)
	if !ok1 || !ok2 || !ok3 || p1.isZero() || p2.isZero() {
		return nil, nil, nil, false
	}
	g, s, t := polyExtGCD(p1, p2)
	if g.deg() != 0 {
		// not coprime
		return nil, nil, nil, false
	}
	// s*v1 + t*v2 = 1, so u/(v1*v2) = u*t/v1 + u*s/v2
	q1, r1 := polyDivMod(polyMul(pu, t), p1)
	q2, r2 := polyDivMod(polyMul(pu, s), p2)
	return toExpr(polyAdd(q1, q2), x), toExpr(r1, x), toExpr(r2, x), true
}
