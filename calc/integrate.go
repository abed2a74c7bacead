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

package calc

import (
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/exp/slices"

	"github.com/levycas/levycas/expr"
	"github.com/levycas/levycas/poly"
)

// ErrNoAntiderivative is reported when every
// integration strategy fails. It means the engine gave
// up, not that no antiderivative exists.
var ErrNoAntiderivative = errors.New("calc: no antiderivative found")

const (
	integrateBudget   = 512
	maxIntegrateDepth = 64
)

// anon stands in for the integration variable in table
// keys. The parser cannot produce it, so it never
// collides with user variables.
const anon = expr.Variable("@")

// Integrate returns an antiderivative of e with
// respect to wrt, without the additive constant. The
// strategies tried, in order: direct table forms,
// linearity, u-substitution over the sub-expressions
// of e, rational-function reduction, integration by
// parts, and retries after algebraic expansion and
// trigonometric simplification.
func Integrate(e expr.Node, wrt expr.Variable) (out expr.Node, err error) {
	defer expr.Guard(&err)
	n, err := expr.Simplify(e)
	if err != nil {
		return nil, err
	}
	if _, ok := n.(expr.Undefined); ok {
		return n, nil
	}
	budget, fresh := integrateBudget, 0
	in := &integrator{wrt: wrt, budget: &budget, fresh: &fresh}
	out = in.integrate(n, 0)
	if out == nil {
		return nil, ErrNoAntiderivative
	}
	return out, nil
}

// integrator carries the integration variable plus a
// work budget shared across nested substitutions.
type integrator struct {
	wrt    expr.Variable
	budget *int
	fresh  *int
}

func (in *integrator) spend() {
	*in.budget--
	if *in.budget < 0 {
		expr.Bail()
	}
}

func (in *integrator) freshVar() expr.Variable {
	*in.fresh++
	return expr.Variable(fmt.Sprintf("@%d", *in.fresh))
}

// sub is Substitute with the error folded into the
// surrounding Guard.
func (in *integrator) sub(n, target, repl expr.Node) expr.Node {
	out, err := expr.Substitute(n, target, repl)
	if err != nil {
		expr.Bail()
	}
	return out
}

// integrate returns an antiderivative of u, or nil
// when every strategy fails.
func (in *integrator) integrate(u expr.Node, d int) expr.Node {
	in.spend()
	if d > maxIntegrateDepth {
		expr.Bail()
	}
	if expr.FreeOf(u, in.wrt) {
		return expr.Mul(u, in.wrt)
	}
	if r := in.table(u); r != nil {
		return r
	}
	if r := in.linearity(u, d); r != nil {
		return r
	}
	if r := in.substitution(u, d); r != nil {
		return r
	}
	if r := in.rational(u, d); r != nil {
		return r
	}
	if r := in.byParts(u, d); r != nil {
		return r
	}
	if r := in.retryExpanded(u, d); r != nil {
		return r
	}
	return in.retryTrig(u, d)
}

// tableForms maps the canonical text of an integrand,
// with the integration variable replaced by anon, to a
// builder for its antiderivative.
var tableForms = map[string]func(x expr.Variable) expr.Node{
	"@": func(x expr.Variable) expr.Node {
		return expr.Mul(expr.NewRat(1, 2), expr.Pow(x, expr.NewInt(2)))
	},
	"@^(-1)": func(x expr.Variable) expr.Node {
		return expr.Ln(x)
	},
	"sin(@)": func(x expr.Variable) expr.Node {
		return expr.Neg(expr.Cos(x))
	},
	"cos(@)": func(x expr.Variable) expr.Node {
		return expr.Sin(x)
	},
	"tan(@)": func(x expr.Variable) expr.Node {
		return expr.Neg(expr.Ln(expr.Cos(x)))
	},
	"cot(@)": func(x expr.Variable) expr.Node {
		return expr.Ln(expr.Sin(x))
	},
	"exp(@)": func(x expr.Variable) expr.Node {
		return expr.Exp(x)
	},
	"ln(@)": func(x expr.Variable) expr.Node {
		return expr.Sub(expr.Mul(x, expr.Ln(x)), x)
	},
	"sec(@)^2": func(x expr.Variable) expr.Node {
		return expr.Tan(x)
	},
	"csc(@)^2": func(x expr.Variable) expr.Node {
		return expr.Neg(expr.Cot(x))
	},
	"tan(@) * sec(@)": func(x expr.Variable) expr.Node {
		return expr.Sec(x)
	},
	"csc(@) * cot(@)": func(x expr.Variable) expr.Node {
		return expr.Neg(expr.Csc(x))
	},
	"arctan(@)": func(x expr.Variable) expr.Node {
		sq := expr.Add(expr.NewInt(1), expr.Pow(x, expr.NewInt(2)))
		return expr.Sub(expr.Mul(x, expr.Arctan(x)), expr.Mul(expr.NewRat(1, 2), expr.Ln(sq)))
	},
	"arcsin(@)": func(x expr.Variable) expr.Node {
		sq := expr.Sub(expr.NewInt(1), expr.Pow(x, expr.NewInt(2)))
		return expr.Add(expr.Mul(x, expr.Arcsin(x)), expr.Pow(sq, expr.NewRat(1, 2)))
	},
}

func (in *integrator) table(u expr.Node) expr.Node {
	// power rule and constant-base exponentials are
	// matched structurally: the exponent is any
	// rational constant
	if p, ok := u.(*expr.Power); ok {
		if expr.Equal(p.Base, in.wrt) {
			if c, ok := expr.AsConstant(p.Exp); ok && c.Cmp(big.NewRat(-1, 1)) != 0 {
				n1 := expr.Add(p.Exp, expr.NewInt(1))
				return expr.Divide(expr.Pow(in.wrt, n1), n1)
			}
		}
		if c, ok := expr.AsConstant(p.Base); ok && c.Sign() > 0 && !expr.IsOne(p.Base) && expr.Equal(p.Exp, in.wrt) {
			return expr.Divide(expr.Pow(p.Base, in.wrt), expr.Ln(p.Base))
		}
	}
	if expr.Equal(u, in.wrt) {
		// avoid substituting; same as key "@"
		return expr.Mul(expr.NewRat(1, 2), expr.Pow(in.wrt, expr.NewInt(2)))
	}
	key := expr.ToString(in.sub(u, in.wrt, anon))
	if f, ok := tableForms[key]; ok {
		return f(in.wrt)
	}
	return nil
}

func (in *integrator) linearity(u expr.Node, d int) expr.Node {
	switch e := u.(type) {
	case *expr.Sum:
		terms := make([]expr.Node, len(e.Terms))
		for i, t := range e.Terms {
			terms[i] = in.integrate(t, d+1)
			if terms[i] == nil {
				return nil
			}
		}
		return expr.Add(terms...)
	case *expr.Product:
		var free, dep []expr.Node
		for _, f := range e.Factors {
			if expr.FreeOf(f, in.wrt) {
				free = append(free, f)
			} else {
				dep = append(dep, f)
			}
		}
		if len(free) == 0 {
			return nil
		}
		r := in.integrate(expr.Mul(dep...), d+1)
		if r == nil {
			return nil
		}
		return expr.Mul(append(free, r)...)
	}
	return nil
}

// candidates returns the proper sub-expressions of u
// that involve the integration variable, deduplicated
// and in canonical order so that substitution search
// is deterministic.
func (in *integrator) candidates(u expr.Node) []expr.Node {
	var out []expr.Node
	seen := make(map[uint64]struct{})
	var visit func(n expr.Node)
	visit = func(n expr.Node) {
		for _, k := range expr.Operands(n) {
			visit(k)
		}
		if expr.Equal(n, in.wrt) || expr.FreeOf(n, in.wrt) {
			return
		}
		h := expr.Hash(n)
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		out = append(out, n)
	}
	for _, k := range expr.Operands(u) {
		visit(k)
	}
	slices.SortFunc(out, expr.Less)
	return out
}

// substitution searches for g among the
// sub-expressions of u such that u = f(g)*g' and f(v)
// has a known antiderivative F; the result is F(g).
func (in *integrator) substitution(u expr.Node, d int) expr.Node {
	for _, g := range in.candidates(u) {
		dg := derive(g, in.wrt, 0)
		if expr.IsZero(dg) {
			continue
		}
		if _, ok := dg.(expr.Undefined); ok {
			continue
		}
		f := expr.Divide(u, dg)
		v := in.freshVar()
		fv := in.sub(f, g, expr.Node(v))
		if !expr.FreeOf(fv, in.wrt) {
			continue
		}
		inner := &integrator{wrt: v, budget: in.budget, fresh: in.fresh}
		if r := inner.integrate(fv, d+1); r != nil {
			return in.sub(r, expr.Node(v), g)
		}
	}
	return nil
}

// ratSqrt returns the exact square root of a
// non-negative rational, if it is a perfect square.
func ratSqrt(v *big.Rat) (*big.Rat, bool) {
	if v.Sign() < 0 {
		return nil, false
	}
	num := new(big.Int).Sqrt(v.Num())
	den := new(big.Int).Sqrt(v.Denom())
	if new(big.Int).Mul(num, num).Cmp(v.Num()) != 0 {
		return nil, false
	}
	if new(big.Int).Mul(den, den).Cmp(v.Denom()) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(num, den), true
}

// rational integrates quotients of polynomials in the
// integration variable: polynomial division when the
// numerator degree is too high, closed forms for
// linear and quadratic denominators, and a partial
// fraction split over the square-free factorization
// for higher degrees.
func (in *integrator) rational(u expr.Node, d int) expr.Node {
	x := in.wrt
	num, den := expr.Numerator(u), expr.Denominator(u)
	if expr.IsOne(den) {
		return nil
	}
	// the dense polynomial routines want expanded input
	num, den = mustExpand(num), mustExpand(den)
	nd, ok := poly.Degree(num, x)
	if !ok {
		return nil
	}
	dd, ok := poly.Degree(den, x)
	if !ok || dd == 0 {
		return nil
	}
	if nd >= dd {
		q, r, ok := poly.Divide(num, den, x)
		if !ok {
			return nil
		}
		iq := in.integrate(q, d+1)
		if iq == nil {
			return nil
		}
		if expr.IsZero(r) {
			return iq
		}
		ir := in.integrate(expr.Divide(r, den), d+1)
		if ir == nil {
			return nil
		}
		return expr.Add(iq, ir)
	}
	switch dd {
	case 1:
		// c/(a*x+b) -> (c/a)*ln(a*x+b)
		a, _, ok := poly.LinearForm(den, x)
		if !ok || expr.IsZero(a) {
			return nil
		}
		return expr.Mul(num, expr.Pow(a, expr.NewInt(-1)), expr.Ln(den))
	case 2:
		return in.quadratic(num, den, d)
	}
	return in.partialFractions(num, den, d)
}

func (in *integrator) quadratic(num, den expr.Node, d int) expr.Node {
	x := in.wrt
	a, b, c, ok := poly.QuadraticForm(den, x)
	if !ok {
		return nil
	}
	ar, aok := expr.AsConstant(a)
	br, bok := expr.AsConstant(b)
	cr, cok := expr.AsConstant(c)
	if !aok || !bok || !cok || ar.Sign() == 0 {
		return nil
	}
	m, k, ok := poly.LinearForm(num, x)
	if !ok {
		return nil
	}
	// m*x + k = (m/2a)*(2a*x + b) + (k - m*b/2a)
	var parts []expr.Node
	twoA := expr.Mul(expr.NewInt(2), a)
	if !expr.IsZero(m) {
		parts = append(parts, expr.Mul(m, expr.Pow(twoA, expr.NewInt(-1)), expr.Ln(den)))
	}
	rest := expr.Sub(k, expr.Mul(m, b, expr.Pow(twoA, expr.NewInt(-1))))
	if !expr.IsZero(rest) {
		base := in.quadraticBase(ar, br, cr, a, b)
		if base == nil {
			return nil
		}
		parts = append(parts, expr.Mul(rest, base))
	}
	if len(parts) == 0 {
		return expr.NewInt(0)
	}
	return expr.Add(parts...)
}

// quadraticBase integrates 1/(a*x^2+b*x+c) by the sign
// of the discriminant.
func (in *integrator) quadraticBase(ar, br, cr *big.Rat, a, b expr.Node) expr.Node {
	x := in.wrt
	disc := new(big.Rat).Mul(br, br)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(ar, cr)))
	lin := expr.Add(expr.Mul(expr.NewInt(2), a, x), b)
	switch disc.Sign() {
	case -1:
		// 2/sqrt(-disc) * arctan((2a*x+b)/sqrt(-disc))
		root := expr.Pow(expr.Number(new(big.Rat).Neg(disc)), expr.NewRat(1, 2))
		return expr.Mul(expr.NewInt(2), expr.Pow(root, expr.NewInt(-1)),
			expr.Arctan(expr.Divide(lin, root)))
	case 0:
		// -2/(2a*x+b)
		return expr.Divide(expr.NewInt(-2), lin)
	default:
		// rational roots split into two logarithms;
		// irrational roots are not supported
		s, ok := ratSqrt(disc)
		if !ok {
			return nil
		}
		twoA := new(big.Rat).Mul(big.NewRat(2, 1), ar)
		r1 := new(big.Rat).Quo(new(big.Rat).Sub(s, br), twoA)
		r2 := new(big.Rat).Quo(new(big.Rat).Sub(new(big.Rat).Neg(s), br), twoA)
		diff := expr.Sub(
			expr.Ln(expr.Sub(x, expr.Number(r1))),
			expr.Ln(expr.Sub(x, expr.Number(r2))),
		)
		return expr.Mul(expr.Pow(expr.Number(s), expr.NewInt(-1)), diff)
	}
}

// partialFractions splits num/den across the
// square-free factorization of den and integrates the
// pieces independently.
func (in *integrator) partialFractions(num, den expr.Node, d int) expr.Node {
	x := in.wrt
	co, factors, ok := poly.SquareFree(den, x)
	if !ok || len(factors) < 2 {
		return nil
	}
	v1 := mustExpand(expr.Pow(factors[0].Part, expr.NewInt(int64(factors[0].Mult))))
	rest := make([]expr.Node, 0, len(factors)-1)
	for _, f := range factors[1:] {
		rest = append(rest, expr.Pow(f.Part, expr.NewInt(int64(f.Mult))))
	}
	v2 := mustExpand(expr.Mul(rest...))
	adjusted := expr.Divide(num, co)
	pol, u1, u2, ok := poly.PartialFractions(adjusted, v1, v2, x)
	if !ok {
		return nil
	}
	parts := make([]expr.Node, 0, 3)
	for _, piece := range []expr.Node{pol, expr.Divide(u1, v1), expr.Divide(u2, v2)} {
		if expr.IsZero(piece) {
			continue
		}
		r := in.integrate(piece, d+1)
		if r == nil {
			return nil
		}
		parts = append(parts, r)
	}
	if len(parts) == 0 {
		return expr.NewInt(0)
	}
	return expr.Add(parts...)
}

// byParts reduces x^n * f(a*x+b) for f in {exp, sin,
// cos} by one application of integration by parts,
// recursing on the lower-degree remainder.
func (in *integrator) byParts(u expr.Node, d int) expr.Node {
	e, ok := u.(*expr.Product)
	if !ok || len(e.Factors) != 2 {
		return nil
	}
	var n int64
	var elemF *expr.Elem
	found := false
	for i, f := range e.Factors {
		var deg int64
		if expr.Equal(f, in.wrt) {
			deg = 1
		} else if p, ok := f.(*expr.Power); ok && expr.Equal(p.Base, in.wrt) {
			iv, ok := expr.IsInteger(p.Exp)
			if !ok || iv.Sign() <= 0 || !iv.IsInt64() {
				return nil
			}
			deg = iv.Int64()
		} else {
			continue
		}
		g, ok := e.Factors[1-i].(*expr.Elem)
		if !ok {
			return nil
		}
		n, elemF, found = deg, g, true
		break
	}
	if !found {
		return nil
	}
	switch elemF.Op {
	case expr.OpExp, expr.OpSin, expr.OpCos:
	default:
		return nil
	}
	w := elemF.Args[0]
	a, _, ok := poly.LinearForm(w, in.wrt)
	if !ok || expr.IsZero(a) {
		return nil
	}
	x := in.wrt
	xn := expr.Pow(x, expr.NewInt(n))
	xn1 := expr.Pow(x, expr.NewInt(n-1))
	ainv := expr.Pow(a, expr.NewInt(-1))
	reduce := func(next expr.ElemOp) expr.Node {
		return in.integrate(expr.Mul(xn1, elem(next, w)), d+1)
	}
	switch elemF.Op {
	case expr.OpExp:
		r := reduce(expr.OpExp)
		if r == nil {
			return nil
		}
		return expr.Sub(
			expr.Mul(xn, ainv, expr.Exp(w)),
			expr.Mul(expr.NewInt(n), ainv, r),
		)
	case expr.OpSin:
		r := reduce(expr.OpCos)
		if r == nil {
			return nil
		}
		return expr.Add(
			expr.Neg(expr.Mul(xn, ainv, expr.Cos(w))),
			expr.Mul(expr.NewInt(n), ainv, r),
		)
	default: // cos
		r := reduce(expr.OpSin)
		if r == nil {
			return nil
		}
		return expr.Sub(
			expr.Mul(xn, ainv, expr.Sin(w)),
			expr.Mul(expr.NewInt(n), ainv, r),
		)
	}
}

func mustExpand(n expr.Node) expr.Node {
	out, err := expr.Expand(n)
	if err != nil {
		expr.Bail()
	}
	return out
}

func elem(op expr.ElemOp, arg expr.Node) expr.Node {
	switch op {
	case expr.OpExp:
		return expr.Exp(arg)
	case expr.OpSin:
		return expr.Sin(arg)
	default:
		return expr.Cos(arg)
	}
}

// retryExpanded retries integration after distributing
// products and powers; (x+1)*(x+2) has no direct rule
// but its expansion integrates termwise.
func (in *integrator) retryExpanded(u expr.Node, d int) expr.Node {
	ex, err := expr.Expand(u)
	if err != nil || expr.Equal(ex, u) {
		return nil
	}
	return in.integrate(ex, d+1)
}

// retryTrig retries integration after trigonometric
// normalization, which contracts products and powers
// of sin/cos into directly integrable sums.
func (in *integrator) retryTrig(u expr.Node, d int) expr.Node {
	ts, err := expr.TrigSimplify(u)
	if err != nil || expr.Equal(ts, u) {
		return nil
	}
	return in.integrate(ts, d+1)
}
