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

package expr

import "math/big"

// Trigonometric rewriting. Three mutually inverse-ish
// views of the same expression:
//
//   - TrigSubstitute reduces the trig vocabulary to
//     sin and cos
//   - TrigExpand pushes sums and integer multiples out
//     of sin/cos arguments
//   - TrigContract turns products and powers of
//     sin/cos into sums of single sin/cos applications
//
// TrigSimplify composes them into a normal form that
// cancels many non-obvious identities, e.g.
// sin^2(x) + cos^2(x) - 1 -> 0.

// TrigSubstitute rewrites tan, cot, sec and csc in
// terms of sin and cos.
func TrigSubstitute(n Node) (out Node, err error) {
	defer recoverTooComplex(&err)
	out = trigSubstitute(n, 0)
	return out, err
}

func trigSubstitute(n Node, d int) Node {
	overflow(d)
	kids := Operands(n)
	if len(kids) == 0 {
		return n
	}
	sub := make([]Node, len(kids))
	for i := range kids {
		sub[i] = trigSubstitute(kids[i], d+1)
	}
	if e, ok := n.(*Elem); ok {
		arg := sub[0]
		sin := func() Node { return simplifyElem(OpSin, []Node{arg}, d+1) }
		cos := func() Node { return simplifyElem(OpCos, []Node{arg}, d+1) }
		switch e.Op {
		case OpTan:
			return simplifyDiv(sin(), cos(), d)
		case OpCot:
			return simplifyDiv(cos(), sin(), d)
		case OpSec:
			return simplifyDiv(NewInt(1), cos(), d)
		case OpCsc:
			return simplifyDiv(NewInt(1), sin(), d)
		}
	}
	return simplify(rebuild(n, sub), d)
}

// TrigExpand rewrites sin and cos of sums and of
// integer multiples into products of sin/cos of the
// pieces: sin(x+y) becomes
// sin(x)*cos(y) + cos(x)*sin(y), and sin(2x) becomes
// 2*sin(x)*cos(x).
func TrigExpand(n Node) (out Node, err error) {
	defer recoverTooComplex(&err)
	out = trigExpand(n, 0)
	return out, err
}

func trigExpand(n Node, d int) Node {
	overflow(d)
	kids := Operands(n)
	if len(kids) == 0 {
		return n
	}
	sub := make([]Node, len(kids))
	for i := range kids {
		sub[i] = trigExpand(kids[i], d+1)
	}
	if e, ok := n.(*Elem); ok && (e.Op == OpSin || e.Op == OpCos) {
		return expandTrigOp(e.Op, sub[0], d)
	}
	return simplify(rebuild(n, sub), d)
}

func expandTrigOp(op ElemOp, arg Node, d int) Node {
	overflow(d)
	if s, ok := arg.(*Sum); ok {
		f := s.Terms[0]
		r := simplifySum(s.Terms[1:], d+1)
		return angleSum(op, f, r, d)
	}
	// integer multiple: sin(m*t) = sin(t + (m-1)*t)
	if m, ok := IsInteger(Coefficient(arg)); ok && m.Cmp(big.NewInt(2)) >= 0 && m.IsInt64() {
		v := m.Int64()
		t := simplifyProduct([]Node{Number(big.NewRat(1, v)), arg}, d+1)
		r := simplifyProduct([]Node{NewInt(v - 1), t}, d+1)
		return angleSum(op, t, r, d)
	}
	return simplifyElem(op, []Node{arg}, d)
}

func angleSum(op ElemOp, f, r Node, d int) Node {
	sf := expandTrigOp(OpSin, f, d+1)
	cf := expandTrigOp(OpCos, f, d+1)
	sr := expandTrigOp(OpSin, r, d+1)
	cr := expandTrigOp(OpCos, r, d+1)
	if op == OpSin {
		return simplifySum([]Node{
			simplifyProduct([]Node{sf, cr}, d+1),
			simplifyProduct([]Node{cf, sr}, d+1),
		}, d)
	}
	return simplifySum([]Node{
		simplifyProduct([]Node{cf, cr}, d+1),
		simplifyProduct([]Node{NewInt(-1), sf, sr}, d+1),
	}, d)
}

// TrigContract is the inverse direction of TrigExpand:
// products and integer powers of sin/cos become sums
// of single sin/cos applications with summed
// arguments, via the product-to-sum identities.
func TrigContract(n Node) (out Node, err error) {
	defer recoverTooComplex(&err)
	out = contractTrig(expand(n, 0), 0)
	return out, err
}

func contractTrig(n Node, d int) Node {
	overflow(d)
	switch e := n.(type) {
	case *Sum:
		terms := make([]Node, len(e.Terms))
		for i, t := range e.Terms {
			terms[i] = contractTrig(t, d+1)
		}
		return simplifySum(terms, d)
	case *Product, *Power:
		return contractRules(n, d)
	}
	kids := Operands(n)
	if len(kids) == 0 {
		return n
	}
	sub := make([]Node, len(kids))
	for i := range kids {
		sub[i] = contractTrig(kids[i], d+1)
	}
	return simplify(rebuild(n, sub), d)
}

// sinCos returns the operator and argument of a plain
// sin or cos application.
func sinCos(n Node) (ElemOp, Node, bool) {
	e, ok := n.(*Elem)
	if !ok || (e.Op != OpSin && e.Op != OpCos) {
		return 0, nil, false
	}
	return e.Op, e.Args[0], true
}

// isTrigFactor reports whether n is sin/cos or a
// positive integer power of one.
func isTrigFactor(n Node) bool {
	if _, _, ok := sinCos(n); ok {
		return true
	}
	if p, ok := n.(*Power); ok {
		if _, _, ok := sinCos(p.Base); ok {
			if i, ok := IsInteger(p.Exp); ok && i.Sign() > 0 {
				return true
			}
		}
	}
	return false
}

func contractRules(n Node, d int) Node {
	overflow(d)
	switch e := n.(type) {
	case *Power:
		if isTrigFactor(n) {
			return contractPower(e, d)
		}
		return n
	case *Product:
		var trig, rest []Node
		for _, f := range e.Factors {
			if isTrigFactor(f) {
				trig = append(trig, f)
			} else {
				rest = append(rest, f)
			}
		}
		if len(trig) == 0 {
			return n
		}
		// reduce powers of sin/cos first; any that
		// expanded into sums restart contraction on
		// the redistributed product
		for i, f := range trig {
			if p, ok := f.(*Power); ok {
				trig[i] = contractPower(p, d)
			}
		}
		for _, f := range trig {
			if _, _, ok := sinCos(f); !ok {
				all := append(append([]Node{}, rest...), trig...)
				return contractTrig(expand(&Product{Factors: all}, d), d+1)
			}
		}
		if len(trig) == 1 {
			return simplifyProduct(append(rest, trig[0]), d)
		}
		aop, aarg, _ := sinCos(trig[0])
		bop, barg, _ := sinCos(trig[1])
		pair := productToSum(aop, aarg, bop, barg, d)
		all := append(append([]Node{pair}, rest...), trig[2:]...)
		return contractTrig(expand(&Product{Factors: all}, d), d+1)
	}
	return n
}

// contractPower rewrites sin(t)^n / cos(t)^n by
// peeling squares: sin^2 t = (1 - cos(2t))/2 and
// cos^2 t = (1 + cos(2t))/2.
func contractPower(p *Power, d int) Node {
	overflow(d)
	op, arg, _ := sinCos(p.Base)
	i, _ := IsInteger(p.Exp)
	if !i.IsInt64() || i.Int64() > maxExpandExp {
		panic(tooComplex{})
	}
	n := i.Int64()
	if n == 1 {
		return p.Base
	}
	double := simplifyElem(OpCos, []Node{simplifyProduct([]Node{NewInt(2), arg}, d+1)}, d+1)
	var sq Node
	if op == OpSin {
		sq = simplifySum([]Node{NewRat(1, 2), simplifyProduct([]Node{NewRat(-1, 2), double}, d+1)}, d+1)
	} else {
		sq = simplifySum([]Node{NewRat(1, 2), simplifyProduct([]Node{NewRat(1, 2), double}, d+1)}, d+1)
	}
	if n == 2 {
		return contractTrig(sq, d+1)
	}
	tail := contractPower(&Power{Base: p.Base, Exp: NewInt(n - 2)}, d+1)
	return contractTrig(expand(&Product{Factors: []Node{sq, tail}}, d), d+1)
}

// productToSum applies the product-to-sum identity for
// one pair of sin/cos factors.
func productToSum(aop ElemOp, a Node, bop ElemOp, b Node, d int) Node {
	sum := simplifySum([]Node{a, b}, d+1)
	diff := simplifySum([]Node{a, simplifyProduct([]Node{NewInt(-1), b}, d+1)}, d+1)
	half := Node(NewRat(1, 2))
	neghalf := Node(NewRat(-1, 2))
	cosOf := func(x Node) Node { return simplifyElem(OpCos, []Node{x}, d+1) }
	sinOf := func(x Node) Node { return simplifyElem(OpSin, []Node{x}, d+1) }
	switch {
	case aop == OpSin && bop == OpSin:
		// sin a sin b = (cos(a-b) - cos(a+b))/2
		return simplifySum([]Node{
			simplifyProduct([]Node{half, cosOf(diff)}, d+1),
			simplifyProduct([]Node{neghalf, cosOf(sum)}, d+1),
		}, d)
	case aop == OpCos && bop == OpCos:
		// cos a cos b = (cos(a-b) + cos(a+b))/2
		return simplifySum([]Node{
			simplifyProduct([]Node{half, cosOf(diff)}, d+1),
			simplifyProduct([]Node{half, cosOf(sum)}, d+1),
		}, d)
	case aop == OpSin:
		// sin a cos b = (sin(a+b) + sin(a-b))/2
		return simplifySum([]Node{
			simplifyProduct([]Node{half, sinOf(sum)}, d+1),
			simplifyProduct([]Node{half, sinOf(diff)}, d+1),
		}, d)
	default:
		// cos a sin b = (sin(a+b) - sin(a-b))/2
		return simplifySum([]Node{
			simplifyProduct([]Node{half, sinOf(sum)}, d+1),
			simplifyProduct([]Node{neghalf, sinOf(diff)}, d+1),
		}, d)
	}
}

// TrigSimplify reduces the trig vocabulary to sin/cos,
// places the result over a common denominator, and
// contracts numerator and denominator separately. It
// is the heavyweight fallback used when structural
// simplification leaves a trig identity unresolved.
func TrigSimplify(n Node) (out Node, err error) {
	defer recoverTooComplex(&err)
	w := rationalize(trigSubstitute(n, 0), 0)
	num := contractTrig(expand(Numerator(w), 0), 0)
	den := contractTrig(expand(Denominator(w), 0), 0)
	out = simplifyDiv(num, den, 0)
	return out, err
}
