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

import (
	"errors"
	"math/big"
)

// ErrTooComplex is reported when an input would exceed
// the recursion or size budget of the rewrite engine.
// It is a resource-exhaustion failure, distinct from
// the Undefined value: the input was rejected, not
// evaluated.
var ErrTooComplex = errors.New("expr: expression too complex")

const (
	// maxDepth bounds tree recursion so that
	// pathological inputs fail closed instead of
	// exhausting the goroutine stack.
	maxDepth = 1 << 12

	// maxOperands bounds the width of a single sum
	// or product.
	maxOperands = 1 << 16

	// maxExponent bounds constant exponentiation and
	// factorial evaluation.
	maxExponent  = 1 << 16
	maxFactorial = 10000
)

// tooComplex unwinds the rewrite recursion; it is
// recovered in Simplify (and the other exported entry
// points) and surfaced as ErrTooComplex.
type tooComplex struct{}

func overflow(depth int) {
	if depth > maxDepth {
		panic(tooComplex{})
	}
}

// recoverTooComplex converts a tooComplex unwind into
// ErrTooComplex; any other panic is re-raised.
func recoverTooComplex(err *error) {
	if r := recover(); r != nil {
		if _, ok := r.(tooComplex); ok {
			*err = ErrTooComplex
			return
		}
		panic(r)
	}
}

// Guard converts a complexity unwind into
// ErrTooComplex. Packages built on top of expr defer
// it at their exported boundaries so that Bail and the
// internal budget checks share one failure path.
func Guard(err *error) {
	recoverTooComplex(err)
}

// Bail unwinds to the nearest Guard, which reports
// ErrTooComplex.
func Bail() {
	panic(tooComplex{})
}

// Simplify rewrites an arbitrary expression into its
// unique automatically-simplified form. It is
// idempotent, performs only exact rational arithmetic,
// and propagates Undefined from any sub-expression to
// the result. The only possible error is
// ErrTooComplex.
func Simplify(n Node) (out Node, err error) {
	defer recoverTooComplex(&err)
	out = mustSimplify(n)
	return out, err
}

// mustSimplify is the internal entry point used by the
// arithmetic constructors. It panics with tooComplex
// on pathological inputs; exported boundaries recover.
func mustSimplify(n Node) Node {
	return simplify(n, 0)
}

func simplify(n Node, d int) Node {
	overflow(d)
	switch e := n.(type) {
	case *Integer, Variable, Undefined:
		return n
	case *Rational:
		// normalize a hand-built integral Rational
		return Number(e.rat())
	case nil:
		return Undefined{}
	}
	kids := Operands(n)
	simp := make([]Node, len(kids))
	for i := range kids {
		simp[i] = simplify(kids[i], d+1)
		if _, ok := simp[i].(Undefined); ok {
			return Undefined{}
		}
	}
	switch e := n.(type) {
	case *Sum:
		return simplifySum(simp, d)
	case *Product:
		return simplifyProduct(simp, d)
	case *Power:
		return simplifyPower(simp[0], simp[1], d)
	case *Div:
		return simplifyDiv(simp[0], simp[1], d)
	case *Factorial:
		return simplifyFactorial(simp[0])
	case *Elem:
		return simplifyElem(e.Op, simp, d)
	case *Call:
		return &Call{Name: e.Name, Params: e.Params, Def: e.Def, Args: simp}
	}
	return n
}

// Arithmetic constructors. Building an expression and
// simplifying it are the same call path: every
// constructor returns the canonical form of the node
// it denotes.

// Add returns the canonical sum of terms.
func Add(terms ...Node) Node {
	return mustSimplify(&Sum{Terms: terms})
}

// Mul returns the canonical product of factors.
func Mul(factors ...Node) Node {
	return mustSimplify(&Product{Factors: factors})
}

// Pow returns the canonical form of base^exp.
func Pow(base, exp Node) Node {
	return mustSimplify(&Power{Base: base, Exp: exp})
}

// Divide returns the canonical quotient num/den.
// Division by the constant 0 yields Undefined.
func Divide(num, den Node) Node {
	return mustSimplify(&Div{Num: num, Den: den})
}

// Neg returns the canonical form of -n.
func Neg(n Node) Node {
	return Mul(NewInt(-1), n)
}

// Sub returns the canonical form of a-b.
func Sub(a, b Node) Node {
	return Add(a, Neg(b))
}

// Fact returns the canonical factorial of n.
func Fact(n Node) Node {
	return mustSimplify(&Factorial{Arg: n})
}

func elem(op ElemOp, args ...Node) Node {
	return mustSimplify(&Elem{Op: op, Args: args})
}

func Sin(x Node) Node    { return elem(OpSin, x) }
func Cos(x Node) Node    { return elem(OpCos, x) }
func Tan(x Node) Node    { return elem(OpTan, x) }
func Csc(x Node) Node    { return elem(OpCsc, x) }
func Sec(x Node) Node    { return elem(OpSec, x) }
func Cot(x Node) Node    { return elem(OpCot, x) }
func Arcsin(x Node) Node { return elem(OpArcsin, x) }
func Arccos(x Node) Node { return elem(OpArccos, x) }
func Arctan(x Node) Node { return elem(OpArctan, x) }
func Exp(x Node) Node    { return elem(OpExp, x) }
func Ln(x Node) Node     { return elem(OpLn, x) }

// Deriv builds the unresolved-derivative marker
// d/d(wrt) f. It is produced by the differentiation
// engine when no rule applies, so that callers can
// detect an unresolved derivative instead of receiving
// a wrong answer.
func Deriv(f Node, wrt Variable) Node {
	return mustSimplify(&Elem{Op: OpDeriv, Args: []Node{f, wrt}})
}

func simplifySum(terms []Node, d int) Node {
	overflow(d)
	if len(terms) > maxOperands {
		panic(tooComplex{})
	}
	if len(terms) == 1 {
		return terms[0]
	}
	flat := flattenTerms(terms, d)
	switch len(flat) {
	case 0:
		return NewInt(0)
	case 1:
		return flat[0]
	}
	return &Sum{Terms: flat}
}

func simplifyProduct(factors []Node, d int) Node {
	overflow(d)
	if len(factors) > maxOperands {
		panic(tooComplex{})
	}
	for _, f := range factors {
		if IsZero(f) {
			return NewInt(0)
		}
	}
	if len(factors) == 1 {
		return factors[0]
	}
	if len(factors) == 2 {
		// a constant times a sum distributes eagerly
		if c, ok := factors[0].(Constant); ok {
			if s, ok2 := factors[1].(*Sum); ok2 {
				return distribute(c, s, d)
			}
		}
		if c, ok := factors[1].(Constant); ok {
			if s, ok2 := factors[0].(*Sum); ok2 {
				return distribute(c, s, d)
			}
		}
	}
	flat := flattenFactors(factors, d)
	switch len(flat) {
	case 0:
		return NewInt(1)
	case 1:
		return flat[0]
	}
	return &Product{Factors: flat}
}

func distribute(c Constant, s *Sum, d int) Node {
	terms := make([]Node, len(s.Terms))
	for i, t := range s.Terms {
		terms[i] = simplifyProduct([]Node{c, t}, d+1)
	}
	return simplifySum(terms, d+1)
}

func simplifyPower(v, w Node, d int) Node {
	overflow(d)
	if IsZero(v) {
		if c, ok := AsConstant(w); ok && c.Sign() > 0 {
			return NewInt(0)
		}
		return Undefined{}
	}
	if IsOne(v) {
		return NewInt(1)
	}
	wc, wconst := AsConstant(w)
	if !wconst {
		return &Power{Base: v, Exp: w}
	}
	if vc, ok := AsConstant(v); ok {
		return powConst(vc, wc, v, w)
	}
	if wc.Sign() == 0 {
		return NewInt(1)
	}
	if IsOne(w) {
		return v
	}
	if p, ok := v.(*Power); ok {
		// (r^s)^w folds to r^(s*w) only when the
		// combined exponent is an integer
		ex := simplifyProduct([]Node{p.Exp, w}, d+1)
		if _, ok := IsInteger(ex); ok {
			return simplifyPower(p.Base, ex, d+1)
		}
		return &Power{Base: v, Exp: w}
	}
	if pr, ok := v.(*Product); ok {
		fs := make([]Node, len(pr.Factors))
		for i, f := range pr.Factors {
			fs[i] = simplifyPower(f, w, d+1)
		}
		return simplifyProduct(fs, d+1)
	}
	return &Power{Base: v, Exp: w}
}

func simplifyDiv(u, v Node, d int) Node {
	overflow(d)
	if IsZero(v) {
		return Undefined{}
	}
	uc, uok := AsConstant(u)
	vc, vok := AsConstant(v)
	if uok && vok {
		return Number(new(big.Rat).Quo(uc, vc))
	}
	inv := simplifyPower(v, NewInt(-1), d+1)
	return simplifyProduct([]Node{u, inv}, d+1)
}

func simplifyFactorial(arg Node) Node {
	if i, ok := IsInteger(arg); ok && i.Sign() >= 0 {
		if !i.IsInt64() || i.Int64() > maxFactorial {
			panic(tooComplex{})
		}
		n := i.Int64()
		if n < 2 {
			return NewInt(1)
		}
		return FromBig(new(big.Int).MulRange(1, n))
	}
	return &Factorial{Arg: arg}
}

func simplifyElem(op ElemOp, args []Node, d int) Node {
	overflow(d)
	switch op {
	case OpDeriv:
		return &Elem{Op: op, Args: args}
	case OpLn:
		return simplifyLn(args[0], d)
	case OpExp:
		if IsZero(args[0]) {
			return NewInt(1)
		}
		return &Elem{Op: op, Args: args}
	}
	arg := args[0]
	if IsZero(arg) {
		switch op {
		case OpSin, OpTan, OpArcsin, OpArctan:
			return NewInt(0)
		case OpCos, OpSec:
			return NewInt(1)
		case OpCsc, OpCot:
			return Undefined{}
		}
		// arccos(0) has no representation here
		return &Elem{Op: op, Args: args}
	}
	if Coefficient(arg).rat().Sign() < 0 {
		neg := simplifyProduct([]Node{NewInt(-1), arg}, d+1)
		switch op {
		case OpSin, OpTan, OpCsc, OpCot, OpArcsin, OpArctan:
			// odd: f(-u) -> -f(u)
			inner := simplifyElem(op, []Node{neg}, d+1)
			return simplifyProduct([]Node{NewInt(-1), inner}, d+1)
		case OpCos, OpSec:
			// even: f(-u) -> f(u)
			return simplifyElem(op, []Node{neg}, d+1)
		}
	}
	return &Elem{Op: op, Args: args}
}

func simplifyLn(arg Node, d int) Node {
	overflow(d)
	if c, ok := AsConstant(arg); ok {
		if c.Sign() <= 0 {
			return Undefined{}
		}
		if IsOne(arg) {
			return NewInt(0)
		}
		return &Elem{Op: OpLn, Args: []Node{arg}}
	}
	switch e := arg.(type) {
	case *Product:
		// ln(u*v) -> ln(u) + ln(v)
		terms := make([]Node, len(e.Factors))
		for i, f := range e.Factors {
			terms[i] = simplifyLn(f, d+1)
			if _, ok := terms[i].(Undefined); ok {
				return Undefined{}
			}
		}
		return simplifySum(terms, d+1)
	case *Power:
		// ln(u^v) -> v*ln(u)
		inner := simplifyLn(e.Base, d+1)
		if _, ok := inner.(Undefined); ok {
			return Undefined{}
		}
		return simplifyProduct([]Node{e.Exp, inner}, d+1)
	}
	return &Elem{Op: OpLn, Args: []Node{arg}}
}

// flattenTerms combines a list of simplified terms:
// nested sums are inlined, terms sharing a Term are
// merged through coefficient addition, adjacent
// constants are added exactly, and the result is kept
// in canonical order. Mirrors flattenFactors below.
func flattenTerms(terms []Node, d int) []Node {
	if len(terms) < 2 {
		return terms
	}
	u1, u2 := terms[0], terms[1]
	s1, ok1 := u1.(*Sum)
	s2, ok2 := u2.(*Sum)
	if len(terms) > 2 {
		rest := flattenTerms(terms[1:], d)
		if ok1 {
			return mergeTerms(s1.Terms, rest, d)
		}
		return mergeTerms([]Node{u1}, rest, d)
	}
	switch {
	case ok1 && ok2:
		return mergeTerms(s1.Terms, s2.Terms, d)
	case ok1:
		return mergeTerms(s1.Terms, []Node{u2}, d)
	case ok2:
		return mergeTerms([]Node{u1}, s2.Terms, d)
	}
	c1, k1 := AsConstant(u1)
	c2, k2 := AsConstant(u2)
	if k1 && k2 {
		sum := new(big.Rat).Add(c1, c2)
		if sum.Sign() == 0 {
			return nil
		}
		return []Node{Number(sum)}
	}
	if IsZero(u1) {
		return []Node{u2}
	}
	if IsZero(u2) {
		return []Node{u1}
	}
	if Equal(Term(u1), Term(u2)) {
		co := Number(new(big.Rat).Add(Coefficient(u1).rat(), Coefficient(u2).rat()))
		merged := simplifyProduct([]Node{co, Term(u1)}, d+1)
		if IsZero(merged) {
			return nil
		}
		return []Node{merged}
	}
	if Less(u2, u1) {
		return []Node{u2, u1}
	}
	return []Node{u1, u2}
}

func mergeTerms(p, q []Node, d int) []Node {
	if len(q) == 0 {
		return p
	}
	if len(p) == 0 {
		return q
	}
	h := flattenTerms([]Node{p[0], q[0]}, d)
	switch len(h) {
	case 0:
		return mergeTerms(p[1:], q[1:], d)
	case 1:
		return append(h, mergeTerms(p[1:], q[1:], d)...)
	}
	if Equal(h[0], p[0]) {
		return append([]Node{p[0]}, mergeTerms(p[1:], q, d)...)
	}
	return append([]Node{q[0]}, mergeTerms(p, q[1:], d)...)
}

// flattenFactors is the product analogue of
// flattenTerms: nested products are inlined, factors
// sharing a Base are merged through exponent addition,
// and adjacent constants are multiplied exactly.
func flattenFactors(factors []Node, d int) []Node {
	if len(factors) < 2 {
		return factors
	}
	u1, u2 := factors[0], factors[1]
	p1, ok1 := u1.(*Product)
	p2, ok2 := u2.(*Product)
	if len(factors) > 2 {
		rest := flattenFactors(factors[1:], d)
		if ok1 {
			return mergeFactors(p1.Factors, rest, d)
		}
		return mergeFactors([]Node{u1}, rest, d)
	}
	switch {
	case ok1 && ok2:
		return mergeFactors(p1.Factors, p2.Factors, d)
	case ok1:
		return mergeFactors(p1.Factors, []Node{u2}, d)
	case ok2:
		return mergeFactors([]Node{u1}, p2.Factors, d)
	}
	c1, k1 := AsConstant(u1)
	c2, k2 := AsConstant(u2)
	if k1 && k2 {
		prod := new(big.Rat).Mul(c1, c2)
		if prod.Cmp(ratOne) == 0 {
			return nil
		}
		return []Node{Number(prod)}
	}
	if IsOne(u1) {
		return []Node{u2}
	}
	if IsOne(u2) {
		return []Node{u1}
	}
	if Equal(Base(u1), Base(u2)) {
		ex := simplifySum([]Node{Exponent(u1), Exponent(u2)}, d+1)
		pw := simplifyPower(Base(u1), ex, d+1)
		if IsOne(pw) {
			return nil
		}
		return []Node{pw}
	}
	if Less(u2, u1) {
		return []Node{u2, u1}
	}
	return []Node{u1, u2}
}

func mergeFactors(p, q []Node, d int) []Node {
	if len(q) == 0 {
		return p
	}
	if len(p) == 0 {
		return q
	}
	h := flattenFactors([]Node{p[0], q[0]}, d)
	switch len(h) {
	case 0:
		return mergeFactors(p[1:], q[1:], d)
	case 1:
		return append(h, mergeFactors(p[1:], q[1:], d)...)
	}
	if Equal(h[0], p[0]) {
		return append([]Node{p[0]}, mergeFactors(p[1:], q, d)...)
	}
	return append([]Node{q[0]}, mergeFactors(p, q[1:], d)...)
}

var ratOne = big.NewRat(1, 1)

func powConst(v, w *big.Rat, vnode, wnode Node) Node {
	if w.IsInt() {
		e := w.Num()
		if !e.IsInt64() || absInt64(e.Int64()) > maxExponent {
			panic(tooComplex{})
		}
		n := e.Int64()
		if n == 0 {
			return NewInt(1)
		}
		neg := n < 0
		if neg {
			n = -n
		}
		num := new(big.Int).Exp(v.Num(), big.NewInt(n), nil)
		den := new(big.Int).Exp(v.Denom(), big.NewInt(n), nil)
		if neg {
			num, den = den, num
		}
		// SetFrac reduces and fixes the sign
		return Number(new(big.Rat).SetFrac(num, den))
	}
	// fractional exponent: attempt an exact radical,
	// falling back to an unevaluated power
	den := w.Denom()
	if !den.IsInt64() || den.Int64() > 64 {
		return &Power{Base: vnode, Exp: wnode}
	}
	n := den.Int64()
	rnum, ok1 := nthRoot(v.Num(), n)
	rden, ok2 := nthRoot(v.Denom(), n)
	if !ok1 || !ok2 {
		return &Power{Base: vnode, Exp: wnode}
	}
	root := new(big.Rat).SetFrac(rnum, rden)
	return powConst(root, new(big.Rat).SetInt(w.Num()), vnode, wnode)
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// nthRoot returns the exact integer n-th root of x, or
// false when x is not a perfect n-th power. Negative x
// is allowed for odd n.
func nthRoot(x *big.Int, n int64) (*big.Int, bool) {
	if n == 1 {
		return new(big.Int).Set(x), true
	}
	if x.Sign() < 0 {
		if n%2 == 0 {
			return nil, false
		}
		r, ok := nthRoot(new(big.Int).Neg(x), n)
		if !ok {
			return nil, false
		}
		return r.Neg(r), true
	}
	if x.Sign() == 0 {
		return big.NewInt(0), true
	}
	// Newton iteration seeded above the true root
	bn := big.NewInt(n)
	bn1 := big.NewInt(n - 1)
	r := new(big.Int).Lsh(big.NewInt(1), uint(x.BitLen())/uint(n)+1)
	for {
		// r' = ((n-1)*r + x/r^(n-1)) / n
		pow := new(big.Int).Exp(r, bn1, nil)
		next := new(big.Int).Quo(x, pow)
		next.Add(next, new(big.Int).Mul(bn1, r))
		next.Quo(next, bn)
		if next.Cmp(r) >= 0 {
			break
		}
		r = next
	}
	if new(big.Int).Exp(r, bn, nil).Cmp(x) == 0 {
		return r, true
	}
	return nil, false
}
