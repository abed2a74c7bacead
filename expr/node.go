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
	"math/big"
	"strings"
)

// Node is a mathematical expression tree.
//
// The set of implementations is closed: every variant
// is declared in this package, so consumers can rely
// on exhaustive type switches over the types below.
//
// Nodes are immutable values; no transform in this
// package mutates a node after construction, and
// transforms share sub-trees between input and output
// freely.
type Node interface {
	// text writes the canonical textual form of
	// the node. Canonical text is the equality
	// contract: two simplified nodes are equal
	// if and only if their text is identical.
	text(dst *strings.Builder)

	// walk calls Walk(v, child) for each child
	// of the node.
	walk(v Visitor)

	// Equals returns whether two nodes are
	// syntactically identical.
	Equals(Node) bool
}

// Constant is a Node with an exact rational value.
// The only implementations are *Integer and *Rational.
type Constant interface {
	Node

	rat() *big.Rat
}

// Visitor is the interface passed to Walk.
//
// A Visitor's Visit method is invoked for each node
// encountered by Walk. If the returned visitor w is
// not nil, Walk visits each of the children of the
// node with w, followed by a call of w.Visit(nil).
//
// (see also: ast.Visitor)
type Visitor interface {
	Visit(Node) Visitor
}

// Walk traverses an expression in depth-first order.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	w := v.Visit(n)
	if w != nil {
		n.walk(w)
		w.Visit(nil)
	}
}

// Integer is an arbitrary-precision integer constant.
type Integer big.Int

// NewInt constructs an *Integer from an int64.
func NewInt(v int64) *Integer {
	return (*Integer)(big.NewInt(v))
}

// FromBig constructs an *Integer from a big.Int.
// The value is copied.
func FromBig(v *big.Int) *Integer {
	return (*Integer)(new(big.Int).Set(v))
}

func (i *Integer) big() *big.Int { return (*big.Int)(i) }

func (i *Integer) rat() *big.Rat { return new(big.Rat).SetInt(i.big()) }

// Sign returns the sign of the integer (-1, 0, or +1).
func (i *Integer) Sign() int { return i.big().Sign() }

// Int64 returns the value as an int64 if it fits.
func (i *Integer) Int64() (int64, bool) {
	if i.big().IsInt64() {
		return i.big().Int64(), true
	}
	return 0, false
}

func (i *Integer) text(dst *strings.Builder) {
	dst.WriteString(i.big().String())
}

func (i *Integer) walk(v Visitor) {}

func (i *Integer) Equals(e Node) bool {
	ei, ok := e.(*Integer)
	return ok && i.big().Cmp(ei.big()) == 0
}

// Rational is an exact fraction constant in lowest
// terms with a positive denominator. A *Rational whose
// denominator would reduce to 1 never exists: Number
// demotes it to *Integer at construction.
type Rational big.Rat

func (r *Rational) rat() *big.Rat { return (*big.Rat)(r) }

func (r *Rational) text(dst *strings.Builder) {
	dst.WriteString(r.rat().RatString())
}

func (r *Rational) walk(v Visitor) {}

func (r *Rational) Equals(e Node) bool {
	er, ok := e.(*Rational)
	return ok && r.rat().Cmp(er.rat()) == 0
}

// Number constructs the canonical constant node for an
// exact rational value: an *Integer when the value is
// integral, and a *Rational otherwise. The value is
// copied.
func Number(v *big.Rat) Constant {
	if v.IsInt() {
		return (*Integer)(new(big.Int).Set(v.Num()))
	}
	return (*Rational)(new(big.Rat).Set(v))
}

// NewRat constructs the constant num/den in lowest
// terms. A zero denominator yields Undefined.
func NewRat(num, den int64) Node {
	if den == 0 {
		return Undefined{}
	}
	return Number(big.NewRat(num, den))
}

// AsConstant returns the exact rational value of a
// constant node, or false when the node is not a
// constant. The returned value must not be mutated.
func AsConstant(n Node) (*big.Rat, bool) {
	c, ok := n.(Constant)
	if !ok {
		return nil, false
	}
	return c.rat(), true
}

// IsZero returns whether n is the constant 0.
func IsZero(n Node) bool {
	r, ok := AsConstant(n)
	return ok && r.Sign() == 0
}

// IsOne returns whether n is the constant 1.
func IsOne(n Node) bool {
	i, ok := n.(*Integer)
	if !ok {
		return false
	}
	v, ok := i.Int64()
	return ok && v == 1
}

// IsInteger returns the value of n when n is an
// integer constant.
func IsInteger(n Node) (*big.Int, bool) {
	i, ok := n.(*Integer)
	if !ok {
		return nil, false
	}
	return i.big(), true
}

// Variable is a symbol, compared by name only.
type Variable string

func (x Variable) text(dst *strings.Builder) {
	dst.WriteString(string(x))
}

func (x Variable) walk(v Visitor) {}

func (x Variable) Equals(e Node) bool {
	ev, ok := e.(Variable)
	return ok && x == ev
}

// Sum is a variadic sum of terms. After simplification
// the terms are kept in ascending canonical order,
// none of them is itself a *Sum, and there are always
// at least two of them.
type Sum struct {
	Terms []Node
}

func (s *Sum) text(dst *strings.Builder) {
	for i, t := range s.Terms {
		if i > 0 {
			dst.WriteString(" + ")
		}
		textPrec(dst, t, precAdd)
	}
}

func (s *Sum) walk(v Visitor) {
	for _, t := range s.Terms {
		Walk(v, t)
	}
}

func (s *Sum) Equals(e Node) bool {
	es, ok := e.(*Sum)
	if !ok || len(s.Terms) != len(es.Terms) {
		return false
	}
	for i := range s.Terms {
		if !s.Terms[i].Equals(es.Terms[i]) {
			return false
		}
	}
	return true
}

// Product is a variadic product of factors, with the
// same post-simplification shape guarantees as Sum.
type Product struct {
	Factors []Node
}

func (p *Product) text(dst *strings.Builder) {
	for i, f := range p.Factors {
		if i > 0 {
			dst.WriteString(" * ")
		}
		textPrec(dst, f, precMul)
	}
}

func (p *Product) walk(v Visitor) {
	for _, f := range p.Factors {
		Walk(v, f)
	}
}

func (p *Product) Equals(e Node) bool {
	ep, ok := e.(*Product)
	if !ok || len(p.Factors) != len(ep.Factors) {
		return false
	}
	for i := range p.Factors {
		if !p.Factors[i].Equals(ep.Factors[i]) {
			return false
		}
	}
	return true
}

// Power is Base raised to Exp.
type Power struct {
	Base, Exp Node
}

func (p *Power) text(dst *strings.Builder) {
	textPrec(dst, p.Base, precAtom)
	dst.WriteString("^")
	textPrec(dst, p.Exp, precAtom)
}

func (p *Power) walk(v Visitor) {
	Walk(v, p.Base)
	Walk(v, p.Exp)
}

func (p *Power) Equals(e Node) bool {
	ep, ok := e.(*Power)
	return ok && p.Base.Equals(ep.Base) && p.Exp.Equals(ep.Exp)
}

// Div is an explicit quotient. It only occurs in raw
// (parser-produced) trees: simplification rewrites
// u/v into u * v^(-1), or into an exact constant when
// both sides are constants.
type Div struct {
	Num, Den Node
}

func (d *Div) text(dst *strings.Builder) {
	textPrec(dst, d.Num, precMul)
	dst.WriteString(" / ")
	textPrec(dst, d.Den, precMul)
}

func (d *Div) walk(v Visitor) {
	Walk(v, d.Num)
	Walk(v, d.Den)
}

func (d *Div) Equals(e Node) bool {
	ed, ok := e.(*Div)
	return ok && d.Num.Equals(ed.Num) && d.Den.Equals(ed.Den)
}

// Factorial is the factorial of Arg.
type Factorial struct {
	Arg Node
}

func (f *Factorial) text(dst *strings.Builder) {
	textPrec(dst, f.Arg, precAtom)
	dst.WriteString("!")
}

func (f *Factorial) walk(v Visitor) {
	Walk(v, f.Arg)
}

func (f *Factorial) Equals(e Node) bool {
	ef, ok := e.(*Factorial)
	return ok && f.Arg.Equals(ef.Arg)
}

// ElemOp names an elementary function. The declaration
// order is the ordering precedence used by Compare.
type ElemOp int

const (
	OpSin ElemOp = iota
	OpCos
	OpTan
	OpCsc
	OpSec
	OpCot
	OpArctan
	OpArccos
	OpArcsin
	OpExp
	OpLn

	// OpDeriv marks a derivative the differentiation
	// engine could not resolve. Args are (expr, wrt).
	OpDeriv
)

var elemNames = [...]string{
	OpSin:    "sin",
	OpCos:    "cos",
	OpTan:    "tan",
	OpCsc:    "csc",
	OpSec:    "sec",
	OpCot:    "cot",
	OpArctan: "arctan",
	OpArccos: "arccos",
	OpArcsin: "arcsin",
	OpExp:    "exp",
	OpLn:     "ln",
	OpDeriv:  "deriv",
}

func (o ElemOp) String() string {
	if o < 0 || int(o) >= len(elemNames) {
		return "unknown"
	}
	return elemNames[o]
}

// Elem is an elementary function application.
// All elementary functions share this shape so that
// ordering and traversal stay uniform.
type Elem struct {
	Op   ElemOp
	Args []Node
}

func (f *Elem) text(dst *strings.Builder) {
	dst.WriteString(f.Op.String())
	dst.WriteString("(")
	for i, a := range f.Args {
		if i > 0 {
			dst.WriteString(", ")
		}
		a.text(dst)
	}
	dst.WriteString(")")
}

func (f *Elem) walk(v Visitor) {
	for _, a := range f.Args {
		Walk(v, a)
	}
}

func (f *Elem) Equals(e Node) bool {
	ef, ok := e.(*Elem)
	if !ok || f.Op != ef.Op || len(f.Args) != len(ef.Args) {
		return false
	}
	for i := range f.Args {
		if !f.Args[i].Equals(ef.Args[i]) {
			return false
		}
	}
	return true
}

// Call is a user-defined function application.
// Params and Def are populated when the call is
// resolved against an environment; a call produced by
// the parser carries only Name and Args.
type Call struct {
	Name   string
	Params []string
	Def    Node
	Args   []Node
}

func (c *Call) text(dst *strings.Builder) {
	dst.WriteString(c.Name)
	dst.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			dst.WriteString(", ")
		}
		a.text(dst)
	}
	dst.WriteString(")")
}

func (c *Call) walk(v Visitor) {
	for _, a := range c.Args {
		Walk(v, a)
	}
}

func (c *Call) Equals(e Node) bool {
	ec, ok := e.(*Call)
	if !ok || c.Name != ec.Name || len(c.Args) != len(ec.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equals(ec.Args[i]) {
			return false
		}
	}
	return true
}

// Undefined is the absorbing sentinel for
// mathematically indeterminate results. Every operator
// that receives it returns it. It is a value, not an
// error: see ErrTooComplex for the failure taxonomy.
type Undefined struct{}

func (u Undefined) text(dst *strings.Builder) {
	dst.WriteString("undefined")
}

func (u Undefined) walk(v Visitor) {}

func (u Undefined) Equals(e Node) bool {
	_, ok := e.(Undefined)
	return ok
}

// Equal reports whether a and b are syntactically
// identical. For simplified nodes this coincides with
// mathematical equality.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// Operands returns the immediate children of n.
// Leaves return nil. The returned slice must not be
// mutated.
func Operands(n Node) []Node {
	switch e := n.(type) {
	case *Sum:
		return e.Terms
	case *Product:
		return e.Factors
	case *Power:
		return []Node{e.Base, e.Exp}
	case *Div:
		return []Node{e.Num, e.Den}
	case *Factorial:
		return []Node{e.Arg}
	case *Elem:
		return e.Args
	case *Call:
		return e.Args
	default:
		return nil
	}
}
