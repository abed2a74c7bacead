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

// Structural accessors that let arithmetic code treat
// a bare variable, x^2, and 3*x^2 uniformly: every
// node is a power (Base, Exponent) and every node is a
// scaled term (Coefficient, Term).

// Base returns the base of n viewed as a power.
// Non-powers are their own base.
func Base(n Node) Node {
	if p, ok := n.(*Power); ok {
		return p.Base
	}
	return n
}

// Exponent returns the exponent of n viewed as a
// power. Non-powers have exponent 1.
func Exponent(n Node) Node {
	if p, ok := n.(*Power); ok {
		return p.Exp
	}
	return NewInt(1)
}

// Coefficient returns the constant part of n viewed as
// a scaled term: the node itself for constants, the
// leading constant factor for products, and 1
// otherwise.
func Coefficient(n Node) Constant {
	switch e := n.(type) {
	case Constant:
		return e
	case *Product:
		if len(e.Factors) > 0 {
			if c, ok := e.Factors[0].(Constant); ok {
				return c
			}
		}
	}
	return NewInt(1)
}

// Term returns n with its leading constant factor
// stripped. Constants have term 1.
func Term(n Node) Node {
	switch e := n.(type) {
	case Constant:
		return NewInt(1)
	case *Product:
		if len(e.Factors) == 0 {
			return NewInt(1)
		}
		if _, ok := e.Factors[0].(Constant); !ok {
			return e
		}
		rest := e.Factors[1:]
		if len(rest) == 1 {
			return rest[0]
		}
		return &Product{Factors: rest}
	}
	return n
}

// Numerator returns the numerator of n viewed as a
// quotient.
func Numerator(n Node) Node {
	switch e := n.(type) {
	case *Rational:
		return FromBig(e.rat().Num())
	case *Div:
		return e.Num
	case *Power:
		if c, ok := AsConstant(e.Exp); ok && c.Sign() < 0 {
			return NewInt(1)
		}
		return n
	case *Product:
		out := Node(NewInt(1))
		for _, f := range e.Factors {
			out = Mul(out, Numerator(f))
		}
		return out
	}
	return n
}

// Denominator returns the denominator of n viewed as a
// quotient; expressions that are not quotients have
// denominator 1.
func Denominator(n Node) Node {
	switch e := n.(type) {
	case *Rational:
		return FromBig(e.rat().Denom())
	case *Div:
		return e.Den
	case *Power:
		if c, ok := AsConstant(e.Exp); ok && c.Sign() < 0 {
			return Pow(e.Base, Neg(e.Exp))
		}
	case *Product:
		out := Node(NewInt(1))
		for _, f := range e.Factors {
			out = Mul(out, Denominator(f))
		}
		return out
	}
	return NewInt(1)
}
