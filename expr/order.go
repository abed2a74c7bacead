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

import "strings"

// Compare implements the strict total order that
// canonical forms are sorted by. It returns a negative
// value when a sorts before b, zero when the nodes are
// identical, and a positive value otherwise.
//
// The order, by variant pair:
//   - constants sort before everything else and
//     compare by exact value
//   - variables compare lexicographically by name
//   - sums and products compare element-wise starting
//     from the last element; a strict prefix sorts
//     before the longer sequence
//   - powers compare by base, then exponent; against
//     a non-power the Base/Exponent accessors supply
//     the implicit (self, 1) view
//   - elementary functions compare by fixed kind
//     precedence (the ElemOp declaration order), then
//     argument-wise
//   - factorials compare by operand and sort after an
//     equal operand
func Compare(a, b Node) int {
	ac, aok := AsConstant(a)
	bc, bok := AsConstant(b)
	if aok && bok {
		return ac.Cmp(bc)
	}
	if aok {
		return -1
	}
	if bok {
		return +1
	}
	if _, ok := a.(Undefined); ok {
		if _, ok := b.(Undefined); ok {
			return 0
		}
		return +1
	}
	if _, ok := b.(Undefined); ok {
		return -1
	}

	// identical variants
	switch ea := a.(type) {
	case Variable:
		if eb, ok := b.(Variable); ok {
			return strings.Compare(string(ea), string(eb))
		}
	case *Sum:
		if eb, ok := b.(*Sum); ok {
			return compareRev(ea.Terms, eb.Terms)
		}
	case *Product:
		if eb, ok := b.(*Product); ok {
			return compareRev(ea.Factors, eb.Factors)
		}
	case *Power:
		if eb, ok := b.(*Power); ok {
			if c := Compare(ea.Base, eb.Base); c != 0 {
				return c
			}
			return Compare(ea.Exp, eb.Exp)
		}
	case *Factorial:
		if eb, ok := b.(*Factorial); ok {
			return Compare(ea.Arg, eb.Arg)
		}
	case *Elem:
		if eb, ok := b.(*Elem); ok {
			if ea.Op != eb.Op {
				if ea.Op < eb.Op {
					return -1
				}
				return +1
			}
			return compareFwd(ea.Args, eb.Args)
		}
	case *Call:
		if eb, ok := b.(*Call); ok {
			if c := strings.Compare(ea.Name, eb.Name); c != 0 {
				return c
			}
			return compareFwd(ea.Args, eb.Args)
		}
	case *Div:
		if eb, ok := b.(*Div); ok {
			if c := Compare(ea.Num, eb.Num); c != 0 {
				return c
			}
			return Compare(ea.Den, eb.Den)
		}
	}

	// mixed variants; the rules below mirror the
	// unary-wrapping fallbacks so that ordering
	// composes without special cases elsewhere
	if pa, ok := a.(*Product); ok {
		return compareRev(pa.Factors, []Node{b})
	}
	if pb, ok := b.(*Product); ok {
		return -compareRev(pb.Factors, []Node{a})
	}
	_, apow := a.(*Power)
	_, bpow := b.(*Power)
	if apow || bpow {
		if c := Compare(Base(a), Base(b)); c != 0 {
			return c
		}
		return Compare(Exponent(a), Exponent(b))
	}
	if sa, ok := a.(*Sum); ok {
		return compareRev(sa.Terms, []Node{b})
	}
	if sb, ok := b.(*Sum); ok {
		return -compareRev(sb.Terms, []Node{a})
	}
	if fa, ok := a.(*Factorial); ok {
		if c := Compare(fa.Arg, b); c != 0 {
			return c
		}
		return +1
	}
	if fb, ok := b.(*Factorial); ok {
		if c := Compare(a, fb.Arg); c != 0 {
			return c
		}
		return -1
	}
	if c, ok := cmpNamed(a, b); ok {
		return c
	}
	if c, ok := cmpNamed(b, a); ok {
		return -c
	}
	// remaining pairs involve a raw Div node
	if _, ok := a.(*Div); ok {
		return +1
	}
	return -1
}

// cmpNamed compares a function-like node a (Elem or
// Call) against b by name, ordering the function after
// a variable or elementary function of the same name.
func cmpNamed(a, b Node) (int, bool) {
	var name string
	switch ea := a.(type) {
	case *Elem:
		name = ea.Op.String()
	case *Call:
		name = ea.Name
	default:
		return 0, false
	}
	switch eb := b.(type) {
	case Variable:
		if c := strings.Compare(name, string(eb)); c != 0 {
			return c, true
		}
		return +1, true
	case *Elem:
		// a must be a *Call here
		if c := strings.Compare(name, eb.Op.String()); c != 0 {
			return c, true
		}
		return +1, true
	}
	return 0, false
}

// Less reports whether a sorts strictly before b.
func Less(a, b Node) bool {
	return Compare(a, b) < 0
}

// compareRev compares element-wise from the most
// significant (last) element backward; a strict prefix
// sorts first.
func compareRev(a, b []Node) int {
	i, j := len(a)-1, len(b)-1
	for i >= 0 && j >= 0 {
		if c := Compare(a[i], b[j]); c != 0 {
			return c
		}
		i--
		j--
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return +1
	}
	return 0
}

func compareFwd(a, b []Node) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return +1
	}
	return 0
}
