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
	"golang.org/x/exp/slices"
)

// Contains reports whether sub occurs in n as a
// complete sub-expression. A sum does not contain a
// partial selection of its own terms: x+y+z contains
// x and y, but not x+y.
func Contains(n, sub Node) bool {
	if Equal(n, sub) {
		return true
	}
	for _, k := range Operands(n) {
		if Contains(k, sub) {
			return true
		}
	}
	return false
}

// FreeOf reports whether sub does not occur in n as a
// complete sub-expression.
func FreeOf(n, sub Node) bool {
	return !Contains(n, sub)
}

// Substitute replaces every complete occurrence of
// target in n with repl and re-simplifies the result.
// Replacement is top-down: once a node matches, its
// interior is not searched again.
func Substitute(n, target, repl Node) (out Node, err error) {
	defer recoverTooComplex(&err)
	out = substitute(n, target, repl, 0)
	return out, err
}

func substitute(n, target, repl Node, d int) Node {
	overflow(d)
	if Equal(n, target) {
		return repl
	}
	kids := Operands(n)
	if len(kids) == 0 {
		return n
	}
	sub := make([]Node, len(kids))
	for i := range kids {
		sub[i] = substitute(kids[i], target, repl, d+1)
	}
	return simplify(rebuild(n, sub), d)
}

// rebuild reassembles n with replacement children. The
// result is raw; callers simplify it.
func rebuild(n Node, kids []Node) Node {
	switch e := n.(type) {
	case *Sum:
		return &Sum{Terms: kids}
	case *Product:
		return &Product{Factors: kids}
	case *Power:
		return &Power{Base: kids[0], Exp: kids[1]}
	case *Div:
		return &Div{Num: kids[0], Den: kids[1]}
	case *Factorial:
		return &Factorial{Arg: kids[0]}
	case *Elem:
		return &Elem{Op: e.Op, Args: kids}
	case *Call:
		return &Call{Name: e.Name, Params: e.Params, Def: e.Def, Args: kids}
	}
	return n
}

// Vars returns the distinct variables occurring in n,
// sorted by name.
func Vars(n Node) []Variable {
	seen := make(map[Variable]struct{})
	collectVars(n, seen)
	out := make([]Variable, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func collectVars(n Node, seen map[Variable]struct{}) {
	if v, ok := n.(Variable); ok {
		seen[v] = struct{}{}
		return
	}
	for _, k := range Operands(n) {
		collectVars(k, seen)
	}
}
