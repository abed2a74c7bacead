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

// rendering precedence levels, lowest binds loosest
const (
	precAdd = iota + 1
	precMul
	precPow
	precAtom
)

func precedence(n Node) int {
	switch e := n.(type) {
	case *Sum:
		return precAdd
	case *Product, *Div:
		return precMul
	case *Power:
		return precPow
	case *Integer:
		if e.Sign() < 0 {
			return precMul
		}
		return precAtom
	case *Rational:
		return precMul
	default:
		return precAtom
	}
}

// textPrec writes n, parenthesized when its own
// precedence binds more loosely than the context
// requires.
func textPrec(dst *strings.Builder, n Node, min int) {
	if precedence(n) < min {
		dst.WriteString("(")
		n.text(dst)
		dst.WriteString(")")
		return
	}
	n.text(dst)
}

// ToString renders the deterministic textual form of
// an expression. For simplified expressions this is
// the canonical form: two simplified expressions are
// mathematically equal exactly when their ToString
// results are identical.
func ToString(n Node) string {
	var dst strings.Builder
	n.text(&dst)
	return dst.String()
}
