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

// Package calc implements symbolic differentiation and
// heuristic indefinite integration on expr trees.
package calc

import (
	"github.com/levycas/levycas/expr"
)

const maxDeriveDepth = 1 << 10

// Derivative returns the derivative of e with respect
// to wrt, simplified. Sub-expressions with no known
// differentiation rule (factorials of the variable,
// unresolved calls) produce an unresolved-derivative
// marker rather than a wrong answer. The only possible
// error is expr.ErrTooComplex.
func Derivative(e expr.Node, wrt expr.Variable) (out expr.Node, err error) {
	defer expr.Guard(&err)
	n, err := expr.Simplify(e)
	if err != nil {
		return nil, err
	}
	out = derive(n, wrt, 0)
	return out, err
}

func derive(n expr.Node, x expr.Variable, d int) expr.Node {
	if d > maxDeriveDepth {
		expr.Bail()
	}
	if _, ok := n.(expr.Undefined); ok {
		return n
	}
	if expr.Equal(n, x) {
		return expr.NewInt(1)
	}
	if expr.FreeOf(n, x) {
		return expr.NewInt(0)
	}
	switch e := n.(type) {
	case *expr.Sum:
		terms := make([]expr.Node, len(e.Terms))
		for i, t := range e.Terms {
			terms[i] = derive(t, x, d+1)
		}
		return expr.Add(terms...)
	case *expr.Product:
		// (f*r)' = f'*r + f*r'
		f := e.Factors[0]
		r := expr.Mul(e.Factors[1:]...)
		return expr.Add(
			expr.Mul(derive(f, x, d+1), r),
			expr.Mul(f, derive(r, x, d+1)),
		)
	case *expr.Power:
		v, w := e.Base, e.Exp
		dv := derive(v, x, d+1)
		// w*v^(w-1)*v'
		main := expr.Mul(w, expr.Pow(v, expr.Sub(w, expr.NewInt(1))), dv)
		if expr.FreeOf(w, x) {
			return main
		}
		// + w'*v^w*ln(v)
		dw := derive(w, x, d+1)
		return expr.Add(main, expr.Mul(dw, expr.Pow(v, w), expr.Ln(v)))
	case *expr.Elem:
		return deriveElem(e, x, d)
	}
	// factorial of the variable, unresolved calls
	return expr.Deriv(n, x)
}

func deriveElem(e *expr.Elem, x expr.Variable, d int) expr.Node {
	if e.Op == expr.OpDeriv {
		return expr.Deriv(e, x)
	}
	u := e.Args[0]
	du := derive(u, x, d+1)
	var outer expr.Node
	switch e.Op {
	case expr.OpSin:
		outer = expr.Cos(u)
	case expr.OpCos:
		outer = expr.Neg(expr.Sin(u))
	case expr.OpTan:
		outer = expr.Pow(expr.Sec(u), expr.NewInt(2))
	case expr.OpCsc:
		outer = expr.Neg(expr.Mul(expr.Csc(u), expr.Cot(u)))
	case expr.OpSec:
		outer = expr.Mul(expr.Sec(u), expr.Tan(u))
	case expr.OpCot:
		outer = expr.Neg(expr.Pow(expr.Csc(u), expr.NewInt(2)))
	case expr.OpArcsin:
		// (1-u^2)^(-1/2)
		outer = expr.Pow(expr.Sub(expr.NewInt(1), expr.Pow(u, expr.NewInt(2))), expr.NewRat(-1, 2))
	case expr.OpArccos:
		outer = expr.Neg(expr.Pow(expr.Sub(expr.NewInt(1), expr.Pow(u, expr.NewInt(2))), expr.NewRat(-1, 2)))
	case expr.OpArctan:
		outer = expr.Pow(expr.Add(expr.NewInt(1), expr.Pow(u, expr.NewInt(2))), expr.NewInt(-1))
	case expr.OpExp:
		outer = expr.Exp(u)
	case expr.OpLn:
		outer = expr.Pow(u, expr.NewInt(-1))
	default:
		return expr.Deriv(e, x)
	}
	return expr.Mul(outer, du)
}
