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

// Package parser turns textual formulas into raw
// expression trees. The output is deliberately not
// simplified: x - x parses to the two-term tree it
// spells, and callers decide when to canonicalize.
package parser

import (
	"fmt"

	"github.com/levycas/levycas/expr"
)

// binding powers; the parse loop continues while the
// next operator binds tighter than the context
const (
	bpAdd  = 10
	bpMul  = 20
	bpNeg  = 25 // unary minus: -x^2 is -(x^2), -x*y is (-x)*y
	bpPow  = 30
	bpPost = 40 // factorial
)

// Parse parses a formula containing numbers,
// single-letter variables and the elementary
// functions. Adjacency denotes multiplication and ^ is
// right-associative.
func Parse(src string) (expr.Node, error) {
	return ParseCalls(src, nil)
}

// ParseCalls is Parse with a set of user-defined
// function names in scope. The map gives the arity of
// each function; calls are checked against it.
func ParseCalls(src string, arity map[string]int) (expr.Node, error) {
	toks, err := lex(src, arity)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, arity: arity}
	n, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("parser: unexpected %q at offset %d", t.text, t.pos)
	}
	return n, nil
}

type parser struct {
	toks  []token
	pos   int
	arity map[string]int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.advance()
	if t.kind != k {
		return t, fmt.Errorf("parser: expected %s at offset %d, found %q", what, t.pos, t.text)
	}
	return t, nil
}

func lbp(k tokenKind) int {
	switch k {
	case tokPlus, tokMinus:
		return bpAdd
	case tokStar, tokSlash:
		return bpMul
	case tokCaret:
		return bpPow
	case tokBang:
		return bpPost
	}
	return 0
}

func (p *parser) parseExpr(min int) (expr.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for lbp(p.peek().kind) > min {
		t := p.advance()
		switch t.kind {
		case tokPlus:
			right, err := p.parseExpr(bpAdd)
			if err != nil {
				return nil, err
			}
			left = &expr.Sum{Terms: []expr.Node{left, right}}
		case tokMinus:
			right, err := p.parseExpr(bpAdd)
			if err != nil {
				return nil, err
			}
			left = &expr.Sum{Terms: []expr.Node{left, negate(right)}}
		case tokStar:
			right, err := p.parseExpr(bpMul)
			if err != nil {
				return nil, err
			}
			left = &expr.Product{Factors: []expr.Node{left, right}}
		case tokSlash:
			right, err := p.parseExpr(bpMul)
			if err != nil {
				return nil, err
			}
			left = &expr.Div{Num: left, Den: right}
		case tokCaret:
			// right-associative
			right, err := p.parseExpr(bpPow - 1)
			if err != nil {
				return nil, err
			}
			left = &expr.Power{Base: left, Exp: right}
		case tokBang:
			left = &expr.Factorial{Arg: left}
		}
	}
	return left, nil
}

func negate(n expr.Node) expr.Node {
	return &expr.Product{Factors: []expr.Node{expr.NewInt(-1), n}}
}

func (p *parser) parsePrefix() (expr.Node, error) {
	t := p.advance()
	switch t.kind {
	case tokNumber:
		return expr.Number(t.val), nil
	case tokIdent:
		return expr.Variable(t.text), nil
	case tokMinus:
		operand, err := p.parseExpr(bpNeg)
		if err != nil {
			return nil, err
		}
		return negate(operand), nil
	case tokLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return inner, nil
	case tokFunc:
		if _, err := p.expect(tokLParen, `"("`); err != nil {
			return nil, err
		}
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return &expr.Elem{Op: t.op, Args: []expr.Node{arg}}, nil
	case tokCall:
		if _, err := p.expect(tokLParen, `"("`); err != nil {
			return nil, err
		}
		var args []expr.Node
		for {
			a, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			nt := p.advance()
			if nt.kind == tokRParen {
				break
			}
			if nt.kind != tokComma {
				return nil, fmt.Errorf(`parser: expected "," or ")" at offset %d, found %q`, nt.pos, nt.text)
			}
		}
		if want := p.arity[t.text]; want != len(args) {
			return nil, fmt.Errorf("parser: %s takes %d argument(s), got %d (offset %d)",
				t.text, want, len(args), t.pos)
		}
		return &expr.Call{Name: t.text, Args: args}, nil
	case tokEOF:
		return nil, fmt.Errorf("parser: unexpected end of input at offset %d", t.pos)
	}
	return nil, fmt.Errorf("parser: unexpected %q at offset %d", t.text, t.pos)
}
