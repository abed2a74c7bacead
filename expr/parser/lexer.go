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

package parser

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/levycas/levycas/expr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent // single-letter variable
	tokFunc  // elementary function name
	tokCall  // user-defined function name
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokBang
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
	val  *big.Rat    // tokNumber
	op   expr.ElemOp // tokFunc
}

// elemFuncs is ordered longest name first so that
// prefix matching is greedy: "arcsin" beats "a"+"r"+..
var elemFuncs = []struct {
	name string
	op   expr.ElemOp
}{
	{"arcsin", expr.OpArcsin},
	{"arccos", expr.OpArccos},
	{"arctan", expr.OpArctan},
	{"sin", expr.OpSin},
	{"cos", expr.OpCos},
	{"tan", expr.OpTan},
	{"csc", expr.OpCsc},
	{"sec", expr.OpSec},
	{"cot", expr.OpCot},
	{"exp", expr.OpExp},
	{"ln", expr.OpLn},
}

type lexer struct {
	src   string
	pos   int
	arity map[string]int // user function names
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// matchName returns the length of the longest known
// function name (elementary or user-defined) matching
// the source at pos. Matching is case-insensitive.
func (l *lexer) matchName(pos int) (string, expr.ElemOp, tokenKind, int) {
	rest := l.src[pos:]
	best, bestKind, bestOp := 0, tokEOF, expr.ElemOp(0)
	var bestName string
	for _, f := range elemFuncs {
		n := len(f.name)
		if n > best && len(rest) >= n && strings.EqualFold(rest[:n], f.name) {
			best, bestKind, bestOp, bestName = n, tokFunc, f.op, f.name
		}
	}
	for name := range l.arity {
		n := len(name)
		if n > best && len(rest) >= n && strings.EqualFold(rest[:n], name) {
			best, bestKind, bestName = n, tokCall, name
		}
	}
	return bestName, bestOp, bestKind, best
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.src[l.pos]
	switch c {
	case '+':
		l.pos++
		return token{kind: tokPlus, text: "+", pos: start}, nil
	case '-':
		l.pos++
		return token{kind: tokMinus, text: "-", pos: start}, nil
	case '*':
		l.pos++
		return token{kind: tokStar, text: "*", pos: start}, nil
	case '/':
		l.pos++
		return token{kind: tokSlash, text: "/", pos: start}, nil
	case '^':
		l.pos++
		return token{kind: tokCaret, text: "^", pos: start}, nil
	case '!':
		l.pos++
		return token{kind: tokBang, text: "!", pos: start}, nil
	case '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}, nil
	}
	if isDigit(c) || c == '.' {
		end := l.pos
		dot := false
		for end < len(l.src) && (isDigit(l.src[end]) || l.src[end] == '.') {
			if l.src[end] == '.' {
				if dot {
					return token{}, fmt.Errorf("parser: malformed number at offset %d", start)
				}
				dot = true
			}
			end++
		}
		text := l.src[l.pos:end]
		// decimal literals convert exactly: 0.1 is 1/10
		val, ok := new(big.Rat).SetString(text)
		if !ok {
			return token{}, fmt.Errorf("parser: malformed number %q at offset %d", text, start)
		}
		l.pos = end
		return token{kind: tokNumber, text: text, pos: start, val: val}, nil
	}
	if isLetter(c) {
		name, op, kind, n := l.matchName(l.pos)
		if n > 0 {
			l.pos += n
			return token{kind: kind, text: name, pos: start, op: op}, nil
		}
		// a bare letter is a variable
		l.pos++
		return token{kind: tokIdent, text: string(c), pos: start}, nil
	}
	return token{}, fmt.Errorf("parser: unexpected character %q at offset %d", c, start)
}

// lex tokenizes the whole input and inserts the
// implicit multiplications: 2x, x(x+1), (x+1)(x-1)
// and 2sin(x) all denote products.
func lex(src string, arity map[string]int) ([]token, error) {
	l := &lexer{src: src, arity: arity}
	var out []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		if len(out) > 0 && endsOperand(out[len(out)-1].kind) && startsOperand(t.kind) {
			out = append(out, token{kind: tokStar, text: "*", pos: t.pos})
		}
		out = append(out, t)
		if t.kind == tokEOF {
			return out, nil
		}
	}
}

func endsOperand(k tokenKind) bool {
	switch k {
	case tokNumber, tokIdent, tokRParen, tokBang:
		return true
	}
	return false
}

func startsOperand(k tokenKind) bool {
	switch k {
	case tokNumber, tokIdent, tokFunc, tokCall, tokLParen:
		return true
	}
	return false
}
