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

// maxExpandExp bounds the binomial expansion of
// (..)^n; larger exponents fail with ErrTooComplex
// rather than materializing enormous sums.
const maxExpandExp = 512

// Expand rewrites n into fully distributed form:
// products over sums are multiplied out and powers with
// positive integer exponents are expanded binomially.
// The result is simplified.
func Expand(n Node) (out Node, err error) {
	defer recoverTooComplex(&err)
	out = expand(n, 0)
	return out, err
}

func expand(n Node, d int) Node {
	overflow(d)
	switch e := n.(type) {
	case *Sum:
		terms := make([]Node, len(e.Terms))
		for i, t := range e.Terms {
			terms[i] = expand(t, d+1)
		}
		return simplifySum(terms, d)
	case *Product:
		acc := expand(e.Factors[0], d+1)
		for _, f := range e.Factors[1:] {
			acc = expandProduct(acc, expand(f, d+1), d)
		}
		return acc
	case *Power:
		base := expand(e.Base, d+1)
		if i, ok := IsInteger(e.Exp); ok && i.Sign() > 0 {
			if !i.IsInt64() || i.Int64() > maxExpandExp {
				panic(tooComplex{})
			}
			if v := i.Int64(); v >= 2 {
				return expandPower(base, v, d)
			}
		}
		return simplifyPower(base, e.Exp, d)
	}
	kids := Operands(n)
	if len(kids) == 0 {
		return n
	}
	sub := make([]Node, len(kids))
	for i := range kids {
		sub[i] = expand(kids[i], d+1)
	}
	return simplify(rebuild(n, sub), d)
}

// expandProduct distributes a*b when either side is a
// sum.
func expandProduct(a, b Node, d int) Node {
	overflow(d)
	if s, ok := a.(*Sum); ok {
		terms := make([]Node, len(s.Terms))
		for i, t := range s.Terms {
			terms[i] = expandProduct(t, b, d+1)
		}
		return simplifySum(terms, d)
	}
	if s, ok := b.(*Sum); ok {
		terms := make([]Node, len(s.Terms))
		for i, t := range s.Terms {
			terms[i] = expandProduct(a, t, d+1)
		}
		return simplifySum(terms, d)
	}
	return simplifyProduct([]Node{a, b}, d)
}

// expandPower expands u^n for integer n >= 2 using the
// binomial theorem on the leading term of u.
func expandPower(u Node, n int64, d int) Node {
	overflow(d)
	s, ok := u.(*Sum)
	if !ok {
		return simplifyPower(u, NewInt(n), d)
	}
	f := s.Terms[0]
	r := simplifySum(s.Terms[1:], d)
	terms := make([]Node, 0, n+1)
	for k := int64(0); k <= n; k++ {
		c := FromBig(new(big.Int).Binomial(n, k))
		lead := simplifyProduct([]Node{c, simplifyPower(f, NewInt(n-k), d+1)}, d+1)
		var rest Node
		switch {
		case k == 0:
			rest = NewInt(1)
		case k == 1:
			rest = r
		default:
			rest = expandPower(r, k, d+1)
		}
		terms = append(terms, expandProduct(lead, rest, d+1))
	}
	return simplifySum(terms, d)
}

// Rationalize combines sums of quotients over a common
// denominator, so that Numerator and Denominator see
// the whole expression as a single fraction.
func Rationalize(n Node) (out Node, err error) {
	defer recoverTooComplex(&err)
	out = rationalize(n, 0)
	return out, err
}

func rationalize(n Node, d int) Node {
	overflow(d)
	switch e := n.(type) {
	case *Power:
		return simplifyPower(rationalize(e.Base, d+1), e.Exp, d)
	case *Product:
		fs := make([]Node, len(e.Factors))
		for i, f := range e.Factors {
			fs[i] = rationalize(f, d+1)
		}
		return simplifyProduct(fs, d)
	case *Sum:
		acc := rationalize(e.Terms[0], d+1)
		for _, t := range e.Terms[1:] {
			acc = rationalAdd(acc, rationalize(t, d+1), d)
		}
		return acc
	}
	return n
}

func rationalAdd(a, b Node, d int) Node {
	ad, bd := Denominator(a), Denominator(b)
	if IsOne(ad) && IsOne(bd) {
		return simplifySum([]Node{a, b}, d)
	}
	num := simplifySum([]Node{
		simplifyProduct([]Node{Numerator(a), bd}, d+1),
		simplifyProduct([]Node{Numerator(b), ad}, d+1),
	}, d)
	den := simplifyProduct([]Node{ad, bd}, d)
	return simplifyDiv(num, den, d)
}
