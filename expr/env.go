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

import "strconv"

// FuncDef is a user-defined function: a body expression
// over named parameters.
type FuncDef struct {
	Params []string
	Def    Node
}

// Env maps variable names to expressions and function
// names to definitions. The zero Env is empty and
// usable. Lookup misses fall through to an optional
// parent, so nested scopes share bindings without
// copying.
type Env struct {
	parent *Env
	vars   map[Variable]Node
	funcs  map[string]FuncDef
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{}
}

// Child returns a new scope whose lookups fall back to
// e.
func (e *Env) Child() *Env {
	return &Env{parent: e}
}

// Bind associates a variable with an expression. The
// value is stored as given; Eval resolves it at use
// sites.
func (e *Env) Bind(name Variable, val Node) {
	if e.vars == nil {
		e.vars = make(map[Variable]Node)
	}
	e.vars[name] = val
}

// BindFunc associates a function name with a
// definition.
func (e *Env) BindFunc(name string, params []string, def Node) {
	if e.funcs == nil {
		e.funcs = make(map[string]FuncDef)
	}
	e.funcs[name] = FuncDef{Params: params, Def: def}
}

// Lookup resolves a variable binding, searching
// enclosing scopes.
func (e *Env) Lookup(name Variable) (Node, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupFunc resolves a function binding, searching
// enclosing scopes.
func (e *Env) LookupFunc(name string) (FuncDef, bool) {
	for s := e; s != nil; s = s.parent {
		if f, ok := s.funcs[name]; ok {
			return f, true
		}
	}
	return FuncDef{}, false
}

// Eval resolves the bindings of env inside n and
// simplifies the result. Unbound variables and calls
// to unknown functions stay symbolic. Calls are
// resolved by substituting evaluated arguments for the
// parameters of the definition and evaluating the
// instantiated body.
func Eval(n Node, env *Env) (out Node, err error) {
	defer recoverTooComplex(&err)
	out = eval(n, env, 0)
	return out, err
}

// placeholder is the temporary name standing in for
// parameter i while a call is instantiated. The lexer
// rejects "@", so parsed expressions never contain one.
func placeholder(i int) Variable {
	return Variable("@" + strconv.Itoa(i))
}

func eval(n Node, env *Env, d int) Node {
	overflow(d)
	if env == nil {
		return mustSimplify(n)
	}
	switch e := n.(type) {
	case Variable:
		if v, ok := env.Lookup(e); ok {
			return eval(v, env, d+1)
		}
		return e
	case *Call:
		args := make([]Node, len(e.Args))
		for i := range e.Args {
			args[i] = eval(e.Args[i], env, d+1)
		}
		def, ok := env.LookupFunc(e.Name)
		if !ok {
			return &Call{Name: e.Name, Args: args}
		}
		// instantiation is simultaneous: rename the
		// parameters to placeholders first, so an
		// argument that mentions another parameter's
		// name is not captured by a later substitution
		body := def.Def
		for i, p := range def.Params {
			if i >= len(args) {
				break
			}
			body = substitute(body, Variable(p), placeholder(i), d+1)
		}
		for i := range def.Params {
			if i >= len(args) {
				break
			}
			body = substitute(body, placeholder(i), args[i], d+1)
		}
		return eval(body, env, d+1)
	}
	kids := Operands(n)
	if len(kids) == 0 {
		return mustSimplify(n)
	}
	sub := make([]Node, len(kids))
	for i := range kids {
		sub[i] = eval(kids[i], env, d+1)
	}
	return simplify(rebuild(n, sub), d)
}
