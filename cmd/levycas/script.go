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

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"sigs.k8s.io/yaml"

	"github.com/levycas/levycas/calc"
	"github.com/levycas/levycas/expr"
	"github.com/levycas/levycas/expr/parser"
)

// session holds the bindings accumulated by a repl or
// script run. Statements:
//
//	a = 3/2             bind a variable
//	f(x) = x^2 + 1      bind a function
//	diff x^2            differentiate (by x)
//	int sin(x)          integrate (by x)
//	print f(a)          evaluate and print
//	sin(x)^2            evaluate and print
//	# ...               comment
type session struct {
	env   *expr.Env
	arity map[string]int
	out   io.Writer
}

func newSession(out io.Writer) *session {
	return &session{
		env:   expr.NewEnv(),
		arity: make(map[string]int),
		out:   out,
	}
}

func (s *session) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	if rest, ok := cutKeyword(line, "print"); ok {
		return s.print(rest)
	}
	if rest, ok := cutKeyword(line, "diff"); ok {
		return s.calculus(rest, calc.Derivative)
	}
	if rest, ok := cutKeyword(line, "int"); ok {
		return s.calculus(rest, calc.Integrate)
	}
	if lhs, rhs, ok := splitAssign(line); ok {
		return s.assign(lhs, rhs)
	}
	return s.print(line)
}

// cutKeyword strips a leading keyword followed by a
// space.
func cutKeyword(line, kw string) (string, bool) {
	if strings.HasPrefix(line, kw+" ") {
		return strings.TrimSpace(line[len(kw)+1:]), true
	}
	return "", false
}

// splitAssign splits "lhs = rhs" on the first = sign.
func splitAssign(line string) (lhs, rhs string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

func (s *session) print(src string) error {
	n, err := s.eval(src)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, expr.ToString(n))
	return nil
}

func (s *session) calculus(src string, op func(expr.Node, expr.Variable) (expr.Node, error)) error {
	n, err := s.eval(src)
	if err != nil {
		return err
	}
	out, err := op(n, "x")
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, expr.ToString(out))
	return nil
}

func (s *session) eval(src string) (expr.Node, error) {
	n, err := parser.ParseCalls(src, s.arity)
	if err != nil {
		return nil, err
	}
	return expr.Eval(n, s.env)
}

func (s *session) assign(lhs, rhs string) error {
	if name, params, ok := funcHeader(lhs); ok {
		def, err := parser.ParseCalls(rhs, s.arity)
		if err != nil {
			return err
		}
		s.env.BindFunc(name, params, def)
		s.arity[name] = len(params)
		return nil
	}
	if len(lhs) != 1 || lhs[0] < 'a' || lhs[0] > 'z' {
		return fmt.Errorf("cannot assign to %q", lhs)
	}
	val, err := s.eval(rhs)
	if err != nil {
		return err
	}
	s.env.Bind(expr.Variable(lhs), val)
	return nil
}

// funcHeader matches "f(x, y)" on the left side of an
// assignment.
func funcHeader(lhs string) (name string, params []string, ok bool) {
	open := strings.IndexByte(lhs, '(')
	if open <= 0 || !strings.HasSuffix(lhs, ")") {
		return "", nil, false
	}
	name = strings.TrimSpace(lhs[:open])
	for _, p := range strings.Split(lhs[open+1:len(lhs)-1], ",") {
		p = strings.TrimSpace(p)
		if len(p) != 1 {
			return "", nil, false
		}
		params = append(params, p)
	}
	return name, params, true
}

// defsFile is the YAML shape accepted by --defs.
type defsFile struct {
	Vars  map[string]string `json:"vars"`
	Funcs map[string]struct {
		Params []string `json:"params"`
		Body   string   `json:"body"`
	} `json:"funcs"`
}

func (s *session) loadDefs(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs defsFile
	if err := yaml.Unmarshal(buf, &defs); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	// functions first so that variable definitions
	// can call them
	for name, f := range defs.Funcs {
		def, err := parser.ParseCalls(f.Body, s.arity)
		if err != nil {
			return fmt.Errorf("%s: func %s: %w", path, name, err)
		}
		s.env.BindFunc(name, f.Params, def)
		s.arity[name] = len(f.Params)
	}
	for name, src := range defs.Vars {
		val, err := s.eval(src)
		if err != nil {
			return fmt.Errorf("%s: var %s: %w", path, name, err)
		}
		s.env.Bind(expr.Variable(name), val)
	}
	return nil
}

func runScript(stdout io.Writer, script, defs, output string) error {
	out := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w := io.Writer(f)
		if strings.HasSuffix(output, ".zst") {
			zw, err := zstd.NewWriter(f)
			if err != nil {
				return err
			}
			defer zw.Close()
			w = zw
		}
		out = io.MultiWriter(stdout, w)
	}
	s := newSession(out)
	if defs != "" {
		if err := s.loadDefs(defs); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "# run %s\n", uuid.NewString())
	f, err := os.Open(script)
	if err != nil {
		return err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		if err := s.exec(sc.Text()); err != nil {
			return fmt.Errorf("%s:%d: %w", script, line, err)
		}
	}
	return sc.Err()
}
