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

// Command levycas is a symbolic calculator: it
// simplifies, differentiates and integrates formulas
// given on the command line, runs calculation scripts,
// and offers an interactive session.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/levycas/levycas/calc"
	"github.com/levycas/levycas/expr"
	"github.com/levycas/levycas/expr/parser"
)

func main() {
	if err := root().Execute(); err != nil {
		os.Exit(1)
	}
}

func root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "levycas",
		Short:         "exact symbolic algebra calculator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(simplifyCmd(), diffCmd(), integrateCmd(), replCmd(), runCmd())
	return cmd
}

func simplifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simplify <formula>",
		Short: "print the canonical simplified form of a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parser.Parse(args[0])
			if err != nil {
				return err
			}
			out, err := expr.Simplify(n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), expr.ToString(out))
			return nil
		},
	}
}

func diffCmd() *cobra.Command {
	var wrt string
	cmd := &cobra.Command{
		Use:   "diff <formula>",
		Short: "differentiate a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parser.Parse(args[0])
			if err != nil {
				return err
			}
			if len(wrt) != 1 {
				return errors.New("variable must be a single letter")
			}
			out, err := calc.Derivative(n, expr.Variable(wrt))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), expr.ToString(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&wrt, "var", "x", "x", "variable to differentiate by")
	return cmd
}

func integrateCmd() *cobra.Command {
	var wrt string
	cmd := &cobra.Command{
		Use:   "integrate <formula>",
		Short: "find an antiderivative of a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parser.Parse(args[0])
			if err != nil {
				return err
			}
			if len(wrt) != 1 {
				return errors.New("variable must be a single letter")
			}
			out, err := calc.Integrate(n, expr.Variable(wrt))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), expr.ToString(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&wrt, "var", "x", "x", "variable to integrate by")
	return cmd
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(cmd.OutOrStdout())
			sc := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(cmd.OutOrStdout(), "> ")
			for sc.Scan() {
				if err := s.exec(sc.Text()); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), "> ")
			}
			return sc.Err()
		},
	}
}

func runCmd() *cobra.Command {
	var defs, output string
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "run a calculation script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.OutOrStdout(), args[0], defs, output)
		},
	}
	cmd.Flags().StringVar(&defs, "defs", "", "YAML file with variable and function definitions")
	cmd.Flags().StringVar(&output, "output", "", "write a transcript here (.zst compresses)")
	return cmd
}
