package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitranim/sqlu"
	"github.com/mitranim/sqlu/internal/cli"
)

func newRenderCmd(st *state) *cobra.Command {
	var analyze bool

	cmd := &cobra.Command{
		Use:   "render [sql]...",
		Short: "Print the compiled EXPLAIN statement",
		Long: `Compile each statement into the EXPLAIN syntax of the selected dialect and
print it, one per line. No database connection is made.`,
		Example: `  # Postgres
  sqlu render --opt analyze --opt "timing false" "select * from article"

  # MySQL
  sqlu render -d mysql --analyze "select * from article"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stmts, err := readStatements(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			explainOpts, err := st.explainOpts()
			if err != nil {
				return err
			}

			for _, stmt := range stmts {
				expr := sqlu.Explain{Stmt: stmt, Opts: explainOpts}
				if analyze {
					expr = sqlu.ExplainAnalyze(stmt, explainOpts...)
				}

				text, _, err := sqlu.Compile(st.dialect, expr)
				if err != nil {
					return cli.CompileError("compiling explain", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}

	cmd.Flags().StringArray("opt", nil, `explain option "<name> [<value>]", repeatable`)
	cmd.Flags().BoolVar(&analyze, "analyze", false, "shortcut for EXPLAIN ANALYZE")
	return cmd
}
