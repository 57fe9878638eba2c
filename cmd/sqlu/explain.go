package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitranim/sqlu/internal/cli"
	"github.com/mitranim/sqlu/internal/runner"
)

func newExplainCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [sql]...",
		Short: "Execute EXPLAIN and print the plans",
		Long: `Compile each statement into EXPLAIN for the selected dialect, execute it against
the database, and print the plans with metrics extracted from them. Statements
are explained concurrently.`,
		Example: `  # Analyze with buffers
  sqlu explain --dsn postgres://localhost/app --opt analyze --opt buffers "select * from article"

  # SQLite query plan as YAML
  sqlu explain -d sqlite --dsn app.db --opt query_plan -o yaml "select * from article"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := st.cfg
			ctx := cmd.Context()

			stmts, err := readStatements(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			explainOpts, err := st.explainOpts()
			if err != nil {
				return err
			}

			db, err := runner.Open(ctx, st.dialect, cfg.Database.URL)
			if err != nil {
				return cli.DBConnectError("connecting to database", err)
			}
			defer func() { _ = db.Close() }()

			r := &runner.Runner{
				DB:      db,
				Dialect: st.dialect,
				Log:     st.log,
				Timeout: cfg.Database.Timeout,
			}

			results, err := r.ExplainAll(ctx, stmts, explainOpts, cfg.Explain.Concurrency)
			if err != nil {
				return cli.GeneralError("explaining", err)
			}

			st.log.Info().
				Int("statements", len(results)).
				Str("dialect", st.dialect.String()).
				Msg("explained")

			report := cli.Report{Dialect: st.dialect.String(), Results: results}
			if err := cli.WriteReport(cmd.OutOrStdout(), cfg.Explain.Output, report); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("dsn", "", "database connection string (default: database.url or DATABASE_URL)")
	cmd.Flags().StringArray("opt", nil, `explain option "<name> [<value>]", repeatable`)
	cmd.Flags().StringP("output", "o", "", "output format: text, json or yaml")
	cmd.Flags().Int("concurrency", 0, "maximum statements explained at once")
	return cmd
}
