// Package runner executes "EXPLAIN" statements compiled by sqlu against a live
// database and collects their plans.
package runner

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/mitranim/sqlu"
	"github.com/mitranim/sqlu/internal/plan"
)

// DriverName returns the database/sql driver registered for the dialect.
func DriverName(dialect sqlu.Dialect) (string, error) {
	switch dialect {
	case sqlu.Postgres:
		return "pgx", nil
	case sqlu.MySql:
		return "mysql", nil
	case sqlu.Sqlite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("no database driver for dialect %q", dialect)
	}
}

// Open connects to the database of the given dialect and verifies the
// connection.
func Open(ctx context.Context, dialect sqlu.Dialect, dsn string) (*sql.DB, error) {
	driver, err := DriverName(dialect)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required for dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}
	return db, nil
}

// Runner compiles statements into "EXPLAIN" for its dialect and executes them.
type Runner struct {
	DB      *sql.DB
	Dialect sqlu.Dialect
	Log     zerolog.Logger

	// Per-statement timeout; zero means no timeout.
	Timeout time.Duration
}

// Result holds the plan of one explained statement.
type Result struct {
	Index    int           `json:"index"`
	Query    string        `json:"query"`
	Args     []any         `json:"args,omitempty"`
	Plan     string        `json:"plan"`
	Metrics  plan.Metrics  `json:"metrics"`
	Duration time.Duration `json:"duration"`
}

// Explain compiles stmt with the given options, executes it and collects the
// plan. Statements may be anything accepted by sqlu.Compile.
func (r *Runner) Explain(ctx context.Context, stmt any, opts sqlu.ExplainOpts) (*Result, error) {
	query, args, err := sqlu.Compile(r.Dialect, sqlu.Explain{Stmt: stmt, Opts: opts})
	if err != nil {
		return nil, err
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	r.Log.Debug().
		Str("dialect", r.Dialect.String()).
		Str("query", query).
		Int("args", len(args)).
		Msg("executing explain")

	start := time.Now()
	lines, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("execute %q: %w", query, err)
	}
	duration := time.Since(start)

	res := &Result{
		Query:    query,
		Args:     args,
		Plan:     strings.Join(lines, "\n"),
		Duration: duration,
	}

	if r.Dialect == sqlu.Postgres {
		res.Metrics, err = postgresMetrics(res.Plan, opts)
		if err != nil {
			return nil, err
		}
	}

	r.Log.Debug().
		Dur("duration", duration).
		Int("lines", len(lines)).
		Msg("explain finished")

	return res, nil
}

/*
ExplainAll explains statements concurrently, at most limit at a time; a limit
of zero or less means no limit. Results are in the order of stmts. The first
error cancels the remaining statements.
*/
func (r *Runner) ExplainAll(ctx context.Context, stmts []any, opts sqlu.ExplainOpts, limit int) ([]*Result, error) {
	results := make([]*Result, len(stmts))

	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, stmt := range stmts {
		i, stmt := i, stmt
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			res, err := r.Explain(ctx, stmt, opts)
			if err != nil {
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
			res.Index = i + 1
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// query collects one line per result row. Multi-column rows, such as those of
// MySQL's traditional format or SQLite's "EXPLAIN QUERY PLAN", are joined with
// " | ".
func (r *Runner) query(ctx context.Context, query string, args []any) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	var lines []string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan plan line: %w", err)
		}

		parts := make([]string, len(vals))
		for i, val := range vals {
			parts[i] = val.String
		}
		lines = append(lines, strings.Join(parts, " | "))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan lines: %w", err)
	}
	return lines, nil
}

func postgresMetrics(src string, opts sqlu.ExplainOpts) (plan.Metrics, error) {
	format, _ := opts.Get("format")
	name, _ := format.Val.(string)

	switch strings.ToLower(name) {
	case "", "text":
		return plan.ExtractMetrics(src), nil
	case "json":
		entries, err := plan.ParseJSON([]byte(src))
		if err != nil {
			return plan.Metrics{}, err
		}
		if len(entries) == 0 {
			return plan.Metrics{}, fmt.Errorf("decode JSON plan: no entries")
		}
		return entries[0].Metrics(), nil
	default:
		return plan.Metrics{}, nil
	}
}
