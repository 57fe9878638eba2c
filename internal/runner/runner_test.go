package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mitranim/sqlb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitranim/sqlu"
	"github.com/mitranim/sqlu/internal/plan"
	"github.com/mitranim/sqlu/internal/testdb"
)

func newMock(t *testing.T, dialect sqlu.Dialect) (*Runner, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &Runner{
		DB:      db,
		Dialect: dialect,
		Log:     zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel),
	}, mock
}

func TestDriverName(t *testing.T) {
	for dialect, exp := range map[sqlu.Dialect]string{
		sqlu.Postgres: "pgx",
		sqlu.MySql:    "mysql",
		sqlu.Sqlite:   "sqlite",
	} {
		name, err := DriverName(dialect)
		require.NoError(t, err)
		assert.Equal(t, exp, name)
	}

	_, err := DriverName(sqlu.Generic)
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, sqlu.Generic, "whatever")
	require.Error(t, err)

	_, err = Open(ctx, sqlu.Postgres, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN is required")

	db, err := Open(ctx, sqlu.Sqlite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestRunner_Explain_Postgres(t *testing.T) {
	r, mock := newMock(t, sqlu.Postgres)

	mock.ExpectQuery("EXPLAIN (ANALYZE true, BUFFERS true) select * from article where id = $1").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"QUERY PLAN"}).
			AddRow("Index Scan using article_pkey on article  (cost=0.15..8.17 rows=1 width=72) (actual time=0.011..0.012 rows=1 loops=1)").
			AddRow("  Buffers: shared hit=2").
			AddRow("Planning Time: 0.050 ms").
			AddRow("Execution Time: 0.020 ms"))

	res, err := r.Explain(context.Background(),
		sqlb.StrQ{Text: `select * from article where id = $1`, Args: sqlb.List{10}},
		sqlu.ExplainOpts{sqlu.Analyze(true), sqlu.Buffers(true)},
	)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "EXPLAIN (ANALYZE true, BUFFERS true) select * from article where id = $1", res.Query)
	assert.Equal(t, []any{10}, res.Args)
	assert.Len(t, strings.Split(res.Plan, "\n"), 4)
	assert.Equal(t, 1, res.Metrics.Rows)
	assert.Equal(t, 2, res.Metrics.BufferHits)
	assert.Equal(t, 0.02, res.Metrics.ExecutionTimeMS)
	assert.Equal(t, 8.17, res.Metrics.TotalCost)
}

func TestRunner_Explain_PostgresJSON(t *testing.T) {
	r, mock := newMock(t, sqlu.Postgres)

	mock.ExpectQuery("EXPLAIN (FORMAT json) select 1").
		WillReturnRows(sqlmock.NewRows([]string{"QUERY PLAN"}).
			AddRow(`[{"Plan": {"Node Type": "Result", "Startup Cost": 0, "Total Cost": 0.01, "Plan Rows": 1, "Plan Width": 4}}]`))

	res, err := r.Explain(context.Background(), "select 1", sqlu.ExplainOpts{sqlu.Format("json")})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 1, res.Metrics.Nodes)
	assert.Equal(t, 1, res.Metrics.Rows)
	assert.Equal(t, 0.01, res.Metrics.TotalCost)
}

func TestRunner_Explain_MySql(t *testing.T) {
	r, mock := newMock(t, sqlu.MySql)

	mock.ExpectQuery("EXPLAIN ANALYZE FORMAT=TREE select 1").
		WillReturnRows(sqlmock.NewRows([]string{"EXPLAIN"}).
			AddRow("-> Rows fetched before execution  (cost=0..0 rows=1) (actual time=0..0 rows=1 loops=1)"))

	res, err := r.Explain(context.Background(), "select 1", sqlu.ExplainOpts{sqlu.Analyze(true), sqlu.Format("tree")})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, res.Plan, "Rows fetched before execution")
	assert.Equal(t, plan.Metrics{}, res.Metrics)
}

func TestRunner_Explain_MultiColumn(t *testing.T) {
	r, mock := newMock(t, sqlu.Sqlite)

	mock.ExpectQuery("EXPLAIN QUERY PLAN select * from article").
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent", "notused", "detail"}).
			AddRow(2, 0, 0, "SCAN article"))

	res, err := r.Explain(context.Background(), "select * from article", sqlu.ExplainOpts{sqlu.QueryPlan(true)})
	require.NoError(t, err)
	assert.Equal(t, "2 | 0 | 0 | SCAN article", res.Plan)
}

func TestRunner_Explain_CompileError(t *testing.T) {
	r, mock := newMock(t, sqlu.MySql)

	_, err := r.Explain(context.Background(), "select 1", sqlu.ExplainOpts{sqlu.Buffers(true)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sqlu.ErrUnsupported))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_Explain_QueryError(t *testing.T) {
	r, mock := newMock(t, sqlu.Postgres)

	mock.ExpectQuery("EXPLAIN select * from missing").
		WillReturnError(errors.New(`relation "missing" does not exist`))

	_, err := r.Explain(context.Background(), "select * from missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `relation "missing" does not exist`)
	assert.Contains(t, err.Error(), "EXPLAIN select * from missing")
}

func TestRunner_Explain_Timeout(t *testing.T) {
	r, mock := newMock(t, sqlu.Postgres)
	r.Timeout = 10 * time.Millisecond

	mock.ExpectQuery("EXPLAIN select pg_sleep(1)").
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"QUERY PLAN"}).AddRow("Result"))

	_, err := r.Explain(context.Background(), "select pg_sleep(1)", nil)
	require.Error(t, err)
}

func TestRunner_ExplainAll(t *testing.T) {
	r, mock := newMock(t, sqlu.Postgres)
	mock.MatchExpectationsInOrder(false)

	stmts := []any{"select 1", "select 2", "select 3"}
	for _, stmt := range stmts {
		mock.ExpectQuery("EXPLAIN " + stmt.(string)).
			WillReturnRows(sqlmock.NewRows([]string{"QUERY PLAN"}).AddRow("Result for " + stmt.(string)))
	}

	results, err := r.ExplainAll(context.Background(), stmts, nil, 2)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, i+1, res.Index)
		assert.Equal(t, "EXPLAIN "+stmts[i].(string), res.Query)
		assert.Equal(t, "Result for "+stmts[i].(string), res.Plan)
	}
}

func TestRunner_ExplainAll_Error(t *testing.T) {
	r, _ := newMock(t, sqlu.Sqlite)

	_, err := r.ExplainAll(context.Background(), []any{"select 1", nil}, nil, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sqlu.ErrInvalidInput))
}

func TestRunner_Sqlite(t *testing.T) {
	r := &Runner{DB: testdb.Sqlite(t), Dialect: sqlu.Sqlite, Log: zerolog.Nop()}

	results, err := r.ExplainAll(context.Background(), []any{
		sqlu.Bound{Dialect: sqlu.Sqlite, Expr: "select * from article"},
		sqlb.StrQ{Text: `select $1 from "user" where id = 1`, Args: sqlb.List{sqlu.Sqlite.Bind(sqlu.Asterisk{Table: "user"})}},
	}, sqlu.ExplainOpts{sqlu.QueryPlan(true)}, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Contains(t, results[0].Plan, "SCAN article")
	assert.Contains(t, results[1].Plan, "user")
}

func TestRunner_Postgres(t *testing.T) {
	db := testdb.Postgres(t)
	r := &Runner{DB: db, Dialect: sqlu.Postgres, Log: zerolog.New(zerolog.NewTestWriter(t))}

	res, err := r.Explain(context.Background(),
		sqlb.StrQ{Text: `select $1 from article where id = $2`, Args: sqlb.List{
			sqlu.Postgres.Bind(sqlu.RowToJson{Expr: sqlu.Asterisk{Table: "article"}}),
			int64(1),
		}},
		sqlu.ExplainOpts{sqlu.Analyze(true), sqlu.Buffers(true), sqlu.Format("json")},
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Plan, "["))
	assert.Greater(t, res.Metrics.Nodes, 0)
	assert.Greater(t, res.Metrics.ExecutionTimeMS, 0.0)
}
