// Package testdb provides databases for integration tests: an in-process
// SQLite database and a lazily started PostgreSQL container.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	_ "modernc.org/sqlite"
)

// Fixture creates the tables used across integration tests. Table names
// include a reserved word on purpose.
const Fixture = `
	create table article (id bigint primary key, name text not null, content text not null default '');
	create table "user" (id bigint primary key, email text not null);
	insert into article (id, name) values (1, 'first'), (2, 'second');
	insert into "user" (id, email) values (1, 'one@example.com');
`

// Singleton container state
var (
	postgresOnce sync.Once
	postgresDSN  string
	postgresErr  error
)

// ensurePostgres lazily starts the PostgreSQL container.
// Safe for concurrent access via sync.Once.
func ensurePostgres() (string, error) {
	postgresOnce.Do(func() {
		if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
			postgresDSN = dsn
			return
		}

		ctx := context.Background()
		container, err := postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("postgres"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			postgresErr = fmt.Errorf("start PostgreSQL container: %w", err)
			return
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = container.Terminate(ctx)
			postgresErr = fmt.Errorf("get connection string: %w", err)
			return
		}

		// Container is not stored - ryuk will handle cleanup automatically
		postgresDSN = dsn
	})
	return postgresDSN, postgresErr
}

// PostgresDSN returns the DSN of the shared PostgreSQL database. Skips the test
// in short mode or when no container runtime is available.
func PostgresDSN(t testing.TB) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL test in short mode")
	}

	dsn, err := ensurePostgres()
	if err != nil {
		t.Skipf("PostgreSQL is unavailable: %v", err)
	}
	return dsn
}

// Postgres returns a connection to the shared PostgreSQL database with
// Fixture applied inside a dedicated schema, dropped on cleanup.
func Postgres(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", PostgresDSN(t))
	if err != nil {
		t.Fatalf("open PostgreSQL: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// search_path is per connection; a single connection keeps it stable.
	db.SetMaxOpenConns(1)

	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, fmt.Sprintf("create schema %s; set search_path to %s", schema, schema)); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), fmt.Sprintf("drop schema %s cascade", schema))
	})

	if _, err := db.ExecContext(ctx, Fixture); err != nil {
		t.Fatalf("apply fixture: %v", err)
	}
	return db
}

// Sqlite returns an in-memory SQLite database with Fixture applied.
func Sqlite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open SQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Each connection of an in-memory database is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Fixture); err != nil {
		t.Fatalf("apply fixture: %v", err)
	}
	return db
}
