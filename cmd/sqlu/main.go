// Command sqlu renders and executes "EXPLAIN" statements for the supported SQL
// dialects.
//
// Usage:
//
//	sqlu render [flags] <sql>...    # Print the compiled EXPLAIN statement
//	sqlu explain [flags] <sql>...   # Execute EXPLAIN and print the plans
//	sqlu version                    # Print version information
//
// Statements are read from stdin when none are given as arguments.
//
// Examples:
//
//	sqlu render --opt analyze --opt "format json" "select * from article"
//	sqlu explain --dsn postgres://localhost/app --opt analyze "select * from article"
//	sqlu explain --dialect sqlite --dsn app.db --opt query_plan -o yaml < query.sql
package main

import (
	"os"

	"github.com/mitranim/sqlu/internal/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		cli.ExitWithError(err)
	}
	os.Exit(cli.ExitSuccess)
}
