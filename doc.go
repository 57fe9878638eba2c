/*
Overview

"SQL utils". Small dialect-aware SQL constructs that complement the query
builder https://github.com/mitranim/sqlb: an "explain" wrapper, a table
wildcard, qualified column lists, and the Postgres functions `row_to_json` and
`array_agg`.

Constructs are plain values. They're rendered by compiling for a `Dialect`:

	text, args, err := sqlu.Compile(sqlu.Postgres, sqlu.ExplainOf(
		sqlb.StrQ{`select * from article where id = $1`, sqlb.List{10}},
		sqlu.Analyze(true),
		sqlu.Timing(false),
	))

	// text: EXPLAIN (ANALYZE true, TIMING false) select * from article where id = $1
	// args: []any{10}

Inner statements and sub-expressions may be raw SQL strings, arbitrary
`sqlb.Expr` values, or other constructs from this package. Arguments of sqlb
expressions are collected, and their ordinal parameters are renumbered, the
same way sqlb does for its own sub-queries.

Dialects

Each dialect has a `Renderer` with one method per construct kind. A dialect
that lacks a construct reports `ErrUnsupported` rather than producing
different SQL:

	_, _, err := sqlu.Compile(sqlu.Generic, sqlu.RowToJson{`article.*`})
	errors.Is(err, sqlu.ErrUnsupported) // true

	text, _, _ := sqlu.Compile(sqlu.Postgres, sqlu.RowToJson{`article.*`})
	// row_to_json(article.*)

`Generic` is the zero value and stands for "no dialect specified". Besides
`Postgres`, the package has renderers for `MySql` and `Sqlite`, which support
their own variants of "explain" and the dialect-agnostic constructs.

Identifiers

Table and column names are quoted only when the dialect requires it: reserved
words, mixed case, leading digits, or characters outside `[a-z0-9_$]`:

	sqlu.Asterisk{`article`}.String() // article.*
	sqlu.Asterisk{`user`}.String()    // "user".*

Composing with sqlb

`Dialect.Bind` converts a construct into a `sqlb.Expr`, usable as an argument
of any sqlb query. Since `sqlb.Expr` has no error result, compile errors
panic; see `Bound`.

Explain options

Options are an ordered list of name-value pairs; see `ExplainOpts` for
decoding them from text or JSON. Options not known to this package are passed
through as-is, so newer database options aren't blocked; known options are
validated.
*/
package sqlu
