package sqlu

import (
	"fmt"
	"strings"
)

/*
Target SQL dialect. Determines how constructs render and which of them are
supported at all. The zero value `Generic` stands for "no dialect specified":
constructs that only make sense for a specific database fail to compile under
it.
*/
type Dialect byte

const (
	Generic Dialect = iota
	Postgres
	MySql
	Sqlite
)

var dialectNames = map[string]Dialect{
	`generic`:    Generic,
	`default`:    Generic,
	`postgres`:   Postgres,
	`postgresql`: Postgres,
	`pg`:         Postgres,
	`mysql`:      MySql,
	`sqlite`:     Sqlite,
	`sqlite3`:    Sqlite,
}

// Parses a dialect name, case-insensitively. See `Dialect.String`.
func ParseDialect(src string) (Dialect, error) {
	val, ok := dialectNames[strings.ToLower(strings.TrimSpace(src))]
	if !ok {
		return Generic, ErrInvalidInput.while(`parsing dialect`).becausef(`unknown dialect %q`, src)
	}
	return val, nil
}

// Implement `fmt.Stringer`.
func (self Dialect) String() string {
	switch self {
	case Generic:
		return `generic`
	case Postgres:
		return `postgres`
	case MySql:
		return `mysql`
	case Sqlite:
		return `sqlite`
	default:
		return fmt.Sprintf(`Dialect(%d)`, byte(self))
	}
}

// Implement `encoding.TextUnmarshaler`, for config files and flags.
func (self *Dialect) UnmarshalText(src []byte) error {
	val, err := ParseDialect(string(src))
	if err != nil {
		return err
	}
	*self = val
	return nil
}

// Implement `encoding.TextMarshaler`.
func (self Dialect) MarshalText() ([]byte, error) { return []byte(self.String()), nil }

/*
Returns the renderer for this dialect. Unknown values fall back to the generic
renderer, which supports only dialect-agnostic constructs.
*/
func (self Dialect) Renderer() Renderer {
	switch self {
	case Postgres:
		return postgresRenderer{}
	case MySql:
		return mysqlRenderer{}
	case Sqlite:
		return sqliteRenderer{}
	default:
		return genericRenderer{}
	}
}

// Shortcut for `Compile(self, val)`.
func (self Dialect) Compile(val any) (string, []any, error) { return Compile(self, val) }

// Shortcut for `Bound{self, val}`.
func (self Dialect) Bind(val any) Bound { return Bound{self, val} }

/*
Renders the constructs of this package for one dialect. There is one
implementation per `Dialect`, and one method per construct kind. Methods
return `ErrUnsupported` for constructs the dialect lacks.
*/
type Renderer interface {
	Ident(text []byte, name string) []byte
	HasType(Type) bool
	Explain(*Compiler, Explain) error
	Asterisk(*Compiler, Asterisk) error
	TableCols(*Compiler, TableCols) error
	RowToJson(*Compiler, RowToJson) error
	ArrayAgg(*Compiler, ArrayAgg) error
}

/*
Declared SQL result type of a construct, such as "json" or "integer[]". Only
the types relevant to this package are predefined.
*/
type Type string

const (
	TypeJson  Type = `json`
	TypeJsonb Type = `jsonb`
)

// Array type with the given element type. An empty element type stays empty.
func ArrayOf(elem Type) Type {
	if elem == `` {
		return ``
	}
	return elem + `[]`
}

// True if the type is an array type.
func (self Type) IsArray() bool { return strings.HasSuffix(string(self), `[]`) }

// Implemented by constructs with a declared result type.
type Typed interface{ Type() Type }
