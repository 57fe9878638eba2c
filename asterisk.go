package sqlu

import (
	"reflect"

	"github.com/mitranim/refut"
	"github.com/mitranim/sqlb"
)

/*
Implemented by table-like values that know their own table name, such as
model types:

	type Article struct{ Id int64 `db:"id"` }

	func (Article) TableName() string { return `article` }
*/
type TableNamer interface{ TableName() string }

/*
Represents a table wildcard such as `article.*`. The table name is quoted only
when the dialect requires it, for example for reserved words or mixed case:

	Asterisk{`article`}                  -> article.*
	Asterisk{`user`}                     -> "user".*
	Asterisk{sqlb.Table{`public`, `Tag`}} -> public."Tag".*

`.Table` may be a string (a single name, never split), a `[]string`,
`sqlb.Ident`, `sqlb.Identifier` or `sqlb.Table` (schema-qualified), or a
`TableNamer`. Supported by every dialect.
*/
type Asterisk struct{ Table any }

// Implement `Expr`.
func (self Asterisk) CompileExpr(comp *Compiler) error {
	return comp.Renderer().Asterisk(comp, self)
}

// Implement the `fmt.Stringer` interface for debug purposes. Renders under
// `Generic` and panics on invalid input.
func (self Asterisk) String() string { return mustCompileString(Generic, self) }

/*
Represents an explicit list of table-qualified columns, an alternative to
`Asterisk` which doesn't depend on the table's current column order:

	type Article struct {
		Id   int64  `db:"id"`
		Name string `db:"name"`
	}

	TableCols{`article`, Article{}}
	-> article.id, article.name

Columns are taken from struct fields with a `db` tag, including fields of
embedded structs, in declaration order. `.Type` may be a struct, a pointer to
one, a slice of either, or a `reflect.Type`. `.Table` accepts the same values
as `Asterisk.Table`; if it's nil and `.Type` (or its element type) implements
`TableNamer`, that name is used.
*/
type TableCols struct {
	Table any
	Type  any
}

// Implement `Expr`.
func (self TableCols) CompileExpr(comp *Compiler) error {
	return comp.Renderer().TableCols(comp, self)
}

// Implement the `fmt.Stringer` interface for debug purposes. Renders under
// `Generic` and panics on invalid input.
func (self TableCols) String() string { return mustCompileString(Generic, self) }

// Returns the column names of `.Type`, in declaration order.
func (self TableCols) Cols() ([]string, error) {
	rtype := typeElem(typeOf(self.Type))
	if rtype == nil || rtype.Kind() != reflect.Struct {
		return nil, ErrInvalidInput.while(`listing table columns`).becausef(`expected struct type, got %v`, rtype)
	}

	var out []string
	err := refut.TraverseStructRtype(rtype, func(sfield reflect.StructField, _ []int) error {
		name := refut.TagIdent(sfield.Tag.Get(`db`))
		if name != `` {
			out = append(out, name)
		}
		return nil
	})
	return out, err
}

func (self TableCols) table() any {
	if self.Table != nil {
		return self.Table
	}
	if val, ok := self.Type.(TableNamer); ok && !isNil(val) {
		return val
	}

	// Type carriers such as `(*Article)(nil)` or `[]Article(nil)`.
	rtype := typeElem(typeOf(self.Type))
	if rtype != nil && rtype.Implements(tableNamerType) {
		return reflect.Zero(rtype).Interface()
	}
	return nil
}

var tableNamerType = reflect.TypeOf((*TableNamer)(nil)).Elem()

// Shared by all renderers: `<table>.*`.
func appendAsterisk(comp *Compiler, val Asterisk) error {
	path, err := tablePath(val.Table)
	if err != nil {
		return err
	}
	err = appendIdentPath(comp, path)
	if err != nil {
		return err
	}
	comp.Str(`.*`)
	return nil
}

// Shared by all renderers: `<table>.<col>, <table>.<col>, ...`.
func appendTableCols(comp *Compiler, val TableCols) error {
	path, err := tablePath(val.table())
	if err != nil {
		return err
	}

	cols, err := val.Cols()
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return ErrInvalidInput.while(`compiling table columns`).becausef(`no columns with "db" tags in %v`, typeElem(typeOf(val.Type)))
	}

	for i, col := range cols {
		if i > 0 {
			comp.Str(`, `)
		}
		err = appendIdentPath(comp, path)
		if err != nil {
			return err
		}
		comp.Str(`.`)
		err = comp.Ident(col)
		if err != nil {
			return err
		}
	}
	return nil
}

func appendIdentPath(comp *Compiler, path []string) error {
	for i, name := range path {
		if i > 0 {
			comp.Str(`.`)
		}
		err := comp.Ident(name)
		if err != nil {
			return err
		}
	}
	return nil
}

/*
Converts a table-like value into a path of unquoted identifiers. Quoting is
left to the dialect.
*/
func tablePath(val any) ([]string, error) {
	var out []string

	switch val := val.(type) {
	case string:
		out = []string{val}
	case sqlb.Ident:
		out = []string{string(val)}
	case []string:
		out = val
	case sqlb.Identifier:
		out = val
	case sqlb.Table:
		out = val
	case TableNamer:
		if isNil(val) {
			return nil, ErrInvalidInput.while(`resolving table name`).becausef(`nil %T`, val)
		}
		out = []string{val.TableName()}
	default:
		return nil, ErrInvalidInput.while(`resolving table name`).becausef(`unsupported table type %T`, val)
	}

	if len(out) == 0 {
		return nil, ErrInvalidInput.while(`resolving table name`).becausef(`empty table path`)
	}
	for _, name := range out {
		if name == `` {
			return nil, ErrInvalidInput.while(`resolving table name`).becausef(`empty identifier in table path %q`, out)
		}
	}
	return out, nil
}
