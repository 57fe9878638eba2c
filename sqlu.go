package sqlu

import (
	"github.com/mitranim/sqlb"
)

/*
Implemented by every construct in this package. Unlike `sqlb.Expr`, rendering
depends on the target dialect and may fail: a dialect without support for a
construct reports `ErrUnsupported` instead of producing wrong SQL.
*/
type Expr interface {
	CompileExpr(*Compiler) error
}

/*
Accumulates SQL text and ordinal arguments for one dialect. The zero value
targets `Generic`, which corresponds to compiling without a dialect.

Host expressions (`sqlb.Expr`) are appended via their own `AppendExpr`, which
renumerates their ordinal parameters such as "$1" against `.Args`.
*/
type Compiler struct {
	Dialect Dialect
	Text    []byte
	Args    []any
}

// Returns the renderer of `.Dialect`.
func (self *Compiler) Renderer() Renderer { return self.Dialect.Renderer() }

// Appends the string verbatim.
func (self *Compiler) Str(val string) { self.Text = append(self.Text, val...) }

// Appends an identifier, quoted if the dialect's policy requires it.
func (self *Compiler) Ident(name string) error {
	if name == `` {
		return ErrInvalidInput.while(`appending identifier`).becausef(`empty identifier`)
	}
	self.Text = self.Renderer().Ident(self.Text, name)
	return nil
}

/*
Appends an arbitrary sub-expression:

	* `Expr`      -> compiled for `.Dialect`.
	* `sqlb.Expr` -> appended via `AppendExpr`, including its arguments.
	* `string`    -> appended verbatim as raw SQL.

Other values, including nil, are rejected with `ErrInvalidInput`.
*/
func (self *Compiler) Any(val any) error {
	switch val := val.(type) {
	case nil:
		return ErrInvalidInput.while(`compiling sub-expression`).becausef(`unexpected nil`)
	case Expr:
		return val.CompileExpr(self)
	case sqlb.Expr:
		self.Text, self.Args = val.AppendExpr(self.Text, self.Args)
		return nil
	case string:
		self.Str(val)
		return nil
	default:
		return ErrInvalidInput.while(`compiling sub-expression`).becausef(`unsupported type %T`, val)
	}
}

// Returns the accumulated text.
func (self Compiler) String() string { return string(self.Text) }

/*
Compiles the given expression for the given dialect, returning the SQL text and
ordinal arguments. See `Compiler.Any` for the accepted inputs.

Host expressions signal malformed input by panicking; such panics are recovered
and returned unchanged when they're errors.
*/
func Compile(dialect Dialect, val any) (text string, args []any, err error) {
	defer rec(&err)
	comp := Compiler{Dialect: dialect}
	try(comp.Any(val))
	return comp.String(), comp.Args, nil
}

/*
Binds an expression to a dialect, producing a `sqlb.Expr` usable as a
sub-expression of any sqlb query:

	query := sqlb.StrQ{`select $1 from article`, sqlb.List{
		sqlu.Postgres.Bind(sqlu.RowToJson{`article.*`}),
	}}

Because `sqlb.Expr` can't return errors, compile errors panic, the same way
sqlb panics on malformed identifiers. Use `Compile` to get them as values.
*/
type Bound struct {
	Dialect Dialect
	Expr    any
}

var _ = sqlb.Expr(Bound{})

// Implement `sqlb.Expr`.
func (self Bound) AppendExpr(text []byte, args []any) ([]byte, []any) {
	comp := Compiler{Dialect: self.Dialect, Text: text, Args: args}
	try(comp.Any(self.Expr))
	return comp.Text, comp.Args
}

// Implement the `sqlb.Appender` interface.
func (self Bound) Append(text []byte) []byte {
	text, _ = self.AppendExpr(text, nil)
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Bound) String() string {
	return bytesToMutableString(self.Append(nil))
}
