package sqlu

/*
Represents a call to the Postgres function `row_to_json`:

	RowToJson{`article.*`}
	-> row_to_json(article.*)

	RowToJson{Asterisk{`user`}}
	-> row_to_json("user".*)

`.Expr` may be raw SQL (a string), a `sqlb.Expr` or an `Expr`. The declared
result type is `TypeJson`. Compiling under a dialect without this function,
including `Generic`, fails with `ErrUnsupported`.
*/
type RowToJson struct{ Expr any }

// Implement `Expr`.
func (self RowToJson) CompileExpr(comp *Compiler) error {
	return comp.Renderer().RowToJson(comp, self)
}

// Implement `Typed`.
func (self RowToJson) Type() Type { return TypeJson }

/*
Represents a call to the Postgres aggregate `array_agg`. When `.Default` is
provided, the result is coalesced, replacing the null that `array_agg` returns
for zero rows:

	ArrayAgg{Expr: `article.id`}
	-> array_agg(article.id)

	ArrayAgg{Expr: `article.id`, Default: `'{}'::int[]`}
	-> coalesce(array_agg(article.id), '{}'::int[])

`.Elem` optionally declares the element type; the declared result type is
`ArrayOf(.Elem)`. Supported only by Postgres.
*/
type ArrayAgg struct {
	Expr    any
	Default any
	Elem    Type
}

// Implement `Expr`.
func (self ArrayAgg) CompileExpr(comp *Compiler) error {
	return comp.Renderer().ArrayAgg(comp, self)
}

// Implement `Typed`.
func (self ArrayAgg) Type() Type { return ArrayOf(self.Elem) }

// Appends `name(<expr>)`.
func appendCall(comp *Compiler, name string, expr any) error {
	comp.Str(name)
	comp.Str(`(`)
	err := comp.Any(expr)
	if err != nil {
		return err
	}
	comp.Str(`)`)
	return nil
}

func checkType(comp *Compiler, construct string, typ Type) error {
	if typ == `` || comp.Renderer().HasType(typ) {
		return nil
	}
	return ErrUnsupported.while(`compiling %v for dialect %q`, construct, comp.Dialect).becausef(`result type %q is not supported`, typ)
}
