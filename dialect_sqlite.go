package sqlu

/*
Renderer for `Sqlite`. "Explain" supports only the "query_plan" option, which
switches from bytecode listing to "EXPLAIN QUERY PLAN".
*/
type sqliteRenderer struct{}

var _ = Renderer(sqliteRenderer{})

func (sqliteRenderer) Ident(text []byte, name string) []byte {
	if requiresQuotes(sqliteReserved, name) {
		return appendQuotedDouble(text, name)
	}
	return append(text, name...)
}

func (sqliteRenderer) HasType(typ Type) bool {
	return typ != `` && typ != TypeJson && typ != TypeJsonb && !typ.IsArray()
}

/*
Renders:

	EXPLAIN <stmt>
	EXPLAIN QUERY PLAN <stmt>
*/
func (sqliteRenderer) Explain(comp *Compiler, val Explain) error {
	err := val.Opts.validate()
	if err != nil {
		return err
	}

	var queryPlan bool
	for _, opt := range val.Opts {
		if !opt.Is(`query_plan`) {
			return errUnsupported(comp.Dialect, `explain option `+quoteString(opt.Name))
		}
		queryPlan, _ = opt.boolVal()
	}

	comp.Str(`EXPLAIN `)
	if queryPlan {
		comp.Str(`QUERY PLAN `)
	}
	return comp.Any(val.Stmt)
}

func (sqliteRenderer) Asterisk(comp *Compiler, val Asterisk) error {
	return appendAsterisk(comp, val)
}

func (sqliteRenderer) TableCols(comp *Compiler, val TableCols) error {
	return appendTableCols(comp, val)
}

func (sqliteRenderer) RowToJson(comp *Compiler, _ RowToJson) error {
	return errUnsupported(comp.Dialect, `row_to_json`)
}

func (sqliteRenderer) ArrayAgg(comp *Compiler, _ ArrayAgg) error {
	return errUnsupported(comp.Dialect, `array_agg`)
}
