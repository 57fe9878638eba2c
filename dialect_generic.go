package sqlu

/*
Renderer for `Generic`: standard SQL without any database-specific
constructs. Identifiers are double-quoted when required.
*/
type genericRenderer struct{}

var _ = Renderer(genericRenderer{})

func (genericRenderer) Ident(text []byte, name string) []byte {
	if requiresQuotes(genericReserved, name) {
		return appendQuotedDouble(text, name)
	}
	return append(text, name...)
}

func (genericRenderer) HasType(typ Type) bool {
	return typ != TypeJson && typ != TypeJsonb && !typ.IsArray()
}

func (genericRenderer) Explain(comp *Compiler, _ Explain) error {
	return errUnsupported(comp.Dialect, `explain`)
}

func (genericRenderer) Asterisk(comp *Compiler, val Asterisk) error {
	return appendAsterisk(comp, val)
}

func (genericRenderer) TableCols(comp *Compiler, val TableCols) error {
	return appendTableCols(comp, val)
}

func (genericRenderer) RowToJson(comp *Compiler, _ RowToJson) error {
	return errUnsupported(comp.Dialect, `row_to_json`)
}

func (genericRenderer) ArrayAgg(comp *Compiler, _ ArrayAgg) error {
	return errUnsupported(comp.Dialect, `array_agg`)
}
