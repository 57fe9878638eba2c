package sqlu

import "strings"

// Formats accepted by MySQL for `EXPLAIN FORMAT=...`.
var mysqlFormats = []string{`traditional`, `json`, `tree`}

/*
Renderer for `MySql`. Identifiers are quoted with backticks. "Explain"
supports only the "analyze" and "format" options, rendered in the order of
MySQL's grammar regardless of the order given.
*/
type mysqlRenderer struct{}

var _ = Renderer(mysqlRenderer{})

func (mysqlRenderer) Ident(text []byte, name string) []byte {
	if requiresQuotes(mysqlReserved, name) {
		return appendQuotedBacktick(text, name)
	}
	return append(text, name...)
}

func (mysqlRenderer) HasType(typ Type) bool {
	return typ != `` && typ != TypeJsonb && !typ.IsArray()
}

/*
Renders:

	EXPLAIN <stmt>
	EXPLAIN ANALYZE <stmt>
	EXPLAIN [ANALYZE] FORMAT=<FORMAT> <stmt>
*/
func (mysqlRenderer) Explain(comp *Compiler, val Explain) error {
	err := val.Opts.validate()
	if err != nil {
		return err
	}

	var analyze bool
	var format string

	for _, opt := range val.Opts {
		switch opt.Key() {
		case `analyze`:
			analyze, _ = opt.boolVal()
		case `format`:
			format = opt.Val.(string)
			if !containsFold(mysqlFormats, format) {
				return ErrInvalidOpt.while(`compiling explain for dialect %q`, comp.Dialect).becausef(`expected format to be one of %q, got %q`, mysqlFormats, format)
			}
		default:
			return errUnsupported(comp.Dialect, `explain option `+quoteString(opt.Name))
		}
	}

	comp.Str(`EXPLAIN `)
	if analyze {
		comp.Str(`ANALYZE `)
	}
	if format != `` {
		comp.Str(`FORMAT=`)
		comp.Str(strings.ToUpper(format))
		comp.Str(` `)
	}
	return comp.Any(val.Stmt)
}

func (mysqlRenderer) Asterisk(comp *Compiler, val Asterisk) error {
	return appendAsterisk(comp, val)
}

func (mysqlRenderer) TableCols(comp *Compiler, val TableCols) error {
	return appendTableCols(comp, val)
}

func (mysqlRenderer) RowToJson(comp *Compiler, _ RowToJson) error {
	return errUnsupported(comp.Dialect, `row_to_json`)
}

func (mysqlRenderer) ArrayAgg(comp *Compiler, _ ArrayAgg) error {
	return errUnsupported(comp.Dialect, `array_agg`)
}
