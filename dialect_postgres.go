package sqlu

import "strings"

// Formats accepted by Postgres for `EXPLAIN (FORMAT ...)`.
var postgresFormats = []string{`text`, `xml`, `json`, `yaml`}

// Renderer for `Postgres`. Supports every construct in this package.
type postgresRenderer struct{}

var _ = Renderer(postgresRenderer{})

func (postgresRenderer) Ident(text []byte, name string) []byte {
	if requiresQuotes(postgresReserved, name) {
		return appendQuotedDouble(text, name)
	}
	return append(text, name...)
}

func (postgresRenderer) HasType(typ Type) bool { return typ != `` }

/*
Renders:

	EXPLAIN <stmt>
	EXPLAIN (<NAME> <value>, ...) <stmt>
*/
func (postgresRenderer) Explain(comp *Compiler, val Explain) error {
	err := val.Opts.validate()
	if err != nil {
		return err
	}

	for _, opt := range val.Opts {
		if opt.Is(`query_plan`) {
			return errUnsupported(comp.Dialect, `explain option "query_plan"`)
		}
		if opt.Is(`format`) && !containsFold(postgresFormats, opt.Val.(string)) {
			return ErrInvalidOpt.while(`compiling explain for dialect %q`, comp.Dialect).becausef(`expected format to be one of %q, got %q`, postgresFormats, opt.Val)
		}
	}

	comp.Str(`EXPLAIN `)

	if len(val.Opts) > 0 {
		comp.Str(`(`)
		for i, opt := range val.Opts {
			if i > 0 {
				comp.Str(`, `)
			}
			comp.Text = opt.appendPostgres(comp.Text)
		}
		comp.Str(`) `)
	}

	return comp.Any(val.Stmt)
}

func (postgresRenderer) Asterisk(comp *Compiler, val Asterisk) error {
	return appendAsterisk(comp, val)
}

func (postgresRenderer) TableCols(comp *Compiler, val TableCols) error {
	return appendTableCols(comp, val)
}

func (postgresRenderer) RowToJson(comp *Compiler, val RowToJson) error {
	err := checkType(comp, `row_to_json`, val.Type())
	if err != nil {
		return err
	}
	return appendCall(comp, `row_to_json`, val.Expr)
}

func (postgresRenderer) ArrayAgg(comp *Compiler, val ArrayAgg) error {
	err := checkType(comp, `array_agg`, val.Type())
	if err != nil {
		return err
	}

	if val.Default == nil {
		return appendCall(comp, `array_agg`, val.Expr)
	}

	comp.Str(`coalesce(`)
	err = appendCall(comp, `array_agg`, val.Expr)
	if err != nil {
		return err
	}
	comp.Str(`, `)
	err = comp.Any(val.Default)
	if err != nil {
		return err
	}
	comp.Str(`)`)
	return nil
}

func containsFold(vals []string, val string) bool {
	for _, item := range vals {
		if strings.EqualFold(item, val) {
			return true
		}
	}
	return false
}
