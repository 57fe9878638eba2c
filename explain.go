package sqlu

import (
	"regexp"
	"strings"
)

/*
Represents an "explain" statement wrapping another statement:

	ExplainOf(`select 1 from article`)
	-> Postgres: `EXPLAIN select 1 from article`

	ExplainOf(sqlb.StrQ{`select * from article where id = $1`, sqlb.List{10}}, Analyze(true), Timing(false))
	-> Postgres: `EXPLAIN (ANALYZE true, TIMING false) select * from article where id = $1`

`.Stmt` may be raw SQL (a string), a `sqlb.Expr` or an `Expr`. Arguments of the
inner statement are preserved. Options render in the order given; see
`ExplainOpts`. Dialects differ in which options they accept; unsupported
options cause `ErrUnsupported`, and the generic dialect doesn't support
"explain" at all.
*/
type Explain struct {
	Stmt any
	Opts ExplainOpts
}

// Shortcut for `Explain{stmt, opts}`.
func ExplainOf(stmt any, opts ...ExplainOpt) Explain {
	return Explain{Stmt: stmt, Opts: opts}
}

/*
Shortcut for "explain analyze". Renders exactly like
`ExplainOf(stmt, Analyze(true), opts...)`. Any "analyze" option among `opts`
is dropped: analysis is forced on.
*/
func ExplainAnalyze(stmt any, opts ...ExplainOpt) Explain {
	out := make(ExplainOpts, 0, len(opts)+1)
	out = append(out, Analyze(true))
	for _, opt := range opts {
		if !opt.Is(`analyze`) {
			out = append(out, opt)
		}
	}
	return Explain{Stmt: stmt, Opts: out}
}

// Implement `Expr`.
func (self Explain) CompileExpr(comp *Compiler) error {
	return comp.Renderer().Explain(comp, self)
}

/*
Single option of an "explain" statement, such as `ANALYZE true`. `.Val` must be
a bool, a string, or nil. Nil renders the bare option name, which Postgres
treats as "true".

The name is matched case-insensitively and rendered upper-cased. Names not
found in `ExplainOptKinds` are passed through as-is, allowing options added by
newer database versions.
*/
type ExplainOpt struct {
	Name string
	Val  any
}

// True if the option has the given name, case-insensitively.
func (self ExplainOpt) Is(name string) bool { return strings.EqualFold(self.Name, name) }

// Returns the lower-cased name, used as the key for `ExplainOptKinds`.
func (self ExplainOpt) Key() string { return strings.ToLower(self.Name) }

// Shortcut for an arbitrary option, including unknown ones.
func Opt(name string, val any) ExplainOpt { return ExplainOpt{name, val} }

func Analyze(val bool) ExplainOpt     { return ExplainOpt{`analyze`, val} }
func Verbose(val bool) ExplainOpt     { return ExplainOpt{`verbose`, val} }
func Costs(val bool) ExplainOpt       { return ExplainOpt{`costs`, val} }
func Settings(val bool) ExplainOpt    { return ExplainOpt{`settings`, val} }
func GenericPlan(val bool) ExplainOpt { return ExplainOpt{`generic_plan`, val} }
func Buffers(val bool) ExplainOpt     { return ExplainOpt{`buffers`, val} }
func Wal(val bool) ExplainOpt         { return ExplainOpt{`wal`, val} }
func Timing(val bool) ExplainOpt      { return ExplainOpt{`timing`, val} }
func Summary(val bool) ExplainOpt     { return ExplainOpt{`summary`, val} }
func Memory(val bool) ExplainOpt      { return ExplainOpt{`memory`, val} }
func Format(val string) ExplainOpt    { return ExplainOpt{`format`, val} }
func Serialize(val string) ExplainOpt { return ExplainOpt{`serialize`, val} }

// SQLite only: renders "EXPLAIN QUERY PLAN" instead of bytecode "EXPLAIN".
func QueryPlan(val bool) ExplainOpt { return ExplainOpt{`query_plan`, val} }

/*
Describes the value syntax of a known "explain" option. Used for validation
when compiling and for typed decoding in `ExplainOpts.ParseSlice`.
*/
type ExplainOptKind byte

const (
	ExplainOptBool ExplainOptKind = iota + 1
	ExplainOptEnum
)

// Known "explain" options and their value kinds.
var ExplainOptKinds = map[string]ExplainOptKind{
	`analyze`:      ExplainOptBool,
	`verbose`:      ExplainOptBool,
	`costs`:        ExplainOptBool,
	`settings`:     ExplainOptBool,
	`generic_plan`: ExplainOptBool,
	`buffers`:      ExplainOptBool,
	`wal`:          ExplainOptBool,
	`timing`:       ExplainOptBool,
	`summary`:      ExplainOptBool,
	`memory`:       ExplainOptBool,
	`query_plan`:   ExplainOptBool,
	`format`:       ExplainOptEnum,
	`serialize`:    ExplainOptEnum,
}

// Allowed values of known enum options, lower case.
var ExplainOptEnums = map[string][]string{
	`format`:    {`text`, `xml`, `json`, `yaml`, `tree`, `traditional`},
	`serialize`: {`none`, `text`, `binary`},
}

// Spellings Postgres accepts for boolean options, besides actual bools.
var explainBoolWords = map[string]bool{
	`true`: true, `on`: true, `1`: true,
	`false`: false, `off`: false, `0`: false,
}

var explainWordReg = regexp.MustCompile(`^\w+$`)

/*
Checks an option regardless of dialect: the name and string values must be
plain words, and known options must have values of their kind. Unknown options
only get the syntactic check.
*/
func (self ExplainOpt) validate() error {
	if !explainWordReg.MatchString(self.Name) {
		return ErrInvalidOpt.while(`validating explain option`).becausef(`malformed option name %q`, self.Name)
	}

	switch val := self.Val.(type) {
	case nil, bool:
	case string:
		if !explainWordReg.MatchString(val) {
			return ErrInvalidOpt.while(`validating explain option %q`, self.Name).becausef(`malformed option value %q`, val)
		}
	default:
		return ErrInvalidOpt.while(`validating explain option %q`, self.Name).becausef(`unsupported value type %T`, val)
	}

	switch ExplainOptKinds[self.Key()] {
	case ExplainOptBool:
		if _, ok := self.boolVal(); !ok {
			return ErrInvalidOpt.while(`validating explain option %q`, self.Name).becausef(`expected boolean, got %#v`, self.Val)
		}
	case ExplainOptEnum:
		val, ok := self.Val.(string)
		if !ok || !containsFold(ExplainOptEnums[self.Key()], val) {
			return ErrInvalidOpt.while(`validating explain option %q`, self.Name).becausef(`expected one of %q, got %#v`, ExplainOptEnums[self.Key()], self.Val)
		}
	}
	return nil
}

/*
Interprets the value as a boolean. Nil means "true", like a bare option name in
Postgres. Strings are accepted in the spellings Postgres accepts.
*/
func (self ExplainOpt) boolVal() (bool, bool) {
	switch val := self.Val.(type) {
	case nil:
		return true, true
	case bool:
		return val, true
	case string:
		out, ok := explainBoolWords[strings.ToLower(val)]
		return out, ok
	default:
		return false, false
	}
}

// Appends `NAME value` as used inside the Postgres option list.
func (self ExplainOpt) appendPostgres(text []byte) []byte {
	text = append(text, strings.ToUpper(self.Name)...)
	switch val := self.Val.(type) {
	case bool:
		if val {
			text = append(text, ` true`...)
		} else {
			text = append(text, ` false`...)
		}
	case string:
		text = append(text, ' ')
		text = append(text, val...)
	}
	return text
}

/*
Validates every option and rejects repeated names. Databases reject redundant
explain options, so repetition is reported while compiling.
*/
func (self ExplainOpts) validate() error {
	for i, opt := range self {
		err := opt.validate()
		if err != nil {
			return err
		}
		for _, prev := range self[:i] {
			if prev.Is(opt.Name) {
				return ErrInvalidOpt.while(`validating explain options`).becausef(`duplicate option %q`, opt.Name)
			}
		}
	}
	return nil
}
