package sqlu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
Ordered list of "explain" options. Order is significant: options render in
exactly this order. For this reason options are a slice of pairs rather than a
map.

Besides constructing options in Go, they can be decoded from external input,
such as command line flags, config files, or URL queries:

	var opts ExplainOpts

	err := opts.ParseSlice([]string{`analyze`, `timing false`, `format json`})
	panic(err)

	err = opts.UnmarshalText([]byte(`analyze, timing false, format json`))
	panic(err)

	err = json.Unmarshal([]byte(`{"analyze": true, "timing": false, "format": "json"}`), &opts)
	panic(err)

All three produce the equivalent of:

	ExplainOpts{Analyze(true), Timing(false), Format(`json`)}

Values of options listed in `ExplainOptKinds` are decoded according to their
kind. Unknown options are passed through: "true" and "false" become bools, and
other words stay strings.
*/
type ExplainOpts []ExplainOpt

// Convenience method for appending options.
func (self *ExplainOpts) Append(items ...ExplainOpt) { *self = append(*self, items...) }

// Returns the first option with the given name, case-insensitively.
func (self ExplainOpts) Get(name string) (ExplainOpt, bool) {
	for _, opt := range self {
		if opt.Is(name) {
			return opt, true
		}
	}
	return ExplainOpt{}, false
}

// True if there are no options.
func (self ExplainOpts) IsEmpty() bool { return len(self) == 0 }

/*
Convenience method for parsing string slices, which may come from URL queries,
flags, and so on. Each item must look like "<name>" or "<name> <value>".
Replaces any previous content.
*/
func (self *ExplainOpts) ParseSlice(vals []string) error {
	out := make(ExplainOpts, 0, len(vals))

	for _, val := range vals {
		opt, err := parseExplainOpt(val)
		if err != nil {
			return err
		}
		out = append(out, opt)
	}

	*self = out
	return nil
}

/*
Implement `encoding.TextUnmarshaler`. Decodes a comma-separated list such as
"analyze, format json". Empty input produces empty options.
*/
func (self *ExplainOpts) UnmarshalText(input []byte) error {
	src := strings.TrimSpace(string(input))
	if src == `` {
		*self = nil
		return nil
	}
	return self.ParseSlice(strings.Split(src, `,`))
}

/*
Implement decoding from JSON. Accepts either a list of strings, decoded like
`.ParseSlice`, or an object whose keys are option names. Object key order is
preserved.
*/
func (self *ExplainOpts) UnmarshalJSON(input []byte) error {
	if isJsonList(input) {
		var vals []string
		err := json.Unmarshal(input, &vals)
		if err != nil {
			return fmt.Errorf(`[sqlu] failed to unmarshal explain options as JSON list: %w`, err)
		}
		return self.ParseSlice(vals)
	}
	if isJsonDict(input) {
		return self.decodeDict(input)
	}
	if isJsonNull(input) {
		*self = nil
		return nil
	}
	return fmt.Errorf(`[sqlu] expected explain options as JSON list or dict, got %q`, input)
}

func (self *ExplainOpts) decodeDict(input []byte) (err error) {
	defer rec(&err)

	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()

	// Opening brace.
	_, err = dec.Token()
	try(err)

	var out ExplainOpts
	for dec.More() {
		tok, err := dec.Token()
		try(err)

		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf(`[sqlu] expected explain option name, got %v`, tok)
		}

		var val any
		try(dec.Decode(&val))

		opt, err := explainOptFromJson(name, val)
		try(err)
		out = append(out, opt)
	}

	*self = out
	return nil
}

var explainOptReg = regexp.MustCompile(`^\s*(\w+)(?:\s+(\w+))?\s*$`)

func parseExplainOpt(src string) (ExplainOpt, error) {
	match := explainOptReg.FindStringSubmatch(src)
	if match == nil {
		return ExplainOpt{}, fmt.Errorf(`[sqlu] %q is not a valid explain option; expected format: "<name> [<value>]"`, src)
	}

	name, val := match[1], match[2]
	if val == `` {
		return bareExplainOpt(name), nil
	}
	return explainOptFromWord(name, val)
}

// Bare names of known boolean options mean "true", like in Postgres.
func bareExplainOpt(name string) ExplainOpt {
	if ExplainOptKinds[strings.ToLower(name)] == ExplainOptBool {
		return ExplainOpt{name, true}
	}
	return ExplainOpt{name, nil}
}

func explainOptFromWord(name, val string) (ExplainOpt, error) {
	if !explainWordReg.MatchString(val) {
		return ExplainOpt{}, fmt.Errorf(`[sqlu] explain option %q expects a single word value, got %q`, name, val)
	}

	switch ExplainOptKinds[strings.ToLower(name)] {
	case ExplainOptBool:
		out, ok := explainBoolWords[strings.ToLower(val)]
		if !ok {
			parsed, err := strconv.ParseBool(val)
			if err != nil {
				return ExplainOpt{}, fmt.Errorf(`[sqlu] explain option %q expects a boolean, got %q`, name, val)
			}
			out = parsed
		}
		return ExplainOpt{name, out}, nil

	case ExplainOptEnum:
		return ExplainOpt{name, strings.ToLower(val)}, nil

	default:
		switch strings.ToLower(val) {
		case `true`:
			return ExplainOpt{name, true}, nil
		case `false`:
			return ExplainOpt{name, false}, nil
		}
		return ExplainOpt{name, val}, nil
	}
}

func explainOptFromJson(name string, val any) (ExplainOpt, error) {
	switch val := val.(type) {
	case nil:
		return bareExplainOpt(name), nil
	case bool:
		if ExplainOptKinds[strings.ToLower(name)] == ExplainOptEnum {
			return ExplainOpt{}, fmt.Errorf(`[sqlu] explain option %q expects a string, got %v`, name, val)
		}
		return ExplainOpt{name, val}, nil
	case string:
		return explainOptFromWord(name, val)
	case json.Number:
		return explainOptFromWord(name, val.String())
	default:
		return ExplainOpt{}, fmt.Errorf(`[sqlu] unsupported value %v for explain option %q`, val, name)
	}
}
