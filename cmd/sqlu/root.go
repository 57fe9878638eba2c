package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mitranim/sqlu"
	"github.com/mitranim/sqlu/internal/cli"
)

// state is shared by all commands and populated in PersistentPreRunE.
type state struct {
	cfg        *cli.Config
	configPath string
	dialect    sqlu.Dialect
	log        zerolog.Logger

	// Persistent flags
	cfgFile   string
	dialectF  string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	st := &state{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "sqlu",
		Short: "Dialect-aware EXPLAIN for SQL statements",
		Long: `sqlu - dialect-aware EXPLAIN for SQL statements

sqlu compiles statements into the EXPLAIN syntax of PostgreSQL, MySQL or
SQLite, optionally executes them, and prints the resulting query plans.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
				return nil
			}
			return st.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&st.cfgFile, "config", "", "config file (default: auto-discover sqlu.yaml)")
	flags.StringVarP(&st.dialectF, "dialect", "d", "", "SQL dialect: postgres, mysql or sqlite")
	flags.StringVar(&st.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&st.logFormat, "log-format", "", "log format: console or json")

	cmd.AddCommand(newRenderCmd(st))
	cmd.AddCommand(newExplainCmd(st))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// load reads the configuration, merges flags into it and validates the result:
// flags > env > config file > defaults.
func (st *state) load(cmd *cobra.Command) error {
	cfg, configPath, err := cli.LoadConfig(st.cfgFile)
	if err != nil {
		return cli.ConfigError("loading configuration", err)
	}
	st.cfg, st.configPath = cfg, configPath

	st.mergeFlags(cmd)

	if err := cfg.Validate(); err != nil {
		return cli.ConfigError("validating configuration", err)
	}

	st.dialect, err = cfg.ParsedDialect()
	if err != nil {
		return cli.ConfigError("resolving dialect", err)
	}

	st.log, err = cli.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return cli.ConfigError("configuring logging", err)
	}

	st.log.Debug().
		Str("config", configPath).
		Str("dialect", st.dialect.String()).
		Msg("configuration loaded")
	return nil
}

// mergeFlags overrides config values with the flags given on the command line.
// Subcommand flags are looked up by name since not every command defines them.
func (st *state) mergeFlags(cmd *cobra.Command) {
	cfg := st.cfg
	cfg.Dialect = resolveString(st.dialectF, cfg.Dialect)
	cfg.Log.Level = resolveString(st.logLevel, cfg.Log.Level)
	cfg.Log.Format = resolveString(st.logFormat, cfg.Log.Format)

	flags := cmd.Flags()
	if flags.Changed("opt") {
		cfg.Explain.Options, _ = flags.GetStringArray("opt")
	}
	if flags.Changed("output") {
		cfg.Explain.Output, _ = flags.GetString("output")
	}
	if flags.Changed("concurrency") {
		cfg.Explain.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("dsn") {
		cfg.Database.URL, _ = flags.GetString("dsn")
	}
}

// explainOpts parses the merged explain options.
func (st *state) explainOpts() (sqlu.ExplainOpts, error) {
	opts, err := st.cfg.ExplainOpts()
	if err != nil {
		return nil, cli.ConfigError("parsing explain options", err)
	}
	return opts, nil
}

// readStatements returns the arguments, or the whole of stdin as a single
// statement when there are none.
func readStatements(in io.Reader, args []string) ([]any, error) {
	var stmts []any

	if len(args) == 0 {
		src, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		args = []string{string(src)}
	}

	for _, arg := range args {
		arg = strings.TrimSuffix(strings.TrimSpace(arg), ";")
		if arg == "" {
			continue
		}
		stmts = append(stmts, arg)
	}

	if len(stmts) == 0 {
		return nil, cli.GeneralError("reading statements", fmt.Errorf("no SQL statements given"))
	}
	return stmts, nil
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
