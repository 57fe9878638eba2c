package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mitranim/sqlu"
)

const (
	maxWalkDepth = 25
)

// Config represents the sqlu configuration from sqlu.yaml.
type Config struct {
	// Target dialect, see sqlu.ParseDialect.
	Dialect string `mapstructure:"dialect" json:"dialect"`

	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Explain  ExplainConfig  `mapstructure:"explain" json:"explain"`
	Log      LogConfig      `mapstructure:"log" json:"log"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	URL     string        `mapstructure:"url" json:"url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// ExplainConfig holds defaults for the explain and render commands.
type ExplainConfig struct {
	// Options in the form "<name> [<value>]", see sqlu.ExplainOpts.ParseSlice.
	Options     []string `mapstructure:"options" json:"options"`
	Output      string   `mapstructure:"output" json:"output"`
	Concurrency int      `mapstructure:"concurrency" json:"concurrency"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// LoadConfig discovers and loads configuration with precedence
// env > config file > defaults. Flags are merged by the caller, which then
// calls Validate.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SQLU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The conventional variable is honored as a fallback.
	if err := v.BindEnv("database.url", "SQLU_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, "", fmt.Errorf("binding environment: %w", err)
	}

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dialect", "postgres")

	v.SetDefault("database.url", "")
	v.SetDefault("database.timeout", 30*time.Second)

	v.SetDefault("explain.options", []string{})
	v.SetDefault("explain.output", "text")
	v.SetDefault("explain.concurrency", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks the values that can be checked without a database.
func (c *Config) Validate() error {
	if _, err := c.ParsedDialect(); err != nil {
		return err
	}
	if _, err := c.ExplainOpts(); err != nil {
		return err
	}
	if !isOutputFormat(c.Explain.Output) {
		return fmt.Errorf("unknown output format %q, expected one of %q", c.Explain.Output, OutputFormats)
	}
	if c.Explain.Concurrency < 0 {
		return fmt.Errorf("explain.concurrency must not be negative, got %d", c.Explain.Concurrency)
	}
	return nil
}

// ParsedDialect returns the configured dialect.
func (c *Config) ParsedDialect() (sqlu.Dialect, error) {
	return sqlu.ParseDialect(c.Dialect)
}

// ExplainOpts returns the configured explain options.
func (c *Config) ExplainOpts() (sqlu.ExplainOpts, error) {
	var opts sqlu.ExplainOpts
	if err := opts.ParseSlice(c.Explain.Options); err != nil {
		return nil, err
	}
	return opts, nil
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for sqlu.yaml or sqlu.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"sqlu.yaml", "sqlu.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Stop at the repo root.
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}
