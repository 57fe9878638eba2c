package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitranim/sqlu"
)

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("dialect: mysql"), 0o644))

	path, err := findConfigFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, tmpFile, path)
}

func TestFindConfigFile_ExplicitPathNotFound(t *testing.T) {
	_, err := findConfigFile("/nonexistent/path/sqlu.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFindConfigFile_AutoDiscovery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	configPath := filepath.Join(root, "sqlu.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("dialect: sqlite"), 0o644))

	nested := filepath.Join(root, "deep", "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	chdir(t, nested)

	path, err := findConfigFile("")
	require.NoError(t, err)

	// Resolve symlinks for comparison (macOS /var -> /private/var)
	expectedPath, _ := filepath.EvalSymlinks(configPath)
	actualPath, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, expectedPath, actualPath)
}

func TestFindConfigFile_StopsAtRepoRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "sqlu.yaml"), []byte("dialect: sqlite"), 0o644))

	repo := filepath.Join(root, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	chdir(t, repo)

	path, err := findConfigFile("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, isolatedDir(t))
	t.Setenv("DATABASE_URL", "")

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, path)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, 30*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "text", cfg.Explain.Output)
	assert.Equal(t, 4, cfg.Explain.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	dialect, err := cfg.ParsedDialect()
	require.NoError(t, err)
	assert.Equal(t, sqlu.Postgres, dialect)
}

func TestLoadConfig_File(t *testing.T) {
	dir := isolatedDir(t)
	chdir(t, dir)

	src := `
dialect: mysql
database:
  url: user:pass@tcp(localhost:3306)/app
  timeout: 5s
explain:
  options:
    - analyze
    - format tree
  output: yaml
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlu.yaml"), []byte(src), 0o644))

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Contains(t, path, "sqlu.yaml")

	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/app", cfg.Database.URL)
	assert.Equal(t, 5*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "yaml", cfg.Explain.Output)
	assert.Equal(t, "debug", cfg.Log.Level)

	opts, err := cfg.ExplainOpts()
	require.NoError(t, err)
	assert.Equal(t, sqlu.ExplainOpts{sqlu.Analyze(true), sqlu.Format("tree")}, opts)
}

func TestLoadConfig_Env(t *testing.T) {
	chdir(t, isolatedDir(t))
	t.Setenv("SQLU_DIALECT", "sqlite")
	t.Setenv("SQLU_EXPLAIN_OUTPUT", "json")
	t.Setenv("DATABASE_URL", "file:test.db")

	cfg, _, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "json", cfg.Explain.Output)
	assert.Equal(t, "file:test.db", cfg.Database.URL)
}

func TestLoadConfig_EnvPrefixWins(t *testing.T) {
	chdir(t, isolatedDir(t))
	t.Setenv("SQLU_DATABASE_URL", "postgres://primary")
	t.Setenv("DATABASE_URL", "postgres://fallback")

	cfg, _, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://primary", cfg.Database.URL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := isolatedDir(t)
	chdir(t, dir)

	for _, src := range []string{
		"dialect: oracle",
		"explain:\n  output: xml",
		"explain:\n  options: ['analyze maybe']",
		"explain:\n  concurrency: -1",
	} {
		path := filepath.Join(dir, "sqlu.yaml")
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

		cfg, _, err := LoadConfig(path)
		require.NoError(t, err, src)
		assert.Error(t, cfg.Validate(), src)
	}
}

func TestLoadConfig_DefersValidation(t *testing.T) {
	chdir(t, isolatedDir(t))
	t.Setenv("SQLU_DIALECT", "oracle")
	t.Setenv("SQLU_EXPLAIN_OUTPUT", "xml")

	cfg, _, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "oracle", cfg.Dialect)
	require.Error(t, cfg.Validate())

	cfg.Dialect = "postgres"
	cfg.Explain.Output = "json"
	assert.NoError(t, cfg.Validate())
}

// isolatedDir returns a temp dir that looks like a repo root, so that config
// discovery never escapes it.
func isolatedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldCwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })
}
