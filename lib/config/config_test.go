package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/engine"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/dialect"
)

var envNames = []string{
	"LISTEN_ADDR", "LOG_LEVEL", "ENGINE", "POSTGRES_DSN", "BEARER_TOKEN",
	"CHARSET", "DELIMITER", "FETCH_TIMEOUT", "INFER_SCHEMA_LENGTH",
	"DIALECT", "TOKEN_HOSTS",
}

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envNames {
		key := envPrefix + name
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, engine.Config{Backend: engine.BackendSQLite}, cfg.EngineConfig())
	assert.Equal(t, time.Duration(0), cfg.FetchConfig().Timeout)
	assert.Equal(t, frame.LoadOptions{InferSchemaLength: 16}, cfg.LoadOptions())
	assert.Equal(t, dialect.URL{}, cfg.SQLDialect())
	assert.Empty(t, cfg.FetchConfig().TokenHosts)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
listenAddr: ":9090"
logLevel: debug
dialect: generic
engine:
  backend: postgres
  dsn: postgres://user@localhost/db
fetch:
  timeout: 15s
  bearerToken: secret
  tokenHosts: [files.example.org]
load:
  inferSchemaLength: 100
  charset: windows-1252
  delimiter: ";"
tables:
  covid: https://example.com/covid.csv
  local: file:///tmp/covid.csv
`)
	cfg, err := Load(path, writeFile(t, "empty.env", ""))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, engine.Config{Backend: engine.BackendPostgres, DSN: "postgres://user@localhost/db"}, cfg.EngineConfig())
	assert.Equal(t, 15*time.Second, cfg.FetchConfig().Timeout)
	assert.Equal(t, "secret", cfg.FetchConfig().BearerToken)
	assert.Equal(t, frame.LoadOptions{InferSchemaLength: 100, Charset: "windows-1252", Delimiter: ';'}, cfg.LoadOptions())
	assert.Equal(t, []string{"example.com", "files.example.org"}, cfg.FetchConfig().TokenHosts)
	assert.Equal(t, dialect.Generic{}, cfg.SQLDialect())
	assert.Equal(t, map[string]string{"covid": "https://example.com/covid.csv", "local": "file:///tmp/covid.csv"}, cfg.Tables)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "listenAddr: \":9090\"\nlogLevel: warn\n")
	envFile := writeFile(t, "test.env", "SQL2FRAME_LISTEN_ADDR=:7070\nSQL2FRAME_FETCH_TIMEOUT=2s\nSQL2FRAME_LOG_LEVEL=error\n")
	t.Setenv(envPrefix+"LOG_LEVEL", "debug")
	t.Setenv(envPrefix+"INFER_SCHEMA_LENGTH", "4")

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, 2*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Load.InferSchemaLength)
}

func TestFetchConfigTokenHosts(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
fetch:
  bearerToken: secret
  tokenHosts: [a.example.com]
tables:
  one: https://data.example.com/one.csv
  two: http://data.example.com/two.csv
  three: HTTPS://api.example.com:8443/three.csv
  local: file:///tmp/four.csv
  bare: covid.csv
`)
	t.Setenv(envPrefix+"TOKEN_HOSTS", " b.example.com, ,c.example.com")

	cfg, err := Load(path, writeFile(t, "empty.env", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"b.example.com", "c.example.com"}, cfg.Fetch.TokenHosts)

	fc := cfg.FetchConfig()
	assert.Equal(t, "secret", fc.BearerToken)
	assert.Equal(t, []string{"api.example.com:8443", "b.example.com", "c.example.com", "data.example.com"}, fc.TokenHosts)
}

func TestLoadErrors(t *testing.T) {
	emptyEnv := writeFile(t, "empty.env", "")
	cases := []struct {
		name string
		yaml string
		env  map[string]string
		msg  string
	}{
		{
			name: "unknown field",
			yaml: "listen: \":1\"\n",
			msg:  "failed to parse config file: yaml: unmarshal errors:\n  line 1: field listen not found in type config.Config",
		},
		{
			name: "log level",
			yaml: "logLevel: loud\n",
			msg:  `config: invalid log level "loud"`,
		},
		{
			name: "backend",
			env:  map[string]string{"ENGINE": "duckdb"},
			msg:  `engine: unknown backend "duckdb"`,
		},
		{
			name: "postgres without dsn",
			yaml: "engine:\n  backend: postgres\n",
			msg:  "engine: postgres backend requires a DSN",
		},
		{
			name: "dialect",
			yaml: "dialect: mysql\n",
			msg:  `dialect: unknown dialect "mysql"`,
		},
		{
			name: "timeout",
			env:  map[string]string{"FETCH_TIMEOUT": "soon"},
			msg:  `invalid SQL2FRAME_FETCH_TIMEOUT: time: invalid duration "soon"`,
		},
		{
			name: "negative timeout",
			yaml: "fetch:\n  timeout: -1s\n",
			msg:  "config: fetch timeout cannot be negative",
		},
		{
			name: "infer length",
			env:  map[string]string{"INFER_SCHEMA_LENGTH": "0"},
			msg:  "config: inferSchemaLength must be positive, got 0",
		},
		{
			name: "delimiter",
			yaml: "load:\n  delimiter: \"||\"\n",
			msg:  `config: delimiter must be a single character, got "||"`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(envPrefix+k, v)
			}
			path := ""
			if tc.yaml != "" {
				path = writeFile(t, "config.yaml", tc.yaml)
			}
			_, err := Load(path, emptyEnv)
			assert.EqualError(t, err, tc.msg)
		})
	}
}

func TestLoadMissingFiles(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
