// Package config loads service settings from an optional YAML file, an
// optional .env file and SQL2FRAME_* environment variables, in that order of
// increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/engine"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/fetch"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/dialect"
)

const envPrefix = "SQL2FRAME_"

// DefaultEnvFile is read when present; a missing file is not an error.
const DefaultEnvFile = ".env"

type Config struct {
	ListenAddr string            `yaml:"listenAddr"`
	LogLevel   string            `yaml:"logLevel"`
	Dialect    string            `yaml:"dialect"`
	Engine     EngineConfig      `yaml:"engine"`
	Fetch      FetchConfig       `yaml:"fetch"`
	Load       LoadConfig        `yaml:"load"`
	Tables     map[string]string `yaml:"tables"`
}

type EngineConfig struct {
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	BearerToken string        `yaml:"bearerToken"`
	// TokenHosts receive BearerToken in addition to the hosts of http tables.
	TokenHosts []string `yaml:"tokenHosts"`
}

type LoadConfig struct {
	InferSchemaLength int    `yaml:"inferSchemaLength"`
	Charset           string `yaml:"charset"`
	Delimiter         string `yaml:"delimiter"`
}

func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		LogLevel:   "info",
		Dialect:    "url",
		Engine:     EngineConfig{Backend: string(engine.BackendSQLite)},
		Load:       LoadConfig{InferSchemaLength: frame.DefaultInferSchemaLength},
	}
}

// Load builds the configuration. path names a YAML file and may be empty.
// envFile names a dotenv file; empty means DefaultEnvFile if it exists.
// Variables already set in the process environment win over the file.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	lookup := func(name string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			return v, true
		}
		v, ok := dotenv[envPrefix+name]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readEnvFile(name string) (map[string]string, error) {
	optional := name == ""
	if optional {
		name = DefaultEnvFile
	}
	env, err := godotenv.Read(name)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	return env, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LISTEN_ADDR":  &c.ListenAddr,
		"LOG_LEVEL":    &c.LogLevel,
		"DIALECT":      &c.Dialect,
		"ENGINE":       &c.Engine.Backend,
		"POSTGRES_DSN": &c.Engine.DSN,
		"BEARER_TOKEN": &c.Fetch.BearerToken,
		"CHARSET":      &c.Load.Charset,
		"DELIMITER":    &c.Load.Delimiter,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup("TOKEN_HOSTS"); ok {
		c.Fetch.TokenHosts = nil
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				c.Fetch.TokenHosts = append(c.Fetch.TokenHosts, h)
			}
		}
	}
	if v, ok := lookup("FETCH_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sFETCH_TIMEOUT: %w", envPrefix, err)
		}
		c.Fetch.Timeout = d
	}
	if v, ok := lookup("INFER_SCHEMA_LENGTH"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sINFER_SCHEMA_LENGTH: %w", envPrefix, err)
		}
		c.Load.InferSchemaLength = n
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := dialect.ByName(c.Dialect); err != nil {
		return err
	}
	if _, err := engine.NewAdapter(c.EngineConfig()); err != nil {
		return err
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("config: fetch timeout cannot be negative")
	}
	if c.Load.InferSchemaLength <= 0 {
		return fmt.Errorf("config: inferSchemaLength must be positive, got %d", c.Load.InferSchemaLength)
	}
	if c.Load.Delimiter != "" && utf8.RuneCountInString(c.Load.Delimiter) != 1 {
		return fmt.Errorf("config: delimiter must be a single character, got %q", c.Load.Delimiter)
	}
	return nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	return level, nil
}

func (c *Config) EngineConfig() engine.Config {
	return engine.Config{Backend: engine.Backend(c.Engine.Backend), DSN: c.Engine.DSN}
}

// SQLDialect returns the configured identifier dialect, URL when unset.
func (c *Config) SQLDialect() dialect.Dialect {
	d, err := dialect.ByName(c.Dialect)
	if err != nil {
		return dialect.URL{}
	}
	return d
}

// FetchConfig scopes the bearer token to fetch.tokenHosts and the hosts of
// the http(s) sources in tables.
func (c *Config) FetchConfig() fetch.Config {
	hosts := append([]string(nil), c.Fetch.TokenHosts...)
	for _, source := range c.Tables {
		u, err := url.Parse(source)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	slices.Sort(hosts)
	return fetch.Config{
		Timeout:     c.Fetch.Timeout,
		BearerToken: c.Fetch.BearerToken,
		TokenHosts:  slices.Compact(hosts),
	}
}

func (c *Config) LoadOptions() frame.LoadOptions {
	opts := frame.LoadOptions{InferSchemaLength: c.Load.InferSchemaLength, Charset: c.Load.Charset}
	if c.Load.Delimiter != "" {
		opts.Delimiter, _ = utf8.DecodeRuneInString(c.Load.Delimiter)
	}
	return opts
}
