// Package config loads the streaks configuration: an optional YAML file,
// then environment overrides, validated against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// RedisConfig locates the Redis server used by the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Config is the resolved CLI configuration: file values, then environment
// overrides, then flags.
type Config struct {
	Backend                  string      `yaml:"backend" json:"backend"`
	Database                 string      `yaml:"database" json:"database"`
	Redis                    RedisConfig `yaml:"redis" json:"redis"`
	DebounceMS               int         `yaml:"debounce_ms" json:"debounce_ms"`
	ResetClearsCongratulated bool        `yaml:"reset_clears_congratulated" json:"reset_clears_congratulated"`
	MetricsFile              string      `yaml:"metrics_file" json:"metrics_file"`
	LogLevel                 string      `yaml:"log_level" json:"log_level"`
}

// Debounce returns the persistence quiet period; zero disables batching.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Default returns the built-in configuration: SQLite under the user data
// directory, no debounce, warn-level logging.
func Default() *Config {
	return &Config{
		Backend:  BackendSQLite,
		Database: defaultDatabasePath(),
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "streaks:",
		},
		LogLevel: "warn",
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "streaks.yaml"
	}
	return filepath.Join(dir, "streaks", "config.yaml")
}

func defaultDatabasePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "streaks", "streaks.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "streaks.db"
	}
	return filepath.Join(home, ".local", "share", "streaks", "streaks.db")
}

// Load reads path (or DefaultPath when empty) over the defaults, applies
// environment overrides and validates the result. A missing file is only an
// error when path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode parses YAML with strict field checking so typos surface early.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty file keeps the defaults.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func overrideFromEnv(cfg *Config) error {
	if v := os.Getenv("STREAKS_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("STREAKS_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("STREAKS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("STREAKS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("STREAKS_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STREAKS_REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v := os.Getenv("STREAKS_DEBOUNCE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STREAKS_DEBOUNCE_MS: %w", err)
		}
		cfg.DebounceMS = n
	}
	if v := os.Getenv("STREAKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate unifies the config with the #Config schema and requires every
// field to be concrete.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	unified := def.Unify(ctx.Encode(c))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", cueerrors.Details(err, nil))
	}
	return nil
}
