package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.NotEmpty(t, cfg.Database)
	assert.Zero(t, cfg.Debounce())
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
backend: redis
redis:
  addr: cache:6379
  db: 2
  prefix: "me:"
debounce_ms: 250
reset_clears_congratulated: true
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "me:", cfg.Redis.Prefix)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce())
	assert.True(t, cfg.ResetClearsCongratulated)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "backnd: sqlite\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backnd")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "backend: sqlite\ndatabase: /tmp/a.db\n")
	t.Setenv("STREAKS_BACKEND", "memory")
	t.Setenv("STREAKS_DB", "/tmp/b.db")
	t.Setenv("STREAKS_DEBOUNCE_MS", "40")
	t.Setenv("STREAKS_REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "/tmp/b.db", cfg.Database)
	assert.Equal(t, 40, cfg.DebounceMS)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Setenv("STREAKS_DEBOUNCE_MS", "soon")
	_, err := Load(writeConfig(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STREAKS_DEBOUNCE_MS")
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "postgres" }},
		{"sqlite without database", func(c *Config) { c.Database = "" }},
		{"redis without addr", func(c *Config) { c.Backend = BackendRedis; c.Redis.Addr = "" }},
		{"negative debounce", func(c *Config) { c.DebounceMS = -1 }},
		{"huge debounce", func(c *Config) { c.DebounceMS = 120000 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"redis db out of range", func(c *Config) { c.Redis.DB = 16 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestValidate_MemoryNeedsNoDatabase(t *testing.T) {
	cfg := Default()
	cfg.Backend = BackendMemory
	cfg.Database = ""
	assert.NoError(t, cfg.Validate())
}
