package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SOCIOMATCH_HOST", "SOCIOMATCH_PORT", "SOCIOMATCH_MAX_PROFILES", "SOCIOMATCH_WORKERS",
		"SOCIOMATCH_CACHE_TTL", "SOCIOMATCH_TABLES_FILE", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 20, cfg.Limits.MaxProfiles)
	assert.Equal(t, 10_000, cfg.Limits.MaxFieldLen)
	assert.Equal(t, int64(1<<20), cfg.Limits.MaxBodyBytes)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.TablesFile)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SOCIOMATCH_HOST", "127.0.0.1")
	t.Setenv("SOCIOMATCH_PORT", "9090")
	t.Setenv("SOCIOMATCH_MAX_PROFILES", "5")
	t.Setenv("SOCIOMATCH_WORKERS", "8")
	t.Setenv("SOCIOMATCH_CACHE_TTL", "0s")
	t.Setenv("SOCIOMATCH_READ_TIMEOUT", "3s")
	t.Setenv("SOCIOMATCH_TABLES_FILE", "/etc/sociomatch/tables.yaml")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr())
	assert.Equal(t, 5, cfg.Limits.MaxProfiles)
	assert.Equal(t, 8, cfg.Workers)
	assert.Zero(t, cfg.CacheTTL)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "/etc/sociomatch/tables.yaml", cfg.TablesFile)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"SOCIOMATCH_PORT", "http", "invalid SOCIOMATCH_PORT"},
		{"SOCIOMATCH_PORT", "70000", "out of range"},
		{"SOCIOMATCH_CACHE_TTL", "soon", "invalid SOCIOMATCH_CACHE_TTL"},
		{"SOCIOMATCH_MAX_PROFILES", "0", "SOCIOMATCH_MAX_PROFILES must be positive"},
		{"SOCIOMATCH_MAX_BODY_BYTES", "-1", "SOCIOMATCH_MAX_BODY_BYTES must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
