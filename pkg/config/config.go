// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/sociomatch/pkg/request"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP       HTTPConfig
	Logging    LoggingConfig
	Limits     request.Limits
	Workers    int           // Concurrent scorers per request
	CacheTTL   time.Duration // Zero disables response caching
	TablesFile string        // Optional YAML nickname/location extensions
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // text|json
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
	defaultWorkers         = 4
	defaultCacheTTL        = 5 * time.Minute
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	limits := request.DefaultLimits()
	cfg := Config{
		HTTP: HTTPConfig{
			Host: valueOrDefault("SOCIOMATCH_HOST", defaultHost),
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format: valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
		},
		Limits: request.Limits{
			MaxProfiles:  parseIntWithDefault("SOCIOMATCH_MAX_PROFILES", limits.MaxProfiles),
			MaxFieldLen:  parseIntWithDefault("SOCIOMATCH_MAX_FIELD_LEN", limits.MaxFieldLen),
			MaxBodyBytes: int64(parseIntWithDefault("SOCIOMATCH_MAX_BODY_BYTES", int(limits.MaxBodyBytes))),
		},
		Workers:    parseIntWithDefault("SOCIOMATCH_WORKERS", defaultWorkers),
		TablesFile: os.Getenv("SOCIOMATCH_TABLES_FILE"),
	}

	port, err := parsePort("SOCIOMATCH_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		dst      *time.Duration
		fallback time.Duration
	}{
		{"SOCIOMATCH_READ_TIMEOUT", &cfg.HTTP.ReadTimeout, defaultReadTimeout},
		{"SOCIOMATCH_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout, defaultWriteTimeout},
		{"SOCIOMATCH_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout, defaultIdleTimeout},
		{"SOCIOMATCH_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout, defaultShutdownTimeout},
		{"SOCIOMATCH_CACHE_TTL", &cfg.CacheTTL, defaultCacheTTL},
	}
	for _, d := range durations {
		v, err := parseDuration(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = v
	}

	if cfg.Limits.MaxProfiles <= 0 {
		return Config{}, fmt.Errorf("SOCIOMATCH_MAX_PROFILES must be positive, got %d", cfg.Limits.MaxProfiles)
	}
	if cfg.Limits.MaxFieldLen <= 0 {
		return Config{}, fmt.Errorf("SOCIOMATCH_MAX_FIELD_LEN must be positive, got %d", cfg.Limits.MaxFieldLen)
	}
	if cfg.Limits.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("SOCIOMATCH_MAX_BODY_BYTES must be positive, got %d", cfg.Limits.MaxBodyBytes)
	}

	return cfg, nil
}

// NewLogger builds a slog.Logger writing to stderr according to cfg.
func NewLogger(cfg LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
