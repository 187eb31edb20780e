package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the loader binaries.
type Config struct {
	Graph   GraphConfig
	Loader  LoaderConfig
	Logging LoggingConfig
}

// GraphConfig describes connectivity to the graph database (Neo4j/Neptune).
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoaderConfig bounds the bulk-load run.
type LoaderConfig struct {
	Workers int
	Timeout time.Duration
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "text"
	defaultGraphSessions = 10
	defaultLoadWorkers   = 4
	defaultLoadTimeout   = 30 * time.Minute
)

// Load reads configuration from CHAINSYNTH_* environment variables, applying
// defaults. A .env file in the working directory is merged first when present;
// variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Graph: GraphConfig{
			URI:            os.Getenv("CHAINSYNTH_GRAPH_URI"),
			Database:       os.Getenv("CHAINSYNTH_GRAPH_DATABASE"),
			Username:       os.Getenv("CHAINSYNTH_GRAPH_USERNAME"),
			Password:       os.Getenv("CHAINSYNTH_GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("CHAINSYNTH_GRAPH_MAX_CONNECTIONS", defaultGraphSessions),
		},
		Loader: LoaderConfig{
			Workers: parseIntWithDefault("CHAINSYNTH_LOAD_WORKERS", defaultLoadWorkers),
			Timeout: defaultLoadTimeout,
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("CHAINSYNTH_LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("CHAINSYNTH_LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("CHAINSYNTH_LOG_INCLUDE_CALLER", false),
		},
	}

	if v := os.Getenv("CHAINSYNTH_LOAD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHAINSYNTH_LOAD_TIMEOUT: %w", err)
		}
		cfg.Loader.Timeout = d
	}
	if cfg.Loader.Workers < 1 {
		return Config{}, fmt.Errorf("CHAINSYNTH_LOAD_WORKERS must be >= 1, got %d", cfg.Loader.Workers)
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
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
