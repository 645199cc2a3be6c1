package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values.
type Config struct {
	LogLevel       slog.Level
	LogFormat      string
	LogOutput      string
	PatchBinary    string
	PatchDir       string
	PatchTimeout   time.Duration
	PatchRootDepth int
	StopOnFailure  bool
	MaxWorkers     int
	RunConfig      string
}

// SetDefaults registers every key with its default so env vars and bound flags
// resolve through viper.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix("SRCFIX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stderr")
	v.SetDefault("PATCH_BINARY", "patch")
	v.SetDefault("PATCH_DIR", executableDir())
	v.SetDefault("PATCH_TIMEOUT", "60s")
	v.SetDefault("PATCH_ROOT_DEPTH", 2)
	v.SetDefault("STOP_ON_FAILURE", true)
	v.SetDefault("MAX_WORKERS", 4)
	v.SetDefault("RUN_CONFIG", ".srcfix.yml")
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates the result. It uses the Viper library
// to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load builds a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to read .env file", "error", err)
		}
	}

	timeout := v.GetDuration("PATCH_TIMEOUT")
	if timeout <= 0 {
		return nil, fmt.Errorf("PATCH_TIMEOUT must be positive, got %q", v.GetString("PATCH_TIMEOUT"))
	}
	if v.GetInt("PATCH_ROOT_DEPTH") < 0 {
		return nil, fmt.Errorf("PATCH_ROOT_DEPTH must not be negative")
	}
	workers := v.GetInt("MAX_WORKERS")
	if workers < 1 {
		workers = 1
	}
	format := strings.ToLower(v.GetString("LOG_FORMAT"))
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", format)
	}

	return &Config{
		LogLevel:       ParseLevel(v.GetString("LOG_LEVEL")),
		LogFormat:      format,
		LogOutput:      v.GetString("LOG_OUTPUT"),
		PatchBinary:    v.GetString("PATCH_BINARY"),
		PatchDir:       v.GetString("PATCH_DIR"),
		PatchTimeout:   timeout,
		PatchRootDepth: v.GetInt("PATCH_ROOT_DEPTH"),
		StopOnFailure:  v.GetBool("STOP_ON_FAILURE"),
		MaxWorkers:     workers,
		RunConfig:      v.GetString("RUN_CONFIG"),
	}, nil
}

// ParseLevel parses the log level string into a slog.Level type.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unrecognized log level, defaulting to info", "provided", s)
		return slog.LevelInfo
	}
}

// executableDir is where companion diffs ship next to the binary.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
