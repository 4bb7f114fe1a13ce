package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Catalog CatalogConfig
	Log     LogConfig
}

// CatalogConfig holds storage settings.
type CatalogConfig struct {
	// Path is a catalog file to open at startup. Empty means a scratch
	// in-memory catalog.
	Path string
}

// LogConfig holds logging settings. The TUI owns the terminal, so logs go
// to a file.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix
// SKETCHBOOK_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("catalog.path", "")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "sketchbook", "sketchbook.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SKETCHBOOK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "sketchbook"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SKETCHBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// SlogLevel maps the configured level name to a slog level, defaulting to
// info for anything unrecognized.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
