// Package config loads daemon configuration from file and environment
// and constructs the root logger.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config stores all configuration of the daemon. The values are read
// by viper from a config file or environment variables.
type Config struct {
	// DataDir is the absolute root under which the four databases and
	// the resource store live.
	DataDir string `mapstructure:"dataDir"`
	// Workers caps the indexing pool.
	Workers int `mapstructure:"workers"`
	// UnitCacheSize bounds the number of retained translation units.
	UnitCacheSize int `mapstructure:"unitCacheSize"`
	// WatchDirs are directories watched for source changes.
	WatchDirs []string `mapstructure:"watchDirs"`
	LogLevel  string   `mapstructure:"logLevel"`
}

// ResourcePath is where the per-file information records live.
func (c *Config) ResourcePath() string {
	return filepath.Join(c.DataDir, "resources.db")
}

// Load reads configuration from configPath, or from rtagsd.yaml in the
// usual locations when empty. Environment variables prefixed RTAGS_
// override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "rtags"))
		}
		v.SetConfigName("rtagsd")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("RTAGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("dataDir", defaultDataDir())
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("unitCacheSize", 4*runtime.NumCPU())
	v.SetDefault("logLevel", "info")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env carry it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	abs, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("config: data dir: %w", err)
	}
	cfg.DataDir = abs

	return &cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rtags"
	}
	return filepath.Join(home, ".rtags")
}

// NewLogger builds the root logger: console output on a terminal, JSON
// otherwise.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if isatty.IsTerminal(os.Stderr.Fd()) {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}
