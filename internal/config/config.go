package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Storage configuration
	Storage StorageConfig `yaml:"storage"`

	// Log configuration
	Log LogConfig `yaml:"log"`
}

type StorageConfig struct {
	Type        string `yaml:"type"` // "postgres", "sqlite"
	PostgresDSN string `yaml:"postgres_dsn"`
	LocalPath   string `yaml:"local_path"`
}

type LogConfig struct {
	Level      string `yaml:"level"` // "debug", "info", "warn", "error"
	File       string `yaml:"file"`  // empty = stdout only
	JSONFormat bool   `yaml:"json_format"`
}

// Load reads configuration from the given file, falling back to the default
// location and then to defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("storage.type", "sqlite")
	v.SetDefault("storage.local_path", defaultDBPath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json_format", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".archmeta")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".archmeta"))
		}
	}

	v.SetEnvPrefix("ARCHMETA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Storage: StorageConfig{
			Type:        v.GetString("storage.type"),
			PostgresDSN: v.GetString("storage.postgres_dsn"),
			LocalPath:   v.GetString("storage.local_path"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			File:       v.GetString("log.file"),
			JSONFormat: v.GetBool("log.json_format"),
		},
	}

	// DSN may come from the environment only (never committed to a file).
	if dsn := os.Getenv("ARCHMETA_POSTGRES_DSN"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Type:      "sqlite",
			LocalPath: defaultDBPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("storage.local_path is required for sqlite storage")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn (or ARCHMETA_POSTGRES_DSN) is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}
	return nil
}

func defaultDBPath() string {
	return filepath.Join(".archmeta", "archmeta.db")
}
