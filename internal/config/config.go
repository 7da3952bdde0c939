// Package config loads layered configuration for the todo core: defaults,
// an optional YAML config file, TODOVAULT_* environment variables, and a
// best-effort .env preload. It also owns blob-store backend selection.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/evanharte/todovault/store"
)

const envPrefix = "TODOVAULT"

// StorageConfig selects and parameterizes the blob-store backend.
type StorageConfig struct {
	Backend    string // file, sqlite, or memory
	Dir        string // file backend base directory
	SQLitePath string // sqlite backend database path
	PrimaryKey string
	BackupKey  string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Config is a materialized view of the active settings.
type Config struct {
	Storage StorageConfig
	Log     LogConfig

	v *viper.Viper
}

// Load builds the configuration. path may be empty, in which case only
// defaults, .env, and environment variables apply.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", ".todovault")
	v.SetDefault("storage.sqlite_path", filepath.Join(".todovault", "todovault.db"))
	v.SetDefault("storage.primary_key", "todovault.items")
	v.SetDefault("storage.backup_key", "todovault.backup")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{v: v}
	cfg.refresh()
	return cfg, nil
}

func (c *Config) refresh() {
	c.Storage = StorageConfig{
		Backend:    c.v.GetString("storage.backend"),
		Dir:        c.v.GetString("storage.dir"),
		SQLitePath: c.v.GetString("storage.sqlite_path"),
		PrimaryKey: c.v.GetString("storage.primary_key"),
		BackupKey:  c.v.GetString("storage.backup_key"),
	}
	c.Log = LogConfig{Level: c.v.GetString("log.level")}
}

// Watch re-reads the config file on change and invokes fn with the refreshed
// view. It is a no-op when no config file was loaded.
func (c *Config) Watch(fn func(*Config)) {
	if c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(_ fsnotify.Event) {
		c.refresh()
		if fn != nil {
			fn(c)
		}
	})
	c.v.WatchConfig()
}

// LogLevel maps the configured level string onto slog.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// OpenStore opens the blob store selected by the configuration.
func OpenStore(cfg *Config) (store.BlobStore, error) {
	switch cfg.Storage.Backend {
	case "file", "":
		return store.NewFileStore(cfg.Storage.Dir)
	case "sqlite":
		return store.NewSQLiteStore(cfg.Storage.SQLitePath)
	case "memory":
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
}
