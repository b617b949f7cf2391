package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/language"
)

const appName = "folderplay"

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
)

const (
	defaultCheckpointInterval = 5 * time.Second
	defaultRedisAddr          = "localhost:6379"
	defaultLogLevel           = "info"
	defaultLogMaxSizeMB       = 10
	defaultLogMaxBackups      = 3
)

var ErrUnknownBackend = errors.New("unknown store backend")

type Config struct {
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"` // e.g. "5s"
	CollationLanguage  string        `koanf:"collation_language"`  // BCP 47 tag, default "und"

	Store StoreConfig `koanf:"store"`
	Log   LogConfig   `koanf:"log"`
}

// StoreConfig selects where playlists and checkpoints are kept.
// Playlists always live in SQLite; Backend only moves checkpoints.
type StoreConfig struct {
	Backend       string `koanf:"backend"`   // "sqlite", "bolt" or "redis" (default: "sqlite")
	Path          string `koanf:"path"`      // SQLite file (default: XDG data dir)
	BoltPath      string `koanf:"bolt_path"` // default: next to the SQLite file
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `koanf:"level"` // debug, info, warn, error
	File       string `koanf:"file"`  // empty logs to stderr only
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
}

// Load reads the user config then ./config.toml, later files overriding
// earlier ones. Missing files are skipped.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given config files in order.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if cfg.Store.Path != "" {
		cfg.Store.Path = expandPath(cfg.Store.Path)
	}
	if cfg.Store.BoltPath != "" {
		cfg.Store.BoltPath = expandPath(cfg.Store.BoltPath)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "", BackendSQLite, BackendBolt, BackendRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Store.Backend)
	}
	if c.CollationLanguage != "" {
		if _, err := language.Parse(c.CollationLanguage); err != nil {
			return fmt.Errorf("collation_language: %w", err)
		}
	}
	return nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/folderplay/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetCheckpointInterval returns the checkpoint interval, 5s when unset.
func (c *Config) GetCheckpointInterval() time.Duration {
	if c.CheckpointInterval <= 0 {
		return defaultCheckpointInterval
	}
	return c.CheckpointInterval
}

// GetStoreConfig returns the store configuration with defaults applied.
// Empty paths stay empty: the state package picks the XDG location.
func (c *Config) GetStoreConfig() StoreConfig {
	cfg := c.Store

	if cfg.Backend == "" {
		cfg.Backend = BackendSQLite
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = defaultRedisAddr
	}
	if cfg.RedisDB < 0 {
		cfg.RedisDB = 0
	}

	return cfg
}

// GetLogConfig returns the logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	if cfg.Level == "" {
		cfg.Level = defaultLogLevel
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = defaultLogMaxSizeMB
	}
	if cfg.MaxBackups < 0 {
		cfg.MaxBackups = defaultLogMaxBackups
	}

	return cfg
}
