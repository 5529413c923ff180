// Package config loads habitmosaic settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/habitmosaic/config.toml
//  3. HABITMOSAIC_* environment variables, optionally read from a .env
//     file in the working directory
//
// Example config.toml:
//
//	[render]
//	width = 400
//	height = 400
//
//	[store]
//	backend = "sqlite"
//	path = "~/.local/share/habitmosaic/chains.db"
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// AppName is used for config, data and cache directory names.
const AppName = "habitmosaic"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HABITMOSAIC_"

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMongo    = "mongo"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the complete application configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig holds mosaic defaults.
type RenderConfig struct {
	Width          float64  `toml:"width"`
	Height         float64  `toml:"height"`
	MinSizePercent float64  `toml:"min_size_percent"`
	MaxSizePercent float64  `toml:"max_size_percent"`
	Formats        []string `toml:"formats"`
	DayNumbers     bool     `toml:"day_numbers"`
}

// StoreConfig selects and configures the chain store.
type StoreConfig struct {
	Backend string `toml:"backend"`

	// Path is the directory (file) or database file (sqlite).
	Path string `toml:"path"`

	// URL is the connection string for postgres, redis and mongo.
	URL string `toml:"url"`

	// Database names the mongo database or the redis hash key.
	Database string `toml:"database"`
}

// CacheConfig selects and configures the render cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	URL     string `toml:"url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	AllowOrigin     string   `toml:"allow_origin"`
}

// Duration is a time.Duration that decodes from TOML strings like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Width:          300,
			Height:         300,
			MinSizePercent: 90,
			MaxSizePercent: 110,
			Formats:        []string{"svg"},
		},
		Store: StoreConfig{
			Backend: StoreFile,
			Path:    filepath.Join(dataHome(), AppName, "chains"),
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Path:    filepath.Join(cacheHome(), AppName),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(configHome(), AppName, "config.toml")
}

// Load builds the configuration from defaults, the TOML file at path and
// the environment. An empty path means [DefaultPath]; a missing default
// file is not an error, a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	cfg.expandPaths()
	return cfg, cfg.Validate()
}

// Validate checks backend names and render defaults.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreFile, StoreSQLite:
	case StorePostgres, StoreRedis, StoreMongo:
		if c.Store.URL == "" {
			return fmt.Errorf("store backend %q requires store.url", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.URL == "" {
			return fmt.Errorf("cache backend %q requires cache.url", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	if c.Render.MinSizePercent > c.Render.MaxSizePercent {
		return fmt.Errorf("render.min_size_percent (%g) exceeds render.max_size_percent (%g)",
			c.Render.MinSizePercent, c.Render.MaxSizePercent)
	}
	return nil
}

// applyEnv overrides fields from HABITMOSAIC_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *float64) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = f
		return nil
	}

	str("STORE", &c.Store.Backend)
	str("STORE_PATH", &c.Store.Path)
	str("STORE_URL", &c.Store.URL)
	str("STORE_DATABASE", &c.Store.Database)
	str("CACHE", &c.Cache.Backend)
	str("CACHE_PATH", &c.Cache.Path)
	str("CACHE_URL", &c.Cache.URL)
	str("ADDR", &c.Server.Addr)
	str("ALLOW_ORIGIN", &c.Server.AllowOrigin)

	if v, ok := lookup(EnvPrefix + "FORMATS"); ok && v != "" {
		c.Render.Formats = strings.Split(v, ",")
	}
	for name, dst := range map[string]*float64{
		"WIDTH":    &c.Render.Width,
		"HEIGHT":   &c.Render.Height,
		"MIN_SIZE": &c.Render.MinSizePercent,
		"MAX_SIZE": &c.Render.MaxSizePercent,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) expandPaths() {
	c.Store.Path = expandHome(c.Store.Path)
	c.Cache.Path = expandHome(c.Cache.Path)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// =============================================================================
// XDG directories
// =============================================================================

func configHome() string { return xdgDir("XDG_CONFIG_HOME", ".config") }
func dataHome() string   { return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }
func cacheHome() string  { return xdgDir("XDG_CACHE_HOME", ".cache") }

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, fallback)
}
