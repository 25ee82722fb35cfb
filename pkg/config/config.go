// Package config loads wordbank settings from a TOML file, a .env file and
// WORDBANK_* environment variables, in increasing order of precedence.
//
// A missing default config file is not an error; every setting has a
// default that mirrors the original widget. An explicitly named file must
// exist.
//
//	[server]
//	addr = ":8080"
//	request_timeout = "10s"
//
//	[cache]
//	backend = "redis"   # file | redis | mongo | none
//	ttl = "24h"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[layout]
//	word_height = 45
//	rtl = false
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/wordbank/pkg/cache"
	"github.com/matzehuels/wordbank/pkg/errors"
	"github.com/matzehuels/wordbank/pkg/session"
	"github.com/matzehuels/wordbank/pkg/wordbank"
)

// Duration is a time.Duration written as a string such as "90s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the complete configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
	Session SessionConfig `toml:"session"`
	Layout  LayoutConfig  `toml:"layout"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
}

type CacheConfig struct {
	Backend string   `toml:"backend"`
	TTL     Duration `toml:"ttl"`
	Dir     string   `toml:"dir"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type SessionConfig struct {
	Backend         string   `toml:"backend"`
	TTL             Duration `toml:"ttl"`
	Dir             string   `toml:"dir"`
	CleanupInterval Duration `toml:"cleanup_interval"`
}

// LayoutConfig holds the geometry defaults for new boards. A zero
// LineHeight means 1.2 word heights.
type LayoutConfig struct {
	WordHeight  float64 `toml:"word_height"`
	WordGap     float64 `toml:"word_gap"`
	LineHeight  float64 `toml:"line_height"`
	BankOffsetY float64 `toml:"bank_offset_y"`
	RTL         bool    `toml:"rtl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     Duration{cache.TTLLayout},
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "wordbank",
			Collection: "layouts",
		},
		Session: SessionConfig{
			Backend:         session.BackendMemory,
			TTL:             Duration{session.DefaultTTL},
			CleanupInterval: Duration{session.DefaultCleanupInterval},
		},
		Layout: LayoutConfig{
			WordHeight:  wordbank.DefaultWordHeight,
			WordGap:     wordbank.DefaultWordGap,
			BankOffsetY: wordbank.DefaultBankOffsetY,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/wordbank/config.toml, falling back
// to ~/.config.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "wordbank", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wordbank", "config.toml")
}

// Load reads the configuration. An empty path reads DefaultPath if it
// exists. A .env file in the working directory is loaded into the
// environment first; variables already set take precedence over it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of the defaults without reading the
// environment.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := undecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) && !required {
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return undecoded(md)
}

func undecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", keys[0].String())
	}
	return nil
}

// Validate checks backend names and geometry.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis, mongo or none, got %q", c.Cache.Backend)
	}
	switch c.Session.Backend {
	case session.BackendMemory, session.BackendFile, session.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "session.backend must be memory, file or redis, got %q", c.Session.Backend)
	}
	if c.Layout.WordHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.word_height must be positive")
	}
	if c.Layout.WordGap < 0 || c.Layout.BankOffsetY < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout gaps must not be negative")
	}
	if c.Layout.LineHeight != 0 && c.Layout.LineHeight < c.Layout.WordHeight {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.line_height must be at least word_height")
	}
	if c.Session.TTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "session.ttl must be positive")
	}
	return nil
}

// Params returns layout parameters for a container of the given width.
func (l LayoutConfig) Params(containerWidth float64) wordbank.Params {
	return wordbank.Params{
		ContainerWidth: containerWidth,
		WordHeight:     l.WordHeight,
		WordGap:        l.WordGap,
		LineGap:        wordbank.LineGapFor(l.WordHeight, l.LineHeight),
		RTL:            l.RTL,
	}
}

// CacheOptions returns the options for cache.Open. dir is used when the
// file backend has no directory configured.
func (c *Config) CacheOptions(dir string) cache.Options {
	if c.Cache.Dir != "" {
		dir = c.Cache.Dir
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis:   c.RedisOptions(),
		Mongo: cache.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		},
	}
}

// RedisOptions returns the shared Redis connection settings.
func (c *Config) RedisOptions() cache.RedisOptions {
	return cache.RedisOptions{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}

// OpenSessions opens the configured session store.
func (c *Config) OpenSessions() (session.Store, error) {
	return session.Open(session.Options{
		Backend:      c.Session.Backend,
		Dir:          c.Session.Dir,
		RedisOptions: c.RedisOptions(),
	})
}
