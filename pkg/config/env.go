package config

import (
	"strconv"
	"time"

	"github.com/matzehuels/wordbank/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WORDBANK_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type envVar struct {
	name string
	set  func(c *Config, v string) error
}

var envVars = []envVar{
	{"SERVER_ADDR", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"REQUEST_TIMEOUT", durationVar(func(c *Config) *Duration { return &c.Server.RequestTimeout })},
	{"CACHE_BACKEND", func(c *Config, v string) error { c.Cache.Backend = v; return nil }},
	{"CACHE_TTL", durationVar(func(c *Config) *Duration { return &c.Cache.TTL })},
	{"CACHE_DIR", func(c *Config, v string) error { c.Cache.Dir = v; return nil }},
	{"REDIS_ADDR", func(c *Config, v string) error { c.Redis.Addr = v; return nil }},
	{"REDIS_PASSWORD", func(c *Config, v string) error { c.Redis.Password = v; return nil }},
	{"REDIS_DB", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Redis.DB = n
		return err
	}},
	{"MONGO_URI", func(c *Config, v string) error { c.Mongo.URI = v; return nil }},
	{"MONGO_DATABASE", func(c *Config, v string) error { c.Mongo.Database = v; return nil }},
	{"MONGO_COLLECTION", func(c *Config, v string) error { c.Mongo.Collection = v; return nil }},
	{"SESSION_BACKEND", func(c *Config, v string) error { c.Session.Backend = v; return nil }},
	{"SESSION_TTL", durationVar(func(c *Config) *Duration { return &c.Session.TTL })},
	{"SESSION_DIR", func(c *Config, v string) error { c.Session.Dir = v; return nil }},
	{"WORD_HEIGHT", floatVar(func(c *Config) *float64 { return &c.Layout.WordHeight })},
	{"WORD_GAP", floatVar(func(c *Config) *float64 { return &c.Layout.WordGap })},
	{"LINE_HEIGHT", floatVar(func(c *Config) *float64 { return &c.Layout.LineHeight })},
	{"BANK_OFFSET_Y", floatVar(func(c *Config) *float64 { return &c.Layout.BankOffsetY })},
	{"RTL", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Layout.RTL = b
		return err
	}},
}

// ApplyEnv overrides settings from WORDBANK_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.set(c, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, ev.name)
		}
	}
	return nil
}

func durationVar(field func(*Config) *Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		field(c).Duration = d
		return nil
	}
}

func floatVar(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}
