package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/wordbank/pkg/errors"
	"github.com/matzehuels/wordbank/pkg/wordbank"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
	p := cfg.Layout.Params(320)
	if p.WordHeight != 45 || p.WordGap != 4 || p.ContainerWidth != 320 {
		t.Errorf("Params() = %+v", p)
	}
	if got := p.LineHeight(); got < 53.99 || got > 54.01 {
		t.Errorf("LineHeight() = %v, want 54", got)
	}
	if cfg.Layout.BankOffsetY != wordbank.DefaultBankOffsetY {
		t.Errorf("BankOffsetY = %v", cfg.Layout.BankOffsetY)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[server]
addr = ":9090"
request_timeout = "3s"

[cache]
backend = "redis"
ttl = "1h"

[redis]
addr = "cache:6379"
db = 2

[session]
backend = "redis"
ttl = "15m"

[layout]
word_height = 40
line_height = 50
rtl = true
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.RequestTimeout.Duration != 3*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Session.TTL.Duration != 15*time.Minute {
		t.Errorf("session ttl = %v", cfg.Session.TTL)
	}
	p := cfg.Layout.Params(100)
	if p.LineGap != 10 || !p.RTL {
		t.Errorf("params = %+v", p)
	}
	// untouched sections keep their defaults
	if cfg.Mongo.Database != "wordbank" || cfg.Layout.WordGap != 4 {
		t.Errorf("defaults lost: %+v %+v", cfg.Mongo, cfg.Layout)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", `[server`},
		{"unknown key", "[server]\nport = 1"},
		{"bad duration", "[server]\nrequest_timeout = \"soon\""},
		{"bad cache backend", "[cache]\nbackend = \"memcached\""},
		{"bad session backend", "[session]\nbackend = \"mongo\""},
		{"zero word height", "[layout]\nword_height = 0"},
		{"short line height", "[layout]\nline_height = 10"},
		{"negative gap", "[layout]\nword_gap = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"WORDBANK_SERVER_ADDR":   "127.0.0.1:7000",
		"WORDBANK_CACHE_BACKEND": "mongo",
		"WORDBANK_MONGO_URI":     "mongodb://db:27017",
		"WORDBANK_REDIS_DB":      "3",
		"WORDBANK_SESSION_TTL":   "2m",
		"WORDBANK_WORD_HEIGHT":   "30",
		"WORDBANK_RTL":           "true",
		"WORDBANK_CACHE_DIR":     "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" || cfg.Cache.Backend != "mongo" {
		t.Errorf("strings not applied: %+v %+v", cfg.Server, cfg.Cache)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" || cfg.Redis.DB != 3 {
		t.Errorf("connection settings not applied: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.Session.TTL.Duration != 2*time.Minute || cfg.Layout.WordHeight != 30 || !cfg.Layout.RTL {
		t.Errorf("typed settings not applied: %+v %+v", cfg.Session, cfg.Layout)
	}
	if cfg.Cache.Dir != "" {
		t.Errorf("empty variable should be ignored, dir = %q", cfg.Cache.Dir)
	}
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	for _, kv := range [][2]string{
		{"WORDBANK_REDIS_DB", "zero"},
		{"WORDBANK_SESSION_TTL", "1 hour"},
		{"WORDBANK_WORD_GAP", "wide"},
		{"WORDBANK_RTL", "maybe"},
	} {
		t.Run(kv[0], func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == kv[0] {
					return kv[1], true
				}
				return "", false
			}
			if err := Default().ApplyEnv(lookup); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("ApplyEnv() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("WORDBANK_SERVER_ADDR", "")

	// no file at the default path is fine
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() without file error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() with missing explicit file error = %v", err)
	}

	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[server]\naddr = \":1234\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WORDBANK_CACHE_BACKEND", "none")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":1234" || cfg.Cache.Backend != "none" {
		t.Errorf("file and env not merged: %+v %+v", cfg.Server, cfg.Cache)
	}
}

func TestCacheOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.CacheOptions("/tmp/fallback")
	if opts.Dir != "/tmp/fallback" || opts.Backend != "file" {
		t.Errorf("CacheOptions() = %+v", opts)
	}
	cfg.Cache.Dir = "/var/cache/wordbank"
	if got := cfg.CacheOptions("/tmp/fallback").Dir; got != "/var/cache/wordbank" {
		t.Errorf("configured dir ignored: %q", got)
	}
	if opts.Mongo.Collection != "layouts" || opts.Redis.Addr != "localhost:6379" {
		t.Errorf("connection options = %+v", opts)
	}
}
