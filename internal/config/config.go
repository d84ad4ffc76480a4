// Package config loads service configuration from an optional JSON file with
// environment-variable overrides. Everything has a default; the service runs
// with no file and no env at all.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

type Server struct {
	Port     string `json:"port"`
	APIKey   string `json:"api_key"`
	LogLevel string `json:"log_level"`
}

// Upstream controls the resolution pipeline. TimeoutSec applies per HTTP
// call, not per resolution; Retries is the number of attempts per source.
type Upstream struct {
	TimeoutSec   int `json:"timeout_sec"`
	Retries      int `json:"retries"`
	RetryDelayMs int `json:"retry_delay_ms"`
}

// Source configures one scraped upstream page. The order of the Sources
// slice is the canonical fallback order; the first entry is the default
// preferred source.
type Source struct {
	Name                  string `json:"name"`
	Enabled               bool   `json:"enabled"`
	URLTemplate           string `json:"url_template"` // %s = canonical symbol
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
	Burst                 int    `json:"burst"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec"`
}

type Config struct {
	Server   Server   `json:"server"`
	Upstream Upstream `json:"upstream"`
	Sources  []Source `json:"sources"`
}

func Default() Config {
	return Config{
		Server: Server{
			Port:     "8080",
			APIKey:   "test-key",
			LogLevel: "info",
		},
		Upstream: Upstream{
			TimeoutSec:   8,
			Retries:      2,
			RetryDelayMs: 500,
		},
		Sources: []Source{
			{Name: "chartix", Enabled: true, URLTemplate: "https://chartix.org/symbol/%s"},
			{Name: "tgju", Enabled: true, URLTemplate: "https://www.tgju.org/profile/%s"},
		},
	}
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override select fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv("UPSTREAM_TIMEOUT_SEC"); v != "" {
		if x, err := strconv.Atoi(v); err == nil && x > 0 {
			cfg.Upstream.TimeoutSec = x
		}
	}
	if v := os.Getenv("RETRIES"); v != "" {
		if x, err := strconv.Atoi(v); err == nil && x > 0 {
			cfg.Upstream.Retries = x
		}
	}
	if v := os.Getenv("RETRY_DELAY_MS"); v != "" {
		if x, err := strconv.Atoi(v); err == nil && x >= 0 {
			cfg.Upstream.RetryDelayMs = x
		}
	}
	if v := os.Getenv("CHARTIX_URL"); v != "" {
		setSourceURL(cfg, "chartix", v)
	}
	if v := os.Getenv("TGJU_URL"); v != "" {
		setSourceURL(cfg, "tgju", v)
	}
}

func setSourceURL(cfg *Config, name, tmpl string) {
	for i := range cfg.Sources {
		if cfg.Sources[i].Name == name {
			cfg.Sources[i].URLTemplate = tmpl
			return
		}
	}
}
