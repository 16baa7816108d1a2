package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:3333" {
		t.Errorf("expected default base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10 {
		t.Errorf("expected default timeout 10, got %d", cfg.API.Timeout)
	}
	if cfg.API.LiveReload {
		t.Error("expected live reload to be off by default")
	}
	if len(cfg.Auth.APIKeys) != 0 {
		t.Errorf("expected no API keys by default, got %v", cfg.Auth.APIKeys)
	}
	if cfg.Seed.File != "db.json" {
		t.Errorf("expected default seed file db.json, got %s", cfg.Seed.File)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("FOODS_API_URL", "https://foods.example.com")
	t.Setenv("API_KEY", "secret")
	t.Setenv("API_TIMEOUT", "3")
	t.Setenv("LIVE_RELOAD", "true")
	t.Setenv("API_KEYS", "one, two,,three")
	t.Setenv("SEED_WATCH", "1")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	want := APIConfig{
		BaseURL:    "https://foods.example.com",
		APIKey:     "secret",
		Timeout:    3,
		LiveReload: true,
	}
	if diff := cmp.Diff(want, cfg.API); diff != "" {
		t.Errorf("API config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"one", "two", "three"}, cfg.Auth.APIKeys); diff != "" {
		t.Errorf("API keys mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Seed.Watch {
		t.Error("expected seed watch to be enabled")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			API:      APIConfig{BaseURL: "http://localhost:3333", Timeout: 10},
			Server:   ServerConfig{Port: "3333"},
			LogLevel: "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"relative url", func(c *Config) { c.API.BaseURL = "/foods" }, true},
		{"unsupported scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"upper case log level", func(c *Config) { c.LogLevel = "WARN" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
