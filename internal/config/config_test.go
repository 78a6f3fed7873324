package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DataPath != "portal.db" {
		t.Errorf("data path: %q", cfg.DataPath)
	}
	if cfg.Port != "50051" || cfg.WebPort != "8080" {
		t.Errorf("ports: %q %q", cfg.Port, cfg.WebPort)
	}
	if cfg.AuthDelay != time.Second {
		t.Errorf("auth delay: %v", cfg.AuthDelay)
	}
	if cfg.RateLimit != 5 || cfg.RateBurst != 10 {
		t.Errorf("rate: %v/%d", cfg.RateLimit, cfg.RateBurst)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORTAL_AUTH_DELAY", "0s")
	t.Setenv("DATABASE_URL", "postgres://localhost/portal")
	t.Setenv("LOGIN_RATE_BURST", "3")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.AuthDelay != 0 {
		t.Errorf("auth delay: %v", cfg.AuthDelay)
	}
	if cfg.DatabaseURL != "postgres://localhost/portal" {
		t.Errorf("database url: %q", cfg.DatabaseURL)
	}
	if cfg.RateBurst != 3 {
		t.Errorf("burst: %d", cfg.RateBurst)
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name, key, val string
	}{
		{"bad duration", "PORTAL_AUTH_DELAY", "soon"},
		{"negative duration", "PORTAL_AUTH_DELAY", "-1s"},
		{"bad int", "LOGIN_RATE_BURST", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Parse(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("WEB_PORT=9999\nJWT_SECRET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// keep the process env clean of what the file sets
	t.Setenv("WEB_PORT", "")
	os.Unsetenv("WEB_PORT")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WebPort != "9999" {
		t.Errorf("web port: %q", cfg.WebPort)
	}
	if cfg.JWTSecret != "from-env" {
		t.Errorf("env should win over file, got %q", cfg.JWTSecret)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}

func TestServerReady(t *testing.T) {
	cfg := Config{RateLimit: 5, RateBurst: 10}
	err := cfg.ServerReady()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
	cfg.JWTSecret = "s"
	if err := cfg.ServerReady(); err != nil {
		t.Fatalf("ready: %v", err)
	}
}
