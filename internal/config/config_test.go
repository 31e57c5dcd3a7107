package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %s, want 1h", cfg.SessionTTL)
	}
	if cfg.ReadyTimeout != 60*time.Second {
		t.Errorf("ReadyTimeout = %s, want 60s", cfg.ReadyTimeout)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v, want nil (allow all)", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SESSION_TTL_SECONDS", "120")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q, want 9000", cfg.ServerPort)
	}
	if cfg.SessionTTL != 2*time.Minute {
		t.Errorf("SessionTTL = %s, want 2m", cfg.SessionTTL)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadFailsFast(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "SERVER_PORT", "http"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"zero session ttl", "SESSION_TTL_SECONDS", "0"},
		{"bcrypt cost too low", "BCRYPT_COST", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load with %s=%s unexpectedly succeeded", tt.key, tt.value)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); got != nil {
		t.Errorf("parseOrigins(\"\") = %v, want nil", got)
	}
	got := parseOrigins(" https://a.example.com ,, https://b.example.com")
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseOrigins = %v, want %v", got, want)
	}
}
