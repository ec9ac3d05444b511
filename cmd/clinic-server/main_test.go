package main

import (
	"testing"
	"time"

	"github.com/clinicapp/clinic/internal/config"
)

func TestJWTSecretPrefersConfigured(t *testing.T) {
	cfg := &config.Config{JWTSecret: "configured"}
	if got := jwtSecret(cfg); got != "configured" {
		t.Errorf("got %q", got)
	}
}

func TestJWTSecretGeneratesWhenEmpty(t *testing.T) {
	cfg := &config.Config{}
	a, b := jwtSecret(cfg), jwtSecret(cfg)
	if a == "" || b == "" {
		t.Fatal("secret should never be empty")
	}
	if a == b {
		t.Error("ephemeral secrets should differ per call")
	}
	if len(a) != 64 {
		t.Errorf("want 32 random bytes hex encoded, got length %d", len(a))
	}
}

func TestTokenTTL(t *testing.T) {
	cfg := &config.Config{TokenTTLMin: 90}
	if got := tokenTTL(cfg); got != 90*time.Minute {
		t.Errorf("got %v", got)
	}
}
