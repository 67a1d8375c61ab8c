package config

import "testing"

func TestLoadDoesNotInjectWeakSessionDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	cfg := Load()
	if cfg.SessionSecret != "" {
		t.Fatalf("expected empty SESSION_SECRET when unset, got %q", cfg.SessionSecret)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("TAX_WITHHOLD_BASE", "")
	t.Setenv("SECURE_COOKIES", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.SessionTTLHours != 24 {
		t.Fatalf("SessionTTLHours = %d", cfg.SessionTTLHours)
	}
	if cfg.TaxWithholdBase != "after_discount" {
		t.Fatalf("TaxWithholdBase = %q", cfg.TaxWithholdBase)
	}
	if cfg.SecureCookies {
		t.Fatal("SecureCookies should default to false")
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("Address = %q", cfg.Address())
	}
}

func TestLoadRejectsBadSessionTTL(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "-3")

	cfg := Load()
	if cfg.SessionTTLHours != 24 {
		t.Fatalf("SessionTTLHours = %d, want fallback 24", cfg.SessionTTLHours)
	}
}
