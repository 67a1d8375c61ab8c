package main

import (
	"testing"

	"homeland/backend/internal/config"
	"homeland/backend/internal/pricing"
)

func TestValidateSecurityConfigRejectsShortSecret(t *testing.T) {
	err := validateSecurityConfig(config.Config{SessionSecret: "short"})
	if err == nil {
		t.Fatalf("expected weak security config to be rejected")
	}
}

func TestValidateSecurityConfigAcceptsStrongSecret(t *testing.T) {
	err := validateSecurityConfig(config.Config{SessionSecret: "0123456789abcdef0123456789abcdef"})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}

func TestParseWithholdMode(t *testing.T) {
	mode, err := parseWithholdMode("after_discount")
	if err != nil || mode != pricing.WithholdAfterDiscount {
		t.Fatalf("after_discount: mode=%v err=%v", mode, err)
	}
	mode, err = parseWithholdMode("after_gst")
	if err != nil || mode != pricing.WithholdAfterGST {
		t.Fatalf("after_gst: mode=%v err=%v", mode, err)
	}
	if _, err := parseWithholdMode("whenever"); err == nil {
		t.Fatal("expected unknown base to be rejected")
	}
}
