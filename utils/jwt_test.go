package utils

import (
	"testing"
	"time"

	"techmate/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	defer func() { config.AppConfig.JWTSecret = "" }()

	token, err := GenerateToken("tech-1", RoleTechnician, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	sub, role, err := ExtractClaims(token)
	if err != nil {
		t.Fatalf("ExtractClaims: %v", err)
	}
	if sub != "tech-1" || role != RoleTechnician {
		t.Errorf("got (%q, %q), want (tech-1, technician)", sub, role)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	defer func() { config.AppConfig.JWTSecret = "" }()

	token, err := GenerateToken("tech-1", RoleTechnician, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, _, err := ExtractClaims(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
