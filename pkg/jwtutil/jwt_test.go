package jwtutil

import (
	"strings"
	"testing"
	"time"

	"github.com/jimmbo89/api-sweetspot/pkg/config"
)

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "round-trip-key", ExpirationHours: 2})

	token, expiresAt, err := GenerateToken(7, "a@example.com", "alice", 9, "Alice")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if until := time.Until(expiresAt); until < time.Hour || until > 3*time.Hour {
		t.Fatalf("unexpected expiry window: %v", until)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "a@example.com" || claims.UserName != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.PersonID != 9 || claims.PersonName != "Alice" {
		t.Fatalf("unexpected person claims: %+v", claims)
	}
}

func TestValidateRejectsTamperedSignature(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "first-key", ExpirationHours: 1})
	token, _, err := GenerateToken(1, "b@example.com", "bob", 2, "Bob")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	Initialize(&config.JWTConfig{SigningKey: "second-key", ExpirationHours: 1})
	if _, err := ValidateToken(token); err == nil {
		t.Fatalf("token signed with another key must not validate")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "garbage-key", ExpirationHours: 1})

	if _, err := ValidateToken("definitely-not-a-token"); err == nil {
		t.Fatalf("garbage input must not validate")
	}

	token, _, err := GenerateToken(3, "c@example.com", "carol", 4, "Carol")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape %q", token)
	}
	flipped := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := ValidateToken(flipped); err == nil {
		t.Fatalf("tampered signature must not validate")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "expired-key", ExpirationHours: -1})
	token, expiresAt, err := GenerateToken(5, "d@example.com", "dave", 6, "Dave")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if !expiresAt.Before(time.Now()) {
		t.Fatalf("expected an already-expired token for this setup")
	}
	if _, err := ValidateToken(token); err == nil {
		t.Fatalf("expired token must not validate")
	}
}
