package auth

import (
	"testing"
	"time"
)

func TestJWT_RoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	token, expiresAt, err := mgr.Generate("admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expected a future expiry")
	}

	claims, err := mgr.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "admin@example.com" {
		t.Fatalf("expected subject admin@example.com, got %s", claims.Subject)
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, _, err := mgr.Generate("admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestJWT_Expired(t *testing.T) {
	mgr := NewJWTManager("test-secret", -time.Minute)

	token, _, err := mgr.Generate("admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := mgr.Validate(token); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestJWT_Garbage(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	if _, err := mgr.Validate("not-a-token"); err == nil {
		t.Fatal("expected validation failure")
	}
}
