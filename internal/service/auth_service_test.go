package service

import (
	"testing"
	"time"

	"driftnote-server/internal/domain"
)

func TestAuthServiceLogin(t *testing.T) {
	auth, err := NewAuthService("correct-horse", "test-secret-key-32-characters!", 15*time.Minute)
	if err != nil {
		t.Fatalf("failed to build auth service: %v", err)
	}

	resp, err := auth.Login(&domain.LoginRequest{Password: "correct-horse"})
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token")
	}
	if resp.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("unexpected expires_in: %d", resp.ExpiresIn)
	}

	claims, err := auth.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("expected issued token to validate, got %v", err)
	}
	if claims.UserID != sessionSubject {
		t.Errorf("expected subject %q, got %q", sessionSubject, claims.UserID)
	}
}

func TestAuthServiceRejectsWrongPassword(t *testing.T) {
	auth, err := NewAuthService("correct-horse", "test-secret", 15*time.Minute)
	if err != nil {
		t.Fatalf("failed to build auth service: %v", err)
	}

	if _, err := auth.Login(&domain.LoginRequest{Password: "battery-staple"}); err == nil {
		t.Error("expected login with the wrong password to fail")
	}
}

func TestAuthServiceRejectsShortPassword(t *testing.T) {
	if _, err := NewAuthService("short", "secret", time.Minute); err == nil {
		t.Error("expected a too-short deployment password to be rejected")
	}
}

func TestAuthServiceRejectsForeignToken(t *testing.T) {
	auth, _ := NewAuthService("correct-horse", "secret-one", 15*time.Minute)
	other, _ := NewAuthService("correct-horse", "secret-two", 15*time.Minute)

	resp, err := other.Login(&domain.LoginRequest{Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := auth.ValidateToken(resp.AccessToken); err == nil {
		t.Error("expected a token signed with another secret to be rejected")
	}
}
