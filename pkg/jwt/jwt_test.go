package jwt

import (
	"testing"
	"time"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		expiration time.Duration
		secret     string
	}{
		{
			name:       "valid token generation",
			userID:     "owner",
			expiration: 15 * time.Minute,
			secret:     "test-secret-key-32-characters!",
		},
		{
			name:       "short expiration",
			userID:     "owner",
			expiration: 1 * time.Second,
			secret:     "test-secret",
		},
		{
			name:       "long expiration",
			userID:     "owner",
			expiration: 24 * time.Hour,
			secret:     "test-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.userID, tt.expiration, tt.secret)
			if err != nil {
				t.Errorf("GenerateToken() error = %v", err)
				return
			}

			if token == "" {
				t.Error("GenerateToken() returned empty token")
			}

			if len(token) < 100 {
				t.Errorf("GenerateToken() token too short, len = %d", len(token))
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	userID := "owner"
	secret := "validation-secret-key-32-chars"

	validToken, _ := GenerateToken(userID, 1*time.Hour, secret)
	expiredToken, _ := GenerateToken(userID, -1*time.Hour, secret)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr bool
		checkID bool
	}{
		{
			name:    "valid token",
			token:   validToken,
			secret:  secret,
			wantErr: false,
			checkID: true,
		},
		{
			name:    "expired token",
			token:   expiredToken,
			secret:  secret,
			wantErr: true,
		},
		{
			name:    "wrong secret",
			token:   validToken,
			secret:  "wrong-secret",
			wantErr: true,
		},
		{
			name:    "invalid token format",
			token:   "invalid.token.format",
			secret:  secret,
			wantErr: true,
		},
		{
			name:    "empty token",
			token:   "",
			secret:  secret,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr {
				if err == nil {
					t.Error("ValidateToken() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("ValidateToken() error = %v", err)
				return
			}

			if tt.checkID && claims.UserID != userID {
				t.Errorf("ValidateToken() UserID = %v, want %v", claims.UserID, userID)
			}
		})
	}
}
