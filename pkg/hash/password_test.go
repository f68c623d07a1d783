package hash

import (
	"strings"
	"testing"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid password", password: "correct-horse-battery", wantErr: false},
		{name: "minimum length", password: "12345678", wantErr: false},
		{name: "too short", password: "short", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed, err := Hash(tt.password)

			if tt.wantErr {
				if err == nil {
					t.Error("Hash() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Hash() unexpected error = %v", err)
				return
			}
			if hashed == "" || hashed == tt.password {
				t.Errorf("Hash() returned unusable hash %q", hashed)
			}
			if !strings.HasPrefix(hashed, "$2a$12$") {
				t.Errorf("Hash() invalid bcrypt format, got = %s", hashed[:10])
			}
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if h1 == h2 {
		t.Error("expected different hashes for the same password")
	}
}

func TestCompare(t *testing.T) {
	hashed, err := Hash("correct-horse")
	if err != nil {
		t.Fatalf("failed to generate hash: %v", err)
	}

	if err := Compare(hashed, "correct-horse"); err != nil {
		t.Errorf("Compare() unexpected error = %v", err)
	}
	if err := Compare(hashed, "wrong-horse"); err == nil {
		t.Error("Compare() expected mismatch error")
	}
	if err := Compare(hashed, "CORRECT-HORSE"); err == nil {
		t.Error("Compare() expected case-sensitive mismatch")
	}
}
