package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return ts
}

func TestNewTokenServiceShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Error("NewTokenService() should reject secrets under 16 characters")
	}
}

func TestGenerateAndValidate(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-abc123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// A JWT is three dot-separated base64 segments.
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("Generate() = %q, want header.payload.signature", token)
	}

	userID, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != "user-abc123" {
		t.Errorf("Validate() = %q, want %q", userID, "user-abc123")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	// Mint a token that expired a minute ago.
	token, err := ts.GenerateWithDuration("user-abc123", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Error("Validate() should reject an expired token")
	}
}

func TestValidateTamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-abc123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Flip a character in the payload segment — the signature no longer matches.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	if _, err := ts.Validate(string(tampered)); err == nil {
		t.Error("Validate() should reject a tampered token")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	ts := newTestTokenService(t)

	other, err := NewTokenService("a-completely-different-secret!!")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := other.Generate("user-abc123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Error("Validate() should reject a token signed with a different secret")
	}
}

func TestValidateGarbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		if _, err := ts.Validate(tokenStr); err == nil {
			t.Errorf("Validate(%q) should fail", tokenStr)
		}
	}
}
