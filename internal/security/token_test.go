package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "brave-coder")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.LearnerID != 42 {
		t.Errorf("LearnerID = %d, want 42", claims.LearnerID)
	}
	if claims.Username != "brave-coder" {
		t.Errorf("Username = %q, want brave-coder", claims.Username)
	}
	if claims.ID == "" {
		t.Error("token has no JTI")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-one", time.Hour)
	other := NewTokenIssuer("secret-two", time.Hour)

	token, err := issuer.Issue(1, "calm-hacker")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(1, "swift-parser")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify expired token: err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(input); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): err = %v, want ErrInvalidToken", input, err)
		}
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("1234")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "1234" {
		t.Error("hash equals the plaintext")
	}

	if !CheckPassword("1234", hash) {
		t.Error("correct PIN rejected")
	}
	if CheckPassword("4321", hash) {
		t.Error("wrong PIN accepted")
	}
}

func TestGenerateSessionID(t *testing.T) {
	a := GenerateSessionID()
	b := GenerateSessionID()
	if a == "" || b == "" {
		t.Fatal("empty session id")
	}
	if a == b {
		t.Error("session ids collide")
	}
}
