package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret, "politico-identity")
	if err != nil {
		t.Fatalf("NewTokenVerifier: %v", err)
	}

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub":          "user-1",
		"display_name": "archivist",
		"iss":          "politico-identity",
		"exp":          time.Now().Add(time.Hour).Unix(),
	})

	identity, err := verifier.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.UserID != "user-1" {
		t.Fatalf("expected subject user-1, got %q", identity.UserID)
	}
	if identity.DisplayName != "archivist" {
		t.Fatalf("expected display name archivist, got %q", identity.DisplayName)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	verifier, _ := NewTokenVerifier(testSecret, "")

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := verifier.Verify(tokenString)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	verifier, _ := NewTokenVerifier(testSecret, "")

	tokenString := signToken(t, "another-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := verifier.Verify(tokenString)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	verifier, _ := NewTokenVerifier(testSecret, "politico-identity")

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := verifier.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	verifier, _ := NewTokenVerifier(testSecret, "")

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := verifier.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewTokenVerifierRequiresSecret(t *testing.T) {
	if _, err := NewTokenVerifier("  ", ""); err == nil {
		t.Fatal("expected error for blank secret")
	}
}
