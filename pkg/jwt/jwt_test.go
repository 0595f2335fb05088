package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"workly/backend/config"
)

func testManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: "unit-test-secret-0123456789",
		Issuer:    "workly",
		ClockSkew: 0,
	})
}

func signToken(t *testing.T, secret, issuer string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := Claims{
		UserID:    "user-001",
		CompanyID: "company-001",
		Role:      "admin",
		TokenType: "access",
		RegisteredClaims: jwtv5.RegisteredClaims{
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}

func TestParseToken_Valid(t *testing.T) {
	m := testManager()
	token := signToken(t, "unit-test-secret-0123456789", "workly", time.Minute)

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-001" || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := testManager()
	token := signToken(t, "unit-test-secret-0123456789", "workly", -time.Minute)

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := testManager()
	token := signToken(t, "another-secret-9876543210", "workly", time.Minute)

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m := testManager()
	token := signToken(t, "unit-test-secret-0123456789", "someone-else", time.Minute)

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
