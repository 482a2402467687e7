package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseRoundTrip(t *testing.T) {
	userID := uuid.New()
	raw := signToken(t, "test-secret", Claims{
		UserID:    userID,
		CompanyID: "acme-towing",
		Role:      "DISPATCHER",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	parser := NewParser("test-secret")
	claims, err := parser.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id mismatch: %s", claims.UserID)
	}
	if claims.CompanyID != "acme-towing" {
		t.Errorf("company id mismatch: %q", claims.CompanyID)
	}
	if claims.Role != "DISPATCHER" {
		t.Errorf("role mismatch: %q", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw := signToken(t, "other-secret", Claims{
		UserID:    uuid.New(),
		CompanyID: "acme-towing",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := NewParser("test-secret").Parse(raw); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	raw := signToken(t, "test-secret", Claims{
		UserID:    uuid.New(),
		CompanyID: "acme-towing",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	if _, err := NewParser("test-secret").Parse(raw); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseRejectsMissingCompany(t *testing.T) {
	raw := signToken(t, "test-secret", Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := NewParser("test-secret").Parse(raw); err == nil {
		t.Fatal("expected error for token without company id")
	}
}
