package security

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/config"
)

func TestGeneratePasscodeStaysInRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GeneratePasscode(6)
		if err != nil {
			t.Fatalf("GeneratePasscode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("non numeric code %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestGeneratePasscodeRejectsNonPositiveLength(t *testing.T) {
	if _, err := GeneratePasscode(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestNewTokenSignerRequiresSecret(t *testing.T) {
	if _, err := NewTokenSigner(config.JWTSettings{}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestNewTokenSignerRejectsNonHMACAlgorithm(t *testing.T) {
	_, err := NewTokenSigner(config.JWTSettings{SigningSecret: "s", SigningAlgorithm: "RS256"})
	if err == nil {
		t.Fatal("expected error for RS256")
	}
}

func TestSignEmbedsSessionClaims(t *testing.T) {
	signer, err := NewTokenSigner(config.JWTSettings{
		SigningSecret:    "test-secret",
		SigningAlgorithm: "HS512",
		TokenLifetime:    7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenSigner: %v", err)
	}

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	user := domain.User{ID: "user-1", PhoneNumber: "+919876543210", Name: "Asha"}

	signed, err := signer.Sign(user, issuedAt)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(signed, &claims, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS512"}), jwt.WithTimeFunc(func() time.Time { return issuedAt }))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("expected valid token")
	}

	if claims.PhoneNumber != user.PhoneNumber {
		t.Errorf("expected phone claim %q, got %q", user.PhoneNumber, claims.PhoneNumber)
	}
	if claims.User.ID != user.ID || claims.User.Name != user.Name {
		t.Errorf("unexpected user claim %+v", claims.User)
	}
	if claims.Subject != user.PhoneNumber {
		t.Errorf("expected subject %q, got %q", user.PhoneNumber, claims.Subject)
	}
	wantExpiry := issuedAt.Add(7 * 24 * time.Hour)
	if !claims.ExpiresAt.Time.Equal(wantExpiry) {
		t.Errorf("expected expiry %v, got %v", wantExpiry, claims.ExpiresAt.Time)
	}
}

func TestSignRequiresUserID(t *testing.T) {
	signer, err := NewTokenSigner(config.JWTSettings{SigningSecret: "s"})
	if err != nil {
		t.Fatalf("NewTokenSigner: %v", err)
	}
	if _, err := signer.Sign(domain.User{}, time.Now()); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
