package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/config"
)

// SessionClaims carries the payload embedded in minted access tokens. The
// guard never re-parses these claims at request time; session validity is
// judged solely by the persisted token record.
type SessionClaims struct {
	PhoneNumber string           `json:"phoneNumber"`
	User        SessionUserClaim `json:"user"`
	jwt.RegisteredClaims
}

// SessionUserClaim is the nested user fragment of the token payload.
type SessionUserClaim struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TokenSigner produces signed bearer strings from configuration-supplied
// secret, algorithm, and lifetime.
type TokenSigner struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
}

// NewTokenSigner validates the configured algorithm and builds a signer.
func NewTokenSigner(cfg config.JWTSettings) (*TokenSigner, error) {
	if cfg.SigningSecret == "" {
		return nil, fmt.Errorf("jwt signing secret is required")
	}

	alg := cfg.SigningAlgorithm
	if alg == "" {
		alg = "HS512"
	}

	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", alg)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", alg)
	}

	lifetime := cfg.TokenLifetime
	if lifetime <= 0 {
		lifetime = 7 * 24 * time.Hour
	}

	return &TokenSigner{
		secret:   []byte(cfg.SigningSecret),
		method:   method,
		lifetime: lifetime,
	}, nil
}

// Lifetime returns the configured token lifetime.
func (s *TokenSigner) Lifetime() time.Duration {
	return s.lifetime
}

// Sign mints an opaque bearer string for the user with the configured
// lifetime starting at issuedAt.
func (s *TokenSigner) Sign(user domain.User, issuedAt time.Time) (string, error) {
	if user.ID == "" {
		return "", fmt.Errorf("user id is required")
	}

	issuedAt = issuedAt.UTC()
	claims := SessionClaims{
		PhoneNumber: user.PhoneNumber,
		User: SessionUserClaim{
			ID:   user.ID,
			Name: user.Name,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.PhoneNumber,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
