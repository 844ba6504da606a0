package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
)

// ErrInvalidToken indicates the bearer token failed signature or claim checks.
var ErrInvalidToken = errors.New("jwt: invalid token")

// ErrExpiredToken indicates the bearer token is past its expiry.
var ErrExpiredToken = errors.New("jwt: token expired")

// TokenVerifier validates HS256 bearer tokens issued by the identity
// provider and extracts the caller's identity from them.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier constructs a verifier for the shared signing secret.
// The issuer claim is enforced only when issuer is non-empty.
func NewTokenVerifier(secret, issuer string) (*TokenVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt: signing secret is required")
	}

	return &TokenVerifier{secret: []byte(secret), issuer: issuer}, nil
}

type identityClaims struct {
	DisplayName string `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}

// Verify parses and validates a bearer token, returning the caller identity.
func (v *TokenVerifier) Verify(tokenString string) (*domain.Identity, error) {
	claims := &identityClaims{}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &domain.Identity{
		UserID:      subject,
		DisplayName: claims.DisplayName,
	}, nil
}
