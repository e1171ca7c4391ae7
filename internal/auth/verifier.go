// Package auth implements bearer-token verification. It produces the
// principal consumed by the authorization engine; the engine itself never
// derives identities.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/meridian-crm/meridian/internal/authz"
)

// ErrInvalidToken indicates a missing, malformed, expired or revoked
// credential. The gate treats all of these identically: no principal.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims carried by a Meridian access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier issues and verifies HMAC-signed access tokens.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	denylist *Denylist
}

// NewTokenVerifier constructs a verifier. The denylist is optional; without
// it revocation checks are skipped.
func NewTokenVerifier(secret string, issuer string, ttl time.Duration, denylist *Denylist) *TokenVerifier {
	return &TokenVerifier{
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		denylist: denylist,
	}
}

// TTL reports the configured token lifetime.
func (v *TokenVerifier) TTL() time.Duration {
	return v.ttl
}

// Issue signs a token for the principal. Called by the login flow after a
// CredentialChecker has resolved the identity.
func (v *TokenVerifier) Issue(p authz.Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer credential and returns the
// principal it encodes.
func (v *TokenVerifier) Verify(ctx context.Context, raw string) (*authz.Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if v.denylist != nil {
		revoked, err := v.denylist.Revoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("auth: denylist check: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}
	return &authz.Principal{ID: id, Role: claims.Role}, nil
}

// Revoke invalidates the token until its natural expiry.
func (v *TokenVerifier) Revoke(ctx context.Context, claims *Claims) error {
	if v.denylist == nil || claims == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return v.denylist.Revoke(ctx, claims.ID, ttl)
}

// ParseClaims extracts the claims from a valid credential without
// consulting the denylist. Used by the logout flow, which is about to
// revoke the token anyway.
func (v *TokenVerifier) ParseClaims(raw string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
