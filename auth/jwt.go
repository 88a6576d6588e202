// Package auth is the identity guard. It issues bearer tokens for
// authenticated users and resolves incoming tokens back to user ids,
// rejecting anything missing, malformed, expired or revoked.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hottakes/domain"
	"hottakes/errs"
)

// TokenManager creates and verifies the signed tokens that stand in for a
// session. Tokens are stateless except for revocation: every verification
// checks the token's id against the denylist, so logout actually works.
type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	denylist domain.DenylistService
}

// NewTokenManager returns a TokenManager signing with the given secret.
// Tokens expire after ttl.
func NewTokenManager(secret string, ttl time.Duration, denylist domain.DenylistService) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("auth: jwt secret is required")
	}
	return &TokenManager{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
	}, nil
}

// Issue creates a signed token for the given user. The token carries the
// user id as its subject and a random id so it can be revoked later.
func (tm *TokenManager) Issue(userID int) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify resolves a token string to the user id it was issued for.
// It fails with errs.EUNAUTHORIZED when the token is missing, malformed,
// signed with the wrong key, expired, or on the denylist. No side effects.
func (tm *TokenManager) Verify(tokenString string) (int, error) {
	if tokenString == "" {
		return 0, errs.Errorf(errs.EUNAUTHORIZED, "Authentication required.")
	}
	claims, err := tm.parse(tokenString)
	if err != nil {
		return 0, errs.Errorf(errs.EUNAUTHORIZED, "Invalid or expired token.")
	}
	revoked, err := tm.denylist.IsRevoked(claims.ID)
	if err != nil {
		return 0, err
	}
	if revoked {
		return 0, errs.Errorf(errs.EUNAUTHORIZED, "Token has been revoked.")
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, errs.Errorf(errs.EUNAUTHORIZED, "Invalid or expired token.")
	}
	return userID, nil
}

// Revoke puts a token's id on the denylist, so it stops authenticating even
// though its signature and expiry are still fine.
func (tm *TokenManager) Revoke(tokenString string) error {
	claims, err := tm.parse(tokenString)
	if err != nil {
		// An invalid or expired token can't authenticate anyway,
		// there is nothing left to revoke.
		return nil
	}
	return tm.denylist.Revoke(claims.ID, claims.ExpiresAt.Time)
}

// parse validates signature and expiry and returns the registered claims.
func (tm *TokenManager) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return &claims, nil
}
