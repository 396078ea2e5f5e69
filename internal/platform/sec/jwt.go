// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, the
// session cookie) from the domain logic. It is an Infrastructure service
// injected into the Application layer.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single outcome for every rejected session token.
//
// Malformed, tampered, wrongly signed and expired tokens are deliberately
// indistinguishable to callers.
var ErrInvalidToken = errors.New("sec: invalid session token")

// SessionClaims represents the payload embedded inside a session JWT.
type SessionClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenService issues and verifies HS256 session tokens.
//
// The secret is supplied once at construction and never mutated afterwards,
// so a TokenService is safe for concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a new TokenService signing with the given secret.
func NewTokenService(secret []byte, issuer string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("sec: session secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("sec: invalid token ttl %s", ttl)
	}

	// Copy the secret so later mutation of the caller's slice has no effect.
	key := make([]byte, len(secret))
	copy(key, secret)

	service := &TokenService{
		secret: key,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// TTL returns the lifetime of every issued token.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue creates a signed session token for a user.
//
// It returns the token together with its expiry, which is exactly one TTL
// after the issued-at instant. Both are whole seconds, matching the JWT
// NumericDate encoding.
func (service *TokenService) Issue(userID, email string) (string, time.Time, error) {
	issuedAt := service.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(service.ttl)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// Verify checks the signature and validity window of a session token.
//
// Every failure collapses into [ErrInvalidToken].
func (service *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	)

	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return service.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
