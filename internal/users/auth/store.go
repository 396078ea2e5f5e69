// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by [UserRepository.Create] when a unique
// constraint rejects the insert.
var (
	ErrEmailTaken    = errors.New("auth: email already registered")
	ErrUsernameTaken = errors.New("auth: username already taken")
)

// # User Data Access

// UserRepository defines the data access contract for accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Parameters:
		  - context: context.Context
		  - email: string (already passed through NormalizeEmail)

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		UsernameExists reports whether any account already uses username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - bool: true when taken
		  - error: Database retrieval failures
	*/
	UsernameExists(context context.Context, username string) (bool, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: ErrEmailTaken, ErrUsernameTaken or persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Volatile Data Access

// LoginLimiter counts failed logins per normalized email.
type LoginLimiter interface {

	/*
		Blocked reports whether email has exhausted its failure budget.

		Returns:
		  - bool: true when further attempts must be refused
		  - time.Duration: time until the budget resets (when blocked)
		  - error: Backend failures (callers fail open)
	*/
	Blocked(context context.Context, email string) (bool, time.Duration, error)

	// RecordFailure counts one failed attempt for email.
	RecordFailure(context context.Context, email string) error

	// Reset clears the failure count after a successful login.
	Reset(context context.Context, email string) error
}

// # Observability

// EventRecorder receives auth outcomes, e.g. ("login", "success").
type EventRecorder interface {
	RecordAuthEvent(event, outcome string)
}

type noopLimiter struct{}

func (noopLimiter) Blocked(context.Context, string) (bool, time.Duration, error) {
	return false, 0, nil
}
func (noopLimiter) RecordFailure(context.Context, string) error { return nil }
func (noopLimiter) Reset(context.Context, string) error         { return nil }

type noopRecorder struct{}

func (noopRecorder) RecordAuthEvent(string, string) {}
