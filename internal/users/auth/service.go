// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/taibuivan/portfoliohub/internal/platform/apperr"
	"github.com/taibuivan/portfoliohub/internal/platform/ctxutil"
	"github.com/taibuivan/portfoliohub/internal/platform/sec"
	"github.com/taibuivan/portfoliohub/pkg/uuid"
)

// Client-facing messages. Login failures share one message so responses do
// not reveal which emails are registered.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "User already exists with this email"
)

// # Contracts & Types

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*sec.SessionClaims, error)
}

// Service implements the account use cases behind /auth.
type Service struct {
	users   UserRepository
	hasher  PasswordHasher
	tokens  TokenVerifier
	limiter LoginLimiter
	events  EventRecorder

	// decoyHash is compared against when the email is unknown so both login
	// failure paths spend one bcrypt verification.
	decoyOnce sync.Once
	decoyHash string
}

// NewService constructs a [Service]. A nil limiter disables the login
// throttle and a nil recorder discards auth events.
func NewService(
	users UserRepository,
	hasher PasswordHasher,
	tokens TokenVerifier,
	limiter LoginLimiter,
	events EventRecorder,
) *Service {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	if events == nil {
		events = noopRecorder{}
	}

	return &Service{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		events:  events,
	}
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

/*
Register hashes the password, derives a unique username, and persists a new
free-tier account.

Parameters:
  - context: context.Context
  - input: RegisterInput (already validated by the transport layer)

Returns:
  - *User: Created entity
  - error: AlreadyExists (duplicate email), ErrUsernameExhausted, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := NormalizeEmail(input.Email)

	// Cheap pre-check; the unique constraint still decides under races.
	_, err := service.users.FindByEmail(context, email)
	switch {
	case err == nil:
		service.events.RecordAuthEvent(EventRegister, OutcomeDuplicateEmail)
		return nil, apperr.AlreadyExists(msgEmailTaken)
	case !errors.Is(err, ErrUserNotFound):
		service.events.RecordAuthEvent(EventRegister, OutcomeError)
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		service.events.RecordAuthEvent(EventRegister, OutcomeError)
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:               uuid.New(),
		Email:            email,
		FullName:         strings.TrimSpace(input.FullName),
		PasswordHash:     hashedPassword,
		SubscriptionTier: sec.TierFree,
		EmailVerified:    false,
	}

	if err := service.createWithUsername(context, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			service.events.RecordAuthEvent(EventRegister, OutcomeDuplicateEmail)
			return nil, apperr.AlreadyExists(msgEmailTaken)
		}
		service.events.RecordAuthEvent(EventRegister, OutcomeError)
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "auth_user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	service.events.RecordAuthEvent(EventRegister, OutcomeSuccess)

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login verifies credentials against the stored bcrypt hash.

Description: Unknown emails and wrong passwords produce the same 401. When a
LoginLimiter is configured, emails past their failure budget get a 429
before the store is queried. Limiter errors are logged and ignored.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *User: Authenticated account
  - error: Unauthorized, RateLimited, or storage errors
*/
func (service *Service) Login(context context.Context, input LoginInput) (*User, error) {
	logger := ctxutil.GetLogger(context)
	email := NormalizeEmail(input.Email)

	blocked, retryAfter, err := service.limiter.Blocked(context, email)
	if err != nil {
		logger.WarnContext(context, "auth_login_limiter_unavailable", slog.Any("error", err))
	} else if blocked {
		service.events.RecordAuthEvent(EventLogin, OutcomeThrottled)
		return nil, apperr.RateLimited(int(math.Ceil(retryAfter.Seconds())))
	}

	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			service.events.RecordAuthEvent(EventLogin, OutcomeError)
			return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
		}

		service.hasher.Verify(input.Password, service.decoy())
		return nil, service.loginFailed(context, email)
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, service.loginFailed(context, email)
	}

	if err := service.limiter.Reset(context, email); err != nil {
		logger.WarnContext(context, "auth_login_limiter_reset_failed", slog.Any("error", err))
	}

	service.events.RecordAuthEvent(EventLogin, OutcomeSuccess)
	return user, nil
}

// RecordLogout reports a logout. Sessions are stateless, so there is nothing
// to revoke server-side.
func (service *Service) RecordLogout() {
	service.events.RecordAuthEvent(EventLogout, OutcomeSuccess)
}

func (service *Service) loginFailed(context context.Context, email string) error {
	logger := ctxutil.GetLogger(context)

	if err := service.limiter.RecordFailure(context, email); err != nil {
		logger.WarnContext(context, "auth_login_limiter_record_failed", slog.Any("error", err))
	}

	logger.InfoContext(context, "auth_login_failed")
	service.events.RecordAuthEvent(EventLogin, OutcomeInvalidCredentials)

	return apperr.Unauthorized(msgInvalidCredentials)
}

func (service *Service) decoy() string {
	service.decoyOnce.Do(func() {
		hash, err := service.hasher.Hash(uuid.New())
		if err == nil {
			service.decoyHash = hash
		}
	})
	return service.decoyHash
}

// # Session Resolution

/*
Resolve maps a session token to the current account's identity.

Description: Any failure (bad token, expired token, deleted account, store
error) yields nil. Store errors are logged since they are not the client's
fault.

Parameters:
  - context: context.Context
  - token: string (raw cookie value)

Returns:
  - *sec.Identity: Non-secret projection, or nil
*/
func (service *Service) Resolve(context context.Context, token string) *sec.Identity {
	if token == "" {
		return nil
	}

	claims, err := service.tokens.Verify(token)
	if err != nil || !uuid.Valid(claims.UserID) {
		return nil
	}

	user, err := service.users.FindByID(context, claims.UserID)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			ctxutil.GetLogger(context).ErrorContext(context, "auth_resolve_lookup_failed", slog.Any("error", err))
		}
		return nil
	}

	return user.Identity()
}

// Require is [Service.Resolve] that fails with 401 instead of returning nil.
func (service *Service) Require(context context.Context, token string) (*sec.Identity, error) {
	identity := service.Resolve(context, token)
	if identity == nil {
		return nil, sec.ErrAuthRequired
	}
	return identity, nil
}

