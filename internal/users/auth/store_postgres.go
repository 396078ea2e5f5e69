// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/portfoliohub/internal/platform/apperr"
	"github.com/taibuivan/portfoliohub/internal/platform/dberr"
	"github.com/taibuivan/portfoliohub/internal/platform/postgres"
	"github.com/taibuivan/portfoliohub/internal/platform/sec"
)

// Unique constraint names declared by the users.account migration.
const (
	constraintEmailUnique    = "account_email_key"
	constraintUsernameUnique = "account_username_key"
)

// ErrUserNotFound is returned by lookups that match no account.
var ErrUserNotFound = apperr.NotFound("User")

const selectUserColumns = `
		SELECT id, email, fullname, username, passwordhash, subscriptiontier, emailverified, createdat, updatedat
		FROM users.account`

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db  postgres.DB
	now func() time.Time
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, now: time.Now}
}

/*
FindByID retrieves an account by primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated account entity
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	user, err := scanUser(repository.db.QueryRow(context, selectUserColumns+`
		WHERE id = $1`, id))
	if err != nil {
		return nil, repository.mapLookupError("find_by_id", err)
	}
	return user, nil
}

/*
FindByEmail retrieves an account by its normalized email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	user, err := scanUser(repository.db.QueryRow(context, selectUserColumns+`
		WHERE email = $1`, email))
	if err != nil {
		return nil, repository.mapLookupError("find_by_email", err)
	}
	return user, nil
}

// UsernameExists reports whether username is already allocated.
func (repository *PostgresUserRepository) UsernameExists(context context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users.account WHERE username = $1)`

	var exists bool
	if err := repository.db.QueryRow(context, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_username_exists_failed: %w", err)
	}
	return exists, nil
}

/*
Create persists a new account into the users.account table.

Description: Initializes timestamps when unset and maps unique-constraint
violations on email/username to ErrEmailTaken/ErrUsernameTaken.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: ErrEmailTaken, ErrUsernameTaken or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, fullname, username, passwordhash, subscriptiontier, emailverified, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := repository.now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Email,
		user.FullName,
		user.Username,
		user.PasswordHash,
		string(user.SubscriptionTier),
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err == nil {
		return nil
	}

	if dberr.IsUniqueViolation(err) {
		switch dberr.ConstraintName(err) {
		case constraintEmailUnique:
			return ErrEmailTaken
		case constraintUsernameUnique:
			return ErrUsernameTaken
		}
	}

	return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
}

func (repository *PostgresUserRepository) mapLookupError(operation string, err error) error {
	if dberr.IsNoRows(err) {
		return ErrUserNotFound
	}
	return fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, err)
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user User
		tier string
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Username,
		&user.PasswordHash,
		&tier,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.SubscriptionTier = sec.SubscriptionTier(tier)
	if !user.SubscriptionTier.Valid() {
		user.SubscriptionTier = sec.TierFree
	}

	return &user, nil
}
