// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portfoliohub/internal/platform/sec"
	"github.com/taibuivan/portfoliohub/internal/users/auth"
)

var userColumns = []string{
	"id", "email", "fullname", "username", "passwordhash",
	"subscriptiontier", "emailverified", "createdat", "updatedat",
}

func newMockRepository(t *testing.T) (pgxmock.PgxPoolIface, *auth.PostgresUserRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return mock, auth.NewUserRepository(mock)
}

func TestPostgresUserRepository_FindByEmail(t *testing.T) {
	mock, repository := newMockRepository(t)
	createdAt := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users.account") + `\s+WHERE email = \$1`).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(
			"0190f3a4-7b1c-7cc2-9a55-0b8c4f0e1d2a", "jane@example.com", "Jane Doe", "jane-doe", "$2a$12$hash",
			"pro", true, createdAt, createdAt,
		))

	user, err := repository.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)

	assert.Equal(t, "jane-doe", user.Username)
	assert.Equal(t, sec.TierPro, user.SubscriptionTier)
	assert.True(t, user.EmailVerified)
	assert.True(t, createdAt.Equal(user.CreatedAt))
}

func TestPostgresUserRepository_UnknownTierFallsBackToFree(t *testing.T) {
	mock, repository := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE id = \$1`).
		WithArgs("0190f3a4-7b1c-7cc2-9a55-0b8c4f0e1d2a").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(
			"0190f3a4-7b1c-7cc2-9a55-0b8c4f0e1d2a", "jane@example.com", "Jane Doe", "jane-doe", "$2a$12$hash",
			"enterprise", false, now, now,
		))

	user, err := repository.FindByID(context.Background(), "0190f3a4-7b1c-7cc2-9a55-0b8c4f0e1d2a")
	require.NoError(t, err)
	assert.Equal(t, sec.TierFree, user.SubscriptionTier)
}

func TestPostgresUserRepository_FindByID_NotFound(t *testing.T) {
	mock, repository := newMockRepository(t)

	mock.ExpectQuery(`WHERE id = \$1`).
		WithArgs("0190f3a4-7b1c-7cc2-9a55-0b8c4f0e1d2a").
		WillReturnError(pgx.ErrNoRows)

	_, err := repository.FindByID(context.Background(), "0190f3a4-7b1c-7cc2-9a55-0b8c4f0e1d2a")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestPostgresUserRepository_FindByEmail_DatabaseError(t *testing.T) {
	mock, repository := newMockRepository(t)

	mock.ExpectQuery(`WHERE email = \$1`).
		WithArgs("jane@example.com").
		WillReturnError(errors.New("connection reset by peer"))

	_, err := repository.FindByEmail(context.Background(), "jane@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrUserNotFound)
	assert.Contains(t, err.Error(), "postgres_user_repo_find_by_email_failed")
}

func TestPostgresUserRepository_UsernameExists(t *testing.T) {
	mock, repository := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM users.account WHERE username = $1)")).
		WithArgs("jane-doe").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repository.UsernameExists(context.Background(), "jane-doe")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestPostgresUserRepository_Create(t *testing.T) {
	mock, repository := newMockRepository(t)

	user := &auth.User{
		ID:               "0190f3a4-7b1c-7cc2-9a55-0b8c4f0e1d2a",
		Email:            "jane@example.com",
		FullName:         "Jane Doe",
		Username:         "jane-doe",
		PasswordHash:     "$2a$12$hash",
		SubscriptionTier: sec.TierFree,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users.account")).
		WithArgs(user.ID, user.Email, user.FullName, user.Username, user.PasswordHash, "free", false, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repository.Create(context.Background(), user))
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestPostgresUserRepository_Create_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"email", "account_email_key", auth.ErrEmailTaken},
		{"username", "account_username_key", auth.ErrUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repository := newMockRepository(t)

			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users.account")).
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: tt.constraint})

			err := repository.Create(context.Background(), &auth.User{ID: "id", Email: "jane@example.com", Username: "jane-doe"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPostgresUserRepository_Create_OtherErrorsAreWrapped(t *testing.T) {
	mock, repository := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users.account")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "account_email_check"})

	err := repository.Create(context.Background(), &auth.User{ID: "id", Email: "Jane@example.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrEmailTaken)
	assert.Contains(t, err.Error(), "postgres_user_repo_create_failed")
}
