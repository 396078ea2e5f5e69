// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/portfoliohub/internal/platform/constants"
	"github.com/taibuivan/portfoliohub/internal/platform/sec"
	"github.com/taibuivan/portfoliohub/internal/users/auth"
)

const testSecret = "test-session-secret"

// # In-memory repository

type memoryRepository struct {
	mu        sync.Mutex
	byID      map[string]*auth.User
	usernames map[string]bool

	// beforeCreate can veto an insert to simulate a lost unique-constraint race.
	beforeCreate func(user *auth.User) error
	lookupErr    error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		byID:      make(map[string]*auth.User),
		usernames: make(map[string]bool),
	}
}

func (repository *memoryRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.lookupErr != nil {
		return nil, repository.lookupErr
	}
	user, ok := repository.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (repository *memoryRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.lookupErr != nil {
		return nil, repository.lookupErr
	}
	for _, user := range repository.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (repository *memoryRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return repository.usernames[username], nil
}

func (repository *memoryRepository) Create(ctx context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.beforeCreate != nil {
		if err := repository.beforeCreate(user); err != nil {
			return err
		}
	}
	for _, existing := range repository.byID {
		if existing.Email == user.Email {
			return auth.ErrEmailTaken
		}
	}
	if repository.usernames[user.Username] {
		return auth.ErrUsernameTaken
	}

	user.CreatedAt = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	user.UpdatedAt = user.CreatedAt

	copied := *user
	repository.byID[user.ID] = &copied
	repository.usernames[user.Username] = true
	return nil
}

func (repository *memoryRepository) delete(id string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if user, ok := repository.byID[id]; ok {
		delete(repository.usernames, user.Username)
		delete(repository.byID, id)
	}
}

// # Event recorder

type recordedEvents struct {
	mu     sync.Mutex
	events []string
}

func (recorder *recordedEvents) RecordAuthEvent(event, outcome string) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.events = append(recorder.events, event+":"+outcome)
}

func (recorder *recordedEvents) all() []string {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]string(nil), recorder.events...)
}

// # Clock

type testClock struct {
	mu      sync.Mutex
	current time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

func (clock *testClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = clock.current.Add(d)
}

// # Fixture

type fixture struct {
	repository *memoryRepository
	hasher     *sec.PasswordHasher
	tokens     *sec.TokenService
	clock      *testClock
	events     *recordedEvents
	service    *auth.Service
}

func newFixture(t *testing.T, limiter auth.LoginLimiter) *fixture {
	t.Helper()

	clock := &testClock{current: time.Now()}
	tokens, err := sec.NewTokenService([]byte(testSecret), constants.AuthIssuer, constants.SessionTTL, sec.WithClock(clock.Now))
	require.NoError(t, err)

	f := &fixture{
		repository: newMemoryRepository(),
		hasher:     sec.NewPasswordHasher(bcrypt.MinCost),
		tokens:     tokens,
		clock:      clock,
		events:     &recordedEvents{},
	}
	f.service = auth.NewService(f.repository, f.hasher, f.tokens, limiter, f.events)
	return f
}

func (f *fixture) register(t *testing.T, fullName, email, password string) *auth.User {
	t.Helper()

	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		FullName: fullName,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}
