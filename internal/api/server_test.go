// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/portfoliohub/internal/api"
	"github.com/taibuivan/portfoliohub/internal/platform/config"
	"github.com/taibuivan/portfoliohub/internal/platform/constants"
	"github.com/taibuivan/portfoliohub/internal/platform/metrics"
	"github.com/taibuivan/portfoliohub/internal/platform/sec"
	"github.com/taibuivan/portfoliohub/internal/users/auth"
)

type emptyRepository struct{}

func (emptyRepository) FindByID(context.Context, string) (*auth.User, error) {
	return nil, auth.ErrUserNotFound
}
func (emptyRepository) FindByEmail(context.Context, string) (*auth.User, error) {
	return nil, auth.ErrUserNotFound
}
func (emptyRepository) UsernameExists(context.Context, string) (bool, error) { return false, nil }
func (emptyRepository) Create(context.Context, *auth.User) error             { return nil }

func newTestServer(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg, err := config.LoadFrom(map[string]string{
		"DATABASE_URL":    "postgres://localhost/portfoliohub",
		"ALLOWED_ORIGINS": "https://portfoliohub.com",
	})
	require.NoError(t, err)

	tokens, err := sec.NewTokenService([]byte(cfg.SessionSecret), constants.AuthIssuer, constants.SessionTTL)
	require.NoError(t, err)
	cookie := sec.NewSessionCookie(tokens, cfg.IsProduction())

	registry := metrics.New()
	service := auth.NewService(emptyRepository{}, sec.NewPasswordHasher(bcrypt.MinCost), tokens, nil, registry)
	liveness, readiness := api.NewHealthHandlers(deps, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, cfg, logger, api.Session{Resolver: service, Reader: cookie}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(service, cookie),
		Metrics:   registry,
	})
	return server.Handler()
}

func serve(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, path, reader))
	return recorder
}

func TestServer_Health(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	recorder := serve(handler, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, recorder.Body.String())
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
}

func TestServer_Ready(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	recorder := serve(newTestServer(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy}), http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(newTestServer(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: failing}), http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var body struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Data.Status)
	require.Len(t, body.Data.Checks, 2)
	assert.True(t, body.Data.Checks[0].OK)
	assert.False(t, body.Data.Checks[1].OK)
	assert.NotContains(t, recorder.Body.String(), "connection refused")
}

func TestServer_AuthRoutesAndMetrics(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	recorder := serve(handler, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = serve(handler, http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"Sup3rSecret"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = serve(handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `portfoliohub_auth_events_total{event="login",outcome="invalid_credentials"} 1`)
	assert.Contains(t, recorder.Body.String(), `route="/auth/me"`)
}
