// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/portfoliohub/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/portfoliohub/internal/platform/request"
	"github.com/taibuivan/portfoliohub/internal/platform/respond"
	"github.com/taibuivan/portfoliohub/internal/platform/sec"
)

// IdentityResolver turns a session token into the current user, or nil.
//
// Defined here so the middleware does not depend on the auth domain package.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) *sec.Identity
}

// TokenReader extracts the raw session token from a request.
type TokenReader interface {
	Read(request *http.Request) (string, bool)
}

// Authenticate resolves the session cookie into a [*sec.Identity].
//
// # Flow
//  1. No cookie: the request proceeds as anonymous.
//  2. Cookie present: the resolver verifies the token and loads the user.
//  3. Any failure (bad signature, expiry, deleted user) also proceeds as
//     anonymous. Handlers that need a user must use [RequireAuth].
func Authenticate(resolver IdentityResolver, reader TokenReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, found := reader.Read(request)
			if !found {
				next.ServeHTTP(writer, request)
				return
			}

			identity := resolver.Resolve(request.Context(), token)
			if identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), identity)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", identity.ID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if _, err := requestutil.RequiredUser(request); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}
