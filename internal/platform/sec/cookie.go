// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/portfoliohub/internal/platform/constants"
)

// SessionCookie binds session tokens to the `auth-token` cookie.
//
// Clearing the cookie does not revoke the token it carried: a captured token
// stays valid until its natural expiry.
type SessionCookie struct {
	tokens       *TokenService
	secureAlways bool
}

// NewSessionCookie creates a cookie binding backed by tokens.
//
// When secureAlways is false the Secure attribute is still set for requests
// that arrived over TLS.
func NewSessionCookie(tokens *TokenService, secureAlways bool) *SessionCookie {
	return &SessionCookie{tokens: tokens, secureAlways: secureAlways}
}

// Set issues a fresh token for the user and writes it to the response.
func (binding *SessionCookie) Set(writer http.ResponseWriter, request *http.Request, userID, email string) error {
	token, expiresAt, err := binding.tokens.Issue(userID, email)
	if err != nil {
		return fmt.Errorf("sec: failed to issue session: %w", err)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		MaxAge:   int(binding.tokens.TTL() / time.Second),
		Secure:   binding.isSecure(request),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Clear instructs the client to delete the session cookie.
func (binding *SessionCookie) Clear(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   binding.isSecure(request),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read extracts the raw session token from the incoming request.
func (binding *SessionCookie) Read(request *http.Request) (string, bool) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (binding *SessionCookie) isSecure(request *http.Request) bool {
	return binding.secureAlways || (request != nil && request.TLS != nil)
}
