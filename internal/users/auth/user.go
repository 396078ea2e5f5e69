// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements PortfolioHub account registration, credential login,
and session resolution.

# Architecture

  - Entities: [User] is the stored account; [sec.Identity] is its non-secret
    projection handed to the rest of a request.
  - Service: registration (with username derivation), login (with an
    optional Redis throttle), and cookie-token resolution.
  - Repository: [UserRepository] over PostgreSQL, [LoginLimiter] over Redis.
  - Delivery: chi handlers under /auth that bind the session cookie.
*/
package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/portfoliohub/internal/platform/sec"
)

// # Domain Entities

// User represents a registered PortfolioHub account.
type User struct {
	ID               string               `json:"id"`
	Email            string               `json:"email"`
	FullName         string               `json:"fullName"`
	Username         string               `json:"username"`
	PasswordHash     string               `json:"-"` // Never serialized.
	SubscriptionTier sec.SubscriptionTier `json:"subscriptionTier"`
	EmailVerified    bool                 `json:"emailVerified"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// Identity projects the account onto the fields safe to share with handlers.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		ID:               user.ID,
		Email:            user.Email,
		FullName:         user.FullName,
		Username:         user.Username,
		SubscriptionTier: user.SubscriptionTier,
		EmailVerified:    user.EmailVerified,
		CreatedAt:        user.CreatedAt,
	}
}

// PublicUser is the compact account payload returned by register and login.
type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
}

// Public returns the compact register/login projection.
func (user *User) Public() PublicUser {
	return PublicUser{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Username: user.Username,
	}
}

// NormalizeEmail trims and lowercases an address. Emails are stored and
// looked up in this form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Field Identifiers

// JSON field names used for validation details and request payloads.
const (
	FieldFullName = "fullName"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldUser     = "user"
)
