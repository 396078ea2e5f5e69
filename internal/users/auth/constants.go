// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Registration Constraints

const (
	// MaxUsernameAttempts bounds the "name", "name-1", "name-2" … probe when
	// deriving a unique username from a full name.
	MaxUsernameAttempts = 50

	// FallbackUsername is the slug base used when a full name has no ASCII
	// letters or digits to slugify.
	FallbackUsername = "user"

	// MaxFullNameLength caps the display name accepted at registration.
	MaxFullNameLength = 100

	// MaxEmailLength is the RFC 5321 path limit.
	MaxEmailLength = 254
)

// # Login Throttle

const (
	// MaxLoginFailures is the number of failed logins per email tolerated
	// inside one LoginFailureWindow.
	MaxLoginFailures = 5

	// LoginFailureWindow is the lifetime of a failure counter, starting at
	// the first failure.
	LoginFailureWindow = 15 * time.Minute
)

// # Auth Event Labels

// Event and outcome labels reported to the [EventRecorder].
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventLogout   = "logout"

	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeDuplicateEmail     = "duplicate_email"
	OutcomeThrottled          = "throttled"
	OutcomeError              = "error"
)
