// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/portfoliohub/internal/platform/apperr"
)

// Password policy bounds. bcrypt ignores input beyond 72 bytes, so longer
// passwords are rejected instead of silently truncated.
const (
	PasswordMinLength = 8
	PasswordMaxBytes  = 72
)

var (
	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails with message if the trimmed value is empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, message)
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Email fails with message if the value is not a bare RFC 5322 address.
//
// Display-name forms such as "Jane <jane@example.com>" are rejected.
func (v *Validator) Email(field, value, message string) *Validator {
	if !IsEmail(value) {
		v.add(field, message)
	}
	return v
}

// Password applies the account password policy and records one error per
// violated rule, in a stable order.
func (v *Validator) Password(field, value string) *Validator {
	for _, message := range PasswordViolations(value) {
		v.add(field, message)
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("password", input.Password == "", "Password is required")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// FirstErr returns a [apperr.AppError] (VALIDATION_ERROR) carrying every
// recorded failure, with the first one as the top-level message. It returns
// nil if all rules passed.
func (v *Validator) FirstErr() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(v.errs[0].Message, v.errs...)
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// # Standalone Rules

// IsEmail reports whether value is a single bare email address.
func IsEmail(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	address, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return address.Address == value && address.Name == ""
}

// PasswordViolations lists every password-policy rule that value breaks.
// An empty slice means the password is acceptable.
func PasswordViolations(value string) []string {
	var violations []string

	if utf8.RuneCountInString(value) < PasswordMinLength {
		violations = append(violations, fmt.Sprintf("Password must be at least %d characters long", PasswordMinLength))
	}
	if len(value) > PasswordMaxBytes {
		violations = append(violations, fmt.Sprintf("Password must be at most %d bytes long", PasswordMaxBytes))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain at least one number")
	}

	return violations
}
