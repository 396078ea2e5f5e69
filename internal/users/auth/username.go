// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/portfoliohub/internal/platform/apperr"
	"github.com/taibuivan/portfoliohub/pkg/slug"
)

// ErrUsernameExhausted is returned when every candidate up to
// MaxUsernameAttempts is already allocated.
var ErrUsernameExhausted = apperr.Conflict("Could not allocate a unique username, please try a different name")

// UsernameBase slugifies a full name into the username root.
func UsernameBase(fullName string) string {
	if base := slug.From(fullName); base != "" {
		return base
	}
	return FallbackUsername
}

// UsernameCandidates lists the probe order for base: "base", "base-1", …
func UsernameCandidates(base string, limit int) []string {
	candidates := make([]string, 0, limit)
	for attempt := 0; attempt < limit; attempt++ {
		candidates = append(candidates, slug.WithSuffix(base, attempt))
	}
	return candidates
}

/*
createWithUsername allocates a username for user and inserts it.

Description: Each candidate is pre-checked, then inserted. The unique
constraint remains the arbiter: a concurrent registration that wins the
same candidate surfaces as ErrUsernameTaken and the next suffix is tried.

Returns:
  - error: ErrUsernameExhausted, ErrEmailTaken or persistence failures
*/
func (service *Service) createWithUsername(context context.Context, user *User) error {
	for _, candidate := range UsernameCandidates(UsernameBase(user.FullName), MaxUsernameAttempts) {
		taken, err := service.users.UsernameExists(context, candidate)
		if err != nil {
			return fmt.Errorf("auth_service_username_lookup_failed: %w", err)
		}
		if taken {
			continue
		}

		user.Username = candidate
		err = service.users.Create(context, user)
		if errors.Is(err, ErrUsernameTaken) {
			continue
		}
		return err
	}

	user.Username = ""
	return ErrUsernameExhausted
}
