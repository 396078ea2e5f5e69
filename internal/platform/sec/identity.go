// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"time"

	"github.com/taibuivan/portfoliohub/internal/platform/apperr"
)

// # Subscription Tiers

// SubscriptionTier is the billing plan attached to an account.
type SubscriptionTier string

const (
	// Default tier for every newly registered account
	TierFree SubscriptionTier = "free"

	// Individual paid plan
	TierPro SubscriptionTier = "pro"

	// Team / agency paid plan
	TierBusiness SubscriptionTier = "business"
)

// Valid reports whether t is one of the known tiers.
func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierBusiness:
		return true
	default:
		return false
	}
}

// # Session Identity

// ErrAuthRequired is returned wherever a request needs an identity and has none.
var ErrAuthRequired = apperr.Unauthorized("Authentication required")

// Identity is the non-secret projection of an account that the current-user
// resolver hands to the rest of the request.
//
// It never carries the password hash.
type Identity struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	FullName         string           `json:"fullName"`
	Username         string           `json:"username"`
	SubscriptionTier SubscriptionTier `json:"subscriptionTier"`
	EmailVerified    bool             `json:"emailVerified"`
	CreatedAt        time.Time        `json:"createdAt"`
}
