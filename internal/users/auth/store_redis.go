// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/portfoliohub/internal/platform/constants"
)

// # Login Failure Counter

// RedisLoginLimiter implements LoginLimiter with a fixed-window counter per
// email. The window starts at the first failure.
type RedisLoginLimiter struct {
	client      redis.Cmdable
	maxFailures int64
	window      time.Duration
}

// NewLoginLimiter creates a Redis-backed LoginLimiter with the default budget.
func NewLoginLimiter(client redis.Cmdable) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		client:      client,
		maxFailures: MaxLoginFailures,
		window:      LoginFailureWindow,
	}
}

/*
Blocked reports whether the email has reached its failure budget.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - bool: true when the budget is exhausted
  - time.Duration: remaining window (zero when not blocked)
  - error: Connectivity errors
*/
func (limiter *RedisLoginLimiter) Blocked(context context.Context, email string) (bool, time.Duration, error) {
	key := loginFailureKey(email)

	count, err := limiter.client.Get(context, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("redis_login_limiter_get_failed: %w", err)
	}

	if count < limiter.maxFailures {
		return false, 0, nil
	}

	remaining, err := limiter.client.TTL(context, key).Result()
	if err != nil {
		return true, limiter.window, fmt.Errorf("redis_login_limiter_ttl_failed: %w", err)
	}
	if remaining < 0 {
		// A counter without a TTL would block the email forever.
		if err := limiter.client.Expire(context, key, limiter.window).Err(); err != nil {
			return true, limiter.window, fmt.Errorf("redis_login_limiter_expire_failed: %w", err)
		}
		remaining = limiter.window
	}

	return true, remaining, nil
}

/*
RecordFailure increments the counter and starts the window on the first failure.

A later failure re-applies the window when an earlier EXPIRE was lost, so the
counter always ends up with a TTL.
*/
func (limiter *RedisLoginLimiter) RecordFailure(context context.Context, email string) error {
	key := loginFailureKey(email)

	count, err := limiter.client.Incr(context, key).Result()
	if err != nil {
		return fmt.Errorf("redis_login_limiter_incr_failed: %w", err)
	}

	if count > 1 {
		remaining, err := limiter.client.TTL(context, key).Result()
		if err != nil {
			return fmt.Errorf("redis_login_limiter_ttl_failed: %w", err)
		}
		if remaining >= 0 {
			return nil
		}
	}

	if err := limiter.client.Expire(context, key, limiter.window).Err(); err != nil {
		return fmt.Errorf("redis_login_limiter_expire_failed: %w", err)
	}

	return nil
}

// Reset deletes the counter.
func (limiter *RedisLoginLimiter) Reset(context context.Context, email string) error {
	if err := limiter.client.Del(context, loginFailureKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_login_limiter_reset_failed: %w", err)
	}
	return nil
}

func loginFailureKey(email string) string {
	return constants.RedisPrefixLoginFailures + email
}
