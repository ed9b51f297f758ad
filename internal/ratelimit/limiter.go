package ratelimit

import (
	"context"
	"time"
)

// Limiter admits or rejects requests per caller identity using a
// sliding window. Identity is an opaque string: the authenticated user
// id when known, otherwise the caller's network address.
//
// An error means the backing could not be consulted; callers fail open
// on error but must treat a computed false as a hard reject.
type Limiter interface {
	// Allow records the request and reports whether it is admitted.
	Allow(ctx context.Context, identity string) (bool, error)
}

// Config holds the sliding-window parameters shared by both backings.
type Config struct {
	// Requests is the maximum admitted per identity per window.
	Requests int

	// Window is the trailing interval in which requests are counted.
	Window time.Duration
}

// DefaultConfig matches the portal's per-user budget: 30 requests per
// trailing minute.
func DefaultConfig() Config {
	return Config{Requests: 30, Window: time.Minute}
}
