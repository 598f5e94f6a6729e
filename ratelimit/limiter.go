// Package ratelimit throttles booking submissions per client key.
//
// Window is the default process-local implementation: a fixed window counter
// per key with an injected clock and bounded memory. StoreLimiter adapts any
// github.com/ulule/limiter/v3 store (Redis in production) to the same
// contract for deployments with more than one instance.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more request from key fits in its window.
// Implementations must be safe for concurrent use.
type Limiter interface {
	Admit(ctx context.Context, key string) (bool, error)
}

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time
