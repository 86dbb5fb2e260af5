package ports

import (
	"context"
	"time"
)

// TokenCache remembers recently verified access tokens so the middleware can
// skip the provider round-trip. Implementations must treat a miss and an
// error identically from the caller's point of view: verification falls back
// to the provider.
type TokenCache interface {
	// Get returns the email the token verified to, or "" on a miss.
	Get(ctx context.Context, accessToken string) (string, error)
	// Set records a verified token. ttl caps how long the entry may live;
	// implementations must not extend it.
	Set(ctx context.Context, accessToken, email string, ttl time.Duration) error
}
