package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = time.Minute

// TokenCache remembers which email a verified access token resolved to, so
// the auth middleware can skip one provider round-trip per request. Entries
// are keyed by the token's SHA-256 so raw tokens never reach Redis.
// Key format: tokencache:<hex digest>
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenCache wraps the given Redis client. ttl caps entry lifetime; the
// caller may pass a shorter per-entry TTL on Set (e.g. bound by token expiry).
func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &TokenCache{client: client, ttl: ttl}
}

// Get returns the cached email for the token, or "" on a miss.
func (c *TokenCache) Get(ctx context.Context, accessToken string) (string, error) {
	email, err := c.client.Get(ctx, c.key(accessToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("token cache get: %w", err)
	}
	return email, nil
}

// Set records a verified token. The entry lives for the shorter of the cache
// TTL and the caller-provided ttl, so it never outlives the token itself.
func (c *TokenCache) Set(ctx context.Context, accessToken, email string, ttl time.Duration) error {
	if ttl <= 0 || ttl > c.ttl {
		ttl = c.ttl
	}
	return c.client.Set(ctx, c.key(accessToken), email, ttl).Err()
}

func (c *TokenCache) key(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return "tokencache:" + hex.EncodeToString(sum[:])
}
