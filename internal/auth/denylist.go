package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:denylist:"

// TokenDenylist tracks revoked bearer tokens in Redis until they would have
// expired anyway. Logout works by revoking; the middleware rejects revoked
// tokens with 401, which is what drives the gateway's forced-logout path.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist wraps a Redis client; a nil client disables revocation.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

// Revoke marks the token as unusable for the remainder of its lifetime.
func (d *TokenDenylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if d == nil || d.client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return d.client.Set(ctx, denylistPrefix+tokenKey(token), "1", ttl).Err()
}

// Revoked reports whether the token has been revoked. Redis being down fails
// open: tokens still carry their own expiry.
func (d *TokenDenylist) Revoked(ctx context.Context, token string) bool {
	if d == nil || d.client == nil {
		return false
	}
	n, err := d.client.Exists(ctx, denylistPrefix+tokenKey(token)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
