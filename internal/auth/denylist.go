package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:denylist:"

// TokenDenylist tracks revoked token ids until their natural expiry.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist wraps the redis client.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

// Revoke records a token id until the token would have expired anyway.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if d == nil || d.client == nil {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether the token id has been revoked. A redis outage
// fails open: sessions keep working until their JWT expiry.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) bool {
	if d == nil || d.client == nil {
		return false
	}
	res, err := d.client.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false
	}
	return res > 0
}
