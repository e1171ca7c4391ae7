package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist tracks revoked token IDs in Redis until their natural expiry.
type Denylist struct {
	client *redis.Client
	prefix string
}

// NewDenylist constructs a Denylist over the given client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client, prefix: "meridian:auth:revoked:"}
}

// Revoke marks the token ID revoked for the given duration.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := d.client.Set(ctx, d.prefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// Revoked reports whether the token ID has been revoked. A Redis outage is
// surfaced, not swallowed: verification fails closed.
func (d *Denylist) Revoked(ctx context.Context, tokenID string) (bool, error) {
	if err := d.client.Get(ctx, d.prefix+tokenID).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
