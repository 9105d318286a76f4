package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList cuts off sessions before their token expires. Tokens are
// otherwise trusted for their whole validity window, so rejecting or
// deleting an account writes a tombstone here that the auth middleware
// checks on every request. Tombstones outlive the longest possible token.
type RevocationList struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRevocationList creates a RevocationList whose tombstones expire after
// ttl. Pass the session token TTL (or longer).
func NewRevocationList(client *redis.Client, ttl time.Duration) *RevocationList {
	return &RevocationList{client: client, ttl: ttl}
}

// Revoke writes a tombstone for every session of userID issued up to now.
// The tombstone records the revocation instant so tokens from a later login
// stay valid.
func (l *RevocationList) Revoke(ctx context.Context, userID string) error {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := l.client.Set(ctx, l.key(userID), now, l.ttl).Err(); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// IsRevoked reports whether a session of userID issued at issuedAt has been
// revoked. A zero issuedAt marks a token with no issue timestamp, which any
// tombstone kills.
func (l *RevocationList) IsRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	val, err := l.client.Get(ctx, l.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}

	revokedAt, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return true, nil
	}
	if issuedAt.IsZero() {
		return true, nil
	}
	return !issuedAt.After(time.Unix(revokedAt, 0)), nil
}

func (l *RevocationList) key(userID string) string {
	return "revoked:" + userID
}
