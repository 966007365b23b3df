// Package events tracks provider message ids that were already ingested so
// webhook redeliveries do not reach downstream consumers twice.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "webhook:seen:"

// DedupStore records inbound provider message ids with a TTL.
type DedupStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupStore wires a store to redis. ttl bounds how long a MessageSid is
// remembered; zero falls back to 24h.
func NewDedupStore(client *redis.Client, ttl time.Duration) *DedupStore {
	if client == nil {
		panic("events: redis client required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DedupStore{client: client, ttl: ttl}
}

// MarkSeen records a message id, returning false if it was already present.
func (s *DedupStore) MarkSeen(ctx context.Context, messageID string) (bool, error) {
	if messageID == "" {
		return false, fmt.Errorf("events: message id required")
	}
	fresh, err := s.client.SetNX(ctx, keyPrefix+messageID, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("events: mark seen: %w", err)
	}
	return fresh, nil
}

// Seen reports whether a message id was already recorded.
func (s *DedupStore) Seen(ctx context.Context, messageID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+messageID).Result()
	if err != nil {
		return false, fmt.Errorf("events: check seen: %w", err)
	}
	return n > 0, nil
}
