package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SignatureDedup guards against re-classifying a signature this pipeline
// instance already processed. Classification is idempotent, so this is an
// efficiency guard, not a correctness one.
type SignatureDedup struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSignatureDedup(addr, password string, ttl time.Duration) (*SignatureDedup, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &SignatureDedup{client: client, ttl: ttl}, nil
}

// MarkSeen records the signature and reports whether it was already
// present. SETNX makes the check-and-set a single round trip.
func (d *SignatureDedup) MarkSeen(ctx context.Context, signature string) (alreadySeen bool, err error) {
	set, err := d.client.SetNX(ctx, "swap:seen:"+signature, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark signature seen: %w", err)
	}
	return !set, nil
}
