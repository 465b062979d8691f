// Package lock provides a Redis-backed mutual-exclusion lock so only one
// deployed instance runs the payment monitor at a time.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const monitorLockKey = "paykript:monitor:lock"

// InstanceLock guards a single-instance section with a Redis SETNX lock
// that carries a TTL, so a crashed holder's lock still expires instead of
// wedging every other instance out permanently.
type InstanceLock struct {
	client *redis.Client
	token  string
	ttl    time.Duration
}

// NewInstanceLock builds a lock identified by a fresh random token, so this
// instance can only release the lock it itself holds.
func NewInstanceLock(client *redis.Client, ttl time.Duration) *InstanceLock {
	if ttl <= 0 {
		ttl = 45 * time.Second
	}
	return &InstanceLock{client: client, token: uuid.NewString(), ttl: ttl}
}

// TryAcquire attempts to take the monitor lock via SetNX, atomic against
// concurrent instances racing on the same Redis key.
func (l *InstanceLock) TryAcquire(ctx context.Context) (bool, error) {
	acquired, err := l.client.SetNX(ctx, monitorLockKey, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire monitor lock: %w", err)
	}
	return acquired, nil
}

// Renew extends the TTL on a lock this instance still holds. Call this on
// every tick the monitor runs so a long-lived holder never loses the lock
// to its own TTL expiry mid-run.
func (l *InstanceLock) Renew(ctx context.Context) error {
	held, err := l.client.Get(ctx, monitorLockKey).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("monitor lock is not held")
		}
		return fmt.Errorf("failed to read monitor lock: %w", err)
	}
	if held != l.token {
		return fmt.Errorf("monitor lock is held by another instance")
	}
	return l.client.Expire(ctx, monitorLockKey, l.ttl).Err()
}

// Release drops the lock, but only if this instance is still the holder —
// a lock that already expired and was re-acquired elsewhere must never be
// released out from under its new owner.
func (l *InstanceLock) Release(ctx context.Context) error {
	held, err := l.client.Get(ctx, monitorLockKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to read monitor lock: %w", err)
	}
	if held != l.token {
		return nil
	}
	return l.client.Del(ctx, monitorLockKey).Err()
}
