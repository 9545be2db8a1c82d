package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores serialized values by key
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// PositionPrefix starts the key of every cached cash position
const PositionPrefix = "cash-position:"

// PositionKey is the key of a cached cash position
func PositionKey(scenario string, weeks int) string {
	return fmt.Sprintf("%s%s:%d", PositionPrefix, scenario, weeks)
}
