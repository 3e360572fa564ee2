package ports

import (
	"context"
	"time"
)

// Port: a TTL cache for provider reports (traffic, weather).
// Get returns ok=false on a miss; a nil cache is represented by the
// caller skipping the lookup, not by a nil-safe implementation.
type ReportCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
