package port

import (
	"context"
	"time"
)

// Cache is the key-value contract used for token lookups and other short-lived state.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns ErrMiss when key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. A non-positive ttl keeps the key until deleted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// GetBySuffix returns the value of the first key ending with suffix, or ErrMiss.
	// Token stores key entries as "<user>:<token>" so lookups only know the tail.
	GetBySuffix(ctx context.Context, suffix string) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

// ErrMiss signals that no value exists for the requested key.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
