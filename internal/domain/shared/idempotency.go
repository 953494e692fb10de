package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client supplied idempotency keys so that a
// repeated submission resolves to the result of the first one.
type IdempotencyStore interface {
	// Claim atomically associates value with key for ttl.
	// Returns true if the key was free, false if it was already claimed.
	Claim(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Lookup returns the value stored under key, if any
	Lookup(ctx context.Context, key string) (string, bool, error)

	// Release forgets key, typically after the guarded operation failed
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key is remembered. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency keys are honoured. Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
