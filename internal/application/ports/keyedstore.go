package ports

import (
	"context"
	"time"
)

// KeyedStore is a shared keyed store with per-entry expiry (Redis). It backs
// the token revocation lists and the one-time email action tokens, so any
// number of instances observe revocations placed by any other.
type KeyedStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns "" with a nil error when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
