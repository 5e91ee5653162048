package shared

import (
	"context"
	"time"
)

// IdempotencyStore tracks processed delivery IDs so that repeated
// deliveries of the same message are applied at most once per TTL window.
type IdempotencyStore interface {
	// MarkProcessed marks an ID as processed with a TTL.
	// Returns true if the ID was newly marked, false if already present.
	MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the ID has already been processed.
	IsProcessed(ctx context.Context, id string) (bool, error)
}
