// Package cache provides the byte-value TTL cache used for rendered pages
// and social images. Two backends exist: an in-process map for single-node
// deployments, and Redis for anything that runs more than one replica.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry expiry. Values are raw bytes;
// callers own serialization. A miss is (nil, false, nil) — errors are
// reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
