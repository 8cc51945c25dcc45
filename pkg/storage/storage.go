package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore abstracts the asset store behind the catalog: overwrite-allowed
// keyed writes and time-limited read access. The object key is the only
// durable reference; signed URLs expire and must be re-issued.
type ObjectStore interface {
	// Write stores the object at key, replacing any existing object there,
	// and records contentType as the object's content type.
	Write(ctx context.Context, key string, r io.Reader, contentType string) error
	// SignedURL returns a time-limited read URL for the object at key.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}
