package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no blob exists under the given key.
var ErrNotFound = errors.New("storage: blob not found")

// SettingsKey is the single key holding the persisted settings blob.
const SettingsKey = "commonSettings"

// BlobRepository is a key-value store of opaque configuration blobs.
// No transactional guarantees are assumed by callers.
type BlobRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
