package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/downwatch/downwatch/internal/logctx"
	"github.com/downwatch/downwatch/internal/storage"
	"golang.org/x/sync/singleflight"
)

// Store caches the settings blob in memory, lazily hydrated from persistent
// storage. Missing or malformed fields are repaired with defaults at load
// time, so callers always see a fully populated Settings.
type Store struct {
	repo storage.BlobRepository

	mu     sync.RWMutex
	cached *Settings

	loads singleflight.Group
}

func NewStore(repo storage.BlobRepository) *Store {
	return &Store{repo: repo}
}

// Load returns the cached settings, hydrating from storage on first use.
// Safe to call repeatedly. On a storage failure it returns defaults along
// with the error so the caller can log and keep going.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()

	if cached != nil {
		return *cached, nil
	}

	v, err, _ := s.loads.Do(storage.SettingsKey, func() (interface{}, error) {
		return s.hydrate(ctx)
	})
	if err != nil {
		return Default(), err
	}

	return v.(Settings), nil
}

// Save replaces the settings wholesale and persists them. No validation is
// performed here; that is the settings UI's responsibility.
func (s *Store) Save(ctx context.Context, st Settings) error {
	s.mu.Lock()
	s.cached = &st
	s.mu.Unlock()

	blob, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := s.repo.Put(ctx, storage.SettingsKey, blob); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}

	return nil
}

func (s *Store) hydrate(ctx context.Context) (Settings, error) {
	logger := logctx.LoggerFromContext(ctx)

	var r raw

	blob, err := s.repo.Get(ctx, storage.SettingsKey)

	switch {
	case errors.Is(err, storage.ErrNotFound):
		// first run, start from defaults
	case err != nil:
		return Default(), fmt.Errorf("failed to read settings blob: %w", err)
	default:
		if err := json.Unmarshal(blob, &r); err != nil {
			// repaired, not fatal
			logger.Warn("malformed settings blob, falling back to defaults", "err", err)

			r = raw{}
		}
	}

	st := r.settings()

	s.mu.Lock()
	s.cached = &st
	s.mu.Unlock()

	return st, nil
}
