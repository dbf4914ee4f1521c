package sqlite

import (
	"context"
	"database/sql"

	"github.com/downwatch/downwatch/internal/telemetry"
)

// InstrumentedBlobRepository wraps BlobRepository with telemetry.
type InstrumentedBlobRepository struct {
	repo      *BlobRepository
	telemetry *telemetry.Telemetry
}

// NewInstrumentedBlobRepository creates a new instrumented blob repository.
func NewInstrumentedBlobRepository(dbConn *sql.DB, tel *telemetry.Telemetry) *InstrumentedBlobRepository {
	return &InstrumentedBlobRepository{
		repo:      NewBlobRepository(dbConn),
		telemetry: tel,
	}
}

// Get retrieves a blob with telemetry.
func (r *InstrumentedBlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var result []byte

	var err error

	instrumentedErr := r.telemetry.InstrumentDBOperation(ctx, "get_blob", func(ctx context.Context) error {
		result, err = r.repo.Get(ctx, key)

		return err
	})

	if instrumentedErr != nil {
		return nil, instrumentedErr
	}

	return result, nil
}

// Put stores a blob with telemetry.
func (r *InstrumentedBlobRepository) Put(ctx context.Context, key string, value []byte) error {
	return r.telemetry.InstrumentDBOperation(ctx, "put_blob", func(ctx context.Context) error {
		return r.repo.Put(ctx, key, value)
	})
}
