package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/downwatch/downwatch/internal/storage"
)

type BlobRepository struct {
	db *sql.DB
}

func NewBlobRepository(dbConn *sql.DB) *BlobRepository {
	return &BlobRepository{db: dbConn}
}

func (r *BlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := r.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return value, nil
}

func (r *BlobRepository) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().Format(time.RFC3339))

	return err
}
