package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetHistoryBlob returns the stored history blob for name, or nil when no row
// exists.
func (d *DB) GetHistoryBlob(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, ErrEmptyBlobName
	}

	var data []byte
	err := d.Pool.QueryRow(ctx, `
		SELECT data FROM history_blobs WHERE name = $1
	`, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history blob %s: %w", name, err)
	}

	return data, nil
}

// PutHistoryBlob inserts or overwrites the history blob for name.
func (d *DB) PutHistoryBlob(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return ErrEmptyBlobName
	}

	_, err := d.Pool.Exec(ctx, `
		INSERT INTO history_blobs (name, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, name, data)
	if err != nil {
		return fmt.Errorf("failed to write history blob %s: %w", name, err)
	}

	return nil
}
