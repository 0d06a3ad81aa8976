package storage

import (
	"context"

	"linkchecker/internal/db"
)

// Postgres stores blobs in the history_blobs table.
type Postgres struct {
	db *db.DB
}

// NewPostgres wraps an open database.
func NewPostgres(database *db.DB) *Postgres {
	return &Postgres{db: database}
}

// Read returns the blob stored under name, or nil when absent.
func (p *Postgres) Read(ctx context.Context, name string) ([]byte, error) {
	return p.db.GetHistoryBlob(ctx, name)
}

// Write upserts the blob stored under name.
func (p *Postgres) Write(ctx context.Context, name string, data []byte) error {
	return p.db.PutHistoryBlob(ctx, name, data)
}

// Ping checks the database connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
