package storage

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/storage/redis/v3"
)

// FiberStorage adapts any fiber.Storage to a Backend. Blobs never expire.
type FiberStorage struct {
	store fiber.Storage
	ping  func(ctx context.Context) error
}

// NewFiberStorage wraps an existing fiber.Storage.
func NewFiberStorage(store fiber.Storage) *FiberStorage {
	return &FiberStorage{store: store}
}

// NewRedis connects to Redis at url ("redis://[user:pass@]host:port/db").
// The same storage is handed out by Storage for the session middleware.
func NewRedis(url string) (*FiberStorage, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	store := redis.New(redis.Config{
		URL: url,
	})

	return &FiberStorage{
		store: store,
		ping: func(ctx context.Context) error {
			return store.Conn().Ping(ctx).Err()
		},
	}, nil
}

// Storage exposes the underlying fiber.Storage.
func (f *FiberStorage) Storage() fiber.Storage {
	return f.store
}

// Read returns the blob stored under name, or nil when absent.
func (f *FiberStorage) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := f.store.GetWithContext(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Write stores data under name without expiry.
func (f *FiberStorage) Write(ctx context.Context, name string, data []byte) error {
	if err := f.store.SetWithContext(ctx, name, data, 0); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return nil
}

// Ping checks the connection when the backend knows how to.
func (f *FiberStorage) Ping(ctx context.Context) error {
	if f.ping == nil {
		return nil
	}
	return f.ping(ctx)
}

// Close releases the underlying storage.
func (f *FiberStorage) Close() error {
	return f.store.Close()
}
