// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"linkchecker/internal/config"
	"linkchecker/internal/crawl"
	"linkchecker/internal/db"
	"linkchecker/internal/storage"
)

// TestDB creates a test database connection and returns a cleanup function.
// The test is skipped unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString, nil); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanupTestData(ctx, database)

	cleanup := func() {
		cleanupTestData(ctx, database)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, database *db.DB) {
	_, _ = database.Pool.Exec(ctx, "DELETE FROM history_blobs")
}

// TestConfig returns a development config with no external services.
func TestConfig() *config.Config {
	return &config.Config{
		Env:            "development",
		LogLevel:       "debug",
		ServerAddr:     ":0",
		BaseURL:        "http://localhost:3000",
		StorageBackend: "memory",
		SessionSecret:  "test-secret-that-is-long-enough-for-production",
		SiteTitle:      "Broken Link Checker",
	}
}

// NewWorkspaces returns workspaces over in-memory storage whose crawls return
// the default fixtures immediately.
func NewWorkspaces(t *testing.T) (*crawl.Workspaces, *storage.Memory) {
	t.Helper()
	return NewWorkspacesWith(t, crawl.NewStubService(0, nil))
}

// NewWorkspacesWith is NewWorkspaces with a custom crawl service.
func NewWorkspacesWith(t *testing.T, svc crawl.Service) (*crawl.Workspaces, *storage.Memory) {
	t.Helper()
	blob := storage.NewMemory()
	return crawl.NewWorkspaces(svc, blob, 0, nil, nil), blob
}
