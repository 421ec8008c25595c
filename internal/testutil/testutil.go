// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/folio/signupd/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// SQLiteURL returns a database URL for a fresh SQLite file under t.TempDir().
func SQLiteURL(t testing.TB) string {
	t.Helper()
	return "sqlite://" + filepath.Join(t.TempDir(), "signups.db")
}

// NewSQLiteStore creates a migrated SQLite-backed store that is closed when the test ends.
func NewSQLiteStore(t testing.TB) repository.Store {
	t.Helper()

	ctx := context.Background()
	url := SQLiteURL(t)

	if err := repository.Migrate(ctx, url); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := repository.Open(ctx, url)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

var emailSeq atomic.Int64

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, emailSeq.Add(1))
}
