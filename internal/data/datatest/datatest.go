// Package datatest opens migrated SQLite databases for repository tests.
package datatest

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"bannercms/app/internal/data/database"
	"bannercms/app/internal/data/migrations"
	applog "bannercms/app/internal/platform/log"
)

// Open returns a fully migrated database stored in a temp directory. It is
// closed when the test finishes.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bannercms.db")
	db, err := database.Open(database.Options{Path: path})
	if err != nil {
		t.Fatalf("database.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := database.Close(db); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	if err := migrations.Apply(context.Background(), db, applog.Discard()); err != nil {
		t.Fatalf("migrations.Apply returned error: %v", err)
	}

	return db
}
