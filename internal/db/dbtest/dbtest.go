// Package dbtest opens throwaway sqlite databases for store tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aksamedia/aksamedia-admin/internal/db"
)

// Open returns a migrated sqlite database living in t.TempDir.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?mode=rwc"
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return dbh
}
