package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/aksamedia/aksamedia-admin/internal/db"
	"github.com/aksamedia/aksamedia-admin/internal/db/dbtest"
)

func TestOpenCreatesSchema(t *testing.T) {
	dbh := dbtest.Open(t)

	for _, table := range []string{"admins", "divisions", "employees", "nilai", "revoked_tokens"} {
		var n int
		err := dbh.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table)
		if err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Fatalf("table %s missing", table)
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := db.Open(context.Background(), db.Driver("mysql"), ""); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	dbh := dbtest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, dbh, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO divisions (id, name, created_at, updated_at) VALUES ('d1','QA',0,0)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	var n int
	if err := dbh.Get(&n, `SELECT COUNT(*) FROM divisions`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("rollback failed: %d rows", n)
	}
}

func TestWithTxCommits(t *testing.T) {
	dbh := dbtest.Open(t)
	ctx := context.Background()

	err := db.WithTx(ctx, dbh, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO divisions (id, name, created_at, updated_at) VALUES ('d1','QA',0,0)`)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	var n int
	if err := dbh.Get(&n, `SELECT COUNT(*) FROM divisions`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 row, got %d", n)
	}
}
