package score

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aksamedia/aksamedia-admin/internal/db"
)

// Source fetches raw score rows for one assessment batch.
type Source interface {
	RecordsForAssessment(ctx context.Context, assessmentID int) ([]Record, error)
}

// SQLStore reads and ingests rows of the nilai table.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(dbh *sqlx.DB) *SQLStore { return &SQLStore{db: dbh} }

// RecordsForAssessment returns the batch in insertion order, which fixes group order.
func (s *SQLStore) RecordsForAssessment(ctx context.Context, assessmentID int) ([]Record, error) {
	q := s.db.Rebind(`SELECT id, nama, nisn, materi_uji_id, nama_pelajaran, pelajaran_id, skor
		FROM nilai WHERE materi_uji_id = ? ORDER BY id`)
	out := make([]Record, 0)
	if err := s.db.SelectContext(ctx, &out, q, assessmentID); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert appends records in a single transaction and returns how many were written.
func (s *SQLStore) Insert(ctx context.Context, records []Record) (int, error) {
	return s.write(ctx, records, false)
}

// Replace swaps every stored row of the assessment batches present in records
// for records, in a single transaction.
func (s *SQLStore) Replace(ctx context.Context, records []Record) (int, error) {
	return s.write(ctx, records, true)
}

func (s *SQLStore) write(ctx context.Context, records []Record, replace bool) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	q := s.db.Rebind(`INSERT INTO nilai (nama, nisn, materi_uji_id, nama_pelajaran, pelajaran_id, skor)
		VALUES (?, ?, ?, ?, ?, ?)`)
	n := 0
	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if replace {
			seen := map[int]bool{}
			for _, r := range records {
				if seen[r.AssessmentID] {
					continue
				}
				seen[r.AssessmentID] = true
				if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM nilai WHERE materi_uji_id = ?`), r.AssessmentID); err != nil {
					return fmt.Errorf("clear assessment %d: %w", r.AssessmentID, err)
				}
			}
		}
		stmt, err := tx.PreparexContext(ctx, q)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.Name, r.Identifier, r.AssessmentID, r.SubjectLabel, r.SubjectID, r.Score); err != nil {
				return fmt.Errorf("insert %s/%s: %w", r.Identifier, r.SubjectLabel, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Count returns the number of stored rows for an assessment batch.
func (s *SQLStore) Count(ctx context.Context, assessmentID int) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM nilai WHERE materi_uji_id = ?`), assessmentID)
	return n, err
}
