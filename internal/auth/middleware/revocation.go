package auth

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLRevocations stores revoked token ids in the revoked_tokens table.
type SQLRevocations struct {
	db *sqlx.DB
}

func NewSQLRevocations(dbh *sqlx.DB) *SQLRevocations { return &SQLRevocations{db: dbh} }

func (s *SQLRevocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)
		 ON CONFLICT (jti) DO UPDATE SET expires_at = excluded.expires_at`),
		jti, expiresAt.Unix())
	return err
}

func (s *SQLRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`), jti)
	return n > 0, err
}

// Purge drops entries whose tokens have expired anyway.
func (s *SQLRevocations) Purge(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM revoked_tokens WHERE expires_at < ?`), now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
