package division

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(dbh *sqlx.DB) *SQLStore { return &SQLStore{db: dbh} }

// List returns one page of divisions ordered by name, plus the filtered total.
func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Division, int, error) {
	where, args := "", []any{}
	if name := strings.TrimSpace(opts.Name); name != "" {
		where = ` WHERE LOWER(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(name)+"%")
	}

	pageArgs := append(append([]any{}, args...), opts.PerPage, opts.offset())

	var (
		total int
		items = make([]Division, 0)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.GetContext(gctx, &total, s.db.Rebind(`SELECT COUNT(*) FROM divisions`+where), args...)
	})
	g.Go(func() error {
		q := s.db.Rebind(`SELECT id, name, created_at, updated_at FROM divisions` + where +
			` ORDER BY name, id LIMIT ? OFFSET ?`)
		return s.db.SelectContext(gctx, &items, q, pageArgs...)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Division, error) {
	var d Division
	err := s.db.GetContext(ctx, &d, s.db.Rebind(`SELECT id, name, created_at, updated_at FROM divisions WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return Division{}, ErrNotFound
	}
	return d, err
}

// EnsureByName returns the division with name, creating it when missing.
func (s *SQLStore) EnsureByName(ctx context.Context, name string) (Division, bool, error) {
	var d Division
	err := s.db.GetContext(ctx, &d, s.db.Rebind(`SELECT id, name, created_at, updated_at FROM divisions WHERE name = ?`), name)
	if err == nil {
		return d, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Division{}, false, err
	}
	now := time.Now().Unix()
	d = Division{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO divisions (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)`, d)
	if err != nil {
		return Division{}, false, err
	}
	return d, true, nil
}
