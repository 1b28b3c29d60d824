package employee

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

const selectEmployees = `SELECT e.id, e.image, e.name, e.phone, e.division_id, d.name AS division_name,
	e.position, e.created_at, e.updated_at
	FROM employees e JOIN divisions d ON d.id = e.division_id`

type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(dbh *sqlx.DB) *SQLStore { return &SQLStore{db: dbh} }

// List returns one page of employees ordered by name, plus the filtered total.
func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Employee, int, error) {
	conds, args := []string{}, []any{}
	if name := strings.TrimSpace(opts.Name); name != "" {
		conds = append(conds, `LOWER(e.name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(name)+"%")
	}
	if opts.DivisionID != "" {
		conds = append(conds, `e.division_id = ?`)
		args = append(args, opts.DivisionID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	pageArgs := append(append([]any{}, args...), opts.PerPage, opts.offset())

	var (
		total int
		items = make([]Employee, 0)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.GetContext(gctx, &total, s.db.Rebind(`SELECT COUNT(*) FROM employees e`+where), args...)
	})
	g.Go(func() error {
		q := s.db.Rebind(selectEmployees + where + ` ORDER BY e.name, e.id LIMIT ? OFFSET ?`)
		return s.db.SelectContext(gctx, &items, q, pageArgs...)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Employee, error) {
	var e Employee
	err := s.db.GetContext(ctx, &e, s.db.Rebind(selectEmployees+` WHERE e.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func (s *SQLStore) Create(ctx context.Context, e Employee) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO employees (id, image, name, phone, division_id, position, created_at, updated_at)
		 VALUES (:id, :image, :name, :phone, :division_id, :position, :created_at, :updated_at)`, e)
	return err
}

func (s *SQLStore) Update(ctx context.Context, e Employee) error {
	res, err := s.db.NamedExecContext(ctx,
		`UPDATE employees SET image=:image, name=:name, phone=:phone, division_id=:division_id,
		 position=:position, updated_at=:updated_at WHERE id=:id`, e)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM employees WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
