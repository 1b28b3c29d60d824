package admin

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const adminColumns = `id, name, username, phone, email, password, role, created_at, updated_at`

// used to keep the unknown-user path as slow as a real comparison
var dummyHash, _ = HashPassword("not-a-real-password")

type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(dbh *sqlx.DB) *SQLStore { return &SQLStore{db: dbh} }

func (s *SQLStore) GetByUsername(ctx context.Context, username string) (Admin, error) {
	return s.getBy(ctx, "username", username)
}

func (s *SQLStore) GetByID(ctx context.Context, id string) (Admin, error) {
	return s.getBy(ctx, "id", id)
}

func (s *SQLStore) getBy(ctx context.Context, col, val string) (Admin, error) {
	var a Admin
	q := s.db.Rebind(`SELECT ` + adminColumns + ` FROM admins WHERE ` + col + ` = ?`)
	if err := s.db.GetContext(ctx, &a, q, val); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, err
	}
	return a, nil
}

// Authenticate returns the admin when the password matches its bcrypt hash.
func (s *SQLStore) Authenticate(ctx context.Context, username, password string) (Admin, error) {
	a, err := s.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		CheckPassword(dummyHash, password)
		return Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return Admin{}, err
	}
	if !CheckPassword(a.PasswordHash, password) {
		return Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

// Upsert creates the admin or refreshes its profile and password, keyed by username.
// It reports whether a new row was created.
func (s *SQLStore) Upsert(ctx context.Context, a Admin, password string) (Admin, bool, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return Admin{}, false, err
	}
	if a.Role == "" {
		a.Role = RoleAdmin
	}
	now := time.Now().Unix()
	a.PasswordHash = hash
	a.UpdatedAt = now

	existing, err := s.GetByUsername(ctx, a.Username)
	switch {
	case errors.Is(err, ErrNotFound):
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.CreatedAt = now
		_, err = s.db.NamedExecContext(ctx,
			`INSERT INTO admins (`+adminColumns+`)
			 VALUES (:id, :name, :username, :phone, :email, :password, :role, :created_at, :updated_at)`, a)
		return a, err == nil, err
	case err != nil:
		return Admin{}, false, err
	}

	a.ID = existing.ID
	a.CreatedAt = existing.CreatedAt
	_, err = s.db.NamedExecContext(ctx,
		`UPDATE admins SET name=:name, phone=:phone, email=:email, password=:password, role=:role,
		 updated_at=:updated_at WHERE id=:id`, a)
	return a, false, err
}
