package admin

import "errors"

var (
	ErrNotFound           = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

type Admin struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Username     string `db:"username" json:"username"`
	Phone        string `db:"phone" json:"phone"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password" json:"-"`
	Role         string `db:"role" json:"-"`
	CreatedAt    int64  `db:"created_at" json:"-"`
	UpdatedAt    int64  `db:"updated_at" json:"-"`
}
