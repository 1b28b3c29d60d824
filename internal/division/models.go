package division

import "errors"

var ErrNotFound = errors.New("division not found")

type Division struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt int64  `db:"created_at" json:"-"`
	UpdatedAt int64  `db:"updated_at" json:"-"`
}

// ListOpts filters and pages a division listing. Page is 1-based.
type ListOpts struct {
	Name    string
	Page    int
	PerPage int
}

func (o ListOpts) offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.PerPage
}
