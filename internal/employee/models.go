package employee

import (
	"errors"
	"io"
	"strings"
)

var (
	ErrNotFound     = errors.New("employee not found")
	ErrInvalidImage = errors.New("invalid image")
)

// Employee is a stored employee row joined with its division name.
type Employee struct {
	ID           string `db:"id"`
	Image        string `db:"image"` // blob key
	Name         string `db:"name"`
	Phone        string `db:"phone"`
	DivisionID   string `db:"division_id"`
	DivisionName string `db:"division_name"`
	Position     string `db:"position"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`
}

type ListOpts struct {
	Name       string
	DivisionID string
	Page       int
	PerPage    int
}

func (o ListOpts) offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.PerPage
}

// NewEmployee is the payload for creating an employee.
type NewEmployee struct {
	Name       string `json:"name" validate:"required,max=255"`
	Phone      string `json:"phone" validate:"required,phone"`
	DivisionID string `json:"division" validate:"required"`
	Position   string `json:"position" validate:"required,max=255"`
}

// Patch carries the fields an update may change; nil leaves a field as is.
type Patch struct {
	Name       *string `json:"name" validate:"omitnil,min=1,max=255"`
	Phone      *string `json:"phone" validate:"omitnil,phone"`
	DivisionID *string `json:"division" validate:"omitnil,min=1"`
	Position   *string `json:"position" validate:"omitnil,min=1,max=255"`
}

// trimmed returns a copy with surrounding whitespace removed from every set field,
// so that a blank value fails validation instead of being stored empty.
func (p Patch) trimmed() Patch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	return Patch{
		Name:       trim(p.Name),
		Phone:      trim(p.Phone),
		DivisionID: trim(p.DivisionID),
		Position:   trim(p.Position),
	}
}

// Image is an uploaded photo.
type Image struct {
	Filename string
	Body     io.Reader
}
