package employee

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/aksamedia/aksamedia-admin/internal/division"
	"github.com/aksamedia/aksamedia-admin/internal/storage"
	"github.com/aksamedia/aksamedia-admin/internal/validation"
	"github.com/aksamedia/aksamedia-admin/pkg/logger"
)

// MaxImageBytes caps an uploaded photo.
const MaxImageBytes = 2 << 20

// Raster formats only: stored photos are served publicly and SVG can carry script.
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

const (
	msgImageRequired = "image is a required field"
	msgImageInvalid  = "image must be a jpeg, png, gif or webp file of at most 2 MiB"
	msgDivision      = "division does not exist"
)

type Store interface {
	List(ctx context.Context, opts ListOpts) ([]Employee, int, error)
	Get(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, e Employee) error
	Update(ctx context.Context, e Employee) error
	Delete(ctx context.Context, id string) error
}

type DivisionLookup interface {
	Get(ctx context.Context, id string) (division.Division, error)
}

// Service validates employee writes and keeps photos in the blob store in step
// with the rows that reference them.
type Service struct {
	store     Store
	divisions DivisionLookup
	blobs     storage.BlobStore
	log       logger.Logger
	now       func() time.Time
}

func NewService(store Store, divisions DivisionLookup, blobs storage.BlobStore, log logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{store: store, divisions: divisions, blobs: blobs, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context, opts ListOpts) ([]Employee, int, error) {
	return s.store.List(ctx, opts)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.store.Get(ctx, id)
}

// Create validates in, stores the photo and inserts the row.
func (s *Service) Create(ctx context.Context, in NewEmployee, img *Image) (Employee, error) {
	in.Name, in.Phone, in.DivisionID, in.Position =
		strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone), strings.TrimSpace(in.DivisionID), strings.TrimSpace(in.Position)

	verr := &validation.Error{}
	if err := validation.Struct(in); err != nil {
		ve, ok := validation.As(err)
		if !ok {
			return Employee{}, err
		}
		verr = ve
	}
	if img == nil {
		verr.Add("image", msgImageRequired)
	}
	if len(verr.Fields) > 0 {
		return Employee{}, verr
	}
	if err := s.checkDivision(ctx, in.DivisionID); err != nil {
		return Employee{}, err
	}

	id := uuid.NewString()
	key, err := s.putImage(id, img)
	if err != nil {
		return Employee{}, err
	}

	now := s.now().Unix()
	e := Employee{
		ID:         id,
		Image:      key,
		Name:       in.Name,
		Phone:      in.Phone,
		DivisionID: in.DivisionID,
		Position:   in.Position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, e); err != nil {
		s.dropImage(ctx, key)
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Update applies p and, when img is set, swaps the stored photo.
func (s *Service) Update(ctx context.Context, id string, p Patch, img *Image) (Employee, error) {
	p = p.trimmed()
	if err := validation.Struct(p); err != nil {
		return Employee{}, err
	}
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.DivisionID != nil && *p.DivisionID != e.DivisionID {
		if err := s.checkDivision(ctx, *p.DivisionID); err != nil {
			return Employee{}, err
		}
		e.DivisionID = *p.DivisionID
	}

	oldKey := e.Image
	if img != nil {
		key, err := s.putImage(uuid.NewString(), img)
		if err != nil {
			return Employee{}, err
		}
		e.Image = key
	}
	e.UpdatedAt = s.now().Unix()

	if err := s.store.Update(ctx, e); err != nil {
		if e.Image != oldKey {
			s.dropImage(ctx, e.Image)
		}
		return Employee{}, err
	}
	if e.Image != oldKey {
		s.dropImage(ctx, oldKey)
	}
	return s.store.Get(ctx, id)
}

// Delete removes the row and then its photo.
func (s *Service) Delete(ctx context.Context, id string) error {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.dropImage(ctx, e.Image)
	return nil
}

// ImageURL is the public URL of an employee photo.
func (s *Service) ImageURL(e Employee) string {
	return s.blobs.URL(e.Image)
}

func (s *Service) checkDivision(ctx context.Context, id string) error {
	if _, err := s.divisions.Get(ctx, id); err != nil {
		if errors.Is(err, division.ErrNotFound) {
			return validation.FieldError("division", msgDivision)
		}
		return err
	}
	return nil
}

func (s *Service) putImage(stem string, img *Image) (string, error) {
	data, ext, err := readImage(img)
	if errors.Is(err, ErrInvalidImage) {
		return "", validation.FieldError("image", msgImageInvalid)
	}
	if err != nil {
		return "", err
	}
	return s.blobs.Put("employees/"+stem+ext, bytes.NewReader(data))
}

func (s *Service) dropImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(key); err != nil {
		s.log.Warn(ctx, "delete employee image", logger.String("key", key), logger.Error(err))
	}
}

// readImage buffers at most MaxImageBytes and checks the content is an allowed image type.
func readImage(img *Image) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(img.Body, MaxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 || len(data) > MaxImageBytes {
		return nil, "", ErrInvalidImage
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return nil, "", ErrInvalidImage
	}
	return data, mt.Extension(), nil
}
