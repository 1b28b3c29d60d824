package storage

import (
	"errors"
	"io"
)

var (
	ErrInvalidKey = errors.New("invalid blob key")
	ErrNotFound   = errors.New("blob not found")
)

// BlobStore keeps uploaded files such as employee photos.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
	URL(key string) string // public URL the gateway serves the blob under
}
