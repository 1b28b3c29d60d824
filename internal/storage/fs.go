package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSStore keeps blobs on the local filesystem under base.
type FSStore struct {
	base      string
	publicURL string
}

// NewFSStore creates base if needed. publicURL is the prefix blobs are served
// under, e.g. "http://localhost:8080/storage".
func NewFSStore(base, publicURL string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (s *FSStore) Put(key string, r io.Reader) (string, error) {
	key, dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	_, p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return f, err
}

// Delete removes a blob. Missing blobs are not an error.
func (s *FSStore) Delete(key string) error {
	_, p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FSStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.publicURL + "/" + strings.TrimPrefix(path.Clean("/"+key), "/")
}

// resolve normalizes key and maps it to a path that cannot leave base.
func (s *FSStore) resolve(key string) (string, string, error) {
	if key == "" {
		return "", "", ErrInvalidKey
	}
	clean := path.Clean("/" + filepath.ToSlash(key))
	if clean == "/" {
		return "", "", ErrInvalidKey
	}
	clean = strings.TrimPrefix(clean, "/")
	return clean, filepath.Join(s.base, filepath.FromSlash(clean)), nil
}
