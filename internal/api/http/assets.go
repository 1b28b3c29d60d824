package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aksamedia/aksamedia-admin/internal/api/respond"
	"github.com/aksamedia/aksamedia-admin/internal/storage"
)

// MountStorage serves stored blobs under the router it is mounted on.
func MountStorage(r chi.Router, bs storage.BlobStore) {
	// GET /storage/*   -> returns the blob at whatever follows /storage/
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
				respond.Error(w, http.StatusNotFound, "File not found")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while reading the file")
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		_, _ = io.Copy(w, rc)
	})
}
