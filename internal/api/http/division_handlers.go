package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/aksamedia/aksamedia-admin/internal/api/respond"
	"github.com/aksamedia/aksamedia-admin/internal/division"
	"github.com/aksamedia/aksamedia-admin/pkg/logger"
)

type DivisionLister interface {
	List(ctx context.Context, opts division.ListOpts) ([]division.Division, int, error)
}

type divisionList struct {
	Divisions []division.Division `json:"divisions"`
}

// ListDivisionsHandler pages divisions, optionally filtered by ?name.
func ListDivisionsHandler(store DivisionLister, baseURL string, perPage int, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageParam(r)
		list, total, err := store.List(r.Context(), division.ListOpts{
			Name:    strings.TrimSpace(r.URL.Query().Get("name")),
			Page:    page,
			PerPage: perPage,
		})
		if err != nil {
			log.Error(r.Context(), "list divisions", logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while retrieving division data")
			return
		}
		if list == nil {
			list = []division.Division{}
		}
		respond.Paged(w, "Divisions retrieved successfully",
			divisionList{Divisions: list},
			newPagination(r, baseURL, total, page, perPage, len(list)))
	}
}
