package http

import (
	"context"
	"net/http"

	"github.com/aksamedia/aksamedia-admin/internal/api/respond"
	"github.com/aksamedia/aksamedia-admin/internal/score"
)

type ScoreReporter interface {
	CategoryProfiles(ctx context.Context, assessmentID int) ([]score.CategoryProfile, error)
	CompositeScores(ctx context.Context, assessmentID int) ([]score.CompositeScore, error)
}

type nilaiRT struct {
	Artistic      int `json:"artistic"`
	Conventional  int `json:"conventional"`
	Enterprising  int `json:"enterprising"`
	Investigative int `json:"investigative"`
	Realistic     int `json:"realistic"`
	Social        int `json:"social"`
}

type rtRow struct {
	Name    string  `json:"name"`
	NISN    string  `json:"nisn"`
	NilaiRT nilaiRT `json:"nilaiRt"`
}

type listNilai struct {
	Figural     float64 `json:"figural"`
	Kuantitatif float64 `json:"kuantitatif"`
	Penalaran   float64 `json:"penalaran"`
	Verbal      float64 `json:"verbal"`
}

type stRow struct {
	Name      string    `json:"name"`
	NISN      string    `json:"nisn"`
	ListNilai listNilai `json:"listNilai"`
	Total     float64   `json:"total"`
}

// RTScoresHandler serves the category profile report. Failures are already logged by the service.
func RTScoresHandler(svc ScoreReporter, assessmentID int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := svc.CategoryProfiles(r.Context(), assessmentID)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while retrieving RT scores data")
			return
		}
		rows := make([]rtRow, 0, len(profiles))
		for _, p := range profiles {
			rows = append(rows, rtRow{
				Name: p.Name,
				NISN: p.Identifier,
				NilaiRT: nilaiRT{
					Artistic:      p.Categories[score.Artistic],
					Conventional:  p.Categories[score.Conventional],
					Enterprising:  p.Categories[score.Enterprising],
					Investigative: p.Categories[score.Investigative],
					Realistic:     p.Categories[score.Realistic],
					Social:        p.Categories[score.Social],
				},
			})
		}
		respond.Success(w, http.StatusOK, "RT scores retrieved successfully", rows)
	}
}

// STScoresHandler serves the weighted composite report, highest total first.
func STScoresHandler(svc ScoreReporter, assessmentID int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := svc.CompositeScores(r.Context(), assessmentID)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while retrieving ST scores data")
			return
		}
		rows := make([]stRow, 0, len(scores))
		for _, s := range scores {
			rows = append(rows, stRow{
				Name: s.Name,
				NISN: s.Identifier,
				ListNilai: listNilai{
					Figural:     s.Components[score.Figural],
					Kuantitatif: s.Components[score.Quantitative],
					Penalaran:   s.Components[score.Reasoning],
					Verbal:      s.Components[score.Verbal],
				},
				Total: s.Total,
			})
		}
		respond.Success(w, http.StatusOK, "ST scores retrieved successfully", rows)
	}
}
