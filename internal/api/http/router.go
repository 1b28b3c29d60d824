package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aksamedia/aksamedia-admin/internal/api/respond"
	auth "github.com/aksamedia/aksamedia-admin/internal/auth/middleware"
	"github.com/aksamedia/aksamedia-admin/internal/config"
	"github.com/aksamedia/aksamedia-admin/internal/employee"
	"github.com/aksamedia/aksamedia-admin/internal/rbac"
	"github.com/aksamedia/aksamedia-admin/internal/storage"
	"github.com/aksamedia/aksamedia-admin/pkg/logger"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps is everything the router hands to its handlers.
type Deps struct {
	Config    *config.Config
	DB        Pinger
	Auth      *auth.AuthService
	Limiter   *auth.LoginLimiter
	Admins    Authenticator
	Divisions DivisionLister
	Employees *employee.Service
	Scores    ScoreReporter
	Blobs     storage.BlobStore
	Log       logger.Logger
}

// NewRouter mounts the public, authenticated and operational routes.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = logger.Discard()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		// rewrites RemoteAddr, which the login limiter keys on
		r.Use(middleware.RealIP)
	}
	r.Use(AccessLog(log.Named("http")), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	login := LoginHandler(d.Admins, d.Auth, log)
	if d.Limiter != nil {
		r.With(d.Limiter.Middleware).Post("/login", login)
	} else {
		r.Post("/login", login)
	}

	// Score reports are public.
	r.Get("/nilaiRT", RTScoresHandler(d.Scores, cfg.RTAssessmentID))
	r.Get("/nilaiST", STScoresHandler(d.Scores, cfg.STAssessmentID))

	if d.Blobs != nil {
		r.Route("/storage", func(sr chi.Router) {
			MountStorage(sr, d.Blobs)
		})
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.Post("/logout", LogoutHandler(d.Auth, log))

		pr.With(rbac.Require(rbac.PermDivisionsList)).
			Get("/divisions", ListDivisionsHandler(d.Divisions, cfg.BaseURL(), cfg.PageSize, log))

		pr.With(rbac.Require(rbac.PermEmployeesList)).
			Get("/employees", ListEmployeesHandler(d.Employees, cfg.BaseURL(), cfg.PageSize, log))
		pr.With(rbac.Require(rbac.PermEmployeesCreate)).
			Post("/employees", CreateEmployeeHandler(d.Employees, cfg.BaseURL(), log))
		pr.With(rbac.Require(rbac.PermEmployeesUpdate)).
			Put("/employees/{id}", UpdateEmployeeHandler(d.Employees, cfg.BaseURL(), log))
		pr.With(rbac.Require(rbac.PermEmployeesDelete)).
			Delete("/employees/{id}", DeleteEmployeeHandler(d.Employees, log))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.DB.PingContext(ctx); err != nil {
				log.Warn(r.Context(), "readiness ping failed", logger.Error(err))
				respond.Error(w, http.StatusServiceUnavailable, "Database unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}
