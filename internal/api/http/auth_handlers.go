package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aksamedia/aksamedia-admin/internal/admin"
	"github.com/aksamedia/aksamedia-admin/internal/api/respond"
	auth "github.com/aksamedia/aksamedia-admin/internal/auth/middleware"
	"github.com/aksamedia/aksamedia-admin/internal/validation"
	"github.com/aksamedia/aksamedia-admin/pkg/logger"
	"github.com/aksamedia/aksamedia-admin/pkg/metrics"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (admin.Admin, error)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	Admin admin.Admin `json:"admin"`
}

// LoginHandler exchanges admin credentials, sent as JSON or a form, for a bearer token.
func LoginHandler(admins Authenticator, authSvc *auth.AuthService, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if isJSON(r) {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respond.Validation(w, validation.Errors{"body": {"body must be a JSON object"}})
				return
			}
		} else {
			req.Username = r.FormValue("username")
			req.Password = r.FormValue("password")
		}
		if err := validation.Struct(req); err != nil {
			if ve, ok := validation.As(err); ok {
				respond.Validation(w, ve.Fields)
				return
			}
			log.Error(r.Context(), "validate login", logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while logging in")
			return
		}

		a, err := admins.Authenticate(r.Context(), req.Username, req.Password)
		if errors.Is(err, admin.ErrInvalidCredentials) {
			metrics.RecordLogin("invalid")
			respond.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		if err != nil {
			metrics.RecordLogin("error")
			log.Error(r.Context(), "authenticate admin", logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while logging in")
			return
		}
		tok, err := authSvc.IssueJWT(a.ID, a.Role)
		if err != nil {
			metrics.RecordLogin("error")
			log.Error(r.Context(), "issue token", logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while logging in")
			return
		}
		metrics.RecordLogin("success")
		respond.Success(w, http.StatusOK, "Login successfully", loginResponse{Token: tok, Admin: a})
	}
}

// LogoutHandler revokes the caller's token.
func LogoutHandler(authSvc *auth.AuthService, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
			return
		}
		if err := authSvc.Revoke(r.Context(), c); err != nil {
			log.Error(r.Context(), "revoke token", logger.String("jti", c.ID), logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while logging out")
			return
		}
		respond.Success(w, http.StatusOK, "Logout successfully", nil)
	}
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}
