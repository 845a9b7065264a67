package controllers

import (
	"net/http"

	"github.com/avilamfg/exhibit-backend/api/middleware"
	"github.com/avilamfg/exhibit-backend/api/responses"
	"github.com/avilamfg/exhibit-backend/api/validators"
	adminsvc "github.com/avilamfg/exhibit-backend/internal/admins"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
)

// AdminLogin authenticates an admin and returns the access token.
func AdminLogin(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload adminsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminLogout revokes the session carried by the presented token.
func AdminLogout(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
