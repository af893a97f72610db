package controllers

import (
	"net/http"

	"github.com/rmoralesdev/mediavault-backend/api/responses"
	"github.com/rmoralesdev/mediavault-backend/api/validators"
	"github.com/rmoralesdev/mediavault-backend/internal/auth"
	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
)

// AdminLogin wires the administrator login endpoint into the HTTP layer.
func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
