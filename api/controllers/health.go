package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/rmoralesdev/mediavault-backend/api/responses"
	"github.com/rmoralesdev/mediavault-backend/internal/gallery"
	"github.com/rmoralesdev/mediavault-backend/pkg/config"
	"github.com/rmoralesdev/mediavault-backend/pkg/db"
	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
	"github.com/rmoralesdev/mediavault-backend/pkg/types"
)

// Root serves the public status banner.
func Root(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"service": "mediavault",
			"status":  "ok",
			"env":     cfg.App.Env,
		})
	}
}

// Health reports liveness plus the current record counts. The connection is
// pinged before the counts query so a dead pool is reported even when the
// counts would be served from a cache layer later on; either failure surfaces
// as a 500.
func Health(svc gallery.Service, dbP db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "database unavailable"))
				return
			}
		}
		counts, err := svc.TableCounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "database unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"status": "ok",
			"counts": counts,
		})
	}
}

// NotFound is the JSON catch-all for unknown routes.
func NotFound(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	}
}

// MethodNotAllowed keeps unsupported verbs inside the JSON contract too.
func MethodNotAllowed(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(types.ErrorEnvelope{
			Error: types.APIError{
				Code:    "METHOD_NOT_ALLOWED",
				Message: "method not allowed",
			},
		})
	}
}
