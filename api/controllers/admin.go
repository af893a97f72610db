package controllers

import (
	"net/http"

	"github.com/rmoralesdev/mediavault-backend/api/responses"
	"github.com/rmoralesdev/mediavault-backend/internal/gallery"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
)

// InitDB re-runs the idempotent schema bootstrap on demand.
func InitDB(svc gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.InitSchema(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "schema ensured"})
	}
}

// Stats serves the admin aggregate counts and the category allow-list.
func Stats(svc gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// Tables serves record counts by type for quick introspection.
func Tables(svc gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.TableCounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counts)
	}
}
