package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rmoralesdev/mediavault-backend/api/responses"
	"github.com/rmoralesdev/mediavault-backend/api/validators"
	"github.com/rmoralesdev/mediavault-backend/internal/gallery"
	"github.com/rmoralesdev/mediavault-backend/pkg/enums"
	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
)

// ListByType serves the paginated all-images / all-gifs pages.
func ListByType(svc gallery.Service, mediaType enums.MediaType, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListByType(r.Context(), mediaType, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Random serves one uniformly random visible record. A nil mediaType spans
// both types; the optional {category} path segment narrows further.
func Random(svc gallery.Service, mediaType *enums.MediaType, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawCategory := chi.URLParam(r, "category")

		record, err := svc.Random(r.Context(), mediaType, rawCategory)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// GetByID serves the direct by-id fetch that also fires the view increment.
func GetByID(svc gallery.Service, mediaType enums.MediaType, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePositiveID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetByID(r.Context(), mediaType, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// Search serves the title/category substring search, ordered by view count.
func Search(svc gallery.Service, mediaType enums.MediaType, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Search(r.Context(), mediaType, r.URL.Query().Get("q"), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ByCategory serves the category-scoped paginated listing.
func ByCategory(svc gallery.Service, mediaType enums.MediaType, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawCategory := chi.URLParam(r, "category")
		if rawCategory == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category is required"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListByCategory(r.Context(), mediaType, rawCategory, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
