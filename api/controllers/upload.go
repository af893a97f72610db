package controllers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rmoralesdev/mediavault-backend/api/responses"
	"github.com/rmoralesdev/mediavault-backend/internal/uploads"
	"github.com/rmoralesdev/mediavault-backend/pkg/config"
	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
)

// Multipart bodies beyond this stay on disk instead of memory.
const multipartMemoryLimit = 32 << 20

// BulkUpload decodes the multipart batch and hands it to the upload service.
// The response is 200 even when individual files fail; only batch-level
// validation or a missing CDN configuration reject the whole request.
func BulkUpload(svc uploads.Service, mediaCfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		form := r.MultipartForm
		fileHeaders := form.File["files"]
		if len(fileHeaders) == 0 {
			fileHeaders = form.File["files[]"]
		}

		files, err := bufferFiles(fileHeaders, mediaCfg.MaxUploadBytes())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := uploads.BulkUploadInput{
			Files:      files,
			Titles:     form.Value["titles"],
			Categories: form.Value["categories"],
			MediaType:  r.FormValue("media_type"),
		}

		result, err := svc.BulkUpload(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// bufferFiles reads each part fully into memory for the upload service.
// Reading one byte past the size ceiling lets the service flag oversized
// files without this layer buffering an unbounded body.
func bufferFiles(headers []*multipart.FileHeader, maxBytes int64) ([]uploads.File, error) {
	files := make([]uploads.File, 0, len(headers))
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable multipart file").
				WithDetails(map[string]any{"file": header.Filename})
		}

		limit := maxBytes
		if limit <= 0 {
			limit = 50 * 1024 * 1024
		}
		data, err := io.ReadAll(io.LimitReader(part, limit+1))
		closeErr := part.Close()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading multipart file").
				WithDetails(map[string]any{"file": header.Filename})
		}
		if closeErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, closeErr, "closing multipart file")
		}

		files = append(files, uploads.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
