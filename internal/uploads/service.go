package uploads

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rmoralesdev/mediavault-backend/internal/category"
	"github.com/rmoralesdev/mediavault-backend/pkg/config"
	"github.com/rmoralesdev/mediavault-backend/pkg/db/models"
	"github.com/rmoralesdev/mediavault-backend/pkg/enums"
	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
	"github.com/rmoralesdev/mediavault-backend/pkg/metrics"
	"github.com/rmoralesdev/mediavault-backend/pkg/storage/cdn"
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

type recordCreator interface {
	Create(ctx context.Context, record *models.MediaRecord) (*models.MediaRecord, error)
}

// File is one multipart file already buffered by the controller.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// BulkUploadInput is the whole batch after multipart decoding.
type BulkUploadInput struct {
	Files      []File
	Titles     []string
	Categories []string
	MediaType  string
}

// UploadedItem reports one successfully stored file.
type UploadedItem struct {
	FileName string              `json:"file_name"`
	Title    string              `json:"title"`
	Category string              `json:"category"`
	Record   *models.MediaRecord `json:"record"`
}

// FileError reports one failed file without aborting the batch.
type FileError struct {
	FileName string `json:"file_name"`
	Index    int    `json:"index"`
	Error    string `json:"error"`
}

// BulkUploadResult is always returned with HTTP 200; partial success is a
// first-class outcome.
type BulkUploadResult struct {
	Success  int            `json:"success"`
	Failed   int            `json:"failed"`
	Uploaded []UploadedItem `json:"uploaded_media"`
	Errors   []FileError    `json:"errors"`
}

// Service ingests admin bulk uploads: CDN forward plus metadata insert.
type Service interface {
	BulkUpload(ctx context.Context, input BulkUploadInput) (*BulkUploadResult, error)
}

type service struct {
	repo     recordCreator
	uploader cdn.Uploader
	cfg      config.MediaConfig
	folder   string
	logg     *logger.Logger
	metrics  *metrics.GalleryMetrics
}

// NewService constructs the bulk upload service. A nil uploader is accepted so
// the API can boot without CDN credentials; the batch endpoint then fails fast.
func NewService(repo recordCreator, uploader cdn.Uploader, cdnCfg config.CDNConfig, mediaCfg config.MediaConfig, logg *logger.Logger, mtr *metrics.GalleryMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("record repository required")
	}
	folder := cdnCfg.RootFolder
	if folder == "" {
		folder = "gallery"
	}
	return &service{
		repo:     repo,
		uploader: uploader,
		cfg:      mediaCfg,
		folder:   folder,
		logg:     logg,
		metrics:  mtr,
	}, nil
}

func (s *service) BulkUpload(ctx context.Context, input BulkUploadInput) (*BulkUploadResult, error) {
	if s.uploader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "media CDN is not configured")
	}

	if len(input.Files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files supplied")
	}
	maxFiles := s.cfg.MaxBatchFiles
	if maxFiles <= 0 {
		maxFiles = 100
	}
	if len(input.Files) > maxFiles {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many files").
			WithDetails(map[string]any{"files": len(input.Files), "max": maxFiles})
	}

	mediaType, err := enums.ParseMediaType(strings.TrimSpace(input.MediaType))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media_type must be image or gif")
	}

	count := len(input.Files)
	titles := ReplicateTitles(Flatten(input.Titles), count)
	categories := ReplicateCategories(Flatten(input.Categories), count)

	if len(titles) != count || len(categories) != count {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "titles/categories length must match file count").
			WithDetails(map[string]any{
				"files":      count,
				"titles":     len(titles),
				"categories": len(categories),
			})
	}

	result := &BulkUploadResult{
		Uploaded: []UploadedItem{},
		Errors:   []FileError{},
	}

	// Strictly sequential: one slow CDN call delays the batch, never other
	// requests. Each file is fault-isolated.
	for i, file := range input.Files {
		item, err := s.processFile(ctx, file, titles[i], categories[i], mediaType)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, FileError{
				FileName: file.Name,
				Index:    i,
				Error:    err.Error(),
			})
			s.metrics.IncUpload("failed")
			if s.logg != nil {
				fctx := s.logg.WithFields(ctx, map[string]any{"file": file.Name, "index": i})
				s.logg.Warn(fctx, "bulk upload file failed")
			}
			continue
		}
		result.Success++
		result.Uploaded = append(result.Uploaded, *item)
		s.metrics.IncUpload("success")
	}

	return result, nil
}

func (s *service) processFile(ctx context.Context, file File, rawTitle, rawCategory string, mediaType enums.MediaType) (*UploadedItem, error) {
	title := strings.TrimSpace(rawTitle)
	if title == "" {
		return nil, fmt.Errorf("title is empty")
	}

	canonical, err := category.Validate(rawCategory)
	if err != nil {
		return nil, fmt.Errorf("invalid category %q", rawCategory)
	}

	if len(file.Data) == 0 {
		return nil, fmt.Errorf("file buffer is empty")
	}
	if maxBytes := s.cfg.MaxUploadBytes(); maxBytes > 0 && int64(len(file.Data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds %dMB limit", s.cfg.MaxUploadMB)
	}
	if _, ok := allowedContentTypes[normalizeContentType(file.ContentType)]; !ok {
		return nil, fmt.Errorf("unsupported content type %q", file.ContentType)
	}

	params := cdn.UploadParams{
		Folder:   path.Join(s.folder, canonical),
		PublicID: uuid.NewString(),
	}
	if mediaType == enums.MediaTypeGIF {
		// Keeps animation frames instead of a flattened first-frame render.
		params.Format = "gif"
	}

	uploaded, err := s.uploader.Upload(ctx, file.Data, file.Name, params)
	if err != nil {
		return nil, fmt.Errorf("cdn upload: %v", err)
	}
	url := uploaded.DeliveryURL()
	if url == "" {
		return nil, fmt.Errorf("cdn response missing delivery url")
	}

	record := &models.MediaRecord{
		Title:     title,
		Category:  canonical,
		URL:       url,
		MediaType: mediaType,
		Visible:   true,
	}
	stored, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("persist metadata: %v", err)
	}

	return &UploadedItem{
		FileName: file.Name,
		Title:    title,
		Category: canonical,
		Record:   stored,
	}, nil
}

func normalizeContentType(value string) string {
	clean := strings.ToLower(strings.TrimSpace(value))
	if idx := strings.Index(clean, ";"); idx >= 0 {
		clean = strings.TrimSpace(clean[:idx])
	}
	return clean
}
