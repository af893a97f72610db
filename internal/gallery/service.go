package gallery

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rmoralesdev/mediavault-backend/internal/category"
	"github.com/rmoralesdev/mediavault-backend/pkg/db/models"
	"github.com/rmoralesdev/mediavault-backend/pkg/enums"
	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
	"github.com/rmoralesdev/mediavault-backend/pkg/metrics"
	"github.com/rmoralesdev/mediavault-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	maxSearchQueryLen  = 255
	viewIncrementGrace = 5 * time.Second
)

type repository interface {
	EnsureSchema(ctx context.Context) error
	List(ctx context.Context, filter Filter, page pagination.Params) ([]models.MediaRecord, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Random(ctx context.Context, filter Filter) (*models.MediaRecord, error)
	FindVisibleByID(ctx context.Context, mediaType enums.MediaType, id int64) (*models.MediaRecord, error)
	IncrementViews(ctx context.Context, id int64) error
	Search(ctx context.Context, mediaType enums.MediaType, query string, page pagination.Params) ([]models.MediaRecord, error)
	SearchCount(ctx context.Context, mediaType enums.MediaType, query string) (int64, error)
	CountByType(ctx context.Context) (map[enums.MediaType]int64, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	Aggregate(ctx context.Context) (*AggregateCounts, error)
}

// Service exposes the public read queries and the admin introspection surface.
type Service interface {
	ListByType(ctx context.Context, mediaType enums.MediaType, page pagination.Params) (*Page, error)
	ListByCategory(ctx context.Context, mediaType enums.MediaType, rawCategory string, page pagination.Params) (*Page, error)
	Random(ctx context.Context, mediaType *enums.MediaType, rawCategory string) (*models.MediaRecord, error)
	GetByID(ctx context.Context, mediaType enums.MediaType, id int64) (*models.MediaRecord, error)
	Search(ctx context.Context, mediaType enums.MediaType, query string, page pagination.Params) (*Page, error)
	Stats(ctx context.Context) (*Stats, error)
	TableCounts(ctx context.Context) (*TableCounts, error)
	InitSchema(ctx context.Context) error
}

type service struct {
	repo    repository
	logg    *logger.Logger
	metrics *metrics.GalleryMetrics
}

// NewService constructs a gallery service backed by the provided repository.
func NewService(repo repository, logg *logger.Logger, mtr *metrics.GalleryMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gallery repository required")
	}
	return &service{repo: repo, logg: logg, metrics: mtr}, nil
}

func emptyResultError() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "no media found").
		WithDetails(map[string]any{"items": []any{}, "total": 0})
}

func (s *service) page(ctx context.Context, filter Filter, page pagination.Params, max int) (*Page, error) {
	clamped := pagination.Normalize(page, max)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count media")
	}
	if total == 0 {
		return nil, emptyResultError()
	}

	rows, err := s.repo.List(ctx, filter, clamped)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
	}
	if len(rows) == 0 {
		return nil, emptyResultError()
	}

	return &Page{Items: rows, Total: total, Limit: clamped.Limit, Offset: clamped.Offset}, nil
}

func (s *service) ListByType(ctx context.Context, mediaType enums.MediaType, page pagination.Params) (*Page, error) {
	if !mediaType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media type")
	}
	return s.page(ctx, Filter{MediaType: &mediaType}, page, pagination.MaxLimit)
}

func (s *service) ListByCategory(ctx context.Context, mediaType enums.MediaType, rawCategory string, page pagination.Params) (*Page, error) {
	if !mediaType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media type")
	}
	canonical, err := category.Validate(rawCategory)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, Filter{MediaType: &mediaType, Category: canonical}, page, pagination.MaxLimit)
}

func (s *service) Random(ctx context.Context, mediaType *enums.MediaType, rawCategory string) (*models.MediaRecord, error) {
	filter := Filter{MediaType: mediaType}
	if rawCategory != "" {
		canonical, err := category.Validate(rawCategory)
		if err != nil {
			return nil, err
		}
		filter.Category = canonical
	}

	row, err := s.repo.Random(ctx, filter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emptyResultError()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "random media")
	}
	return row, nil
}

func (s *service) GetByID(ctx context.Context, mediaType enums.MediaType, id int64) (*models.MediaRecord, error) {
	if !mediaType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media type")
	}
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id must be a positive integer")
	}

	row, err := s.repo.FindVisibleByID(ctx, mediaType, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emptyResultError()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch media by id")
	}

	s.fireViewIncrement(row)
	return row, nil
}

// fireViewIncrement bumps the view counter on a detached goroutine with its
// own deadline. The caller never waits on the outcome; failures are logged and
// counted, nothing more.
func (s *service) fireViewIncrement(row *models.MediaRecord) {
	id := row.ID
	mediaType := row.MediaType.String()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), viewIncrementGrace)
		defer cancel()

		if err := s.repo.IncrementViews(ctx, id); err != nil {
			s.metrics.IncViewFailure()
			if s.logg != nil {
				ctx = s.logg.WithField(ctx, "media_id", id)
				s.logg.Error(ctx, "view increment failed", err)
			}
			return
		}
		s.metrics.IncView(mediaType)
	}()
}

func (s *service) Search(ctx context.Context, mediaType enums.MediaType, query string, page pagination.Params) (*Page, error) {
	if !mediaType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media type")
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxSearchQueryLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query must be 1-255 characters").
			WithDetails(map[string]any{"field": "q"})
	}

	clamped := pagination.Normalize(page, pagination.MaxSearchLimit)

	total, err := s.repo.SearchCount(ctx, mediaType, trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count search results")
	}
	if total == 0 {
		return nil, emptyResultError()
	}

	rows, err := s.repo.Search(ctx, mediaType, trimmed, clamped)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search media")
	}
	if len(rows) == 0 {
		return nil, emptyResultError()
	}

	return &Page{Items: rows, Total: total, Limit: clamped.Limit, Offset: clamped.Offset}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	totals, err := s.repo.Aggregate(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate media counts")
	}
	categories, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count media by category")
	}
	return &Stats{
		Totals:      *totals,
		Categories:  categories,
		AllowedList: category.List(),
	}, nil
}

func (s *service) TableCounts(ctx context.Context) (*TableCounts, error) {
	counts, err := s.repo.CountByType(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count media by type")
	}
	result := &TableCounts{
		Images: counts[enums.MediaTypeImage],
		GIFs:   counts[enums.MediaTypeGIF],
	}
	result.Total = result.Images + result.GIFs
	return result, nil
}

func (s *service) InitSchema(ctx context.Context) error {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure media schema")
	}
	return nil
}
