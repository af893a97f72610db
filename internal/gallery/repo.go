package gallery

import (
	"context"
	"strings"

	"github.com/rmoralesdev/mediavault-backend/pkg/db/models"
	"github.com/rmoralesdev/mediavault-backend/pkg/enums"
	"github.com/rmoralesdev/mediavault-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes media-record persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a gallery repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Filter narrows queries to visible rows of one type and/or category. A nil
// MediaType matches both types; an empty Category matches all categories.
type Filter struct {
	MediaType *enums.MediaType
	Category  string
}

// CategoryCount is one row of the per-category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

var postgresSchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS media_records (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		url TEXT NOT NULL,
		media_type TEXT NOT NULL,
		views BIGINT NOT NULL DEFAULT 0,
		visible BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_media_records_category ON media_records (category)`,
	`CREATE INDEX IF NOT EXISTS idx_media_records_media_type ON media_records (media_type)`,
	`CREATE INDEX IF NOT EXISTS idx_media_records_visible ON media_records (visible)`,
}

var sqliteSchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS media_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		url TEXT NOT NULL,
		media_type TEXT NOT NULL,
		views BIGINT NOT NULL DEFAULT 0,
		visible BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_media_records_category ON media_records (category)`,
	`CREATE INDEX IF NOT EXISTS idx_media_records_media_type ON media_records (media_type)`,
	`CREATE INDEX IF NOT EXISTS idx_media_records_visible ON media_records (visible)`,
}

func (r *Repository) schemaStatements() []string {
	if r.db.Dialector.Name() == "sqlite" {
		return sqliteSchemaStatements
	}
	return postgresSchemaStatements
}

// EnsureSchema creates the media table and its indexes when absent. Every
// statement is idempotent, so repeat calls are safe.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.schemaStatements() {
		if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) visibleScope(ctx context.Context, filter Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.MediaRecord{}).Where("visible = ?", true)
	if filter.MediaType != nil {
		query = query.Where("media_type = ?", *filter.MediaType)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	return query
}

// Create persists a media record.
func (r *Repository) Create(ctx context.Context, record *models.MediaRecord) (*models.MediaRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// List returns one page of visible rows matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter Filter, page pagination.Params) ([]models.MediaRecord, error) {
	var rows []models.MediaRecord
	err := r.visibleScope(ctx, filter).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the total number of visible rows matching the filter.
func (r *Repository) Count(ctx context.Context, filter Filter) (int64, error) {
	var total int64
	if err := r.visibleScope(ctx, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Random selects one visible row uniformly at random among those matching the
// filter. Returns gorm.ErrRecordNotFound when none match.
func (r *Repository) Random(ctx context.Context, filter Filter) (*models.MediaRecord, error) {
	var row models.MediaRecord
	err := r.visibleScope(ctx, filter).
		Order("RANDOM()").
		Limit(1).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindVisibleByID fetches the single visible row with the given id and type.
func (r *Repository) FindVisibleByID(ctx context.Context, mediaType enums.MediaType, id int64) (*models.MediaRecord, error) {
	var row models.MediaRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND media_type = ? AND visible = ?", id, mediaType, true).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// IncrementViews bumps the view counter atomically at the statement level.
func (r *Repository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.MediaRecord{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *Repository) searchScope(ctx context.Context, mediaType enums.MediaType, query string) *gorm.DB {
	pattern := "%" + strings.ToLower(query) + "%"
	return r.db.WithContext(ctx).
		Model(&models.MediaRecord{}).
		Where("visible = ? AND media_type = ?", true, mediaType).
		Where("LOWER(title) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern)
}

// Search returns one page of visible rows whose title or category contains the
// query, most viewed first.
func (r *Repository) Search(ctx context.Context, mediaType enums.MediaType, query string, page pagination.Params) ([]models.MediaRecord, error) {
	var rows []models.MediaRecord
	err := r.searchScope(ctx, mediaType, query).
		Order("views DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchCount returns the total number of rows the search matches.
func (r *Repository) SearchCount(ctx context.Context, mediaType enums.MediaType, query string) (int64, error) {
	var total int64
	if err := r.searchScope(ctx, mediaType, query).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountByType returns all-row counts (visible and hidden) grouped by type.
func (r *Repository) CountByType(ctx context.Context) (map[enums.MediaType]int64, error) {
	var rows []struct {
		MediaType enums.MediaType
		Count     int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.MediaRecord{}).
		Select("media_type, COUNT(*) AS count").
		Group("media_type").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.MediaType]int64, len(rows))
	for _, row := range rows {
		counts[row.MediaType] = row.Count
	}
	return counts, nil
}

// CountByCategory returns visible-row counts grouped by category.
func (r *Repository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.MediaRecord{}).
		Select("category, COUNT(*) AS count").
		Where("visible = ?", true).
		Group("category").
		Order("category").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AggregateCounts reports the totals the stats endpoint exposes.
type AggregateCounts struct {
	Total      int64 `json:"total"`
	Images     int64 `json:"images"`
	GIFs       int64 `json:"gifs"`
	Visible    int64 `json:"visible"`
	Hidden     int64 `json:"hidden"`
	TotalViews int64 `json:"total_views"`
}

// Aggregate computes the whole-table counts in a handful of single statements.
func (r *Repository) Aggregate(ctx context.Context) (*AggregateCounts, error) {
	var agg AggregateCounts
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.MediaRecord{})
	}

	if err := base().Count(&agg.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("media_type = ?", enums.MediaTypeImage).Count(&agg.Images).Error; err != nil {
		return nil, err
	}
	if err := base().Where("media_type = ?", enums.MediaTypeGIF).Count(&agg.GIFs).Error; err != nil {
		return nil, err
	}
	if err := base().Where("visible = ?", true).Count(&agg.Visible).Error; err != nil {
		return nil, err
	}
	agg.Hidden = agg.Total - agg.Visible

	var views struct{ Total int64 }
	if err := base().Select("COALESCE(SUM(views), 0) AS total").Scan(&views).Error; err != nil {
		return nil, err
	}
	agg.TotalViews = views.Total

	return &agg, nil
}
