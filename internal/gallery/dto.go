package gallery

import (
	"github.com/rmoralesdev/mediavault-backend/pkg/db/models"
)

// Page is one slice of gallery rows plus the separately computed total.
type Page struct {
	Items  []models.MediaRecord `json:"items"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// Stats is the admin aggregate view over the whole table.
type Stats struct {
	Totals      AggregateCounts `json:"totals"`
	Categories  []CategoryCount `json:"categories"`
	AllowedList []string        `json:"allowed_categories"`
}

// TableCounts is the admin introspection payload: record counts by type.
type TableCounts struct {
	Images int64 `json:"images"`
	GIFs   int64 `json:"gifs"`
	Total  int64 `json:"total"`
}
