package models

import (
	"time"

	"github.com/rmoralesdev/mediavault-backend/pkg/enums"
)

// MediaRecord is one uploaded image or GIF with its metadata. File bytes live
// on the CDN; the row stores only the delivery URL. Rows are never physically
// deleted, only hidden via Visible.
type MediaRecord struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title     string          `gorm:"column:title;not null" json:"title"`
	Category  string          `gorm:"column:category;not null;index" json:"category"`
	URL       string          `gorm:"column:url;not null" json:"url"`
	MediaType enums.MediaType `gorm:"column:media_type;not null;index" json:"media_type"`
	Views     int64           `gorm:"column:views;not null" json:"views"`
	Visible   bool            `gorm:"column:visible;not null;index" json:"visible"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName pins the table name the schema bootstrap creates.
func (MediaRecord) TableName() string {
	return "media_records"
}
