package models

import "time"

// Report flags a post for moderation. ReporterKey is nil for pure-anonymous
// reports, which are intentionally not deduplicated; the composite unique
// index only constrains known identities (NULLs compare distinct).
// The report count for a post is always derived by counting rows.
type Report struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"not null;index;uniqueIndex:idx_report_post_reporter" json:"post_id"`
	ReporterKey *string   `gorm:"uniqueIndex:idx_report_post_reporter" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
