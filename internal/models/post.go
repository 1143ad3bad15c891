// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents an anonymous confession ("desabafo"). Posts are never
// deleted; moderation flips the Visible flag instead.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Body     string `gorm:"type:text;not null" json:"body"`
	Category string `gorm:"not null;index" json:"category"`
	// Visible is mutated only by the report engine or an admin override.
	Visible   bool      `gorm:"not null;default:true" json:"visible"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProfileID *uint     `gorm:"index" json:"profile_id,omitempty"`
	Profile   *Profile  `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// ReportCount is not persisted; computed at query time where needed
	ReportCount int `gorm:"->;-:migration" json:"report_count,omitempty"`
}

// VisibleOnly is the single visibility gate. Every read path outside the
// moderation core must filter through this scope unless explicitly in admin
// "include hidden" mode.
func VisibleOnly(db *gorm.DB) *gorm.DB {
	return db.Where("visible = ?", true)
}
