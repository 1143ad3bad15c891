package models

import "time"

// Comment is an append-only reply to a post, displayed in creation order.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID" json:"-"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Visible   bool      `gorm:"not null;default:true" json:"visible"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	ProfileID *uint     `gorm:"index" json:"profile_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Karma aggregates; not persisted, computed at query time
	UpVotes   int `gorm:"->;-:migration" json:"up_votes"`
	DownVotes int `gorm:"->;-:migration" json:"down_votes"`
	Score     int `gorm:"->;-:migration" json:"score"`
}
