package models

import "time"

// Reaction records that a caller reacted to a post with a given kind.
// Existence of the row is the source of truth; the unique index arbitrates
// concurrent toggles of the same triple.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_reaction_post_kind_caller" json:"post_id"`
	Kind      string    `gorm:"not null;uniqueIndex:idx_reaction_post_kind_caller" json:"kind"`
	CallerKey string    `gorm:"not null;default:'anon:anonymous';uniqueIndex:idx_reaction_post_kind_caller" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionCount is the denormalized per-(post, kind) counter. A row exists
// iff at least one matching Reaction row exists, and its value equals the
// live count; both are maintained in the same transaction.
type ReactionCount struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	PostID uint   `gorm:"not null;uniqueIndex:idx_reaction_count_post_kind" json:"post_id"`
	Kind   string `gorm:"not null;uniqueIndex:idx_reaction_count_post_kind" json:"kind"`
	Count  int    `gorm:"not null;default:0" json:"count"`
}

// ReactionAction is the outcome of a toggle.
type ReactionAction string

const (
	ReactionAdded   ReactionAction = "added"
	ReactionRemoved ReactionAction = "removed"
)
