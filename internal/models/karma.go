package models

import "time"

// KarmaKind is the direction of a comment vote.
type KarmaKind string

const (
	KarmaUp   KarmaKind = "up"
	KarmaDown KarmaKind = "down"
)

// Valid reports whether the kind is one of the two accepted values.
func (k KarmaKind) Valid() bool {
	return k == KarmaUp || k == KarmaDown
}

// CommentKarma is a single caller's vote on a comment. The unique index on
// (comment_id, voter_key) guarantees at most one active vote per pair; a
// concurrent double-insert is resolved by the upsert path, never duplicated.
type CommentKarma struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_karma_comment_voter" json:"comment_id"`
	VoterKey  string    `gorm:"not null;uniqueIndex:idx_karma_comment_voter" json:"-"`
	Kind      KarmaKind `gorm:"not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KarmaAction is the outcome of a vote operation.
type KarmaAction string

const (
	KarmaAdded   KarmaAction = "added"
	KarmaUpdated KarmaAction = "updated"
	KarmaRemoved KarmaAction = "removed"
)

// KarmaScore is the always-recomputed aggregate for a comment.
type KarmaScore struct {
	Score     int `json:"score"`
	UpVotes   int `json:"up_votes"`
	DownVotes int `json:"down_votes"`
}
