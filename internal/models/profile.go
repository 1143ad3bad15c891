package models

import "time"

// Profile is a pseudonymous identity backed by an opaque unguessable token
// held in the caller's session. Distinct from a permanent User account.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nickname  string    `gorm:"not null" json:"nickname"`
	Bio       string    `json:"bio,omitempty"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity returns the caller identity for this profile.
func (p *Profile) Identity() *Identity {
	return &Identity{Kind: IdentityProfile, ProfileID: p.ID}
}
