package models

import "time"

// User is a permanent account. Passwords are stored as bcrypt hashes.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Password  string     `gorm:"not null" json:"-"`
	Nickname  string     `gorm:"not null" json:"nickname"`
	Bio       string     `json:"bio,omitempty"`
	Email     string     `json:"email,omitempty"`
	IsAdmin   bool       `gorm:"not null;default:false" json:"is_admin"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Identity returns the caller identity for this account.
func (u *User) Identity() *Identity {
	return &Identity{Kind: IdentityAccount, UserID: u.ID}
}
