// Package models contains data structures for the application's domain models.
package models

import "time"

// Mode is the profile mode a user presents with.
type Mode string

const (
	ModeHustler Mode = "hustler"
	ModeBuilder Mode = "builder"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeHustler || m == ModeBuilder
}

// User represents a registered account.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	Username       string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	HashedPassword string     `gorm:"not null" json:"-"`
	FullName       string     `json:"full_name"`
	Bio            string     `gorm:"type:text" json:"bio"`
	Skills         StringList `json:"skills"`
	Interests      StringList `json:"interests"`
	ProfileImage   string     `json:"profile_image"`
	Mode           Mode       `gorm:"size:20;not null;default:hustler" json:"mode"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
