package models

import "time"

// Post is a short piece of content on the shared feed.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AuthorID      uint      `gorm:"not null;index" json:"author_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
