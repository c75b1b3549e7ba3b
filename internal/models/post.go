package models

import (
	"time"
)

type Post struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	PostImage string
	AuthorID  string `gorm:"type:varchar(36);not null;index"`
	Author    User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`

	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// IsAuthoredBy reports whether userID wrote the post.
func (p *Post) IsAuthoredBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}

type Comment struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Content   string `gorm:"type:text;not null"`
	AuthorID  string `gorm:"type:varchar(36);not null;index"`
	Author    User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	PostID    string `gorm:"type:varchar(36);not null;index"`
	CreatedAt time.Time
}
