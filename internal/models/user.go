package models

import (
	"strings"
	"time"
)

type User struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)"`
	Email        string  `gorm:"uniqueIndex;not null"`
	GoogleID     *string `gorm:"uniqueIndex"` // NULL until a Google account is bound
	Name         string
	PasswordHash string // OAuth-only users have empty password
	Role         Role   `gorm:"type:varchar(20);not null;default:'public'"`

	// Profile
	Headline         string
	Bio              string `gorm:"type:text"`
	Company          string
	Position         string
	Location         string
	Website          string
	LinkedInURL      string
	ProfilePicture   string
	Skills           string `gorm:"type:text"` // comma separated
	ProfileCompleted bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsTeamOrAdmin returns true for team members and administrators
func (u *User) IsTeamOrAdmin() bool {
	return u.Role == RoleTeam || u.Role == RoleAdmin
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// DisplayName falls back to the local part of the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

// SkillList splits the stored skills into trimmed entries.
func (u *User) SkillList() []string {
	var out []string
	for _, s := range strings.Split(u.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
