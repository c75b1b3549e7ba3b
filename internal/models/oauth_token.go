package models

import (
	"time"
)

// OAuthToken is the external identity link of a user for one provider.
type OAuthToken struct {
	ID             string `gorm:"primaryKey;type:varchar(36)"`
	UserID         string `gorm:"type:varchar(36);not null;uniqueIndex:idx_oauth_token_user_provider,priority:1"`
	Provider       string `gorm:"type:varchar(40);not null;uniqueIndex:idx_oauth_token_user_provider,priority:2"` // "google", "github"
	ProviderUserID string `gorm:"index"`

	// Token storage (should be encrypted in production)
	AccessToken  string `gorm:"type:text"`
	RefreshToken string `gorm:"type:text"`
	TokenType    string
	ExpiresAt    time.Time
	Scope        string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name used by OAuthToken to `oauth_tokens`
func (OAuthToken) TableName() string {
	return "oauth_tokens"
}
