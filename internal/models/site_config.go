package models

import "time"

// SiteConfigID is the primary key of the only SiteConfig row.
const SiteConfigID uint = 1

// SiteConfig holds site-wide settings. Exactly one row exists.
type SiteConfig struct {
	ID          uint `gorm:"primaryKey;autoIncrement:false"`
	BannerImage string
	VideoURL    string // YouTube embed URL shown on the member dashboard
	UpdatedAt   time.Time
}

func (SiteConfig) TableName() string {
	return "site_config"
}
