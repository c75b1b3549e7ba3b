package store

import (
	"context"

	"github.com/He-ro616/we4x-CO/internal/models"

	"gorm.io/gorm/clause"
)

// EnsureSiteConfig creates the singleton settings row when it does not exist yet.
func (s *Store) EnsureSiteConfig(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SiteConfig{ID: models.SiteConfigID}).Error
}

// GetSiteConfig returns the singleton settings row
func (s *Store) GetSiteConfig(ctx context.Context) (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	if err := s.db.WithContext(ctx).First(&cfg, models.SiteConfigID).Error; err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

// UpdateSiteBanner replaces the banner image reference
func (s *Store) UpdateSiteBanner(ctx context.Context, banner string) error {
	return s.updateSiteConfig(ctx, "banner_image", banner)
}

// UpdateSiteVideo replaces the dashboard video embed URL
func (s *Store) UpdateSiteVideo(ctx context.Context, videoURL string) error {
	return s.updateSiteConfig(ctx, "video_url", videoURL)
}

func (s *Store) updateSiteConfig(ctx context.Context, column, value string) error {
	res := s.db.WithContext(ctx).Model(&models.SiteConfig{}).
		Where("id = ?", models.SiteConfigID).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
