package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/He-ro616/we4x-CO/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// User operations

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByEmail finds a user by email address (case-insensitive)
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByGoogleID finds a user bound to a Google subject
func (s *Store) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CreateUser creates a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UpdateUser saves every field of an existing user
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UpdateUserRole changes only the role column
func (s *Store) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListUsersByRole returns users holding any of the given roles, newest first
func (s *Store) ListUsersByRole(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("role IN ?", roles).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// CountUsers returns the number of registered users
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// DeleteUser removes a user and everything they own: comments they wrote,
// their posts with all comments, events they created with registrations and
// attendance, their own attendance rows and OAuth tokens.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.GetUserByID(ctx, id); err != nil {
			return err
		}
		db := tx.db.WithContext(ctx)

		postIDs := db.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		if err := db.Where("author_id = ? OR post_id IN (?)", id, postIDs).
			Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := db.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}

		eventIDs := db.Model(&models.Event{}).Select("id").Where("created_by = ?", id)
		if err := db.Where("event_id IN (?)", eventIDs).
			Delete(&models.Registration{}).Error; err != nil {
			return fmt.Errorf("delete registrations: %w", err)
		}
		if err := db.Where("user_id = ? OR event_id IN (?)", id, eventIDs).
			Delete(&models.EventAttendance{}).Error; err != nil {
			return fmt.Errorf("delete attendance: %w", err)
		}
		if err := db.Where("created_by = ?", id).Delete(&models.Event{}).Error; err != nil {
			return fmt.Errorf("delete events: %w", err)
		}

		if err := db.Where("user_id = ?", id).Delete(&models.OAuthToken{}).Error; err != nil {
			return fmt.Errorf("delete oauth tokens: %w", err)
		}
		return db.Delete(&models.User{}, "id = ?", id).Error
	})
}

// ListUploadsOwnedBy returns the stored file references that DeleteUser orphans:
// post images, event banners and the profile picture.
func (s *Store) ListUploadsOwnedBy(ctx context.Context, userID string) ([]string, error) {
	db := s.db.WithContext(ctx)

	var refs, banners, pictures []string
	if err := db.Model(&models.Post{}).
		Where("author_id = ? AND post_image <> ''", userID).
		Pluck("post_image", &refs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Event{}).
		Where("created_by = ? AND banner_image <> ''", userID).
		Pluck("banner_image", &banners).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).
		Where("id = ? AND profile_picture <> ''", userID).
		Pluck("profile_picture", &pictures).Error; err != nil {
		return nil, err
	}
	return append(append(refs, banners...), pictures...), nil
}

// OAuth token operations

// UpsertOAuthToken stores the token for (user, provider), replacing any previous row.
func (s *Store) UpsertOAuthToken(ctx context.Context, token *models.OAuthToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"provider_user_id",
			"access_token",
			"refresh_token",
			"token_type",
			"expires_at",
			"scope",
			"updated_at",
		}),
	}).Create(token).Error
}

// GetOAuthTokenBySubject finds the link for a provider account
func (s *Store) GetOAuthTokenBySubject(
	ctx context.Context,
	provider, providerUserID string,
) (*models.OAuthToken, error) {
	var token models.OAuthToken
	err := s.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}
