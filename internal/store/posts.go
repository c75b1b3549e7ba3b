package store

import (
	"context"
	"fmt"

	"github.com/He-ro616/we4x-CO/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post operations

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Omit("Author", "Comments").Create(post).Error
}

// GetPostByID loads a post with its author and comments (oldest first)
func (s *Store) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// ListPosts returns one page of the feed, newest first, with authors and comments.
func (s *Store) ListPosts(
	ctx context.Context,
	params PaginationParams,
) ([]models.Post, PaginationResult, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	var posts []models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, PaginationResult{}, err
	}

	return posts, CalculatePagination(total, params.Page, params.PageSize), nil
}

// DeletePost removes a post and its comments
func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(tx *Store) error {
		db := tx.db.WithContext(ctx)
		if err := db.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		res := db.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

// Comment operations

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Omit("Author").Create(comment).Error
}
