package services

import (
	"context"
	"strings"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/store"
)

const maxCommentLength = 2000

// CommunityService implements posts and comments.
type CommunityService struct {
	store        *store.Store
	auditService *AuditService
	metrics      core.Recorder
	storage      core.FileStorage
	guard        guard
}

func NewCommunityService(
	s *store.Store,
	auditService *AuditService,
	m core.Recorder,
	storage core.FileStorage,
) *CommunityService {
	return &CommunityService{
		store:        s,
		auditService: auditService,
		metrics:      m,
		storage:      storage,
		guard:        guard{audit: auditService, metrics: m},
	}
}

// CreatePost publishes a post. Any authenticated actor may post; image is an
// already stored file reference or empty.
func (s *CommunityService) CreatePost(
	ctx context.Context,
	actor *models.User,
	title, content, image string,
) (*models.Post, error) {
	if err := s.guard.authorize(ctx, actor, policy.CreatePost); err != nil {
		return nil, err
	}
	title, err := required("title", title)
	if err != nil {
		return nil, err
	}
	content, err = required("content", content)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     title,
		Content:   content,
		PostImage: image,
		AuthorID:  actor.ID,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		s.metrics.RecordDatabaseQueryError("create_post")
		return nil, storeErr("create post", err)
	}
	post.Author = *actor
	s.metrics.RecordPostCreated()
	return post, nil
}

// AddComment adds a comment to an existing post.
func (s *CommunityService) AddComment(
	ctx context.Context,
	actor *models.User,
	postID, content string,
) (*models.Comment, error) {
	if err := s.guard.authorize(ctx, actor, policy.Comment); err != nil {
		return nil, err
	}
	content, err := required("content", content)
	if err != nil {
		return nil, err
	}
	if len(content) > maxCommentLength {
		return nil, invalid("content", "is too long")
	}
	if _, err := s.store.GetPostByID(ctx, postID); err != nil {
		return nil, storeErr("load post", err)
	}

	comment := &models.Comment{
		Content:  content,
		AuthorID: actor.ID,
		PostID:   postID,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, storeErr("create comment", err)
	}
	comment.Author = *actor
	s.metrics.RecordCommentCreated()
	return comment, nil
}

// DeletePost removes a post, its comments and its image. Allowed for the author or an admin.
func (s *CommunityService) DeletePost(ctx context.Context, actor *models.User, postID string) error {
	post, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		return storeErr("load post", err)
	}
	if !policy.CanDeletePost(actor, post) {
		s.guard.denied(ctx, actor, string(policy.DeleteAnyPost))
		return ErrUnauthorized
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return storeErr("delete post", err)
	}
	removeFiles(ctx, s.storage, post.PostImage)

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventPostDeleted,
		ActorUserID:  actor.ID,
		ActorEmail:   actor.Email,
		ResourceType: models.ResourcePost,
		ResourceID:   post.ID,
		ResourceName: trimTitle(post.Title),
		Action:       "Post deleted",
		Details:      models.AuditDetails{"own_post": post.IsAuthoredBy(actor.ID)},
		Success:      true,
	})
	return nil
}

// GetPost returns a post with its comments, oldest first.
func (s *CommunityService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return nil, storeErr("get post", err)
	}
	return post, nil
}

// Feed returns one page of posts, newest first.
func (s *CommunityService) Feed(
	ctx context.Context,
	page, pageSize int,
) ([]models.Post, store.PaginationResult, error) {
	params := store.NewPaginationParams(page, pageSize)
	posts, pagination, err := s.store.ListPosts(ctx, params)
	if err != nil {
		return nil, store.PaginationResult{}, storeErr("list posts", err)
	}
	return posts, pagination, nil
}

// trimTitle shortens long titles for audit records.
func trimTitle(title string) string {
	title = strings.TrimSpace(title)
	if len(title) > 80 {
		return title[:80]
	}
	return title
}
