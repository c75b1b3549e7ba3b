package handlers

import (
	"errors"
	"net/http"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"

	"github.com/gin-gonic/gin"
)

const communityPath = "/community/posts"

// CommunityHandler serves the feed, posts and comments.
type CommunityHandler struct {
	communityService *services.CommunityService
	storage          core.FileStorage
}

func NewCommunityHandler(cs *services.CommunityService, storage core.FileStorage) *CommunityHandler {
	return &CommunityHandler{communityService: cs, storage: storage}
}

func postPath(id string) string {
	return communityPath + "/" + id
}

// CreatePost publishes a post with an optional image.
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	image, err := storeUpload(c, h.storage, "post_image")
	if err != nil {
		failRedirect(c, err, dashboardPath)
		return
	}

	_, err = h.communityService.CreatePost(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.PostForm("title"),
		c.PostForm("content"),
		image,
	)
	if err != nil {
		discardUpload(c, h.storage, image)
		failRedirect(c, err, dashboardPath)
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Post published.", dashboardPath)
}

// Comment adds a comment and returns to the post.
func (h *CommunityHandler) Comment(c *gin.Context) {
	id := c.Param("id")
	_, err := h.communityService.AddComment(
		c.Request.Context(),
		middleware.CurrentUser(c),
		id,
		c.PostForm("content"),
	)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			renderNotFound(c)
			return
		}
		failRedirect(c, err, postPath(id))
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Comment added.", postPath(id))
}

// DeletePost removes a post the actor wrote, or any post for an admin.
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	err := h.communityService.DeletePost(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		failRedirect(c, err, dashboardPath)
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Post deleted.", dashboardPath)
}

// ListPosts renders one page of the feed.
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	posts, pagination, err := h.communityService.Feed(c.Request.Context(), pageParam(c), feedPageSize)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	templates.RenderTempl(c, http.StatusOK, templates.PostsPage(templates.PostsPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "community"),
		Posts:       posts,
		Pagination:  pagination,
	}))
}

// ViewPost renders a post with its comments.
func (h *CommunityHandler) ViewPost(c *gin.Context) {
	post, err := h.communityService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderLookupError(c, err)
		return
	}
	templates.RenderTempl(c, http.StatusOK, templates.PostPage(templates.PostPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "community"),
		Post:        post,
	}))
}
