package handlers

import (
	"errors"
	"net/http"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userService  *services.UserService
	eventService *services.EventService
	storage      core.FileStorage
}

func NewProfileHandler(
	us *services.UserService,
	es *services.EventService,
	storage core.FileStorage,
) *ProfileHandler {
	return &ProfileHandler{userService: us, eventService: es, storage: storage}
}

// SetupPage renders the profile form prefilled with the actor's data.
func (h *ProfileHandler) SetupPage(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.ProfileSetupPage(templates.ProfileSetupPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "profile"),
		Profile:     middleware.CurrentUser(c),
	}))
}

// Setup saves the profile and marks it completed.
func (h *ProfileHandler) Setup(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	in := services.ProfileInput{
		Name:        c.PostForm("name"),
		Headline:    c.PostForm("headline"),
		Bio:         c.PostForm("bio"),
		Company:     c.PostForm("company"),
		Position:    c.PostForm("position"),
		Location:    c.PostForm("location"),
		Website:     c.PostForm("website"),
		LinkedInURL: c.PostForm("linkedin_url"),
		Skills:      c.PostForm("skills"),
	}

	picture, err := storeUpload(c, h.storage, "profile_picture")
	if err != nil {
		h.renderSetup(c, actor, in, err)
		return
	}
	in.ProfilePicture = picture

	user, err := h.userService.UpdateProfile(c.Request.Context(), actor, in)
	if err != nil {
		discardUpload(c, h.storage, picture)
		h.renderSetup(c, actor, in, err)
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Profile saved.", "/profile/"+user.ID)
}

// renderSetup re-renders the form with the rejected values.
func (h *ProfileHandler) renderSetup(c *gin.Context, actor *models.User, in services.ProfileInput, err error) {
	status := http.StatusBadRequest
	if !errors.Is(err, services.ErrValidationFailed) && !isUploadError(err) {
		status = http.StatusInternalServerError
	}
	draft := *actor
	draft.Name = in.Name
	draft.Headline = in.Headline
	draft.Bio = in.Bio
	draft.Company = in.Company
	draft.Position = in.Position
	draft.Location = in.Location
	draft.Website = in.Website
	draft.LinkedInURL = in.LinkedInURL
	draft.Skills = in.Skills

	templates.RenderTempl(c, status, templates.ProfileSetupPage(templates.ProfileSetupPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "profile"),
		Profile:     &draft,
		Error:       userMessage(err),
	}))
}

// ViewProfile renders a member's profile with the events they attend and host.
func (h *ProfileHandler) ViewProfile(c *gin.Context) {
	ctx := c.Request.Context()
	profile, err := h.userService.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		renderLookupError(c, err)
		return
	}
	attending, err := h.eventService.ListAttending(ctx, profile.ID)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	created, err := h.eventService.ListCreatedBy(ctx, profile.ID)
	if err != nil {
		renderLookupError(c, err)
		return
	}

	viewer := middleware.CurrentUser(c)
	templates.RenderTempl(c, http.StatusOK, templates.ProfilePage(templates.ProfilePageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "profile"),
		Profile:     profile,
		Attending:   attending,
		Created:     created,
		IsOwner:     viewer != nil && viewer.ID == profile.ID,
	}))
}
