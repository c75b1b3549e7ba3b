package handlers

import (
	"net/http"

	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"

	"github.com/gin-gonic/gin"
)

const teamPath = "/auth/admin/team"

// TeamHandler manages team membership and accounts. Admin only.
type TeamHandler struct {
	userService *services.UserService
}

func NewTeamHandler(us *services.UserService) *TeamHandler {
	return &TeamHandler{userService: us}
}

// TeamPage lists team members and administrators.
func (h *TeamHandler) TeamPage(c *gin.Context) {
	h.renderTeam(c, "", "")
}

func (h *TeamHandler) renderTeam(c *gin.Context, newEmail, generated string) {
	members, err := h.userService.ListTeam(c.Request.Context())
	if err != nil {
		renderLookupError(c, err)
		return
	}
	templates.RenderTempl(c, http.StatusOK, templates.TeamPage(templates.TeamPageProps{
		BaseProps:         baseProps(c),
		NavbarProps:       navProps(c, "team"),
		Members:           members,
		NewMemberEmail:    newEmail,
		GeneratedPassword: generated,
	}))
}

// AddMember promotes an email to the team. A freshly created account's
// password is rendered in the response instead of a redirect so it is only
// ever shown once.
func (h *TeamHandler) AddMember(c *gin.Context) {
	user, generated, err := h.userService.PromoteToTeam(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.PostForm("email"),
	)
	if err != nil {
		failRedirect(c, err, teamPath)
		return
	}
	if generated != "" {
		middleware.AddFlash(c, templates.FlashSuccess, user.Email+" was added to the team.")
		h.renderTeam(c, user.Email, generated)
		return
	}
	flashRedirect(c, templates.FlashSuccess, user.Email+" was added to the team.", teamPath)
}

// RemoveMember returns a team member to the public role.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	user, err := h.userService.DemoteFromTeam(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.Param("id"),
	)
	if err != nil {
		failRedirect(c, err, teamPath)
		return
	}
	flashRedirect(c, templates.FlashSuccess, user.Email+" was removed from the team.", teamPath)
}

// DeleteUser removes an account with everything it owns.
func (h *TeamHandler) DeleteUser(c *gin.Context) {
	err := h.userService.DeleteUser(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.Param("id"),
	)
	if err != nil {
		failRedirect(c, err, teamPath)
		return
	}
	flashRedirect(c, templates.FlashSuccess, "The account was deleted.", teamPath)
}
