// Package policy decides which roles may perform which actions.
package policy

import (
	"github.com/He-ro616/we4x-CO/internal/models"
)

// Action is a permission-checked operation.
type Action string

const (
	CreateEvent        Action = "create_event"
	DeleteEvent        Action = "delete_event"
	CreatePost         Action = "create_post"
	Comment            Action = "comment"
	DeleteOwnPost      Action = "delete_post_own"
	DeleteAnyPost      Action = "delete_post_any"
	ManageTeam         Action = "manage_team"
	ManageSite         Action = "manage_site"
	ManageUsers        Action = "manage_users"
	ViewAdminDashboard Action = "view_admin_dashboard"
	ViewTeamDashboard  Action = "view_team_dashboard"
)

// Actions lists every action the policy knows about.
var Actions = []Action{
	CreateEvent,
	DeleteEvent,
	CreatePost,
	Comment,
	DeleteOwnPost,
	DeleteAnyPost,
	ManageTeam,
	ManageSite,
	ManageUsers,
	ViewAdminDashboard,
	ViewTeamDashboard,
}

var (
	anyRole     = []models.Role{models.RoleAdmin, models.RoleTeam, models.RolePublic, models.RoleViewer}
	teamOrAdmin = []models.Role{models.RoleAdmin, models.RoleTeam}
	adminOnly   = []models.Role{models.RoleAdmin}
)

// rules maps each action to the roles allowed to perform it. Roles are not
// ordered: team does not inherit admin rights and viewer is not below public.
var rules = map[Action][]models.Role{
	CreateEvent:        teamOrAdmin,
	DeleteEvent:        adminOnly,
	CreatePost:         anyRole,
	Comment:            anyRole,
	DeleteOwnPost:      anyRole,
	DeleteAnyPost:      adminOnly,
	ManageTeam:         adminOnly,
	ManageSite:         adminOnly,
	ManageUsers:        adminOnly,
	ViewAdminDashboard: adminOnly,
	ViewTeamDashboard:  teamOrAdmin,
}

// Can reports whether role may perform action. Unknown roles and actions are denied.
func Can(role models.Role, action Action) bool {
	for _, r := range rules[action] {
		if r == role {
			return true
		}
	}
	return false
}

// CanDeletePost allows the author of a post or anyone holding DeleteAnyPost.
func CanDeletePost(actor *models.User, post *models.Post) bool {
	if actor == nil || post == nil {
		return false
	}
	if post.IsAuthoredBy(actor.ID) && Can(actor.Role, DeleteOwnPost) {
		return true
	}
	return Can(actor.Role, DeleteAnyPost)
}

// CanActorDo is Can for a possibly anonymous actor.
func CanActorDo(actor *models.User, action Action) bool {
	return actor != nil && Can(actor.Role, action)
}
