package policy

import (
	"testing"

	"github.com/He-ro616/we4x-CO/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanMatrix(t *testing.T) {
	expected := map[Action]map[models.Role]bool{
		CreateEvent: {
			models.RoleAdmin: true, models.RoleTeam: true,
			models.RolePublic: false, models.RoleViewer: false,
		},
		DeleteEvent: {
			models.RoleAdmin: true, models.RoleTeam: false,
			models.RolePublic: false, models.RoleViewer: false,
		},
		CreatePost: {
			models.RoleAdmin: true, models.RoleTeam: true,
			models.RolePublic: true, models.RoleViewer: true,
		},
		Comment: {
			models.RoleAdmin: true, models.RoleTeam: true,
			models.RolePublic: true, models.RoleViewer: true,
		},
		DeleteOwnPost: {
			models.RoleAdmin: true, models.RoleTeam: true,
			models.RolePublic: true, models.RoleViewer: true,
		},
		DeleteAnyPost: {
			models.RoleAdmin: true, models.RoleTeam: false,
			models.RolePublic: false, models.RoleViewer: false,
		},
		ManageTeam: {
			models.RoleAdmin: true, models.RoleTeam: false,
			models.RolePublic: false, models.RoleViewer: false,
		},
		ManageSite: {
			models.RoleAdmin: true, models.RoleTeam: false,
			models.RolePublic: false, models.RoleViewer: false,
		},
		ManageUsers: {
			models.RoleAdmin: true, models.RoleTeam: false,
			models.RolePublic: false, models.RoleViewer: false,
		},
		ViewAdminDashboard: {
			models.RoleAdmin: true, models.RoleTeam: false,
			models.RolePublic: false, models.RoleViewer: false,
		},
		ViewTeamDashboard: {
			models.RoleAdmin: true, models.RoleTeam: true,
			models.RolePublic: false, models.RoleViewer: false,
		},
	}

	// Every action has an explicit row
	assert.Len(t, expected, len(Actions))

	for _, action := range Actions {
		row, ok := expected[action]
		if !assert.True(t, ok, "missing expectations for %s", action) {
			continue
		}
		for _, role := range models.Roles {
			assert.Equal(t, row[role], Can(role, action), "%s / %s", role, action)
			// Deterministic
			assert.Equal(t, Can(role, action), Can(role, action))
		}
	}
}

func TestCanUnknownInputsDenied(t *testing.T) {
	assert.False(t, Can(models.Role("root"), CreateEvent))
	assert.False(t, Can(models.RoleAdmin, Action("launch_rockets")))
	assert.False(t, Can("", ManageTeam))
}

func TestCanDeletePost(t *testing.T) {
	author := &models.User{ID: "author", Role: models.RoleViewer}
	stranger := &models.User{ID: "stranger", Role: models.RoleTeam}
	admin := &models.User{ID: "admin", Role: models.RoleAdmin}
	post := &models.Post{ID: "p1", AuthorID: author.ID}

	assert.True(t, CanDeletePost(author, post), "author may delete own post regardless of role")
	assert.False(t, CanDeletePost(stranger, post), "non-author non-admin is denied")
	assert.True(t, CanDeletePost(admin, post), "admin override")
	assert.False(t, CanDeletePost(nil, post))
	assert.False(t, CanDeletePost(author, nil))
}

func TestCanActorDo(t *testing.T) {
	assert.False(t, CanActorDo(nil, CreatePost))
	assert.True(t, CanActorDo(&models.User{Role: models.RoleTeam}, CreateEvent))
}
