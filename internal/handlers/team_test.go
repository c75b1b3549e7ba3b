package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTeamMember_ExistingUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.signedIn(t, env.createUser(t, models.RoleAdmin))
	member := env.createUser(t, models.RolePublic)

	w := admin.post("/auth/team/add", url.Values{"email": {member.Email}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, teamPath, w.Header().Get("Location"))
	page := admin.follow(w)
	assert.Contains(t, page.Body.String(), member.Email+" was added to the team.")
	assert.NotContains(t, page.Body.String(), "Temporary password")

	reloaded, err := env.store.GetUserByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeam, reloaded.Role)

	// The promoted member sees the team dashboard right away.
	w = env.signedIn(t, member).get("/auth/dashboard")
	assert.Equal(t, "/auth/dashboard/team", w.Header().Get("Location"))
}

func TestAddTeamMember_NewAccountShowsPasswordOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.signedIn(t, env.createUser(t, models.RoleAdmin))

	w := admin.post("/auth/team/add", url.Values{"email": {"Fresh@Example.com"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Temporary password")
	assert.Contains(t, w.Body.String(), "fresh@example.com")

	created, err := env.store.GetUserByEmail(ctx, "fresh@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeam, created.Role)
	assert.True(t, created.HasPassword())

	page := admin.get(teamPath)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.NotContains(t, page.Body.String(), "Temporary password")
}

func TestAddTeamMember_Rejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signedIn(t, env.createUser(t, models.RoleAdmin))

	w := admin.post("/auth/team/add", url.Values{"email": {"not-an-email"}})
	assert.Contains(t, admin.follow(w).Body.String(), "Email is not a valid address.")

	// Only administrators manage the team.
	team := env.signedIn(t, env.createUser(t, models.RoleTeam))
	w = team.post("/auth/team/add", url.Values{"email": {"someone@example.com"}})
	assert.Equal(t, "/auth/dashboard", w.Header().Get("Location"))
	assert.Equal(t, "/auth/dashboard", team.get(teamPath).Header().Get("Location"))
}

func TestRemoveTeamMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adminUser := env.createUser(t, models.RoleAdmin)
	admin := env.signedIn(t, adminUser)
	member := env.createUser(t, models.RoleTeam)

	w := admin.post("/auth/team/remove/"+member.ID, nil)
	assert.Contains(t, admin.follow(w).Body.String(), member.Email+" was removed from the team.")

	reloaded, err := env.store.GetUserByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RolePublic, reloaded.Role)

	w = admin.post("/auth/team/remove/"+adminUser.ID, nil)
	assert.Contains(t, admin.follow(w).Body.String(), "User is not a team member.")
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adminUser := env.createUser(t, models.RoleAdmin)
	admin := env.signedIn(t, adminUser)

	victim := env.createUser(t, models.RoleTeam)
	post, err := env.community.CreatePost(ctx, victim, "Soon gone", "Body", "")
	require.NoError(t, err)
	victimBrowser := env.signedIn(t, victim)

	w := admin.post("/auth/admin/users/"+victim.ID+"/delete", nil)
	assert.Contains(t, admin.follow(w).Body.String(), "The account was deleted.")

	_, err = env.community.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// The deleted user's session no longer authenticates.
	w = victimBrowser.get("/auth/dashboard")
	assert.Equal(t, "/auth/login?next=%2Fauth%2Fdashboard", w.Header().Get("Location"))

	w = admin.post("/auth/admin/users/"+adminUser.ID+"/delete", nil)
	assert.Contains(t, admin.follow(w).Body.String(), "User cannot be your own account.")
}
