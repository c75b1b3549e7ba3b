package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// getTestConfig returns a minimal config for testing
func getTestConfig() *config.Config {
	return &config.Config{
		InitialAdminEmail:    "root@example.com",
		DefaultAdminPassword: "root-password",
	}
}

// TestStoreWithSQLite tests store operations with SQLite
func TestStoreWithSQLite(t *testing.T) {
	testBasicOperations(t, config.DatabaseDriverSQLite, nil)
}

// TestStoreWithPostgres tests store operations with PostgreSQL
func TestStoreWithPostgres(t *testing.T) {
	// Skip if running short tests or Docker is not available
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}

	// Recover from panic if Docker is not available
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("Skipping PostgreSQL test: Docker not available (panic: %v)", r)
		}
	}()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("Skipping PostgreSQL test: Docker not available (%v)", err)
		return
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	testBasicOperations(t, config.DatabaseDriverPostgres, pgContainer)
}

// createFreshStore creates a new store instance for test isolation.
// Each SQLite store is a private :memory: database; each PostgreSQL store
// gets a uniquely-named database in the container.
func createFreshStore(t *testing.T, driver string, pgContainer *postgres.PostgresContainer) *Store {
	t.Helper()
	ctx := context.Background()

	var dsn string
	switch driver {
	case config.DatabaseDriverSQLite:
		dsn = ":memory:"
	case config.DatabaseDriverPostgres:
		dbName := "test_" + uuid.New().String()[:8]

		createDBCmd := fmt.Sprintf("CREATE DATABASE %s", dbName)
		_, _, err := pgContainer.Exec(
			ctx,
			[]string{"psql", "-U", "testuser", "-d", "testdb", "-c", createDBCmd},
		)
		require.NoError(t, err)

		host, err := pgContainer.Host(ctx)
		require.NoError(t, err)
		port, err := pgContainer.MappedPort(ctx, "5432")
		require.NoError(t, err)
		dsn = fmt.Sprintf(
			"host=%s port=%s user=testuser password=testpass dbname=%s sslmode=disable",
			host, port.Port(), dbName,
		)

		t.Cleanup(func() {
			dropDBCmd := fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", dbName)
			_, _, _ = pgContainer.Exec(
				context.Background(),
				[]string{"psql", "-U", "testuser", "-d", "testdb", "-c", dropDBCmd},
			)
		})
	default:
		t.Fatalf("unsupported driver: %s", driver)
	}

	store, err := New(ctx, driver, dsn, getTestConfig())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func createTestUser(t *testing.T, s *Store, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: email, Role: role}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createTestEvent(t *testing.T, s *Store, creator *models.User) *models.Event {
	t.Helper()
	start := time.Now().Add(24 * time.Hour)
	event := &models.Event{
		Title:     "Kickoff",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		CreatedBy: &creator.ID,
	}
	require.NoError(t, s.CreateEvent(context.Background(), event))
	return event
}

func createTestPost(t *testing.T, s *Store, author *models.User) *models.Post {
	t.Helper()
	post := &models.Post{Title: "Hello", Content: "First post", AuthorID: author.ID}
	require.NoError(t, s.CreatePost(context.Background(), post))
	return post
}

func countRows(t *testing.T, s *Store, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

// testBasicOperations runs the store suite; each subtest uses a fresh store
func testBasicOperations(t *testing.T, driver string, pgContainer *postgres.PostgresContainer) {
	ctx := context.Background()

	t.Run("SeedsInitialAdminAndSiteConfig", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		admin, err := s.GetUserByEmail(ctx, "ROOT@example.com")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, admin.Role)
		require.NoError(
			t,
			bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("root-password")),
		)

		site, err := s.GetSiteConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.SiteConfigID, site.ID)

		// Bootstrapping again never creates a second row
		require.NoError(t, s.EnsureSiteConfig(ctx))
		assert.Equal(t, int64(1), countRows(t, s, &models.SiteConfig{}, "1 = 1"))
	})

	t.Run("CreateAndGetUser", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		user := createTestUser(t, s, "Jo@X.com", models.RolePublic)
		assert.Equal(t, "jo@x.com", user.Email)

		byID, err := s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		_, err = s.GetUserByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		createTestUser(t, s, "dup@x.com", models.RolePublic)
		err := s.CreateUser(ctx, &models.User{Email: "DUP@x.com", Role: models.RoleViewer})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("UpdateUserRole", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		user := createTestUser(t, s, "team@x.com", models.RolePublic)
		require.NoError(t, s.UpdateUserRole(ctx, user.ID, models.RoleTeam))

		team, err := s.ListUsersByRole(ctx, models.RoleTeam)
		require.NoError(t, err)
		require.Len(t, team, 1)
		assert.Equal(t, user.ID, team[0].ID)

		assert.ErrorIs(t, s.UpdateUserRole(ctx, "missing", models.RoleTeam), ErrRecordNotFound)
	})

	t.Run("UpsertOAuthTokenKeepsOneRow", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		user := createTestUser(t, s, "oauth@x.com", models.RolePublic)
		require.NoError(t, s.UpsertOAuthToken(ctx, &models.OAuthToken{
			UserID:         user.ID,
			Provider:       "google",
			ProviderUserID: "g-123",
			AccessToken:    "first",
		}))
		require.NoError(t, s.UpsertOAuthToken(ctx, &models.OAuthToken{
			UserID:         user.ID,
			Provider:       "google",
			ProviderUserID: "g-123",
			AccessToken:    "second",
		}))

		assert.Equal(t, int64(1), countRows(t, s, &models.OAuthToken{}, "user_id = ?", user.ID))

		var token models.OAuthToken
		require.NoError(t, s.db.Where("user_id = ? AND provider = ?", user.ID, "google").First(&token).Error)
		assert.Equal(t, "second", token.AccessToken)

		bySubject, err := s.GetOAuthTokenBySubject(ctx, "google", "g-123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, bySubject.UserID)
	})

	t.Run("RegistrationUniquePerEventAndEmail", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		admin := createTestUser(t, s, "admin@x.com", models.RoleAdmin)
		event := createTestEvent(t, s, admin)

		require.NoError(t, s.CreateRegistration(ctx, &models.Registration{
			EventID: event.ID, UserName: "Jo", UserEmail: "jo@x.com",
		}))
		err := s.CreateRegistration(ctx, &models.Registration{
			EventID: event.ID, UserName: "Jo again", UserEmail: " JO@x.com ",
		})
		assert.ErrorIs(t, err, ErrDuplicateRegistration)

		exists, err := s.RegistrationExists(ctx, event.ID, "Jo@X.com")
		require.NoError(t, err)
		assert.True(t, exists)

		n, err := s.CountRegistrations(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		loaded, err := s.GetEventByID(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Registrations, 1)
		require.NotNil(t, loaded.Creator)
		assert.Equal(t, admin.ID, loaded.Creator.ID)
	})

	t.Run("AddAttendeeIsIdempotent", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		admin := createTestUser(t, s, "admin@x.com", models.RoleAdmin)
		member := createTestUser(t, s, "member@x.com", models.RolePublic)
		event := createTestEvent(t, s, admin)

		require.NoError(t, s.AddAttendee(ctx, member.ID, event.ID))
		require.NoError(t, s.AddAttendee(ctx, member.ID, event.ID))

		counts, err := s.CountAttendees(ctx, []string{event.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[event.ID])

		attending, err := s.ListEventsAttendedBy(ctx, member.ID)
		require.NoError(t, err)
		require.Len(t, attending, 1)
		assert.Equal(t, event.ID, attending[0].ID)
	})

	t.Run("ListUpcomingEvents", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		admin := createTestUser(t, s, "admin@x.com", models.RoleAdmin)
		now := time.Now()
		for i, offset := range []time.Duration{-time.Hour, 3 * time.Hour, time.Hour} {
			require.NoError(t, s.CreateEvent(ctx, &models.Event{
				Title:     fmt.Sprintf("event-%d", i),
				StartTime: now.Add(offset),
				EndTime:   now.Add(offset + time.Hour),
				CreatedBy: &admin.ID,
			}))
		}

		upcoming, err := s.ListUpcomingEvents(ctx, now, 5)
		require.NoError(t, err)
		require.Len(t, upcoming, 2)
		assert.Equal(t, "event-2", upcoming[0].Title)
		assert.Equal(t, "event-1", upcoming[1].Title)

		limited, err := s.ListUpcomingEvents(ctx, now, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("DeleteEventCascadesToRegistrations", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		admin := createTestUser(t, s, "admin@x.com", models.RoleAdmin)
		member := createTestUser(t, s, "member@x.com", models.RolePublic)
		event := createTestEvent(t, s, admin)
		require.NoError(t, s.CreateRegistration(ctx, &models.Registration{
			EventID: event.ID, UserName: "Jo", UserEmail: "jo@x.com",
		}))
		require.NoError(t, s.AddAttendee(ctx, member.ID, event.ID))

		require.NoError(t, s.DeleteEvent(ctx, event.ID))

		_, err := s.GetEventByID(ctx, event.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.Zero(t, countRows(t, s, &models.Registration{}, "event_id = ?", event.ID))
		assert.Zero(t, countRows(t, s, &models.EventAttendance{}, "event_id = ?", event.ID))

		assert.ErrorIs(t, s.DeleteEvent(ctx, event.ID), ErrRecordNotFound)
	})

	t.Run("DeletePostCascadesToComments", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		author := createTestUser(t, s, "author@x.com", models.RolePublic)
		post := createTestPost(t, s, author)
		require.NoError(t, s.CreateComment(ctx, &models.Comment{
			Content: "nice", AuthorID: author.ID, PostID: post.ID,
		}))

		loaded, err := s.GetPostByID(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Comments, 1)
		assert.Equal(t, author.Email, loaded.Comments[0].Author.Email)

		require.NoError(t, s.DeletePost(ctx, post.ID))
		assert.Zero(t, countRows(t, s, &models.Comment{}, "post_id = ?", post.ID))
		assert.ErrorIs(t, s.DeletePost(ctx, post.ID), ErrRecordNotFound)
	})

	t.Run("DeleteUserCascades", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		victim := createTestUser(t, s, "victim@x.com", models.RoleTeam)
		other := createTestUser(t, s, "other@x.com", models.RolePublic)

		ownPost := createTestPost(t, s, victim)
		otherPost := createTestPost(t, s, other)
		// Comment by someone else on the victim's post
		require.NoError(t, s.CreateComment(ctx, &models.Comment{
			Content: "on victim post", AuthorID: other.ID, PostID: ownPost.ID,
		}))
		// Comment by the victim on someone else's post
		require.NoError(t, s.CreateComment(ctx, &models.Comment{
			Content: "by victim", AuthorID: victim.ID, PostID: otherPost.ID,
		}))

		ownEvent := createTestEvent(t, s, victim)
		otherEvent := createTestEvent(t, s, other)
		require.NoError(t, s.CreateRegistration(ctx, &models.Registration{
			EventID: ownEvent.ID, UserName: "Jo", UserEmail: "jo@x.com",
		}))
		require.NoError(t, s.AddAttendee(ctx, victim.ID, otherEvent.ID))
		require.NoError(t, s.AddAttendee(ctx, other.ID, ownEvent.ID))
		require.NoError(t, s.UpsertOAuthToken(ctx, &models.OAuthToken{
			UserID: victim.ID, Provider: "google", AccessToken: "tok",
		}))

		require.NoError(t, s.DeleteUser(ctx, victim.ID))

		_, err := s.GetUserByID(ctx, victim.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.Zero(t, countRows(t, s, &models.Post{}, "author_id = ?", victim.ID))
		assert.Zero(t, countRows(t, s, &models.Comment{}, "post_id = ?", ownPost.ID))
		assert.Zero(t, countRows(t, s, &models.Comment{}, "author_id = ?", victim.ID))
		assert.Zero(t, countRows(t, s, &models.Event{}, "created_by = ?", victim.ID))
		assert.Zero(t, countRows(t, s, &models.Registration{}, "event_id = ?", ownEvent.ID))
		assert.Zero(t, countRows(t, s, &models.EventAttendance{}, "user_id = ?", victim.ID))
		assert.Zero(t, countRows(t, s, &models.EventAttendance{}, "event_id = ?", ownEvent.ID))
		assert.Zero(t, countRows(t, s, &models.OAuthToken{}, "user_id = ?", victim.ID))

		// Unrelated rows survive
		_, err = s.GetPostByID(ctx, otherPost.ID)
		require.NoError(t, err)
		_, err = s.GetEventByID(ctx, otherEvent.ID)
		require.NoError(t, err)

		assert.ErrorIs(t, s.DeleteUser(ctx, victim.ID), ErrRecordNotFound)
	})

	t.Run("ListUploadsOwnedBy", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		owner := createTestUser(t, s, "owner@x.com", models.RoleTeam)
		owner.ProfilePicture = "/uploads/1_me.png"
		require.NoError(t, s.UpdateUser(ctx, owner))
		other := createTestUser(t, s, "bystander@x.com", models.RolePublic)

		require.NoError(t, s.CreatePost(ctx, &models.Post{
			Title: "With image", Content: "x", AuthorID: owner.ID, PostImage: "/uploads/2_post.png",
		}))
		createTestPost(t, s, owner)
		require.NoError(t, s.CreatePost(ctx, &models.Post{
			Title: "Not mine", Content: "x", AuthorID: other.ID, PostImage: "/uploads/3_other.png",
		}))
		event := createTestEvent(t, s, owner)
		require.NoError(t, s.db.Model(event).Update("banner_image", "/uploads/4_banner.png").Error)

		refs, err := s.ListUploadsOwnedBy(ctx, owner.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"/uploads/1_me.png", "/uploads/2_post.png", "/uploads/4_banner.png"}, refs)

		refs, err = s.ListUploadsOwnedBy(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("ListPostsPaginated", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		author := createTestUser(t, s, "author@x.com", models.RolePublic)
		base := time.Now().Add(-time.Hour)
		for i := 0; i < 3; i++ {
			require.NoError(t, s.CreatePost(ctx, &models.Post{
				Title:     fmt.Sprintf("post-%d", i),
				Content:   "body",
				AuthorID:  author.ID,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		posts, page, err := s.ListPosts(ctx, NewPaginationParams(1, 2))
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "post-2", posts[0].Title)
		assert.Equal(t, author.Email, posts[0].Author.Email)
		assert.Equal(t, int64(3), page.Total)
		assert.True(t, page.HasNext)

		posts, page, err = s.ListPosts(ctx, NewPaginationParams(2, 2))
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.False(t, page.HasNext)
	})

	t.Run("UpdateSiteBannerAndVideo", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		require.NoError(t, s.UpdateSiteBanner(ctx, "/static/uploads/banner.png"))
		require.NoError(t, s.UpdateSiteVideo(ctx, "https://www.youtube.com/embed/dQw4w9WgXcQ"))
		site, err := s.GetSiteConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/static/uploads/banner.png", site.BannerImage)
		assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", site.VideoURL)

		require.NoError(t, s.UpdateSiteVideo(ctx, ""))
		site, err = s.GetSiteConfig(ctx)
		require.NoError(t, err)
		assert.Empty(t, site.VideoURL)
		assert.Equal(t, "/static/uploads/banner.png", site.BannerImage)
	})

	t.Run("AuditLogs", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)

		now := time.Now()
		require.NoError(t, s.CreateAuditLogBatch(ctx, []*models.AuditLog{
			{
				ID: uuid.New().String(), EventType: models.EventLogout, EventTime: now.Add(-48 * time.Hour),
				Severity: models.SeverityInfo, Action: "old", Success: true, CreatedAt: now,
			},
			{
				ID: uuid.New().String(), EventType: models.EventLogout, EventTime: now,
				Severity: models.SeverityInfo, Action: "new", Success: true, CreatedAt: now,
			},
		}))

		deleted, err := s.DeleteOldAuditLogs(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		logs, err := s.ListRecentAuditLogs(ctx, 10)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "new", logs[0].Action)
	})

	t.Run("Health", func(t *testing.T) {
		s := createFreshStore(t, driver, pgContainer)
		assert.NoError(t, s.Health(ctx))
	})
}

func TestGetDialectorUnsupported(t *testing.T) {
	_, err := GetDialector("oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestCalculatePagination(t *testing.T) {
	p := CalculatePagination(25, 3, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.False(t, p.HasNext)
	assert.Equal(t, 2, p.PrevPage)

	params := NewPaginationParams(0, 500)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 50, params.PageSize)
	assert.Equal(t, 0, params.Offset())
	assert.Equal(t, 20, NewPaginationParams(3, 10).Offset())

	// Past the end clamps to the last page.
	p = CalculatePagination(5, 9, 10)
	assert.Equal(t, 1, p.CurrentPage)
	assert.False(t, p.HasNext)

	empty := CalculatePagination(0, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasPrev)
}
