package templates

import (
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/store"
)

// Flash categories
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// BaseProps contains common properties shared across all pages
type BaseProps struct {
	CSRFToken string
	Flashes   []Flash
}

// NavbarProps contains properties for the navigation bar
type NavbarProps struct {
	User       *models.User // nil for anonymous visitors
	ActiveLink string       // "home", "dashboard", "events", "community", "team", "settings", "profile"
}

// OAuthProvider represents an OAuth provider configuration
type OAuthProvider struct {
	Name        string
	DisplayName string
}

// ===== Page Props Structures =====

// ErrorPageProps contains properties for the error page
type ErrorPageProps struct {
	BaseProps
	NavbarProps
	Error   string
	Message string
}

// IndexPageProps contains properties for the landing page
type IndexPageProps struct {
	BaseProps
	NavbarProps
	Banner string
	Events []models.Event
}

// LoginPageProps contains properties for the login page
type LoginPageProps struct {
	BaseProps
	Error          string
	Email          string
	Next           string
	OAuthProviders []OAuthProvider
}

// AdminDashboardProps contains properties for the admin dashboard
type AdminDashboardProps struct {
	BaseProps
	NavbarProps
	Events     []models.Event
	Posts      []models.Post
	Pagination store.PaginationResult
	UserCount  int64
	Team       []models.User
	Activity   []models.AuditLog
}

// TeamDashboardProps contains properties for the team dashboard
type TeamDashboardProps struct {
	BaseProps
	NavbarProps
	Events []models.EventSummary
	Team   []models.User
}

// PublicDashboardProps contains properties for the member dashboard
type PublicDashboardProps struct {
	BaseProps
	NavbarProps
	Posts      []models.Post
	Pagination store.PaginationResult
	UserCount  int64
	Events     []models.Event
	VideoURL   string
}

// PasswordPageProps contains properties for the password form
type PasswordPageProps struct {
	BaseProps
	NavbarProps
	Error string
}

// TeamPageProps contains properties for the team management page
type TeamPageProps struct {
	BaseProps
	NavbarProps
	Members []models.User
	// Set once right after a new account was created for a promoted email
	NewMemberEmail    string
	GeneratedPassword string
}

// SettingsPageProps contains properties for the site settings page
type SettingsPageProps struct {
	BaseProps
	NavbarProps
	Banner   string
	VideoURL string
}

// EventForm echoes submitted event fields back into the form.
type EventForm struct {
	Title       string
	Description string
	Start       string
	End         string
	Capacity    string
	MeetLink    string
	EventType   string
}

// EventFormPageProps contains properties for the event creation page
type EventFormPageProps struct {
	BaseProps
	NavbarProps
	Form  EventForm
	Error string
}

// EventPageProps contains properties for the event detail page
type EventPageProps struct {
	BaseProps
	NavbarProps
	Event     *models.Event
	Attending bool
	CanDelete bool
	Full      bool
}

// PostsPageProps contains properties for the community list
type PostsPageProps struct {
	BaseProps
	NavbarProps
	Posts      []models.Post
	Pagination store.PaginationResult
}

// PostPageProps contains properties for the post detail page
type PostPageProps struct {
	BaseProps
	NavbarProps
	Post *models.Post
}

// ProfileSetupPageProps contains properties for the profile form
type ProfileSetupPageProps struct {
	BaseProps
	NavbarProps
	Profile *models.User
	Error   string
}

// ProfilePageProps contains properties for a public profile
type ProfilePageProps struct {
	BaseProps
	NavbarProps
	Profile   *models.User
	Attending []models.EventSummary
	Created   []models.EventSummary
	IsOwner   bool
}
