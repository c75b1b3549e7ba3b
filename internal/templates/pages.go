package templates

import (
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/store"

	"github.com/a-h/templ"
)

// ErrorPage renders a full-page error.
func ErrorPage(p ErrorPageProps) templ.Component {
	return page("Error", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<section class="error"><h1>`)
		h.text(p.Error)
		h.raw(`</h1>`)
		if p.Message != "" {
			h.raw(`<p>`)
			h.text(p.Message)
			h.raw(`</p>`)
		}
		h.raw(`<a href="/">Back to home</a></section>`)
	})
}

// IndexPage renders the landing page with the site banner and upcoming events.
func IndexPage(p IndexPageProps) templ.Component {
	return page("Welcome", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		if p.Banner != "" {
			h.raw(`<img class="banner" alt="banner" src="`)
			h.url(p.Banner)
			h.raw(`">`)
		}
		h.raw(`<h1>Upcoming events</h1>`)
		eventList(h, p.Events)
	})
}

// LoginPage renders the password form and the configured OAuth providers.
func LoginPage(p LoginPageProps) templ.Component {
	return page("Sign in", p.BaseProps, &NavbarProps{ActiveLink: "login"}, func(h *htmlWriter) {
		h.raw(`<h1>Sign in</h1>`)
		h.alert(FlashError, p.Error)
		h.raw(`<form method="post" action="/auth/login">`)
		h.csrf(p.CSRFToken)
		h.raw(`<input type="hidden" name="next" value="`)
		h.text(p.Next)
		h.raw(`">`)
		h.input("email", "email", "Email", p.Email, true)
		h.input("password", "password", "Password", "", true)
		h.raw(`<button type="submit">Sign in</button></form>`)

		if len(p.OAuthProviders) > 0 {
			h.raw(`<div class="oauth">`)
			for _, provider := range p.OAuthProviders {
				h.raw(`<a class="btn" href="/auth/login/`)
				h.text(provider.Name)
				h.raw(`">Continue with `)
				h.text(provider.DisplayName)
				h.raw(`</a>`)
			}
			h.raw(`</div>`)
		}
	})
}

// PasswordPage renders the password change form.
func PasswordPage(p PasswordPageProps) templ.Component {
	return page("Password", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<h1>Change password</h1>`)
		h.alert(FlashError, p.Error)
		if p.User != nil && !p.User.HasPassword() {
			h.alert(FlashInfo, "This account signs in with an external provider and has no password.")
			return
		}
		h.raw(`<form method="post" action="/auth/password/update">`)
		h.csrf(p.CSRFToken)
		h.input("password", "current_password", "Current password", "", true)
		h.input("password", "new_password", "New password", "", true)
		h.input("password", "confirm_password", "Confirm new password", "", true)
		h.raw(`<button type="submit">Update password</button></form>`)
	})
}

// AdminDashboard renders the administrator overview.
func AdminDashboard(p AdminDashboardProps) templ.Component {
	return page("Admin dashboard", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<h1>Admin dashboard</h1><p class="stat">Members: `, itoa(p.UserCount), `</p>`)
		h.raw(`<h2>Events</h2>`)
		eventList(h, p.Events)
		h.raw(`<h2>Team</h2>`)
		userList(h, p.Team)
		h.raw(`<h2>Community</h2>`)
		postForm(h, p.CSRFToken)
		postList(h, p.Posts, p.User, p.CSRFToken, true)
		pagination(h, p.Pagination, "/auth/dashboard/admin")
		h.raw(`<h2>Recent activity</h2>`)
		activityList(h, p.Activity)
	})
}

// TeamDashboard renders the events a team member created.
func TeamDashboard(p TeamDashboardProps) templ.Component {
	return page("Team dashboard", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<h1>Team dashboard</h1><a class="btn" href="/events/create_event">Create event</a>`)
		h.raw(`<a href="/auth/team/password">Change password</a><h2>Your events</h2>`)
		summaryList(h, p.Events)
		h.raw(`<h2>Team</h2>`)
		userList(h, p.Team)
	})
}

// PublicDashboard renders the member feed.
func PublicDashboard(p PublicDashboardProps) templ.Component {
	return page("Dashboard", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<h1>Welcome, `)
		h.text(p.User.DisplayName())
		h.raw(`</h1><p class="stat">Members: `, itoa(p.UserCount), `</p>`)
		if !p.User.ProfileCompleted {
			h.alert(FlashInfo, "Complete your profile so others can find you.")
			h.raw(`<a href="/profile/setup">Set up profile</a>`)
		}
		if p.VideoURL != "" {
			h.raw(`<div class="video"><iframe title="Community video" allowfullscreen src="`)
			h.url(p.VideoURL)
			h.raw(`"></iframe></div>`)
		}
		h.raw(`<h2>Upcoming events</h2>`)
		eventList(h, p.Events)
		h.raw(`<h2>Community</h2>`)
		postForm(h, p.CSRFToken)
		postList(h, p.Posts, p.User, p.CSRFToken, true)
		pagination(h, p.Pagination, "/auth/dashboard/public")
	})
}

// TeamPage renders team management. GeneratedPassword is shown exactly once.
func TeamPage(p TeamPageProps) templ.Component {
	return page("Team", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<h1>Team members</h1>`)
		if p.GeneratedPassword != "" {
			h.raw(`<div class="alert alert-info">Account created for <strong>`)
			h.text(p.NewMemberEmail)
			h.raw(`</strong>. Temporary password: <code>`)
			h.text(p.GeneratedPassword)
			h.raw(`</code>. It will not be shown again.</div>`)
		}
		h.raw(`<form method="post" action="/auth/team/add">`)
		h.csrf(p.CSRFToken)
		h.input("email", "email", "Email", "", true)
		h.raw(`<button type="submit">Add to team</button></form><table><tr><th>Name</th><th>Email</th><th></th></tr>`)
		for _, m := range p.Members {
			h.raw(`<tr><td>`)
			h.text(m.DisplayName())
			h.raw(`</td><td>`)
			h.text(m.Email)
			h.raw(`</td><td>`)
			if m.Role == models.RoleTeam {
				h.raw(`<form method="post" action="/auth/team/remove/`, m.ID, `">`)
				h.csrf(p.CSRFToken)
				h.raw(`<button type="submit">Remove</button></form>`)
			}
			if p.User != nil && m.ID != p.User.ID {
				h.raw(`<form method="post" action="/auth/admin/users/`, m.ID, `/delete">`)
				h.csrf(p.CSRFToken)
				h.raw(`<button type="submit" class="danger">Delete account</button></form>`)
			}
			h.raw(`</td></tr>`)
		}
		h.raw(`</table>`)
	})
}

// SettingsPage renders the site banner form.
func SettingsPage(p SettingsPageProps) templ.Component {
	return page("Settings", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<h1>Site settings</h1>`)
		if p.Banner != "" {
			h.raw(`<img class="banner" alt="current banner" src="`)
			h.url(p.Banner)
			h.raw(`">`)
		}
		h.raw(`<form method="post" action="/admin/settings" enctype="multipart/form-data">`)
		h.csrf(p.CSRFToken)
		h.raw(`<label>Upload banner<input type="file" name="banner_file" accept="image/*"></label>`)
		h.input("text", "banner_url", "Or banner URL (empty clears)", p.Banner, false)
		h.raw(`<button type="submit">Save</button></form>`)
		h.raw(`<h2>Dashboard video</h2><form method="post" action="/admin/settings/video">`)
		h.csrf(p.CSRFToken)
		h.input("url", "video_url", "YouTube link (empty clears)", p.VideoURL, false)
		h.raw(`<button type="submit">Save video</button></form>`)
	})
}

// EventFormPage renders the event creation form.
func EventFormPage(p EventFormPageProps) templ.Component {
	return page("New event", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<h1>Create event</h1>`)
		h.alert(FlashError, p.Error)
		h.raw(`<form method="post" action="/events/create_event" enctype="multipart/form-data">`)
		h.csrf(p.CSRFToken)
		h.input("text", "title", "Title", p.Form.Title, true)
		h.textarea("description", "Description", p.Form.Description, false)
		h.input("datetime-local", "start_datetime", "Starts", p.Form.Start, true)
		h.input("datetime-local", "end_datetime", "Ends", p.Form.End, true)
		h.input("number", "capacity", "Capacity (optional)", p.Form.Capacity, false)
		h.input("url", "meet_link", "Meeting link", p.Form.MeetLink, false)
		h.input("text", "event_type", "Type", p.Form.EventType, false)
		h.raw(`<label>Banner<input type="file" name="banner_image" accept="image/*"></label>`)
		h.raw(`<button type="submit">Create</button></form>`)
	})
}

// EventPage renders one event with its registration form.
func EventPage(p EventPageProps) templ.Component {
	e := p.Event
	return page(e.Title, p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		if e.BannerImage != "" {
			h.raw(`<img class="banner" alt="" src="`)
			h.url(e.BannerImage)
			h.raw(`">`)
		}
		h.raw(`<h1>`)
		h.text(e.Title)
		h.raw(`</h1><p class="when">`)
		h.text(formatTime(e.StartTime))
		h.raw(` &ndash; `)
		h.text(formatTime(e.EndTime))
		h.raw(`</p><p>`)
		h.text(e.Description)
		h.raw(`</p>`)
		if e.MeetLink != "" {
			h.raw(`<a href="`)
			h.url(e.MeetLink)
			h.raw(`" rel="noopener">Join meeting</a>`)
		}

		taken := int64(len(e.Registrations))
		h.raw(`<p class="stat">Registrations: `, itoa(taken))
		if e.Capacity != nil {
			h.raw(` / `, itoa(int64(*e.Capacity)))
		}
		h.raw(`</p>`)

		if p.Full {
			h.alert(FlashInfo, "This event is full.")
		} else {
			h.raw(`<form method="post" action="/events/register/`, e.ID, `">`)
			h.csrf(p.CSRFToken)
			name, email := "", ""
			if p.User != nil {
				name, email = p.User.DisplayName(), p.User.Email
			}
			h.input("text", "name", "Name", name, true)
			h.input("email", "email", "Email", email, true)
			h.raw(`<button type="submit">Register</button></form>`)
		}

		if p.User != nil {
			if p.Attending {
				h.raw(`<p>You are attending this event.</p>`)
			} else {
				h.raw(`<form method="post" action="/events/event/`, e.ID, `/attend">`)
				h.csrf(p.CSRFToken)
				h.raw(`<button type="submit">Attend</button></form>`)
			}
		}
		if p.CanDelete {
			h.raw(`<form method="post" action="/events/event/`, e.ID, `/delete">`)
			h.csrf(p.CSRFToken)
			h.raw(`<button type="submit" class="danger">Delete event</button></form>`)
		}
	})
}

// PostsPage renders the community list.
func PostsPage(p PostsPageProps) templ.Component {
	return page("Community", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<h1>Community</h1>`)
		if policy.CanActorDo(p.User, policy.CreatePost) {
			postForm(h, p.CSRFToken)
		}
		postList(h, p.Posts, p.User, p.CSRFToken, false)
		pagination(h, p.Pagination, "/community/posts")
	})
}

// PostPage renders one post with its comments.
func PostPage(p PostPageProps) templ.Component {
	return page(p.Post.Title, p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		postCard(h, *p.Post, p.User, p.CSRFToken, true)
	})
}

// ProfileSetupPage renders the profile form.
func ProfileSetupPage(p ProfileSetupPageProps) templ.Component {
	u := p.Profile
	return page("Your profile", p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<h1>Your profile</h1>`)
		h.alert(FlashError, p.Error)
		h.raw(`<form method="post" action="/profile/setup" enctype="multipart/form-data">`)
		h.csrf(p.CSRFToken)
		h.input("text", "name", "Name", u.Name, true)
		h.input("text", "headline", "Headline", u.Headline, false)
		h.textarea("bio", "Bio", u.Bio, false)
		h.input("text", "company", "Company", u.Company, false)
		h.input("text", "position", "Position", u.Position, false)
		h.input("text", "location", "Location", u.Location, false)
		h.input("url", "website", "Website", u.Website, false)
		h.input("url", "linkedin_url", "LinkedIn", u.LinkedInURL, false)
		h.input("text", "skills", "Skills (comma separated)", u.Skills, false)
		h.raw(`<label>Picture<input type="file" name="profile_picture" accept="image/*"></label>`)
		h.raw(`<button type="submit">Save profile</button></form>`)
	})
}

// ProfilePage renders a member's public profile.
func ProfilePage(p ProfilePageProps) templ.Component {
	u := p.Profile
	return page(u.DisplayName(), p.BaseProps, &p.NavbarProps, func(h *htmlWriter) {
		h.raw(`<section class="profile">`)
		if u.ProfilePicture != "" {
			h.raw(`<img class="avatar" alt="" src="`)
			h.url(u.ProfilePicture)
			h.raw(`">`)
		}
		h.raw(`<h1>`)
		h.text(u.DisplayName())
		h.raw(`</h1><p class="headline">`)
		h.text(u.Headline)
		h.raw(`</p>`)
		if u.Position != "" || u.Company != "" {
			h.raw(`<p>`)
			h.text(u.Position)
			if u.Company != "" {
				h.raw(` @ `)
				h.text(u.Company)
			}
			h.raw(`</p>`)
		}
		h.raw(`<p>`)
		h.text(u.Bio)
		h.raw(`</p>`)
		if skills := u.SkillList(); len(skills) > 0 {
			h.raw(`<ul class="skills">`)
			for _, s := range skills {
				h.raw(`<li>`)
				h.text(s)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}
		for _, l := range []struct{ href, label string }{{u.Website, "Website"}, {u.LinkedInURL, "LinkedIn"}} {
			if l.href != "" {
				h.raw(`<a href="`)
				h.url(l.href)
				h.raw(`" rel="noopener">`, l.label, `</a> `)
			}
		}
		if p.IsOwner {
			h.raw(`<a class="btn" href="/profile/setup">Edit profile</a>`)
		}
		h.raw(`</section><h2>Attending</h2>`)
		summaryList(h, p.Attending)
		if len(p.Created) > 0 {
			h.raw(`<h2>Hosted events</h2>`)
			summaryList(h, p.Created)
		}
	})
}

func eventList(h *htmlWriter, events []models.Event) {
	if len(events) == 0 {
		h.raw(`<p class="empty">No events yet.</p>`)
		return
	}
	h.raw(`<ul class="events">`)
	for _, e := range events {
		h.raw(`<li><a href="/events/event/`, e.ID, `">`)
		h.text(e.Title)
		h.raw(`</a> <span class="when">`)
		h.text(formatTime(e.StartTime))
		h.raw(`</span></li>`)
	}
	h.raw(`</ul>`)
}

func summaryList(h *htmlWriter, events []models.EventSummary) {
	if len(events) == 0 {
		h.raw(`<p class="empty">No events.</p>`)
		return
	}
	h.raw(`<ul class="events">`)
	for _, e := range events {
		h.raw(`<li><a href="/events/event/`, e.ID, `">`)
		h.text(e.Title)
		h.raw(`</a> <span class="when">`)
		h.text(formatTime(e.StartTime))
		h.raw(`</span> <span class="count">`, itoa(e.AttendeeCount), ` attending</span></li>`)
	}
	h.raw(`</ul>`)
}

func userList(h *htmlWriter, users []models.User) {
	h.raw(`<ul class="users">`)
	for _, u := range users {
		h.raw(`<li><a href="/profile/`, u.ID, `">`)
		h.text(u.DisplayName())
		h.raw(`</a> `)
		h.text(u.Email)
		h.raw(`</li>`)
	}
	h.raw(`</ul>`)
}

func activityList(h *htmlWriter, logs []models.AuditLog) {
	if len(logs) == 0 {
		h.raw(`<p class="muted">No activity recorded.</p>`)
		return
	}
	h.raw(`<table class="activity"><tr><th>When</th><th>Who</th><th>What</th><th></th></tr>`)
	for _, l := range logs {
		h.raw(`<tr><td>`)
		h.text(formatTime(l.EventTime))
		h.raw(`</td><td>`)
		h.text(l.ActorEmail)
		h.raw(`</td><td>`)
		h.text(l.Action)
		h.raw(`</td><td>`)
		if !l.Success {
			h.raw(`failed`)
		}
		h.raw(`</td></tr>`)
	}
	h.raw(`</table>`)
}

func postForm(h *htmlWriter, csrfToken string) {
	h.raw(`<form class="post-form" method="post" action="/auth/post/create" enctype="multipart/form-data">`)
	h.csrf(csrfToken)
	h.input("text", "title", "Title", "", true)
	h.textarea("content", "What is new?", "", true)
	h.raw(`<label>Image<input type="file" name="post_image" accept="image/*"></label>`)
	h.raw(`<button type="submit">Post</button></form>`)
}

func postList(h *htmlWriter, posts []models.Post, viewer *models.User, csrfToken string, withComments bool) {
	if len(posts) == 0 {
		h.raw(`<p class="empty">Nothing posted yet.</p>`)
		return
	}
	for _, post := range posts {
		postCard(h, post, viewer, csrfToken, withComments)
	}
}

func postCard(h *htmlWriter, post models.Post, viewer *models.User, csrfToken string, withComments bool) {
	h.raw(`<article class="post"><h3><a href="/community/posts/`, post.ID, `">`)
	h.text(post.Title)
	h.raw(`</a></h3><p class="meta">`)
	h.text(post.Author.DisplayName())
	h.raw(` &middot; `)
	h.text(formatTime(post.CreatedAt))
	h.raw(`</p>`)
	if post.PostImage != "" {
		h.raw(`<img alt="" src="`)
		h.url(post.PostImage)
		h.raw(`">`)
	}
	h.raw(`<p>`)
	h.text(post.Content)
	h.raw(`</p>`)

	if policy.CanDeletePost(viewer, &post) {
		h.raw(`<form method="post" action="/auth/post/`, post.ID, `/delete">`)
		h.csrf(csrfToken)
		h.raw(`<button type="submit" class="danger">Delete</button></form>`)
	}

	if withComments {
		h.raw(`<section class="comments">`)
		for _, c := range post.Comments {
			h.raw(`<div class="comment"><strong>`)
			h.text(c.Author.DisplayName())
			h.raw(`</strong> `)
			h.text(c.Content)
			h.raw(`</div>`)
		}
		if policy.CanActorDo(viewer, policy.Comment) {
			h.raw(`<form method="post" action="/auth/post/`, post.ID, `/comment">`)
			h.csrf(csrfToken)
			h.raw(`<input type="text" name="content" placeholder="Add a comment" required>`)
			h.raw(`<button type="submit">Comment</button></form>`)
		}
		h.raw(`</section>`)
	}
	h.raw(`</article>`)
}

func pagination(h *htmlWriter, p store.PaginationResult, baseURL string) {
	if p.TotalPages <= 1 {
		return
	}
	h.raw(`<nav class="pagination">`)
	if p.HasPrev {
		h.raw(`<a href="`, baseURL, `?page=`, itoa(int64(p.PrevPage)), `">Newer</a>`)
	}
	h.raw(`<span>Page `, itoa(int64(p.CurrentPage)), ` of `, itoa(int64(p.TotalPages)), `</span>`)
	if p.HasNext {
		h.raw(`<a href="`, baseURL, `?page=`, itoa(int64(p.NextPage)), `">Older</a>`)
	}
	h.raw(`</nav>`)
}
