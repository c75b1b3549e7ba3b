package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/He-ro616/we4x-CO/internal/auth"
	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/store"
	"github.com/He-ro616/we4x-CO/internal/util"
)

const (
	minPasswordLength     = 8
	generatedPasswordSize = 16
	oauthStateSize        = 32

	LoginMethodPassword = "password"
)

type UserService struct {
	store         *store.Store
	localProvider *auth.LocalAuthProvider
	auditService  *AuditService
	metrics       core.Recorder
	storage       core.FileStorage
	userCache     core.Cache[models.User]
	userCacheTTL  time.Duration
	guard         guard
}

func NewUserService(
	s *store.Store,
	localProvider *auth.LocalAuthProvider,
	auditService *AuditService,
	m core.Recorder,
	storage core.FileStorage,
	userCache core.Cache[models.User],
	userCacheTTL time.Duration,
) *UserService {
	return &UserService{
		store:         s,
		localProvider: localProvider,
		auditService:  auditService,
		metrics:       m,
		storage:       storage,
		userCache:     userCache,
		userCacheTTL:  userCacheTTL,
		guard:         guard{audit: auditService, metrics: m},
	}
}

func userCacheKey(id string) string {
	return "user:" + id
}

// Authenticate checks an email/password pair.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.localProvider.Authenticate(ctx, email, password)
	if err != nil {
		s.metrics.RecordLogin(LoginMethodPassword, false)
		s.auditService.Log(ctx, AuditLogEntry{
			EventType:    models.EventAuthenticationFailure,
			Severity:     models.SeverityWarning,
			ActorEmail:   strings.ToLower(strings.TrimSpace(email)),
			Action:       "Password login failed",
			Success:      false,
			ErrorMessage: err.Error(),
		})
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		log.Printf("[Auth] Password login error for %s: %v", email, err)
		return nil, err
	}

	s.metrics.RecordLogin(LoginMethodPassword, true)
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventAuthenticationSuccess,
		ActorUserID:  user.ID,
		ActorEmail:   user.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID,
		Action:       "Password login",
		Success:      true,
	})
	return user, nil
}

// GetUserByID loads a user through the user cache.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userCache.GetWithFetch(
		ctx,
		userCacheKey(id),
		s.userCacheTTL,
		func(ctx context.Context, _ string) (models.User, error) {
			u, err := s.store.GetUserByID(ctx, id)
			if err != nil {
				return models.User{}, err
			}
			return *u, nil
		},
	)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return &user, nil
}

// InvalidateUserCache drops the cached copy after the user row changed.
func (s *UserService) InvalidateUserCache(ctx context.Context, id string) {
	if err := s.userCache.Delete(ctx, userCacheKey(id)); err != nil {
		log.Printf("[Cache] Failed to invalidate user %s: %v", id, err)
	}
}

// BeginOAuthLogin returns the provider redirect URL and the state to bind to the session.
func (s *UserService) BeginOAuthLogin(provider core.IdentityProvider) (string, string, error) {
	state, err := util.RandomState(oauthStateSize)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return provider.AuthURL(state), state, nil
}

// CompleteOAuthLogin validates the callback, exchanges the code and resolves the
// provider identity to a local account. created reports whether a new user was made.
func (s *UserService) CompleteOAuthLogin(
	ctx context.Context,
	provider core.IdentityProvider,
	expectedState, state, code string,
) (user *models.User, created bool, err error) {
	name := provider.Name()
	defer func() {
		result := "success"
		if err != nil {
			result = oauthResult(err)
			s.auditService.Log(ctx, AuditLogEntry{
				EventType:    models.EventOAuthFailure,
				Severity:     models.SeverityWarning,
				Action:       "OAuth login failed",
				Details:      models.AuditDetails{"provider": name, "result": result},
				Success:      false,
				ErrorMessage: err.Error(),
			})
		}
		s.metrics.RecordOAuthCallback(name, result)
	}()

	if expectedState == "" || state == "" ||
		subtle.ConstantTimeCompare([]byte(expectedState), []byte(state)) != 1 {
		return nil, false, ErrOAuthStateMismatch
	}
	if code == "" {
		return nil, false, fmt.Errorf("%w: missing authorization code", ErrOAuthProviderError)
	}

	start := time.Now()
	token, err := provider.Exchange(ctx, code)
	s.metrics.RecordExternalAPICall(name, time.Since(start))
	if err != nil {
		log.Printf("[OAuth] %s code exchange failed: %v", name, err)
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, false, ErrOAuthTokenExpired
		}
		return nil, false, ErrOAuthProviderError
	}

	start = time.Now()
	claims, err := provider.FetchClaims(ctx, token)
	s.metrics.RecordExternalAPICall(name, time.Since(start))
	if err != nil {
		log.Printf("[OAuth] %s claims fetch failed: %v", name, err)
		if errors.Is(err, auth.ErrNoVerifiedEmail) {
			return nil, false, ErrMissingEmail
		}
		return nil, false, ErrOAuthProviderError
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, false, ErrMissingEmail
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		var txErr error
		user, created, txErr = resolveOAuthUser(ctx, tx, name, claims)
		if txErr != nil {
			return txErr
		}
		return tx.UpsertOAuthToken(ctx, &models.OAuthToken{
			UserID:         user.ID,
			Provider:       name,
			ProviderUserID: claims.Subject,
			AccessToken:    token.AccessToken,
			RefreshToken:   token.RefreshToken,
			TokenType:      token.TokenType,
			ExpiresAt:      token.Expiry,
			Scope:          tokenScope(token.Extra("scope")),
		})
	})
	if err != nil {
		return nil, false, storeErr("oauth login", err)
	}
	s.InvalidateUserCache(ctx, user.ID)

	log.Printf("[OAuth] %s login: user=%s new=%t", name, user.Email, created)
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventOAuthAuthentication,
		ActorUserID:  user.ID,
		ActorEmail:   user.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID,
		Action:       "OAuth login",
		Details:      models.AuditDetails{"provider": name, "new_user": created},
		Success:      true,
	})
	return user, created, nil
}

// resolveOAuthUser finds the account behind a provider identity: first by the
// bound subject, then by email, otherwise it creates one with the default role.
func resolveOAuthUser(
	ctx context.Context,
	tx *store.Store,
	provider string,
	claims *core.IdentityClaims,
) (*models.User, bool, error) {
	if user, err := findBySubject(ctx, tx, provider, claims.Subject); err == nil {
		return user, false, nil
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, false, err
	}

	user, err := tx.GetUserByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		changed := false
		if provider == auth.ProviderGoogle && user.GoogleID == nil {
			subject := claims.Subject
			user.GoogleID = &subject
			changed = true
		}
		if user.Name == "" && claims.Name != "" {
			user.Name = claims.Name
			changed = true
		}
		if user.ProfilePicture == "" && claims.Picture != "" {
			user.ProfilePicture = claims.Picture
			changed = true
		}
		if changed {
			if err := tx.UpdateUser(ctx, user); err != nil {
				return nil, false, err
			}
		}
		return user, false, nil

	case errors.Is(err, store.ErrRecordNotFound):
		user = &models.User{
			Email:          claims.Email,
			Name:           claims.Name,
			ProfilePicture: claims.Picture,
			Role:           models.DefaultRole,
		}
		if provider == auth.ProviderGoogle {
			subject := claims.Subject
			user.GoogleID = &subject
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return nil, false, err
		}
		return user, true, nil

	default:
		return nil, false, err
	}
}

func findBySubject(ctx context.Context, tx *store.Store, provider, subject string) (*models.User, error) {
	if provider == auth.ProviderGoogle {
		return tx.GetUserByGoogleID(ctx, subject)
	}
	link, err := tx.GetOAuthTokenBySubject(ctx, provider, subject)
	if err != nil {
		return nil, err
	}
	return tx.GetUserByID(ctx, link.UserID)
}

func tokenScope(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func oauthResult(err error) string {
	switch {
	case errors.Is(err, ErrOAuthStateMismatch):
		return "state_mismatch"
	case errors.Is(err, ErrOAuthTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrMissingEmail):
		return "missing_email"
	case errors.Is(err, ErrOAuthProviderError):
		return "provider_error"
	default:
		return "error"
	}
}

// Logout records the end of a session; the caller clears the session itself.
func (s *UserService) Logout(ctx context.Context, user *models.User) {
	s.metrics.RecordLogout()
	if user == nil {
		return
	}
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:   models.EventLogout,
		ActorUserID: user.ID,
		ActorEmail:  user.Email,
		Action:      "Logout",
		Success:     true,
	})
}

// SetPassword replaces the password hash of user without checking the old one.
func (s *UserService) SetPassword(ctx context.Context, user *models.User, password string) error {
	if len(password) < minPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return storeErr("set password", err)
	}
	s.InvalidateUserCache(ctx, user.ID)
	return nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *UserService) ChangePassword(
	ctx context.Context,
	actor *models.User,
	current, next, confirm string,
) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if !actor.HasPassword() {
		return invalid("current_password", "is not set for accounts that sign in with an external provider")
	}
	if next != confirm {
		return invalid("confirm_password", "does not match")
	}
	if _, err := s.localProvider.Authenticate(ctx, actor.Email, current); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return ErrInvalidCredentials
		}
		return err
	}
	if err := s.SetPassword(ctx, actor, next); err != nil {
		return err
	}

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventPasswordChanged,
		ActorUserID:  actor.ID,
		ActorEmail:   actor.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   actor.ID,
		Action:       "Password changed",
		Success:      true,
	})
	return nil
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name           string
	Headline       string
	Bio            string
	Company        string
	Position       string
	Location       string
	Website        string
	LinkedInURL    string
	Skills         string
	ProfilePicture string // stored reference; empty keeps the current picture
}

// UpdateProfile saves the profile and marks it completed.
func (s *UserService) UpdateProfile(
	ctx context.Context,
	actor *models.User,
	in ProfileInput,
) (*models.User, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	for field, value := range map[string]string{"website": in.Website, "linkedin_url": in.LinkedInURL} {
		if value != "" && !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return nil, invalid(field, "must start with http:// or https://")
		}
	}

	user, err := s.store.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, storeErr("load profile", err)
	}
	user.Name = name
	user.Headline = strings.TrimSpace(in.Headline)
	user.Bio = strings.TrimSpace(in.Bio)
	user.Company = strings.TrimSpace(in.Company)
	user.Position = strings.TrimSpace(in.Position)
	user.Location = strings.TrimSpace(in.Location)
	user.Website = strings.TrimSpace(in.Website)
	user.LinkedInURL = strings.TrimSpace(in.LinkedInURL)
	user.Skills = strings.Join(splitSkills(in.Skills), ", ")
	previousPicture := user.ProfilePicture
	if in.ProfilePicture != "" {
		user.ProfilePicture = in.ProfilePicture
	}
	user.ProfileCompleted = true

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, storeErr("update profile", err)
	}
	s.InvalidateUserCache(ctx, user.ID)
	if previousPicture != user.ProfilePicture {
		removeFiles(ctx, s.storage, previousPicture)
	}
	return user, nil
}

func splitSkills(raw string) []string {
	u := models.User{Skills: raw}
	return u.SkillList()
}

// PromoteToTeam grants the team role to email. When no account exists one is
// created with a random password, which is returned once and never stored in clear.
func (s *UserService) PromoteToTeam(
	ctx context.Context,
	actor *models.User,
	email string,
) (*models.User, string, error) {
	if err := s.guard.authorize(ctx, actor, policy.ManageTeam); err != nil {
		return nil, "", err
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, "", err
	}

	var (
		user      *models.User
		generated string
	)
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		existing, err := tx.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if existing.IsAdmin() {
				return invalid("email", "already belongs to an administrator")
			}
			existing.Role = models.RoleTeam
			if err := tx.UpdateUserRole(ctx, existing.ID, models.RoleTeam); err != nil {
				return err
			}
			user = existing
			return nil
		case errors.Is(err, store.ErrRecordNotFound):
			password, err := util.RandomPassword(generatedPasswordSize)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			user = &models.User{
				Email:        email,
				PasswordHash: hash,
				Role:         models.RoleTeam,
			}
			if err := tx.CreateUser(ctx, user); err != nil {
				return err
			}
			generated = password
			return nil
		default:
			return err
		}
	})
	if err != nil {
		if errors.Is(err, ErrValidationFailed) {
			return nil, "", err
		}
		return nil, "", storeErr("promote to team", err)
	}
	s.InvalidateUserCache(ctx, user.ID)

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventTeamMemberPromoted,
		ActorUserID:  actor.ID,
		ActorEmail:   actor.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID,
		ResourceName: user.Email,
		Action:       "Added team member",
		Details:      models.AuditDetails{"created": generated != ""},
		Success:      true,
	})
	return user, generated, nil
}

// DemoteFromTeam returns a team member to the public role.
func (s *UserService) DemoteFromTeam(
	ctx context.Context,
	actor *models.User,
	userID string,
) (*models.User, error) {
	if err := s.guard.authorize(ctx, actor, policy.ManageTeam); err != nil {
		return nil, err
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr("load team member", err)
	}
	if user.Role != models.RoleTeam {
		return nil, invalid("user", "is not a team member")
	}
	if err := s.store.UpdateUserRole(ctx, user.ID, models.RolePublic); err != nil {
		return nil, storeErr("demote team member", err)
	}
	user.Role = models.RolePublic
	s.InvalidateUserCache(ctx, user.ID)

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventTeamMemberDemoted,
		ActorUserID:  actor.ID,
		ActorEmail:   actor.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID,
		ResourceName: user.Email,
		Action:       "Removed team member",
		Success:      true,
	})
	return user, nil
}

// ListTeam returns team members and administrators.
func (s *UserService) ListTeam(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsersByRole(ctx, models.RoleAdmin, models.RoleTeam)
	if err != nil {
		return nil, storeErr("list team", err)
	}
	return users, nil
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.store.CountUsers(ctx)
}

// DeleteUser removes an account and everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, userID string) error {
	if err := s.guard.authorize(ctx, actor, policy.ManageUsers); err != nil {
		return err
	}
	if actor.ID == userID {
		return invalid("user", "cannot be your own account")
	}
	target, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return storeErr("load user", err)
	}
	uploads, err := s.store.ListUploadsOwnedBy(ctx, userID)
	if err != nil {
		return storeErr("list uploads", err)
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return storeErr("delete user", err)
	}
	s.InvalidateUserCache(ctx, userID)
	removeFiles(ctx, s.storage, uploads...)

	if err := s.auditService.LogSync(ctx, AuditLogEntry{
		EventType:    models.EventUserDeleted,
		Severity:     models.SeverityWarning,
		ActorUserID:  actor.ID,
		ActorEmail:   actor.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   target.ID,
		ResourceName: target.Email,
		Action:       "User deleted",
		Success:      true,
	}); err != nil {
		log.Printf("[Audit] Failed to record deletion of %s: %v", target.Email, err)
	}
	return nil
}

// CreateAdmin makes email an administrator with the given password, creating
// the account when needed. Used by the create-admin command.
func (s *UserService) CreateAdmin(
	ctx context.Context,
	email, password string,
) (*models.User, bool, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, false, err
	}
	if len(password) < minPasswordLength {
		return nil, false, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	var (
		user    *models.User
		created bool
	)
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		existing, err := tx.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			existing.Role = models.RoleAdmin
			existing.PasswordHash = hash
			user = existing
			return tx.UpdateUser(ctx, existing)
		case errors.Is(err, store.ErrRecordNotFound):
			user = &models.User{
				Email:        email,
				Name:         "Administrator",
				PasswordHash: hash,
				Role:         models.RoleAdmin,
			}
			created = true
			return tx.CreateUser(ctx, user)
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, storeErr("create admin", err)
	}
	s.InvalidateUserCache(ctx, user.ID)

	// The command exits right after, so the entry is written before returning.
	if err := s.auditService.LogSync(ctx, AuditLogEntry{
		EventType:    models.EventAdminGranted,
		Severity:     models.SeverityWarning,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID,
		ResourceName: user.Email,
		Action:       "Administrator granted from the command line",
		Details:      models.AuditDetails{"created": created},
		Success:      true,
	}); err != nil {
		log.Printf("[Audit] Failed to record admin grant for %s: %v", user.Email, err)
	}
	return user, created, nil
}
