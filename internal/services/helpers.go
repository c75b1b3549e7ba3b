package services

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/store"
)

// guard consults the access policy and records denials.
type guard struct {
	audit   *AuditService
	metrics core.Recorder
}

func (g guard) authorize(ctx context.Context, actor *models.User, action policy.Action) error {
	if policy.CanActorDo(actor, action) {
		return nil
	}
	g.denied(ctx, actor, string(action))
	return ErrUnauthorized
}

func (g guard) denied(ctx context.Context, actor *models.User, action string) {
	g.metrics.RecordAuthorizationDenied(action)

	entry := AuditLogEntry{
		EventType: models.EventAuthorizationDenied,
		Severity:  models.SeverityWarning,
		Action:    "Denied " + action,
		Success:   false,
	}
	if actor != nil {
		entry.ActorUserID = actor.ID
		entry.ActorEmail = actor.Email
		entry.Details = models.AuditDetails{"role": string(actor.Role)}
	}
	g.audit.Log(ctx, entry)
}

// storeErr maps store sentinels onto workflow errors; anything else is logged.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicateEmail), errors.Is(err, store.ErrDuplicateRegistration):
		return ErrConstraintViolation
	default:
		log.Printf("[Store] %s failed: %v", op, err)
		return err
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email", "is not a valid address")
	}
	return email, nil
}

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "is required")
	}
	return value, nil
}

// removeFiles deletes stored uploads whose rows are gone. Failures only leave
// an orphaned file behind, so they are logged.
func removeFiles(ctx context.Context, storage core.FileStorage, refs ...string) {
	if storage == nil {
		return
	}
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := storage.Remove(ctx, ref); err != nil {
			log.Printf("[Upload] Failed to remove %s: %v", ref, err)
		}
	}
}
