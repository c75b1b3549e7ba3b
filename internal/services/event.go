package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/store"
)

// Registration outcomes reported to metrics
const (
	registrationOK        = "success"
	registrationDuplicate = "duplicate"
	registrationFull      = "full"
	registrationInvalid   = "invalid"
)

// EventInput is the data of a new event. Banner is an already stored file reference.
type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Capacity    *int
	MeetLink    string
	Banner      string
	EventType   string
}

// EventService implements the event workflow.
type EventService struct {
	store        *store.Store
	auditService *AuditService
	metrics      core.Recorder
	storage      core.FileStorage
	guard        guard
	now          func() time.Time
}

func NewEventService(
	s *store.Store,
	auditService *AuditService,
	m core.Recorder,
	storage core.FileStorage,
) *EventService {
	return &EventService{
		store:        s,
		auditService: auditService,
		metrics:      m,
		storage:      storage,
		guard:        guard{audit: auditService, metrics: m},
		now:          time.Now,
	}
}

// CreateEvent persists a new event owned by actor. Requires team or admin.
func (s *EventService) CreateEvent(
	ctx context.Context,
	actor *models.User,
	in EventInput,
) (*models.Event, error) {
	if err := s.guard.authorize(ctx, actor, policy.CreateEvent); err != nil {
		return nil, err
	}

	title, err := required("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.Start.IsZero() {
		return nil, invalid("start_datetime", "is required")
	}
	if in.End.IsZero() {
		return nil, invalid("end_datetime", "is required")
	}
	if !in.Start.Before(in.End) {
		return nil, invalid("end_datetime", "must be after the start")
	}
	if in.Capacity != nil && *in.Capacity <= 0 {
		return nil, invalid("capacity", "must be a positive number")
	}
	meetLink := strings.TrimSpace(in.MeetLink)
	if meetLink != "" && !strings.HasPrefix(meetLink, "https://") && !strings.HasPrefix(meetLink, "http://") {
		return nil, invalid("meet_link", "must be a http(s) URL")
	}

	creator := actor.ID
	event := &models.Event{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		StartTime:   in.Start,
		EndTime:     in.End,
		Capacity:    in.Capacity,
		MeetLink:    meetLink,
		BannerImage: in.Banner,
		EventType:   strings.TrimSpace(in.EventType),
		CreatedBy:   &creator,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		s.metrics.RecordDatabaseQueryError("create_event")
		return nil, storeErr("create event", err)
	}

	s.metrics.RecordEventCreated()
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventEventCreated,
		ActorUserID:  actor.ID,
		ActorEmail:   actor.Email,
		ResourceType: models.ResourceEvent,
		ResourceID:   event.ID,
		ResourceName: event.Title,
		Action:       "Event created",
		Success:      true,
	})
	return event, nil
}

// ViewEvent returns an event with its registrations. Public.
func (s *EventService) ViewEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.store.GetEventByID(ctx, id)
	if err != nil {
		return nil, storeErr("view event", err)
	}
	return event, nil
}

// Register signs a (possibly anonymous) person up for an event. A person may
// register once per event and the capacity, when set, is enforced.
func (s *EventService) Register(
	ctx context.Context,
	eventID, name, email string,
) (*models.Registration, error) {
	name, err := required("name", name)
	if err != nil {
		s.metrics.RecordRegistration(registrationInvalid)
		return nil, err
	}
	email, err = normalizeEmail(email)
	if err != nil {
		s.metrics.RecordRegistration(registrationInvalid)
		return nil, err
	}

	reg := &models.Registration{EventID: eventID, UserName: name, UserEmail: email}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		event, err := tx.GetEventForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		exists, err := tx.RegistrationExists(ctx, eventID, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyRegistered
		}
		if event.Capacity != nil {
			taken, err := tx.CountRegistrations(ctx, eventID)
			if err != nil {
				return err
			}
			if event.IsFull(taken) {
				return ErrEventFull
			}
		}
		return tx.CreateRegistration(ctx, reg)
	})

	switch {
	case err == nil:
		s.metrics.RecordRegistration(registrationOK)
		return reg, nil
	case errors.Is(err, ErrAlreadyRegistered), errors.Is(err, store.ErrDuplicateRegistration):
		s.metrics.RecordRegistration(registrationDuplicate)
		return nil, ErrAlreadyRegistered
	case errors.Is(err, ErrEventFull):
		s.metrics.RecordRegistration(registrationFull)
		return nil, ErrEventFull
	default:
		return nil, storeErr("register", err)
	}
}

// DeleteEvent removes an event with its registrations and banner. Admin only.
func (s *EventService) DeleteEvent(ctx context.Context, actor *models.User, id string) error {
	if err := s.guard.authorize(ctx, actor, policy.DeleteEvent); err != nil {
		return err
	}
	event, err := s.store.GetEventByID(ctx, id)
	if err != nil {
		return storeErr("load event", err)
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return storeErr("delete event", err)
	}
	removeFiles(ctx, s.storage, event.BannerImage)

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventEventDeleted,
		Severity:     models.SeverityWarning,
		ActorUserID:  actor.ID,
		ActorEmail:   actor.Email,
		ResourceType: models.ResourceEvent,
		ResourceID:   event.ID,
		ResourceName: event.Title,
		Action:       "Event deleted",
		Success:      true,
	})
	return nil
}

// Attend adds the actor to the event's attendee list. Repeating it is harmless.
func (s *EventService) Attend(ctx context.Context, actor *models.User, eventID string) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if _, err := s.store.GetEventByID(ctx, eventID); err != nil {
		return storeErr("load event", err)
	}
	if err := s.store.AddAttendee(ctx, actor.ID, eventID); err != nil {
		return storeErr("attend event", err)
	}
	return nil
}

func (s *EventService) IsAttending(ctx context.Context, userID, eventID string) (bool, error) {
	return s.store.IsAttending(ctx, userID, eventID)
}

// ListUpcoming returns events that have not started yet; limit <= 0 means all.
func (s *EventService) ListUpcoming(ctx context.Context, limit int) ([]models.Event, error) {
	return s.store.ListUpcomingEvents(ctx, s.now(), limit)
}

func (s *EventService) ListAll(ctx context.Context) ([]models.Event, error) {
	return s.store.ListEvents(ctx)
}

// ListCreatedBy returns the events a user created with attendee counts.
func (s *EventService) ListCreatedBy(ctx context.Context, userID string) ([]models.EventSummary, error) {
	events, err := s.store.ListEventsByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, events)
}

// ListAttending returns the events a user attends with attendee counts.
func (s *EventService) ListAttending(ctx context.Context, userID string) ([]models.EventSummary, error) {
	events, err := s.store.ListEventsAttendedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, events)
}

func (s *EventService) summarize(ctx context.Context, events []models.Event) ([]models.EventSummary, error) {
	ids := make([]string, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	counts, err := s.store.CountAttendees(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}
	out := make([]models.EventSummary, len(events))
	for i := range events {
		out[i] = models.EventSummary{Event: events[i], AttendeeCount: counts[events[i].ID]}
	}
	return out, nil
}

func (s *EventService) CountEvents(ctx context.Context) (int64, error) {
	return s.store.CountEvents(ctx)
}
