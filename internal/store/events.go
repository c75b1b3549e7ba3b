package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/He-ro616/we4x-CO/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Event operations

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Create(event).Error
}

// GetEventByID loads an event with its creator and registrations (oldest first)
func (s *Store) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Registrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

// GetEventForUpdate loads an event row, locking it where the driver supports it
func (s *Store) GetEventForUpdate(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	db := s.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

// ListUpcomingEvents returns events starting after now, soonest first.
// A non-positive limit returns all of them.
func (s *Store) ListUpcomingEvents(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.Event, error) {
	var events []models.Event
	q := s.db.WithContext(ctx).Where("start_time > ?", now).Order("start_time ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&events).Error
	return events, err
}

// ListEvents returns every event, soonest first
func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).Preload("Creator").Order("start_time ASC").Find(&events).Error
	return events, err
}

// ListEventsByCreator returns events created by userID, newest first
func (s *Store) ListEventsByCreator(ctx context.Context, userID string) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("start_time DESC").
		Find(&events).Error
	return events, err
}

// ListEventsAttendedBy returns events the user attends, soonest first
func (s *Store) ListEventsAttendedBy(ctx context.Context, userID string) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Joins("JOIN event_attendees ON event_attendees.event_id = events.id").
		Where("event_attendees.user_id = ?", userID).
		Order("events.start_time ASC").
		Find(&events).Error
	return events, err
}

// DeleteEvent removes an event with its registrations and attendance rows
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(tx *Store) error {
		db := tx.db.WithContext(ctx)
		if err := db.Where("event_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return fmt.Errorf("delete registrations: %w", err)
		}
		if err := db.Where("event_id = ?", id).Delete(&models.EventAttendance{}).Error; err != nil {
			return fmt.Errorf("delete attendance: %w", err)
		}
		res := db.Delete(&models.Event{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

// CountEvents returns the number of events
func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Event{}).Count(&count).Error
	return count, err
}

// Registration operations

// CreateRegistration adds a public registration; emails are compared case-insensitively.
func (s *Store) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	reg.UserEmail = strings.ToLower(strings.TrimSpace(reg.UserEmail))
	if err := s.db.WithContext(ctx).Create(reg).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

// RegistrationExists reports whether email already registered for the event
func (s *Store) RegistrationExists(ctx context.Context, eventID, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("event_id = ? AND user_email = ?", eventID, strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// CountRegistrations returns the number of registrations of an event
func (s *Store) CountRegistrations(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// Attendance operations

// AddAttendee links a user to an event; repeating the call is a no-op.
func (s *Store) AddAttendee(ctx context.Context, userID, eventID string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.EventAttendance{
			UserID:       userID,
			EventID:      eventID,
			RegisteredAt: time.Now(),
		}).Error
}

// IsAttending reports whether the user attends the event
func (s *Store) IsAttending(ctx context.Context, userID, eventID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.EventAttendance{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}

// CountAttendees returns attendee counts for the given events keyed by event ID
func (s *Store) CountAttendees(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID string
		Total   int64
	}
	err := s.db.WithContext(ctx).Model(&models.EventAttendance{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.EventID] = r.Total
	}
	return counts, nil
}
