package models

import (
	"time"
)

type Event struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)"`
	Title           string    `gorm:"not null"`
	Description     string    `gorm:"type:text"`
	StartTime       time.Time `gorm:"not null;index"`
	EndTime         time.Time `gorm:"not null"`
	MeetLink        string
	CalendarEventID string
	BannerImage     string
	Capacity        *int // nil means unlimited
	EventType       string
	CreatedBy       *string `gorm:"type:varchar(36);index"`
	Creator         *User   `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE"`

	Registrations []Registration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFull reports whether taken seats reached the capacity.
func (e *Event) IsFull(taken int64) bool {
	return e.Capacity != nil && taken >= int64(*e.Capacity)
}

// IsUpcoming reports whether the event has not started yet.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartTime.After(now)
}

// Registration is a public (unauthenticated) sign-up for an event.
type Registration struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	EventID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_registration_event_email,priority:1"`
	UserName  string `gorm:"not null"`
	UserEmail string `gorm:"not null;uniqueIndex:idx_registration_event_email,priority:2"`
	CreatedAt time.Time
}

// EventAttendance links an authenticated user to an event they attend.
type EventAttendance struct {
	UserID       string `gorm:"primaryKey;type:varchar(36)"`
	EventID      string `gorm:"primaryKey;type:varchar(36);index"`
	RegisteredAt time.Time
}

func (EventAttendance) TableName() string {
	return "event_attendees"
}

// EventSummary pairs an event with its attendee count.
type EventSummary struct {
	Event
	AttendeeCount int64
}
