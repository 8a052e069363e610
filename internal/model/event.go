package model

import (
	"fmt"
	"time"
)

// CivicEvent is a town hall or public meeting residents can attend
type CivicEvent struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Date             time.Time    `json:"date"`
	Location         string       `json:"location"`
	Level            Jurisdiction `json:"level"`
	EventType        string       `json:"eventType"`
	MaxAttendees     *int         `json:"maxAttendees,omitempty"`
	CurrentAttendees int          `json:"currentAttendees"`
	Organizer        string       `json:"organizer,omitempty"`
	IsVirtual        bool         `json:"isVirtual"`
	MeetingURL       string       `json:"meetingUrl,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// Clone returns a copy that does not share the capacity pointer
func (e CivicEvent) Clone() CivicEvent {
	if e.MaxAttendees != nil {
		max := *e.MaxAttendees
		e.MaxAttendees = &max
	}
	return e
}

// Full reports whether every seat is taken
func (e CivicEvent) Full() bool {
	return e.MaxAttendees != nil && e.CurrentAttendees >= *e.MaxAttendees
}

// RsvpStatus is the state of an RSVP
type RsvpStatus string

const (
	RsvpConfirmed RsvpStatus = "confirmed"
	RsvpCancelled RsvpStatus = "cancelled"
	RsvpWaitlist  RsvpStatus = "waitlist"
)

// EventRsvp records a resident's intent to attend an event
type EventRsvp struct {
	ID        string     `json:"id"`
	EventID   string     `json:"eventId"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	UserID    string     `json:"userId,omitempty"`
	Status    RsvpStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// EventPatch lists the event fields organizers may change
type EventPatch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Location     *string    `json:"location,omitempty"`
	MaxAttendees *int       `json:"maxAttendees,omitempty"`
	MeetingURL   *string    `json:"meetingUrl,omitempty"`
}

// Validate rejects empty titles and non-positive capacities
func (p EventPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if p.MaxAttendees != nil && *p.MaxAttendees <= 0 {
		return fmt.Errorf("maxAttendees must be positive")
	}
	return nil
}

// Apply merges the set fields of p into e
func (p EventPatch) Apply(e *CivicEvent) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.MaxAttendees != nil {
		max := *p.MaxAttendees
		e.MaxAttendees = &max
	}
	if p.MeetingURL != nil {
		e.MeetingURL = *p.MeetingURL
	}
}
