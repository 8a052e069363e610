package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jjenkins/civic/internal/model"
)

// EventFilter narrows an event listing
type EventFilter struct {
	Level    model.Jurisdiction
	Upcoming bool
	Query    string
}

// EventStore handles civic events and their RSVPs
type EventStore struct {
	db *DB
}

// NewEventStore creates a new EventStore
func NewEventStore(db *DB) *EventStore {
	return &EventStore{db: db}
}

// Create inserts a new event with an empty attendee list
func (s *EventStore) Create(e model.CivicEvent) (model.CivicEvent, error) {
	e = e.Clone()
	if strings.TrimSpace(e.Title) == "" {
		return model.CivicEvent{}, fmt.Errorf("%w: title is required", ErrInvalidPatch)
	}
	if e.Date.IsZero() {
		return model.CivicEvent{}, fmt.Errorf("%w: date is required", ErrInvalidPatch)
	}
	if e.Level == "" {
		e.Level = model.Local
	}
	if !e.Level.Valid() {
		return model.CivicEvent{}, fmt.Errorf("%w: unknown level %q", ErrInvalidPatch, e.Level)
	}
	if e.MaxAttendees != nil && *e.MaxAttendees <= 0 {
		return model.CivicEvent{}, fmt.Errorf("%w: maxAttendees must be positive", ErrInvalidPatch)
	}
	if e.EventType == "" {
		e.EventType = "town_hall"
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	if e.ID == "" {
		e.ID = s.db.newID()
	}
	if _, exists := s.db.events.get(e.ID); exists {
		return model.CivicEvent{}, fmt.Errorf("event %s: %w", e.ID, ErrConflict)
	}
	e.CurrentAttendees = 0
	e.CreatedAt = now
	e.UpdatedAt = now
	s.db.events.put(e.ID, e)
	return e.Clone(), nil
}

// Get retrieves an event by id
func (s *EventStore) Get(id string) (model.CivicEvent, bool) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	e, ok := s.db.events.get(id)
	return e.Clone(), ok
}

// List returns one page of events, soonest first, and the total match count
func (s *EventStore) List(f EventFilter, limit, offset int) ([]model.CivicEvent, int) {
	s.db.mu.RLock()
	now := s.db.now()
	matched := s.db.events.scan(func(e model.CivicEvent) bool {
		if f.Level != "" && e.Level != f.Level {
			return false
		}
		if f.Upcoming && e.Date.Before(now) {
			return false
		}
		if f.Query != "" {
			return anyContains(f.Query, e.Title, e.Description, e.Location, e.Organizer)
		}
		return true
	})
	s.db.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})

	page := Paginate(matched, limit, offset, DefaultLimit)
	out := make([]model.CivicEvent, len(page))
	for i, e := range page {
		out[i] = e.Clone()
	}
	return out, len(matched)
}

// Update applies an organizer patch. Raising capacity promotes waitlisted RSVPs;
// capacity cannot drop below the confirmed attendee count.
func (s *EventStore) Update(id string, patch model.EventPatch) (model.CivicEvent, error) {
	if err := patch.Validate(); err != nil {
		return model.CivicEvent{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	e, ok := s.db.events.get(id)
	if !ok {
		return model.CivicEvent{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if patch.MaxAttendees != nil && *patch.MaxAttendees < e.CurrentAttendees {
		return model.CivicEvent{}, fmt.Errorf("%w: maxAttendees %d is below %d confirmed attendees",
			ErrInvalidPatch, *patch.MaxAttendees, e.CurrentAttendees)
	}
	e = e.Clone()
	patch.Apply(&e)
	if patch.MaxAttendees != nil {
		s.promoteLocked(&e)
	}
	e.UpdatedAt = s.db.now()
	s.db.events.put(id, e)
	return e.Clone(), nil
}

// Delete removes an event and all of its RSVPs
func (s *EventStore) Delete(id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if !s.db.events.remove(id) {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	for _, r := range s.db.rsvps.scan(func(r model.EventRsvp) bool { return r.EventID == id }) {
		s.db.rsvps.remove(r.ID)
	}
	return nil
}

// RSVP registers an attendee. The RSVP is confirmed while seats remain and
// waitlisted otherwise; the attendee counter moves in the same locked section.
func (s *EventStore) RSVP(eventID string, r model.EventRsvp) (model.EventRsvp, error) {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" || strings.TrimSpace(r.Name) == "" {
		return model.EventRsvp{}, fmt.Errorf("%w: name and email are required", ErrInvalidPatch)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	e, ok := s.db.events.get(eventID)
	if !ok {
		return model.EventRsvp{}, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	dup := s.db.rsvps.scan(func(x model.EventRsvp) bool {
		return x.EventID == eventID && x.Status != model.RsvpCancelled && strings.EqualFold(x.Email, r.Email)
	})
	if len(dup) > 0 {
		return model.EventRsvp{}, fmt.Errorf("event %s: %w", eventID, ErrDuplicateRSVP)
	}

	now := s.db.now()
	r.ID = s.db.newID()
	r.EventID = eventID
	r.CreatedAt = now
	if e.Full() {
		r.Status = model.RsvpWaitlist
	} else {
		r.Status = model.RsvpConfirmed
		e.CurrentAttendees++
		e.UpdatedAt = now
		s.db.events.put(e.ID, e)
	}
	s.db.rsvps.put(r.ID, r)
	return r, nil
}

// CancelRSVP cancels an RSVP. Freeing a confirmed seat promotes the oldest waitlisted RSVP.
func (s *EventStore) CancelRSVP(eventID, rsvpID string) (model.EventRsvp, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	e, ok := s.db.events.get(eventID)
	if !ok {
		return model.EventRsvp{}, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	r, ok := s.db.rsvps.get(rsvpID)
	if !ok || r.EventID != eventID {
		return model.EventRsvp{}, fmt.Errorf("rsvp %s: %w", rsvpID, ErrNotFound)
	}
	if r.Status == model.RsvpCancelled {
		return r, nil
	}

	wasConfirmed := r.Status == model.RsvpConfirmed
	r.Status = model.RsvpCancelled
	s.db.rsvps.put(r.ID, r)

	if wasConfirmed {
		e = e.Clone()
		e.CurrentAttendees--
		s.promoteLocked(&e)
		e.UpdatedAt = s.db.now()
		s.db.events.put(e.ID, e)
	}
	return r, nil
}

// RSVPs lists an event's RSVPs in registration order
func (s *EventStore) RSVPs(eventID string) ([]model.EventRsvp, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.events.get(eventID); !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	return s.db.rsvps.scan(func(r model.EventRsvp) bool { return r.EventID == eventID }), nil
}

// promoteLocked confirms waitlisted RSVPs, oldest first, until e is full.
// The caller holds the write lock and stores e afterwards.
func (s *EventStore) promoteLocked(e *model.CivicEvent) {
	waiting := s.db.rsvps.scan(func(r model.EventRsvp) bool {
		return r.EventID == e.ID && r.Status == model.RsvpWaitlist
	})
	for _, r := range waiting {
		if e.Full() {
			return
		}
		r.Status = model.RsvpConfirmed
		s.db.rsvps.put(r.ID, r)
		e.CurrentAttendees++
	}
}
