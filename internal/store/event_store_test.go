package store

import (
	"testing"
	"time"

	"github.com/jjenkins/civic/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEvent(t *testing.T, s *EventStore, capacity int, at time.Time) model.CivicEvent {
	t.Helper()
	e := model.CivicEvent{
		Title:    "Town hall on transit",
		Date:     at,
		Location: "City Hall",
		Level:    model.Local,
	}
	if capacity > 0 {
		e.MaxAttendees = &capacity
	}
	created, err := s.Create(e)
	require.NoError(t, err)
	return created
}

func TestEventStore_CreateValidation(t *testing.T) {
	s := NewEventStore(newTestDB(t))

	_, err := s.Create(model.CivicEvent{Date: testEpoch})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = s.Create(model.CivicEvent{Title: "No date"})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	zero := 0
	_, err = s.Create(model.CivicEvent{Title: "Zero seats", Date: testEpoch, MaxAttendees: &zero})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = s.Create(model.CivicEvent{Title: "Galactic", Date: testEpoch, Level: "galactic"})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	e, err := s.Create(model.CivicEvent{Title: "Defaults", Date: testEpoch, CurrentAttendees: 40})
	require.NoError(t, err)
	assert.Equal(t, model.Local, e.Level)
	assert.Zero(t, e.CurrentAttendees)
}

func TestEventStore_RSVPWaitlistAndPromotion(t *testing.T) {
	s := NewEventStore(newTestDB(t))
	e := createEvent(t, s, 2, testEpoch.Add(48*time.Hour))

	first, err := s.RSVP(e.ID, model.EventRsvp{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.RsvpConfirmed, first.Status)

	_, err = s.RSVP(e.ID, model.EventRsvp{Name: "Ben", Email: "ben@example.com"})
	require.NoError(t, err)

	third, err := s.RSVP(e.ID, model.EventRsvp{Name: "Cy", Email: "cy@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.RsvpWaitlist, third.Status)

	got, _ := s.Get(e.ID)
	assert.Equal(t, 2, got.CurrentAttendees)

	cancelled, err := s.CancelRSVP(e.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RsvpCancelled, cancelled.Status)

	got, _ = s.Get(e.ID)
	assert.Equal(t, 2, got.CurrentAttendees)

	rsvps, err := s.RSVPs(e.ID)
	require.NoError(t, err)
	require.Len(t, rsvps, 3)
	assert.Equal(t, model.RsvpConfirmed, rsvps[2].Status)

	// cancelling twice is a no-op
	_, err = s.CancelRSVP(e.ID, first.ID)
	require.NoError(t, err)
	got, _ = s.Get(e.ID)
	assert.Equal(t, 2, got.CurrentAttendees)
}

func TestEventStore_DuplicateRSVP(t *testing.T) {
	s := NewEventStore(newTestDB(t))
	e := createEvent(t, s, 0, testEpoch.Add(time.Hour))

	r, err := s.RSVP(e.ID, model.EventRsvp{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = s.RSVP(e.ID, model.EventRsvp{Name: "Ana again", Email: "ANA@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateRSVP)

	// a cancelled RSVP frees the email
	_, err = s.CancelRSVP(e.ID, r.ID)
	require.NoError(t, err)
	_, err = s.RSVP(e.ID, model.EventRsvp{Name: "Ana", Email: "ana@example.com"})
	assert.NoError(t, err)

	_, err = s.RSVP("missing", model.EventRsvp{Name: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.RSVP(e.ID, model.EventRsvp{Name: "No email"})
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestEventStore_UpdateCapacity(t *testing.T) {
	s := NewEventStore(newTestDB(t))
	e := createEvent(t, s, 1, testEpoch.Add(time.Hour))

	_, err := s.RSVP(e.ID, model.EventRsvp{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	waiting, err := s.RSVP(e.ID, model.EventRsvp{Name: "Ben", Email: "ben@example.com"})
	require.NoError(t, err)
	require.Equal(t, model.RsvpWaitlist, waiting.Status)

	more := 3
	updated, err := s.Update(e.ID, model.EventPatch{MaxAttendees: &more})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentAttendees)

	fewer := 1
	_, err = s.Update(e.ID, model.EventPatch{MaxAttendees: &fewer})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = s.Update("missing", model.EventPatch{MaxAttendees: &more})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventStore_ListSoonestFirst(t *testing.T) {
	s := NewEventStore(newTestDB(t))
	later := createEvent(t, s, 0, testEpoch.Add(72*time.Hour))
	past := createEvent(t, s, 0, testEpoch.Add(-72*time.Hour))
	sooner := createEvent(t, s, 0, testEpoch.Add(24*time.Hour))

	events, total := s.List(EventFilter{}, 0, 0)
	require.Len(t, events, 3)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{past.ID, sooner.ID, later.ID}, []string{events[0].ID, events[1].ID, events[2].ID})

	events, total = s.List(EventFilter{Upcoming: true}, 0, 0)
	assert.Equal(t, 2, total)
	assert.Equal(t, sooner.ID, events[0].ID)

	events, _ = s.List(EventFilter{Level: model.Federal}, 0, 0)
	assert.Empty(t, events)
}

func TestEventStore_DeleteCascadesRSVPs(t *testing.T) {
	db := newTestDB(t)
	s := NewEventStore(db)
	e := createEvent(t, s, 0, testEpoch.Add(time.Hour))

	_, err := s.RSVP(e.ID, model.EventRsvp{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(e.ID))
	assert.Zero(t, db.Counts().Rsvps)
	assert.ErrorIs(t, s.Delete(e.ID), ErrNotFound)
}
