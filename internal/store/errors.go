package store

import "errors"

var (
	// ErrNotFound is returned when an id does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateVote is returned when the same identity votes twice on one item
	ErrDuplicateVote = errors.New("duplicate vote")
	// ErrDuplicateRSVP is returned when an email RSVPs twice to one event
	ErrDuplicateRSVP = errors.New("already registered for this event")
	// ErrConflict is returned for other uniqueness violations
	ErrConflict = errors.New("conflict")
	// ErrPollClosed is returned when voting on an inactive or ended poll
	ErrPollClosed = errors.New("poll is closed")
	// ErrInvalidVote is returned for malformed ballots
	ErrInvalidVote = errors.New("invalid vote")
	// ErrInvalidPatch is returned when a patch or new entity fails validation
	ErrInvalidPatch = errors.New("invalid update")
)
