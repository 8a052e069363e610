package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jjenkins/civic/internal/model"
)

// PollFilter narrows a poll listing
type PollFilter struct {
	ActiveOnly bool
	Query      string
}

// PollStore handles polls and their ballots
type PollStore struct {
	db *DB
}

// NewPollStore creates a new PollStore
func NewPollStore(db *DB) *PollStore {
	return &PollStore{db: db}
}

// Create validates and inserts a new poll, assigning its id and timestamps
func (s *PollStore) Create(p model.Poll) (model.Poll, error) {
	p = p.Clone()
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return model.Poll{}, fmt.Errorf("%w: title is required", ErrInvalidPatch)
	}
	if len(p.Options) < 2 {
		return model.Poll{}, fmt.Errorf("%w: at least two options are required", ErrInvalidPatch)
	}
	for i, opt := range p.Options {
		if strings.TrimSpace(opt) == "" {
			return model.Poll{}, fmt.Errorf("%w: option %d is empty", ErrInvalidPatch, i)
		}
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	if p.ID == "" {
		p.ID = s.db.newID()
	}
	if _, exists := s.db.polls.get(p.ID); exists {
		return model.Poll{}, fmt.Errorf("poll %s: %w", p.ID, ErrConflict)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	s.db.polls.put(p.ID, p)
	return p.Clone(), nil
}

// Get retrieves a poll by id
func (s *PollStore) Get(id string) (model.Poll, bool) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.polls.get(id)
	return p.Clone(), ok
}

// List returns one page of polls, newest first, and the total match count
func (s *PollStore) List(f PollFilter, limit, offset int) ([]model.Poll, int) {
	s.db.mu.RLock()
	now := s.db.now()
	matched := s.db.polls.scan(func(p model.Poll) bool {
		if f.ActiveOnly && !p.Open(now) {
			return false
		}
		if f.Query != "" {
			return anyContains(f.Query, p.Title, p.Description)
		}
		return true
	})
	s.db.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	page := Paginate(matched, limit, offset, DefaultLimit)
	out := make([]model.Poll, len(page))
	for i, p := range page {
		out[i] = p.Clone()
	}
	return out, len(matched)
}

// Update merges a validated patch into an existing poll
func (s *PollStore) Update(id string, patch model.PollPatch) (model.Poll, error) {
	if err := patch.Validate(); err != nil {
		return model.Poll{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.polls.get(id)
	if !ok {
		return model.Poll{}, fmt.Errorf("poll %s: %w", id, ErrNotFound)
	}
	p = p.Clone()
	patch.Apply(&p)
	p.UpdatedAt = s.db.now()
	s.db.polls.put(id, p)
	return p.Clone(), nil
}

// Delete removes a poll together with all of its ballots
func (s *PollStore) Delete(id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if !s.db.polls.remove(id) {
		return fmt.Errorf("poll %s: %w", id, ErrNotFound)
	}
	for _, v := range s.db.pollVotes.scan(func(v model.PollVote) bool { return v.PollID == id }) {
		s.db.pollVotes.remove(v.ID)
	}
	for key := range s.db.pollVoterIndex {
		if strings.HasPrefix(key, id+"\x00") {
			delete(s.db.pollVoterIndex, key)
		}
	}
	return nil
}

// Vote records a ballot. The duplicate check and the insert happen under one
// write lock, keyed by (poll id, user id) or (poll id, client address).
func (s *PollStore) Vote(v model.PollVote) (model.PollVote, error) {
	identity, err := voterIdentity(v.UserID, v.IPAddress)
	if err != nil {
		return model.PollVote{}, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.polls.get(v.PollID)
	if !ok {
		return model.PollVote{}, fmt.Errorf("poll %s: %w", v.PollID, ErrNotFound)
	}
	now := s.db.now()
	if !p.Open(now) {
		return model.PollVote{}, fmt.Errorf("poll %s: %w", p.ID, ErrPollClosed)
	}
	if err := validateSelection(p, v.SelectedOptions); err != nil {
		return model.PollVote{}, err
	}

	key := voterKey(p.ID, identity)
	if _, voted := s.db.pollVoterIndex[key]; voted {
		return model.PollVote{}, fmt.Errorf("poll %s: %w", p.ID, ErrDuplicateVote)
	}

	v.ID = s.db.newID()
	v.SelectedOptions = append([]int(nil), v.SelectedOptions...)
	v.IPAddress = NormalizeIP(v.IPAddress)
	v.CreatedAt = now
	s.db.pollVotes.put(v.ID, v)
	s.db.pollVoterIndex[key] = v.ID
	return v, nil
}

// HasVoted reports whether the identity already voted on the poll
func (s *PollStore) HasVoted(pollID, userID, ip string) bool {
	identity, err := voterIdentity(userID, ip)
	if err != nil {
		return false
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, voted := s.db.pollVoterIndex[voterKey(pollID, identity)]
	return voted
}

// Results tallies every ballot for the poll. A multi-choice ballot counts once
// toward each option it selects and once per selection toward TotalVotes.
func (s *PollStore) Results(pollID string) (model.PollResults, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.polls.get(pollID)
	if !ok {
		return model.PollResults{}, fmt.Errorf("poll %s: %w", pollID, ErrNotFound)
	}

	counts := make([]int, len(p.Options))
	total, voters := 0, 0
	for _, v := range s.db.pollVotes.scan(func(v model.PollVote) bool { return v.PollID == pollID }) {
		voters++
		for _, idx := range v.SelectedOptions {
			if idx < 0 || idx >= len(counts) {
				continue
			}
			counts[idx]++
			total++
		}
	}

	results := model.PollResults{
		PollID:     pollID,
		Results:    make([]model.OptionResult, len(p.Options)),
		TotalVotes: total,
		VoterCount: voters,
	}
	for i, opt := range p.Options {
		pct := 0.0
		if total > 0 {
			pct = float64(counts[i]) / float64(total) * 100
		}
		results.Results[i] = model.OptionResult{
			Option:     opt,
			Index:      i,
			Votes:      counts[i],
			Percentage: pct,
		}
	}
	return results, nil
}

// validateSelection checks the ballot against the poll's options
func validateSelection(p model.Poll, selected []int) error {
	if len(selected) == 0 {
		return fmt.Errorf("%w: select at least one option", ErrInvalidVote)
	}
	if len(selected) > 1 && !p.AllowMultipleChoice {
		return fmt.Errorf("%w: poll allows a single choice", ErrInvalidVote)
	}
	seen := make(map[int]bool, len(selected))
	for _, idx := range selected {
		if idx < 0 || idx >= len(p.Options) {
			return fmt.Errorf("%w: option %d out of range", ErrInvalidVote, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: option %d selected twice", ErrInvalidVote, idx)
		}
		seen[idx] = true
	}
	return nil
}
