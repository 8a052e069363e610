package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jjenkins/civic/internal/model"
)

// FeedbackFilter narrows a feedback listing
type FeedbackFilter struct {
	Category string
	Status   model.FeedbackStatus
	Query    string
}

func (f FeedbackFilter) matches(fb model.FeedbackSubmission) bool {
	if f.Category != "" && !strings.EqualFold(fb.Category, f.Category) {
		return false
	}
	if f.Status != "" && fb.Status != f.Status {
		return false
	}
	if f.Query != "" && !anyContains(f.Query, fb.Title, fb.Description, fb.Location) {
		return false
	}
	return true
}

// FeedbackStore handles submissions, their votes and their comment threads
type FeedbackStore struct {
	db *DB
}

// NewFeedbackStore creates a new FeedbackStore
func NewFeedbackStore(db *DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Create inserts a new submission with zeroed vote counts
func (s *FeedbackStore) Create(fb model.FeedbackSubmission) (model.FeedbackSubmission, error) {
	if strings.TrimSpace(fb.Title) == "" || strings.TrimSpace(fb.Description) == "" {
		return model.FeedbackSubmission{}, fmt.Errorf("%w: title and description are required", ErrInvalidPatch)
	}
	if fb.Status == "" {
		fb.Status = model.FeedbackOpen
	}
	if !fb.Status.Valid() {
		return model.FeedbackSubmission{}, fmt.Errorf("%w: unknown feedback status %q", ErrInvalidPatch, fb.Status)
	}
	if fb.Category == "" {
		fb.Category = "general"
	}
	if fb.Priority == "" {
		fb.Priority = "medium"
	}
	if fb.IsAnonymous {
		fb.SubmittedBy = ""
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	fb.ID = s.db.newID()
	fb.Upvotes, fb.Downvotes = 0, 0
	fb.CreatedAt = now
	fb.UpdatedAt = now
	s.db.feedback.put(fb.ID, fb)
	return fb, nil
}

// Get retrieves a submission by id
func (s *FeedbackStore) Get(id string) (model.FeedbackSubmission, bool) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.db.feedback.get(id)
}

// List returns one page of submissions, newest first, and the total match count
func (s *FeedbackStore) List(f FeedbackFilter, limit, offset int) ([]model.FeedbackSubmission, int) {
	s.db.mu.RLock()
	matched := s.db.feedback.scan(f.matches)
	s.db.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return Paginate(matched, limit, offset, DefaultLimit), len(matched)
}

// Update applies a staff patch to a submission
func (s *FeedbackStore) Update(id string, patch model.FeedbackPatch) (model.FeedbackSubmission, error) {
	if err := patch.Validate(); err != nil {
		return model.FeedbackSubmission{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	fb, ok := s.db.feedback.get(id)
	if !ok {
		return model.FeedbackSubmission{}, fmt.Errorf("feedback %s: %w", id, ErrNotFound)
	}
	patch.Apply(&fb)
	fb.UpdatedAt = s.db.now()
	s.db.feedback.put(id, fb)
	return fb, nil
}

// Delete removes a submission with its votes and comments
func (s *FeedbackStore) Delete(id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if !s.db.feedback.remove(id) {
		return fmt.Errorf("feedback %s: %w", id, ErrNotFound)
	}
	for _, v := range s.db.fbVotes.scan(func(v model.FeedbackVote) bool { return v.FeedbackID == id }) {
		s.db.fbVotes.remove(v.ID)
	}
	for _, c := range s.db.fbComments.scan(func(c model.FeedbackComment) bool { return c.FeedbackID == id }) {
		s.db.fbComments.remove(c.ID)
	}
	for key := range s.db.feedbackVoterIndex {
		if strings.HasPrefix(key, id+"\x00") {
			delete(s.db.feedbackVoterIndex, key)
		}
	}
	return nil
}

// Vote records an up or down vote and returns the submission with recomputed
// counts. Insert and recount share one write lock.
func (s *FeedbackStore) Vote(v model.FeedbackVote) (model.FeedbackSubmission, error) {
	if v.VoteType != model.Upvote && v.VoteType != model.Downvote {
		return model.FeedbackSubmission{}, fmt.Errorf("%w: voteType must be %q or %q", ErrInvalidVote, model.Upvote, model.Downvote)
	}
	identity, err := voterIdentity(v.UserID, v.IPAddress)
	if err != nil {
		return model.FeedbackSubmission{}, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	fb, ok := s.db.feedback.get(v.FeedbackID)
	if !ok {
		return model.FeedbackSubmission{}, fmt.Errorf("feedback %s: %w", v.FeedbackID, ErrNotFound)
	}
	key := voterKey(fb.ID, identity)
	if _, voted := s.db.feedbackVoterIndex[key]; voted {
		return model.FeedbackSubmission{}, fmt.Errorf("feedback %s: %w", fb.ID, ErrDuplicateVote)
	}

	now := s.db.now()
	v.ID = s.db.newID()
	v.IPAddress = NormalizeIP(v.IPAddress)
	v.CreatedAt = now
	s.db.fbVotes.put(v.ID, v)
	s.db.feedbackVoterIndex[key] = v.ID

	fb.Upvotes, fb.Downvotes = 0, 0
	for _, cast := range s.db.fbVotes.scan(func(c model.FeedbackVote) bool { return c.FeedbackID == fb.ID }) {
		if cast.VoteType == model.Upvote {
			fb.Upvotes++
		} else {
			fb.Downvotes++
		}
	}
	fb.UpdatedAt = now
	s.db.feedback.put(fb.ID, fb)
	return fb, nil
}

// AddComment appends a comment. A reply must point at a comment on the same submission.
func (s *FeedbackStore) AddComment(c model.FeedbackComment) (model.FeedbackComment, error) {
	if strings.TrimSpace(c.Content) == "" {
		return model.FeedbackComment{}, fmt.Errorf("%w: content is required", ErrInvalidPatch)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.feedback.get(c.FeedbackID); !ok {
		return model.FeedbackComment{}, fmt.Errorf("feedback %s: %w", c.FeedbackID, ErrNotFound)
	}
	if c.ParentCommentID != "" {
		parent, ok := s.db.fbComments.get(c.ParentCommentID)
		if !ok || parent.FeedbackID != c.FeedbackID {
			return model.FeedbackComment{}, fmt.Errorf("%w: parent comment %s not found on feedback %s",
				ErrInvalidPatch, c.ParentCommentID, c.FeedbackID)
		}
	}

	c.ID = s.db.newID()
	c.CreatedAt = s.db.now()
	s.db.fbComments.put(c.ID, c)
	return c, nil
}

// Comments lists a submission's comments, oldest first
func (s *FeedbackStore) Comments(feedbackID string) ([]model.FeedbackComment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.feedback.get(feedbackID); !ok {
		return nil, fmt.Errorf("feedback %s: %w", feedbackID, ErrNotFound)
	}
	comments := s.db.fbComments.scan(func(c model.FeedbackComment) bool { return c.FeedbackID == feedbackID })
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
