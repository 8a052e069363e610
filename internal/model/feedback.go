package model

import (
	"fmt"
	"time"
)

// FeedbackStatus tracks how far a submission has been handled
type FeedbackStatus string

const (
	FeedbackOpen       FeedbackStatus = "open"
	FeedbackInReview   FeedbackStatus = "in_review"
	FeedbackInProgress FeedbackStatus = "in_progress"
	FeedbackResolved   FeedbackStatus = "resolved"
	FeedbackClosed     FeedbackStatus = "closed"
)

// Valid reports whether s is a known status
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackOpen, FeedbackInReview, FeedbackInProgress, FeedbackResolved, FeedbackClosed:
		return true
	}
	return false
}

// FeedbackSubmission is a resident report or suggestion.
// Upvotes and Downvotes are recomputed from the vote table on every vote.
type FeedbackSubmission struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Status      FeedbackStatus `json:"status"`
	Priority    string         `json:"priority"`
	Location    string         `json:"location,omitempty"`
	SubmittedBy string         `json:"submittedBy,omitempty"`
	IsAnonymous bool           `json:"isAnonymous"`
	Upvotes     int            `json:"upvotes"`
	Downvotes   int            `json:"downvotes"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// VoteType is the direction of a feedback vote
type VoteType string

const (
	Upvote   VoteType = "up"
	Downvote VoteType = "down"
)

// FeedbackVote records one resident's vote on a submission
type FeedbackVote struct {
	ID         string    `json:"id"`
	FeedbackID string    `json:"feedbackId"`
	VoteType   VoteType  `json:"voteType"`
	UserID     string    `json:"userId,omitempty"`
	IPAddress  string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FeedbackComment is a threaded reply on a submission
type FeedbackComment struct {
	ID              string    `json:"id"`
	FeedbackID      string    `json:"feedbackId"`
	ParentCommentID string    `json:"parentCommentId,omitempty"`
	Content         string    `json:"content"`
	AuthorName      string    `json:"authorName,omitempty"`
	UserID          string    `json:"userId,omitempty"`
	IsOfficial      bool      `json:"isOfficial"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FeedbackPatch lists the fields staff may change on a submission
type FeedbackPatch struct {
	Status   *FeedbackStatus `json:"status,omitempty"`
	Priority *string         `json:"priority,omitempty"`
	Category *string         `json:"category,omitempty"`
}

// Validate rejects unknown statuses and empty categories
func (p FeedbackPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("unknown feedback status %q", *p.Status)
	}
	if p.Category != nil && *p.Category == "" {
		return fmt.Errorf("category cannot be empty")
	}
	return nil
}

// Apply merges the set fields of p into f
func (p FeedbackPatch) Apply(f *FeedbackSubmission) {
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Priority != nil {
		f.Priority = *p.Priority
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
}
