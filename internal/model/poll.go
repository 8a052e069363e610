package model

import (
	"fmt"
	"time"
)

// Poll represents a community poll. Votes reference options by index.
type Poll struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description,omitempty"`
	Options             []string   `json:"options"`
	AllowMultipleChoice bool       `json:"allowMultipleChoice"`
	IsActive            bool       `json:"isActive"`
	EndDate             *time.Time `json:"endDate,omitempty"`
	CreatedBy           string     `json:"createdBy,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Clone returns a copy that shares no slices or pointers with p
func (p Poll) Clone() Poll {
	p.Options = append([]string(nil), p.Options...)
	if p.EndDate != nil {
		end := *p.EndDate
		p.EndDate = &end
	}
	return p
}

// Open reports whether the poll accepts votes at time now
func (p Poll) Open(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	return p.EndDate == nil || now.Before(*p.EndDate)
}

// PollVote is one ballot. A multi-choice ballot selects several option indices.
type PollVote struct {
	ID              string    `json:"id"`
	PollID          string    `json:"pollId"`
	SelectedOptions []int     `json:"selectedOptions"`
	UserID          string    `json:"userId,omitempty"`
	IPAddress       string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
}

// OptionResult is the tally for one poll option
type OptionResult struct {
	Option     string  `json:"option"`
	Index      int     `json:"index"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// PollResults is the aggregated outcome of a poll, in option order
type PollResults struct {
	PollID     string         `json:"pollId"`
	Results    []OptionResult `json:"results"`
	TotalVotes int            `json:"totalVotes"` // total selections across all ballots
	VoterCount int            `json:"voterCount"`
}

// PollPatch lists the poll fields that may change after creation.
// Options are fixed once created since votes refer to them by index.
type PollPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// Validate rejects an empty title
func (p PollPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	return nil
}

// Apply merges the set fields of p into poll
func (p PollPatch) Apply(poll *Poll) {
	if p.Title != nil {
		poll.Title = *p.Title
	}
	if p.Description != nil {
		poll.Description = *p.Description
	}
	if p.IsActive != nil {
		poll.IsActive = *p.IsActive
	}
	if p.EndDate != nil {
		end := *p.EndDate
		poll.EndDate = &end
	}
}
