package model

import (
	"fmt"
	"time"
)

// BillStatus is the legislative stage a bill has reached
type BillStatus string

const (
	BillIntroduced   BillStatus = "introduced"
	BillCommittee    BillStatus = "committee"
	BillPassedHouse  BillStatus = "passed_house"
	BillPassedSenate BillStatus = "passed_senate"
	BillSigned       BillStatus = "signed"
	BillVetoed       BillStatus = "vetoed"
	BillFailed       BillStatus = "failed"
)

// Valid reports whether s is one of the known statuses
func (s BillStatus) Valid() bool {
	switch s {
	case BillIntroduced, BillCommittee, BillPassedHouse, BillPassedSenate, BillSigned, BillVetoed, BillFailed:
		return true
	}
	return false
}

// Jurisdiction is the level of government a bill or event belongs to
type Jurisdiction string

const (
	Federal Jurisdiction = "federal"
	State   Jurisdiction = "state"
	Local   Jurisdiction = "local"
)

// Valid reports whether j is federal, state or local
func (j Jurisdiction) Valid() bool {
	return j == Federal || j == State || j == Local
}

// BillProgress tracks which stages a bill has cleared
type BillProgress struct {
	Introduced bool `json:"introduced"`
	Committee  bool `json:"committee"`
	Floor      bool `json:"floor"`
	Passed     bool `json:"passed"`
	Signed     bool `json:"signed"`
}

// Bill represents a piece of legislation tracked by the portal
type Bill struct {
	ID             string       `json:"id"`
	BillNumber     string       `json:"billNumber"`
	Title          string       `json:"title"`
	Summary        string       `json:"summary,omitempty"`
	Status         BillStatus   `json:"status"`
	Jurisdiction   Jurisdiction `json:"jurisdiction"`
	IntroducedDate time.Time    `json:"introducedDate"`
	LastActionDate time.Time    `json:"lastActionDate"`
	Sponsor        string       `json:"sponsor,omitempty"`
	Progress       BillProgress `json:"progress"`
	Categories     []string     `json:"categories"`
	SourceURL      string       `json:"sourceUrl,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with b
func (b Bill) Clone() Bill {
	b.Categories = append([]string(nil), b.Categories...)
	return b
}

// BillPatch lists the bill fields that may change after creation
type BillPatch struct {
	Title          *string       `json:"title,omitempty"`
	Summary        *string       `json:"summary,omitempty"`
	Status         *BillStatus   `json:"status,omitempty"`
	LastActionDate *time.Time    `json:"lastActionDate,omitempty"`
	Progress       *BillProgress `json:"progress,omitempty"`
	Categories     []string      `json:"categories,omitempty"`
}

// Validate rejects patches that would leave the bill in an invalid state
func (p BillPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("unknown bill status %q", *p.Status)
	}
	return nil
}

// Apply merges the set fields of p into b
func (p BillPatch) Apply(b *Bill) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Summary != nil {
		b.Summary = *p.Summary
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.LastActionDate != nil {
		b.LastActionDate = *p.LastActionDate
	}
	if p.Progress != nil {
		b.Progress = *p.Progress
	}
	if p.Categories != nil {
		b.Categories = append([]string(nil), p.Categories...)
	}
}
