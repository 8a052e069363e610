package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jjenkins/civic/internal/model"
)

// BillFilter narrows a bill listing. Empty fields are ignored.
type BillFilter struct {
	Query        string
	Status       model.BillStatus
	Jurisdiction model.Jurisdiction
	Category     string
}

// Match reports whether b passes every set field of f
func (f BillFilter) Match(b model.Bill) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Jurisdiction != "" && b.Jurisdiction != f.Jurisdiction {
		return false
	}
	if f.Category != "" && !containsFold(b.Categories, f.Category) {
		return false
	}
	if f.Query != "" {
		return anyContains(f.Query, b.Title, b.Summary, b.BillNumber, b.Sponsor)
	}
	return true
}

// BillStore handles the bill table
type BillStore struct {
	db *DB
}

// NewBillStore creates a new BillStore
func NewBillStore(db *DB) *BillStore {
	return &BillStore{db: db}
}

// Get retrieves a bill by id
func (s *BillStore) Get(id string) (model.Bill, bool) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	b, ok := s.db.bills.get(id)
	if !ok {
		return model.Bill{}, false
	}
	return b.Clone(), true
}

// List returns one page of matching bills, most recent action first, and the total match count
func (s *BillStore) List(f BillFilter, limit, offset int) ([]model.Bill, int) {
	s.db.mu.RLock()
	matched := s.db.bills.scan(f.Match)
	s.db.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.LastActionDate.Equal(b.LastActionDate) {
			return a.LastActionDate.After(b.LastActionDate)
		}
		return a.ID < b.ID
	})

	page := Paginate(matched, limit, offset, DefaultLimit)
	out := make([]model.Bill, len(page))
	for i, b := range page {
		out[i] = b.Clone()
	}
	return out, len(matched)
}

// Upsert inserts or replaces a bill by id
func (s *BillStore) Upsert(b model.Bill) model.Bill {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	return s.upsertLocked(b)
}

// UpsertMany caches a batch of bills and reports how many were new
func (s *BillStore) UpsertMany(bills []model.Bill) (inserted int) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, b := range bills {
		if _, exists := s.db.bills.get(b.ID); !exists {
			inserted++
		}
		s.upsertLocked(b)
	}
	return inserted
}

func (s *BillStore) upsertLocked(b model.Bill) model.Bill {
	b = b.Clone()
	if b.ID == "" {
		b.ID = s.db.newID()
	}
	prev, exists := s.db.bills.get(b.ID)
	stamp(&b.CreatedAt, &b.UpdatedAt, prev.CreatedAt, prev.UpdatedAt, exists, s.db.now())
	if b.Categories == nil {
		b.Categories = []string{}
	}
	s.db.bills.put(b.ID, b)
	return b.Clone()
}

// Update merges a validated patch into an existing bill
func (s *BillStore) Update(id string, patch model.BillPatch) (model.Bill, error) {
	if err := patch.Validate(); err != nil {
		return model.Bill{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.bills.get(id)
	if !ok {
		return model.Bill{}, fmt.Errorf("bill %s: %w", id, ErrNotFound)
	}
	b = b.Clone()
	patch.Apply(&b)
	b.UpdatedAt = s.db.now()
	s.db.bills.put(id, b)
	return b.Clone(), nil
}

// Delete removes a bill
func (s *BillStore) Delete(id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if !s.db.bills.remove(id) {
		return fmt.Errorf("bill %s: %w", id, ErrNotFound)
	}
	return nil
}

// containsFold reports whether list holds want, ignoring case
func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// anyContains reports whether any field contains query, ignoring case
func anyContains(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
