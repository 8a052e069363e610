package store

import (
	"fmt"
	"strings"

	"github.com/jjenkins/civic/internal/model"
)

// LegislatorFilter narrows a legislator listing. Empty fields are ignored.
type LegislatorFilter struct {
	State    string
	District string
	Chamber  string
}

func (f LegislatorFilter) matches(l model.Legislator) bool {
	if f.State != "" && !strings.EqualFold(l.State, f.State) {
		return false
	}
	if f.District != "" && (l.District == nil || *l.District != f.District) {
		return false
	}
	if f.Chamber != "" && !strings.EqualFold(l.Chamber, f.Chamber) {
		return false
	}
	return true
}

// LegislatorStore handles the legislator table. Listings keep insertion order.
type LegislatorStore struct {
	db *DB
}

// NewLegislatorStore creates a new LegislatorStore
func NewLegislatorStore(db *DB) *LegislatorStore {
	return &LegislatorStore{db: db}
}

// Get retrieves a legislator by id
func (s *LegislatorStore) Get(id string) (model.Legislator, bool) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	l, ok := s.db.legislators.get(id)
	return l.Clone(), ok
}

// List returns one page of matching legislators and the total match count
func (s *LegislatorStore) List(f LegislatorFilter, limit, offset int) ([]model.Legislator, int) {
	s.db.mu.RLock()
	matched := s.db.legislators.scan(f.matches)
	s.db.mu.RUnlock()

	page := Paginate(matched, limit, offset, DefaultLegislatorLimit)
	out := make([]model.Legislator, len(page))
	for i, l := range page {
		out[i] = l.Clone()
	}
	return out, len(matched)
}

// Upsert inserts or replaces a legislator by id
func (s *LegislatorStore) Upsert(l model.Legislator) model.Legislator {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	_, l = s.upsertLocked(l)
	return l.Clone()
}

// UpsertMany caches a batch of legislators and reports how many were new
func (s *LegislatorStore) UpsertMany(legislators []model.Legislator) (inserted int) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, l := range legislators {
		if isNew, _ := s.upsertLocked(l); isNew {
			inserted++
		}
	}
	return inserted
}

func (s *LegislatorStore) upsertLocked(l model.Legislator) (bool, model.Legislator) {
	if l.ID == "" {
		l.ID = s.db.newID()
	}
	l = l.Clone()
	return s.db.legislators.put(l.ID, l), l
}

// Delete removes a legislator
func (s *LegislatorStore) Delete(id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if !s.db.legislators.remove(id) {
		return fmt.Errorf("legislator %s: %w", id, ErrNotFound)
	}
	return nil
}
