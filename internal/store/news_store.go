package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jjenkins/civic/internal/model"
)

// NewsFilter narrows an article listing. Empty fields are ignored.
type NewsFilter struct {
	Query    string
	Category model.NewsCategory
	Location string
}

func (f NewsFilter) matches(a model.NewsArticle) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(a.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Query != "" {
		return anyContains(f.Query, a.Title, a.Description)
	}
	return true
}

// NewsStore handles the article table
type NewsStore struct {
	db *DB
}

// NewNewsStore creates a new NewsStore
func NewNewsStore(db *DB) *NewsStore {
	return &NewsStore{db: db}
}

// Get retrieves an article by id
func (s *NewsStore) Get(id string) (model.NewsArticle, bool) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.db.news.get(id)
}

// List returns one page of matching articles, newest first, and the total match count
func (s *NewsStore) List(f NewsFilter, limit, offset int) ([]model.NewsArticle, int) {
	s.db.mu.RLock()
	matched := s.db.news.scan(f.matches)
	s.db.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.ID < b.ID
	})

	return Paginate(matched, limit, offset, DefaultLimit), len(matched)
}

// Upsert inserts or replaces an article by id
func (s *NewsStore) Upsert(a model.NewsArticle) model.NewsArticle {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	_, a = s.upsertLocked(a)
	return a
}

// UpsertMany caches a batch of articles and reports how many were new
func (s *NewsStore) UpsertMany(articles []model.NewsArticle) (inserted int) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, a := range articles {
		if isNew, _ := s.upsertLocked(a); isNew {
			inserted++
		}
	}
	return inserted
}

func (s *NewsStore) upsertLocked(a model.NewsArticle) (bool, model.NewsArticle) {
	if a.ID == "" {
		a.ID = s.db.newID()
	}
	return s.db.news.put(a.ID, a), a
}

// Delete removes an article
func (s *NewsStore) Delete(id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if !s.db.news.remove(id) {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return nil
}
