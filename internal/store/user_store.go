package store

import (
	"fmt"
	"strings"

	"github.com/jjenkins/civic/internal/model"
)

// bookmarkItemTypes are the entity kinds a user can save
var bookmarkItemTypes = map[string]bool{"bill": true, "news": true, "event": true}

// UserStore handles users and their bookmarks
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a user. Usernames are unique, case-insensitively.
func (s *UserStore) Create(u model.User) (model.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return model.User{}, fmt.Errorf("%w: username is required", ErrInvalidPatch)
	}
	if u.PreferredLanguage == "" {
		u.PreferredLanguage = "en"
	}
	if err := (model.UserPatch{PreferredLanguage: &u.PreferredLanguage}).Validate(); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, taken := s.byUsernameLocked(u.Username); taken {
		return model.User{}, fmt.Errorf("username %s: %w", u.Username, ErrConflict)
	}
	u.ID = s.db.newID()
	u.CreatedAt = s.db.now()
	s.db.users.put(u.ID, u)
	return u, nil
}

// Get retrieves a user by id
func (s *UserStore) Get(id string) (model.User, bool) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.db.users.get(id)
}

// GetByUsername retrieves a user by username
func (s *UserStore) GetByUsername(username string) (model.User, bool) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.byUsernameLocked(username)
}

func (s *UserStore) byUsernameLocked(username string) (model.User, bool) {
	found := s.db.users.scan(func(u model.User) bool { return strings.EqualFold(u.Username, username) })
	if len(found) == 0 {
		return model.User{}, false
	}
	return found[0], true
}

// Update applies a profile patch
func (s *UserStore) Update(id string, patch model.UserPatch) (model.User, error) {
	if err := patch.Validate(); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users.get(id)
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	patch.Apply(&u)
	s.db.users.put(id, u)
	return u, nil
}

// AddBookmark saves an item for a user. Saving the same item twice is a conflict.
func (s *UserStore) AddBookmark(b model.Bookmark) (model.Bookmark, error) {
	if !bookmarkItemTypes[b.ItemType] {
		return model.Bookmark{}, fmt.Errorf("%w: itemType must be bill, news or event", ErrInvalidPatch)
	}
	if b.ItemID == "" {
		return model.Bookmark{}, fmt.Errorf("%w: itemId is required", ErrInvalidPatch)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users.get(b.UserID); !ok {
		return model.Bookmark{}, fmt.Errorf("user %s: %w", b.UserID, ErrNotFound)
	}
	dup := s.db.bookmarks.scan(func(x model.Bookmark) bool {
		return x.UserID == b.UserID && x.ItemType == b.ItemType && x.ItemID == b.ItemID
	})
	if len(dup) > 0 {
		return model.Bookmark{}, fmt.Errorf("bookmark %s/%s: %w", b.ItemType, b.ItemID, ErrConflict)
	}

	b.ID = s.db.newID()
	b.CreatedAt = s.db.now()
	s.db.bookmarks.put(b.ID, b)
	return b, nil
}

// ListBookmarks returns a user's bookmarks in the order they were saved
func (s *UserStore) ListBookmarks(userID string) ([]model.Bookmark, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.users.get(userID); !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return s.db.bookmarks.scan(func(b model.Bookmark) bool { return b.UserID == userID }), nil
}

// RemoveBookmark deletes one of a user's bookmarks
func (s *UserStore) RemoveBookmark(userID, bookmarkID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.bookmarks.get(bookmarkID)
	if !ok || b.UserID != userID {
		return fmt.Errorf("bookmark %s: %w", bookmarkID, ErrNotFound)
	}
	s.db.bookmarks.remove(bookmarkID)
	return nil
}
