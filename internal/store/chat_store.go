package store

import (
	"fmt"

	"github.com/jjenkins/civic/internal/model"
)

// ChatStore handles assistant sessions
type ChatStore struct {
	db *DB
}

// NewChatStore creates a new ChatStore
func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{db: db}
}

// Create starts an empty session
func (s *ChatStore) Create(session model.ChatSession) model.ChatSession {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	session.ID = s.db.newID()
	if session.Language == "" {
		session.Language = "en"
	}
	session.Messages = []model.ChatMessage{}
	session.CreatedAt = now
	session.UpdatedAt = now
	s.db.chats.put(session.ID, session)
	return session.Clone()
}

// Get retrieves a session by id
func (s *ChatStore) Get(id string) (model.ChatSession, bool) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	session, ok := s.db.chats.get(id)
	if !ok {
		return model.ChatSession{}, false
	}
	return session.Clone(), true
}

// AppendMessages adds messages to the end of a session's transcript
func (s *ChatStore) AppendMessages(id string, msgs ...model.ChatMessage) (model.ChatSession, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	session, ok := s.db.chats.get(id)
	if !ok {
		return model.ChatSession{}, fmt.Errorf("chat session %s: %w", id, ErrNotFound)
	}
	now := s.db.now()
	session = session.Clone()
	for _, m := range msgs {
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
		session.Messages = append(session.Messages, m)
	}
	session.UpdatedAt = now
	s.db.chats.put(id, session)
	return session.Clone(), nil
}
