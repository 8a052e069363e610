package model

import "time"

// ChatMessage is one turn in an assistant conversation
type ChatMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession holds an append-only assistant transcript
type ChatSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId,omitempty"`
	Language  string        `json:"language"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Clone returns a copy with its own message slice
func (s ChatSession) Clone() ChatSession {
	s.Messages = append([]ChatMessage{}, s.Messages...)
	return s
}
