package models

import (
	"strings"
	"time"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether r is one of the roles a stored message may carry.
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single persisted turn of a conversation. Messages are
// immutable once the store has assigned them an ID.
type Message struct {
	ID             int64       `json:"id"`
	Content        string      `json:"content"`
	Role           MessageRole `json:"role"`
	CreatedAt      time.Time   `json:"createdAt"`
	ConversationID string      `json:"conversationId"`
}

// InsertMessage is the payload accepted by the store and by POST /api/messages.
type InsertMessage struct {
	Content        string      `json:"content"`
	Role           MessageRole `json:"role"`
	ConversationID string      `json:"conversationId"`
}

// Validate returns a field → problem map; an empty map means the payload
// can be stored.
func (m InsertMessage) Validate() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(m.Content) == "" {
		fields["content"] = "Content is required"
	}
	if !m.Role.Valid() {
		fields["role"] = "Role must be user or assistant"
	}
	if strings.TrimSpace(m.ConversationID) == "" {
		fields["conversationId"] = "Conversation ID is required"
	}
	return fields
}
