package models

// WebSocket message types
const (
	EventMessageCreated = "message_created"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Error   APIError `json:"error"`
}

// ConversationChannel is the Redis pub/sub channel carrying events for one
// conversation.
func ConversationChannel(conversationID string) string {
	return "conversation_updates:" + conversationID
}
