package models

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// ChatResponse carries both halves of an exchange.
type ChatResponse struct {
	UserMessage      Message `json:"userMessage"`
	AssistantMessage Message `json:"assistantMessage"`
	ConversationID   string  `json:"conversationId"`
}
