package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"blackgpt-backend/internal/models"
)

type chatService interface {
	Exchange(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

type ChatHandler struct {
	chat chatService
	log  zerolog.Logger
}

func NewChatHandler(chat chatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chat: chat,
		log:  log.With().Str("component", "chat-handler").Logger(),
	}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message content is required", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message content is required", r))
		return
	}

	resp, err := h.chat.Exchange(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).
			Str("conversation_id", req.ConversationID).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Msg("Error processing chat")
		handleServiceError(w, r, err, "Error processing chat")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
