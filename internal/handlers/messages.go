package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"blackgpt-backend/internal/metrics"
	"blackgpt-backend/internal/models"
)

type messageStore interface {
	CreateMessage(ctx context.Context, in models.InsertMessage) (*models.Message, error)
	GetMessagesByConversationID(ctx context.Context, conversationID string) ([]models.Message, error)
}

type MessageHandler struct {
	store messageStore
	log   zerolog.Logger
}

func NewMessageHandler(store messageStore, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		store: store,
		log:   log.With().Str("component", "message-handler").Logger(),
	}
}

// Create handles POST /api/messages.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.InsertMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid message data", r))
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid message data", fields, r))
		return
	}

	msg, err := h.store.CreateMessage(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Str("conversation_id", req.ConversationID).Msg("create message")
		writeJSON(w, http.StatusBadRequest, errorResp("STORE_ERROR", "Invalid message data", r))
		return
	}
	metrics.MessagesCreatedTotal.WithLabelValues(string(msg.Role)).Inc()

	writeJSON(w, http.StatusCreated, msg)
}

// ListByConversation handles GET /api/conversations/{id}/messages.
func (h *MessageHandler) ListByConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := conversationIDParam(r)
	if conversationID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Error fetching messages", r))
		return
	}

	messages, err := h.store.GetMessagesByConversationID(r.Context(), conversationID)
	if err != nil {
		h.log.Error().Err(err).Str("conversation_id", conversationID).Msg("list messages")
		writeJSON(w, http.StatusBadRequest, errorResp("STORE_ERROR", "Error fetching messages", r))
		return
	}

	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}
