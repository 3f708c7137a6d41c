package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"blackgpt-backend/internal/metrics"
	"blackgpt-backend/internal/models"
)

// FallbackReply is stored as the assistant message whenever the upstream
// completion call fails.
const FallbackReply = "Sorry, I encountered an error. Please try again."

var tracer = otel.Tracer("blackgpt-backend/services")

type MessageStore interface {
	CreateMessage(ctx context.Context, in models.InsertMessage) (*models.Message, error)
	GetMessagesByConversationID(ctx context.Context, conversationID string) ([]models.Message, error)
}

type EventPublisher interface {
	PublishMessage(ctx context.Context, msg *models.Message) error
}

type ChatService struct {
	store     MessageStore
	completer Completer
	events    EventPublisher
	newID     func() string
	log       zerolog.Logger
}

// NewChatService wires the exchange pipeline. events may be nil.
func NewChatService(store MessageStore, completer Completer, events EventPublisher, log zerolog.Logger) *ChatService {
	return &ChatService{
		store:     store,
		completer: completer,
		events:    events,
		newID:     uuid.NewString,
		log:       log.With().Str("component", "chat-service").Logger(),
	}
}

// Exchange stores the user message, asks the upstream for a reply and
// stores the reply. Upstream failures never surface: the fallback reply is
// stored instead. Store failures are returned as-is, without retry.
func (s *ChatService) Exchange(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &ValidationError{
			Message: "Message content is required",
			Fields:  map[string]string{"message": "Message content is required"},
		}
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = s.newID()
		metrics.ConversationsStartedTotal.Inc()
	}

	ctx, span := tracer.Start(ctx, "ChatService.Exchange")
	defer span.End()
	span.SetAttributes(attribute.String("conversation.id", conversationID))

	userMessage, err := s.store.CreateMessage(ctx, models.InsertMessage{
		Content:        req.Message,
		Role:           models.RoleUser,
		ConversationID: conversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}
	metrics.MessagesCreatedTotal.WithLabelValues(string(models.RoleUser)).Inc()
	s.publish(ctx, userMessage)

	reply := s.complete(ctx, req.Message, conversationID)

	assistantMessage, err := s.store.CreateMessage(ctx, models.InsertMessage{
		Content:        reply,
		Role:           models.RoleAssistant,
		ConversationID: userMessage.ConversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}
	metrics.MessagesCreatedTotal.WithLabelValues(string(models.RoleAssistant)).Inc()
	metrics.ExchangesTotal.Inc()
	s.publish(ctx, assistantMessage)

	return &models.ChatResponse{
		UserMessage:      *userMessage,
		AssistantMessage: *assistantMessage,
		ConversationID:   userMessage.ConversationID,
	}, nil
}

// History returns the stored messages of one conversation in creation order.
func (s *ChatService) History(ctx context.Context, conversationID string) ([]models.Message, error) {
	return s.store.GetMessagesByConversationID(ctx, conversationID)
}

func (s *ChatService) complete(ctx context.Context, prompt, conversationID string) string {
	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(s.completer.Name()).Inc()
		s.log.Error().Err(err).
			Str("provider", s.completer.Name()).
			Str("conversation_id", conversationID).
			Msg("Error fetching response from upstream")
		return FallbackReply
	}
	return reply
}

func (s *ChatService) publish(ctx context.Context, msg *models.Message) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMessage(ctx, msg); err != nil {
		s.log.Warn().Err(err).
			Int64("message_id", msg.ID).
			Str("conversation_id", msg.ConversationID).
			Msg("Failed to publish message event")
	}
}
