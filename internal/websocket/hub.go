package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"blackgpt-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans conversation events out to every socket watching that
// conversation. With a Redis client, events published by any instance reach
// sockets on every instance; without one the hub is its own publisher and
// delivers locally.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*websocket.Conn
	redisClient *redis.Client
	cancelFuncs map[string]context.CancelFunc
	log         zerolog.Logger
}

func NewHub(redisClient *redis.Client, log zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[string][]*websocket.Conn),
		redisClient: redisClient,
		cancelFuncs: make(map[string]context.CancelFunc),
		log:         log.With().Str("component", "ws-hub").Logger(),
	}
}

// HandleWebSocket serves GET /api/conversations/{id}/ws.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(conversationID); err == nil {
			conversationID = decoded
		}
	}
	if conversationID == "" {
		http.Error(w, "Conversation ID is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.registerConnection(conversationID, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(conversationID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(conversationID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conversationID] = append(h.connections[conversationID], conn)

	// Start pub/sub subscription for the first watcher of this conversation
	if len(h.connections[conversationID]) == 1 && h.redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[conversationID] = cancel
		go h.subscribeToPubSub(ctx, conversationID)
	}

	h.log.Debug().
		Str("conversation_id", conversationID).
		Int("watchers", len(h.connections[conversationID])).
		Msg("WebSocket connected")
}

func (h *Hub) unregisterConnection(conversationID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[conversationID]
	for i, c := range conns {
		if c == conn {
			h.connections[conversationID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[conversationID]) == 0 {
		delete(h.connections, conversationID)
		if cancel, ok := h.cancelFuncs[conversationID]; ok {
			cancel()
			delete(h.cancelFuncs, conversationID)
		}
	}

	h.log.Debug().Str("conversation_id", conversationID).Msg("WebSocket disconnected")
}

func (h *Hub) subscribeToPubSub(ctx context.Context, conversationID string) {
	pubsub := h.redisClient.Subscribe(ctx, models.ConversationChannel(conversationID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(conversationID, []byte(msg.Payload))
		}
	}
}

// broadcast holds the write lock because gorilla connections allow only one
// concurrent writer.
func (h *Hub) broadcast(conversationID string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.connections[conversationID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug().Err(err).Str("conversation_id", conversationID).Msg("WebSocket write failed")
		}
	}
}

// SendToConversation delivers msg to sockets connected to this instance.
func (h *Hub) SendToConversation(conversationID string, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast(conversationID, data)
}

// PublishMessage announces a stored message to this instance's watchers. It
// serves as the event publisher when no Redis feed is configured.
func (h *Hub) PublishMessage(ctx context.Context, msg *models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.SendToConversation(msg.ConversationID, models.WSMessage{
		Type:    models.EventMessageCreated,
		Payload: msg,
	})
	return nil
}

// Watchers reports how many sockets currently follow a conversation.
func (h *Hub) Watchers(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[conversationID])
}
