package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackgpt-backend/internal/models"
)

func newHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil, zerolog.Nop())
	return hub, serveHub(t, hub)
}

func serveHub(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/conversations/{id}/ws", hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, conversationID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/conversations/" + conversationID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHub_DeliversToConversationWatchersOnly(t *testing.T) {
	hub, srv := newHubServer(t)

	watcher := dial(t, srv, "conv-a")
	defer watcher.Close()
	other := dial(t, srv, "conv-b")
	defer other.Close()

	require.Eventually(t, func() bool {
		return hub.Watchers("conv-a") == 1 && hub.Watchers("conv-b") == 1
	}, time.Second, 5*time.Millisecond)

	hub.SendToConversation("conv-a", models.WSMessage{
		Type:    models.EventMessageCreated,
		Payload: models.Message{ID: 7, Content: "hi", Role: models.RoleUser, ConversationID: "conv-a"},
	})

	var got struct {
		Type    string         `json:"type"`
		Payload models.Message `json:"payload"`
	}
	watcher.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, watcher.ReadJSON(&got))
	assert.Equal(t, models.EventMessageCreated, got.Type)
	assert.Equal(t, int64(7), got.Payload.ID)

	other.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "conv-b must not receive conv-a events")
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, srv := newHubServer(t)

	conn := dial(t, srv, "conv-x")
	require.Eventually(t, func() bool { return hub.Watchers("conv-x") == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Watchers("conv-x") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_RejectsPlainHTTP(t *testing.T) {
	_, srv := newHubServer(t)

	resp, err := http.Get(srv.URL + "/api/conversations/conv-a/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
