package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackgpt-backend/internal/models"
	"blackgpt-backend/internal/repository"
	"blackgpt-backend/internal/services"
)

type fixedCompleter struct{ reply string }

func (fixedCompleter) Name() string { return "fixed" }

func (c fixedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return c.reply, nil
}

type messageEvent struct {
	Type    string         `json:"type"`
	Payload models.Message `json:"payload"`
}

func readEvent(t *testing.T, conn *websocket.Conn) messageEvent {
	t.Helper()
	var ev messageEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func assertExchangeEvents(t *testing.T, conn *websocket.Conn, resp *models.ChatResponse) {
	t.Helper()

	first := readEvent(t, conn)
	assert.Equal(t, models.EventMessageCreated, first.Type)
	assert.Equal(t, resp.UserMessage.ID, first.Payload.ID)
	assert.Equal(t, models.RoleUser, first.Payload.Role)

	second := readEvent(t, conn)
	assert.Equal(t, models.EventMessageCreated, second.Type)
	assert.Equal(t, resp.AssistantMessage.ID, second.Payload.ID)
	assert.Equal(t, models.RoleAssistant, second.Payload.Role)
	assert.Equal(t, "pong", second.Payload.Content)
}

func TestHub_LocalFeedDeliversExchange(t *testing.T) {
	hub, srv := newHubServer(t)

	conn := dial(t, srv, "conv-local")
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Watchers("conv-local") == 1 }, time.Second, 5*time.Millisecond)

	chat := services.NewChatService(repository.NewMemoryMessageRepo(), fixedCompleter{reply: "pong"}, hub, zerolog.Nop())
	resp, err := chat.Exchange(context.Background(), models.ChatRequest{Message: "ping", ConversationID: "conv-local"})
	require.NoError(t, err)

	assertExchangeEvents(t, conn, resp)
}

func TestHub_RedisFeedDeliversExchange(t *testing.T) {
	mr := miniredis.RunT(t)

	newClient := func() *redis.Client {
		c := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2})
		t.Cleanup(func() { c.Close() })
		return c
	}
	publisher, subscriber := newClient(), newClient()

	hub := NewHub(subscriber, zerolog.Nop())
	srv := serveHub(t, hub)
	channel := models.ConversationChannel("conv-redis")

	conn := dial(t, srv, "conv-redis")
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	chat := services.NewChatService(
		repository.NewMemoryMessageRepo(),
		fixedCompleter{reply: "pong"},
		services.NewRedisEventPublisher(publisher),
		zerolog.Nop(),
	)
	resp, err := chat.Exchange(context.Background(), models.ChatRequest{Message: "ping", ConversationID: "conv-redis"})
	require.NoError(t, err)

	assertExchangeEvents(t, conn, resp)

	// The last watcher leaving ends the subscription.
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.Watchers("conv-redis") == 0 && mr.PubSubNumSub(channel)[channel] == 0
	}, 2*time.Second, 10*time.Millisecond)
}
