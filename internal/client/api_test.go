package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackgpt-backend/internal/models"
)

func TestAPIClient_CreateAndListMessages(t *testing.T) {
	srv, _ := newChatServer(t, scriptedCompleter{})
	api := NewAPIClient(srv.URL)
	ctx := context.Background()

	created, err := api.CreateMessage(ctx, models.InsertMessage{Content: "seed", Role: models.RoleUser, ConversationID: "conv/with slash"})
	require.NoError(t, err)
	assert.Equal(t, "seed", created.Content)

	msgs, err := api.Messages(ctx, "conv/with slash")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, created.ID, msgs[0].ID)

	empty, err := api.Messages(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestAPIClient_DecodesErrorEnvelope(t *testing.T) {
	srv, _ := newChatServer(t, scriptedCompleter{})
	api := NewAPIClient(srv.URL)

	_, err := api.Chat(context.Background(), models.ChatRequest{Message: ""})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "Message content is required", apiErr.Message)
}

func TestAPIClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAPIClient(srv.URL).Chat(context.Background(), models.ChatRequest{Message: "hi"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}
