package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackgpt-backend/internal/client"
	"blackgpt-backend/internal/handlers"
	"blackgpt-backend/internal/repository"
	"blackgpt-backend/internal/router"
	"blackgpt-backend/internal/services"
)

type upperCompleter struct{}

func (upperCompleter) Name() string { return "upper" }

func (upperCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return strings.ToUpper(prompt), nil
}

func newChatServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	store := repository.NewMemoryMessageRepo()
	chat := services.NewChatService(store, upperCompleter{}, nil, log)
	srv := httptest.NewServer(router.New(log, handlers.NewChatHandler(chat, log), handlers.NewMessageHandler(store, log), nil, "*"))
	t.Cleanup(srv.Close)
	return srv
}

// output reads the buffer under the UI lock since the redirect timer may
// still be writing.
func output(ui *terminalUI, buf *bytes.Buffer) string {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return buf.String()
}

func TestREPL_SendsAndGates(t *testing.T) {
	log := zerolog.Nop()
	srv := newChatServer(t)

	var out bytes.Buffer
	ui := &terminalUI{out: &out, server: srv.URL}
	session := client.NewSession(client.NewAPIClient(srv.URL), client.Options{
		FreeLimit: 1,
		Notifier:  ui,
		Navigator: ui,
		Logger:    log,
	})

	in := strings.NewReader("hello\n\nagain\n/new\nfresh\n/quit\n")
	require.NoError(t, repl(context.Background(), in, ui, session))

	text := output(ui, &out)
	assert.Contains(t, text, "Black.GPT: HELLO")
	assert.Contains(t, text, "[Sign in required] You've reached the free message limit.")
	assert.Contains(t, text, "Started a new conversation.")
	assert.Contains(t, text, "Black.GPT: FRESH")
	assert.NotContains(t, text, "AGAIN")
}

func TestREPL_DelayedRedirectIsPrinted(t *testing.T) {
	srv := newChatServer(t)

	var out bytes.Buffer
	ui := &terminalUI{out: &out, server: srv.URL}
	session := client.NewSession(client.NewAPIClient(srv.URL), client.Options{
		FreeLimit:     1,
		RedirectDelay: 10 * time.Millisecond,
		Notifier:      ui,
		Navigator:     ui,
		Logger:        zerolog.Nop(),
	})

	in := strings.NewReader("hello\nagain\n/quit\n")
	require.NoError(t, repl(context.Background(), in, ui, session))

	require.Eventually(t, func() bool {
		return strings.Contains(output(ui, &out), "Sign in at "+srv.URL+"/auth")
	}, time.Second, 5*time.Millisecond)
	assert.True(t, session.NeedsAuth())
}
