package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"blackgpt-backend/internal/handlers"
	"blackgpt-backend/internal/middleware"
	"blackgpt-backend/internal/websocket"
)

// New builds the HTTP surface. wsHub may be nil when no conversation feed is
// configured.
func New(
	log zerolog.Logger,
	chatHandler *handlers.ChatHandler,
	messageHandler *handlers.MessageHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Sign-in stub targeted by the client's free-tier redirect
	r.Get("/auth", handlers.SignIn)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Post("/messages", messageHandler.Create)

		r.Route("/conversations/{id}", func(r chi.Router) {
			r.Get("/messages", messageHandler.ListByConversation)
			if wsHub != nil {
				r.Get("/ws", wsHub.HandleWebSocket)
			}
		})
	})

	return r
}
