package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blackgpt-backend/internal/config"
	"blackgpt-backend/internal/database"
	"blackgpt-backend/internal/handlers"
	"blackgpt-backend/internal/logger"
	"blackgpt-backend/internal/observability"
	"blackgpt-backend/internal/repository"
	"blackgpt-backend/internal/router"
	"blackgpt-backend/internal/services"
	"blackgpt-backend/internal/websocket"
	"blackgpt-backend/migrations"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	log.Info().Str("env", cfg.Env).Msg("Starting Black.GPT backend")

	ctx := context.Background()

	shutdownTracing, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Tracing setup failed")
	}

	// ──── Step 2: Message Store ────
	var store services.MessageStore
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("PostgreSQL connection failed")
		}
		defer pool.Close()

		if err := database.RunMigrations(pool, migrations.FS, log); err != nil {
			log.Fatal().Err(err).Msg("Database migration failed")
		}
		store = repository.NewMessageRepo(pool)
		log.Info().Msg("PostgreSQL connected, migrations applied")
	} else {
		store = repository.NewMemoryMessageRepo()
		log.Warn().Msg("DATABASE_URL not set, messages are kept in memory")
	}

	// ──── Step 3: Conversation Feed ────
	var (
		events services.EventPublisher
		wsHub  *websocket.Hub
	)
	if cfg.RedisURL != "" {
		redisClients, err := database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClients.Close()

		events = services.NewRedisEventPublisher(redisClients.Publisher)
		wsHub = websocket.NewHub(redisClients.PubSub, log)
		log.Info().Msg("Redis connected, conversation feed enabled")
	} else {
		wsHub = websocket.NewHub(nil, log)
		events = wsHub
		log.Info().Msg("REDIS_URL not set, conversation feed is local to this instance")
	}

	// ──── Step 4: Upstream Completion Client ────
	completer, closeCompleter, err := services.NewCompleter(ctx, upstreamOptions(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Upstream client initialization failed")
	}
	defer closeCompleter()
	log.Info().Str("provider", completer.Name()).Msg("Upstream completion client initialized")

	// ──── Step 5: Services & Handlers ────
	chatService := services.NewChatService(store, completer, events, log)
	chatHandler := handlers.NewChatHandler(chatService, log)
	messageHandler := handlers.NewMessageHandler(store, log)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(log, chatHandler, messageHandler, wsHub, cfg.FrontendURL)

	// WriteTimeout is the only bound on an upstream call.
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("HTTP shutdown")
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Error().Err(err).Msg("Tracing shutdown")
		}
	}()

	log.Info().Str("addr", cfg.Addr()).Msg("Black.GPT backend ready")

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func upstreamOptions(cfg *config.Config) services.UpstreamOptions {
	opts := services.UpstreamOptions{
		Provider:           cfg.UpstreamProvider,
		ConcurrentRequests: cfg.UpstreamConcurrentReqs,
	}

	switch cfg.UpstreamProvider {
	case config.ProviderGemini:
		opts.APIKey = cfg.GeminiAPIKey
		opts.Model = cfg.GeminiModel
	case config.ProviderOpenAICompatible:
		opts.APIKey = cfg.OpenAICompatAPIKey
		opts.BaseURL = cfg.OpenAICompatBaseURL
		opts.Model = cfg.OpenAICompatModel
	default:
		opts.APIKey = cfg.OpenRouterAPIKey
		opts.BaseURL = cfg.OpenRouterBaseURL
		opts.Model = cfg.OpenRouterModel
		opts.Referer = cfg.OpenRouterReferer
		opts.Title = cfg.OpenRouterTitle
	}

	return opts
}
