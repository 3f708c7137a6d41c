package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"blackgpt-backend/internal/models"
)

const (
	DefaultFreeLimit     = 3
	DefaultRedirectDelay = 2 * time.Second
	DefaultSignInPath    = "/auth"
)

var (
	// ErrSignInRequired is returned once the free exchange allowance is spent.
	ErrSignInRequired = errors.New("sign in required")
	// ErrBusy is returned while a previous Send is still waiting for the server.
	ErrBusy = errors.New("a message is already being sent")
)

type chatAPI interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	Messages(ctx context.Context, conversationID string) ([]models.Message, error)
}

// Notifier surfaces short user-facing notices (the toast of a browser UI).
type Notifier interface {
	Notify(title, description string)
}

// Navigator moves the user to another page, e.g. the sign-in screen.
type Navigator interface {
	Navigate(path string)
}

type Options struct {
	FreeLimit     int
	RedirectDelay time.Duration
	SignInPath    string
	Notifier      Notifier
	Navigator     Navigator
	Logger        zerolog.Logger
}

// Session is the client-side state of one chat: message history, the
// conversation id, the loading flag and the free-tier gate. It is safe for
// concurrent use, but only the loading flag stops overlapping sends.
type Session struct {
	api  chatAPI
	opts Options
	log  zerolog.Logger

	mu             sync.Mutex
	messages       []models.Message
	conversationID string
	loading        bool
	needsAuth      bool
	lastTempID     int64
	redirect       *time.Timer

	newID func() string
	now   func() time.Time
}

func NewSession(api chatAPI, opts Options) *Session {
	if opts.FreeLimit <= 0 {
		opts.FreeLimit = DefaultFreeLimit
	}
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = DefaultRedirectDelay
	}
	if opts.SignInPath == "" {
		opts.SignInPath = DefaultSignInPath
	}
	if opts.Notifier == nil {
		opts.Notifier = logNotifier{log: opts.Logger}
	}
	if opts.Navigator == nil {
		opts.Navigator = noopNavigator{}
	}

	return &Session{
		api:   api,
		opts:  opts,
		log:   opts.Logger.With().Str("component", "chat-session").Logger(),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Send runs one exchange. Blank content is ignored. The user message is
// shown optimistically and swapped for the server's copy on success; on
// failure it stays in the history.
func (s *Session) Send(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	s.mu.Lock()
	if s.exchangeCountLocked() >= s.opts.FreeLimit && !s.needsAuth {
		s.needsAuth = true
		s.scheduleRedirectLocked()
		s.mu.Unlock()

		s.opts.Notifier.Notify("Sign in required", "You've reached the free message limit. Please sign in to continue.")
		return ErrSignInRequired
	}

	if s.needsAuth {
		s.mu.Unlock()

		s.opts.Notifier.Notify("Sign in required", "Please sign in to continue using Black.GPT")
		s.opts.Navigator.Navigate(s.opts.SignInPath)
		return ErrSignInRequired
	}

	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true

	currentID := s.conversationID
	if currentID == "" {
		currentID = s.newID()
	}

	s.lastTempID--
	temp := models.Message{
		ID:             s.lastTempID,
		Content:        content,
		Role:           models.RoleUser,
		CreatedAt:      s.now().UTC(),
		ConversationID: currentID,
	}
	s.messages = append(s.messages, temp)
	s.mu.Unlock()

	resp, err := s.api.Chat(ctx, models.ChatRequest{
		Message:        content,
		ConversationID: currentID,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.log.Error().Err(err).Str("conversation_id", currentID).Msg("Error sending message")
		return err
	}

	if s.conversationID == "" {
		s.conversationID = resp.ConversationID
	}

	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.ID != temp.ID {
			kept = append(kept, m)
		}
	}
	s.messages = append(kept, resp.UserMessage, resp.AssistantMessage)
	return nil
}

// Load replaces the local history with the server's copy of a conversation.
func (s *Session) Load(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true
	s.mu.Unlock()

	msgs, err := s.api.Messages(ctx, conversationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.log.Error().Err(err).Str("conversation_id", conversationID).Msg("Error loading conversation")
		return err
	}

	s.messages = msgs
	s.conversationID = conversationID
	return nil
}

// Reset starts a fresh conversation and lifts the sign-in gate.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.redirect != nil {
		s.redirect.Stop()
		s.redirect = nil
	}
	s.messages = nil
	s.conversationID = ""
	s.needsAuth = false
}

func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) NeedsAuth() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsAuth
}

// ExchangeCount is the number of user/assistant pairs in the history.
func (s *Session) ExchangeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchangeCountLocked()
}

func (s *Session) exchangeCountLocked() int {
	return len(s.messages) / 2
}

func (s *Session) scheduleRedirectLocked() {
	path := s.opts.SignInPath
	nav := s.opts.Navigator
	s.redirect = time.AfterFunc(s.opts.RedirectDelay, func() {
		nav.Navigate(path)
	})
}

type logNotifier struct {
	log zerolog.Logger
}

func (n logNotifier) Notify(title, description string) {
	n.log.Warn().Str("title", title).Msg(description)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}
