package repository

import (
	"context"
	"sync"
	"time"

	"blackgpt-backend/internal/models"
)

// MemoryMessageRepo is a thread-safe store used when no database is
// configured and in tests. IDs are assigned from a single counter, so they
// increase in insertion order across all conversations.
type MemoryMessageRepo struct {
	mu            sync.RWMutex
	nextID        int64
	conversations map[string][]models.Message
	now           func() time.Time
}

func NewMemoryMessageRepo() *MemoryMessageRepo {
	return &MemoryMessageRepo{
		nextID:        1,
		conversations: make(map[string][]models.Message),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryMessageRepo) CreateMessage(ctx context.Context, in models.InsertMessage) (*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := models.Message{
		ID:             r.nextID,
		Content:        in.Content,
		Role:           in.Role,
		CreatedAt:      r.now(),
		ConversationID: in.ConversationID,
	}
	r.nextID++
	r.conversations[in.ConversationID] = append(r.conversations[in.ConversationID], m)

	return &m, nil
}

func (r *MemoryMessageRepo) GetMessagesByConversationID(ctx context.Context, conversationID string) ([]models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.conversations[conversationID]
	out := make([]models.Message, len(stored))
	copy(out, stored)
	return out, nil
}
