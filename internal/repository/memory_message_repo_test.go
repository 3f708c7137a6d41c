package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackgpt-backend/internal/models"
)

func TestMemoryMessageRepo_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := NewMemoryMessageRepo()
	ctx := context.Background()

	first, err := repo.CreateMessage(ctx, models.InsertMessage{Content: "hi", Role: models.RoleUser, ConversationID: "c1"})
	require.NoError(t, err)
	second, err := repo.CreateMessage(ctx, models.InsertMessage{Content: "hello", Role: models.RoleAssistant, ConversationID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, "c1", second.ConversationID)
}

func TestMemoryMessageRepo_GetByConversationIsolatesThreads(t *testing.T) {
	repo := NewMemoryMessageRepo()
	ctx := context.Background()

	_, _ = repo.CreateMessage(ctx, models.InsertMessage{Content: "a", Role: models.RoleUser, ConversationID: "c1"})
	_, _ = repo.CreateMessage(ctx, models.InsertMessage{Content: "b", Role: models.RoleUser, ConversationID: "c2"})
	_, _ = repo.CreateMessage(ctx, models.InsertMessage{Content: "c", Role: models.RoleAssistant, ConversationID: "c1"})

	got, err := repo.GetMessagesByConversationID(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Content)
	assert.Equal(t, "c", got[1].Content)

	empty, err := repo.GetMessagesByConversationID(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryMessageRepo_ReturnsCopies(t *testing.T) {
	repo := NewMemoryMessageRepo()
	ctx := context.Background()
	_, _ = repo.CreateMessage(ctx, models.InsertMessage{Content: "original", Role: models.RoleUser, ConversationID: "c1"})

	got, _ := repo.GetMessagesByConversationID(ctx, "c1")
	got[0].Content = "mutated"

	again, _ := repo.GetMessagesByConversationID(ctx, "c1")
	assert.Equal(t, "original", again[0].Content)
}

func TestMemoryMessageRepo_ConcurrentCreates(t *testing.T) {
	repo := NewMemoryMessageRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateMessage(ctx, models.InsertMessage{Content: "x", Role: models.RoleUser, ConversationID: "shared"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetMessagesByConversationID(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, got, 50)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].ID, got[i-1].ID)
	}
}

func TestMemoryMessageRepo_CanceledContext(t *testing.T) {
	repo := NewMemoryMessageRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.CreateMessage(ctx, models.InsertMessage{Content: "x", Role: models.RoleUser, ConversationID: "c"})
	assert.ErrorIs(t, err, context.Canceled)
}
