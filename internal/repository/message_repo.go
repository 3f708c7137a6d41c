package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blackgpt-backend/internal/models"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) CreateMessage(ctx context.Context, in models.InsertMessage) (*models.Message, error) {
	m := &models.Message{
		Content:        in.Content,
		Role:           in.Role,
		ConversationID: in.ConversationID,
	}

	query := `INSERT INTO messages (content, role, conversation_id)
		VALUES ($1, $2, $3) RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, in.Content, string(in.Role), in.ConversationID).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MessageRepo) GetMessagesByConversationID(ctx context.Context, conversationID string) ([]models.Message, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, content, role, created_at, conversation_id
		FROM messages WHERE conversation_id = $1 ORDER BY id ASC`, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Message, error) {
		var m models.Message
		var role string
		if err := row.Scan(&m.ID, &m.Content, &role, &m.CreatedAt, &m.ConversationID); err != nil {
			return m, err
		}
		m.Role = models.MessageRole(role)
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}
