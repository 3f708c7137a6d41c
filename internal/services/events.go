package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"blackgpt-backend/internal/models"
)

// RedisEventPublisher fans message events out to the conversation feed.
type RedisEventPublisher struct {
	redis *redis.Client
}

func NewRedisEventPublisher(redisClient *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{redis: redisClient}
}

func (p *RedisEventPublisher) PublishMessage(ctx context.Context, msg *models.Message) error {
	data, err := json.Marshal(models.WSMessage{
		Type:    models.EventMessageCreated,
		Payload: msg,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message event: %w", err)
	}
	return p.redis.Publish(ctx, models.ConversationChannel(msg.ConversationID), data).Err()
}
