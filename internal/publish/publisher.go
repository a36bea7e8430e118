package publish

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/fire_calls_analysis/internal/models"
)

// ResultPublisher - интерфейс для рассылки результатов запросов внешним потребителям
type ResultPublisher interface {
	Publish(ctx context.Context, result *models.Result) error
}

// redisPubSub - часть клиента Redis, нужная издателю
type redisPubSub interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisResultPublisher публикует результаты в канал Redis pub/sub.
// Pub/sub ничего не хранит: результат получают только активные подписчики.
type RedisResultPublisher struct {
	client  redisPubSub
	channel string
}

// NewRedisResultPublisher создает новый RedisResultPublisher
func NewRedisResultPublisher(client redisPubSub, channel string) *RedisResultPublisher {
	return &RedisResultPublisher{
		client:  client,
		channel: channel,
	}
}

// Publish сериализует результат в JSON и публикует его в канал
func (p *RedisResultPublisher) Publish(ctx context.Context, result *models.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result %q: %w", result.Query, err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish result %q to Redis: %w", result.Query, err)
	}
	return nil
}

// NopPublisher используется, когда Redis не настроен
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.Result) error {
	return nil
}
