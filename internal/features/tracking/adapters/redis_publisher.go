package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"delivery-geo-engine/internal/features/tracking/domain"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes position updates over Redis pub/sub. Each order
// gets its own channel so subscribers can follow a single delivery.
type RedisPublisher struct {
	client        *redis.Client
	channelPrefix string
}

// NewRedisPublisher creates a RedisPublisher from a connection URL.
func NewRedisPublisher(redisURL, channelPrefix string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisPublisher{
		client:        redis.NewClient(opts),
		channelPrefix: channelPrefix,
	}, nil
}

// NewRedisPublisherFromClient creates a RedisPublisher over an existing
// client, sharing the connection pool with other Redis consumers.
func NewRedisPublisherFromClient(client *redis.Client, channelPrefix string) *RedisPublisher {
	return &RedisPublisher{
		client:        client,
		channelPrefix: channelPrefix,
	}
}

// Publish implements ports.RealtimePublisher. The update is JSON-encoded
// onto the channel "<prefix><order_id>".
func (p *RedisPublisher) Publish(ctx context.Context, update domain.PositionUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal position update: %w", err)
	}

	channel := p.channelPrefix + update.OrderID
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish position update: %w", err)
	}

	return nil
}

// Close releases the underlying Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
