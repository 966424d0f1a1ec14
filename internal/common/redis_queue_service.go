package common

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"maverick/dispatch/internal/models/entities"
)

// RedisQueueService publishes Maverick sync events onto a Redis Stream
type RedisQueueService struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisQueueService creates a stream publisher. maxLen <= 0 disables trimming.
func NewRedisQueueService(client *redis.Client, stream string, maxLen int64) *RedisQueueService {
	return &RedisQueueService{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Name identifies this sink in logs and metrics
func (s *RedisQueueService) Name() string { return "redis_stream" }

// Record adds one event to the stream
// XADD stream MAXLEN ~ n * event_type <t> entity_type <t> entity_id <id> data <json>
func (s *RedisQueueService) Record(ctx context.Context, event entities.SyncEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sync event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"event_type":  event.EventType,
			"entity_type": event.EntityType,
			"entity_id":   event.EntityID,
			"data":        string(data),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

// GetQueueLength returns the number of entries in the stream
func (s *RedisQueueService) GetQueueLength(ctx context.Context) (int64, error) {
	length, err := s.client.XLen(ctx, s.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get stream length: %w", err)
	}
	return length, nil
}

// Ping checks the underlying connection for the health endpoint
func (s *RedisQueueService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
