package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultStreamMaxLen = 10000

// RedisStreamPublisher appends events to a Redis stream read by the
// notification workers.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	log    *zap.Logger
}

func NewRedisStreamPublisher(client *redis.Client, stream string, log *zap.Logger) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: defaultStreamMaxLen,
		log:    log.With(zap.String("publisher", "redis_stream")),
	}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"type":       string(event.Type),
			"booking_id": event.Booking.ID.String(),
			"payload":    string(payload),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}

	p.log.Debug("Event published",
		zap.String("type", string(event.Type)),
		zap.String("booking_id", event.Booking.ID.String()),
		zap.String("stream_id", id),
	)
	return nil
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("publisher", "log"))}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.Info("Notification event",
		zap.String("type", string(event.Type)),
		zap.String("booking_id", event.Booking.ID.String()),
		zap.String("recipient_id", event.Recipient.ID.String()),
		zap.String("center", event.Center.Name),
	)
	return nil
}
