package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/iftm/client-service/internal/domain"
	"go.uber.org/zap"
)

// clientStreamMaxLen approximately caps each client event stream. The audit
// worker acknowledges events within seconds, so the tail only serves replay.
const clientStreamMaxLen = 10000

// StreamKey is the Redis stream an event type is written to.
func StreamKey(eventType string) string {
	return fmt.Sprintf("events:%s", eventType)
}

// RedisEventPublisher appends client lifecycle events to one stream per
// event type.
type RedisEventPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisEventPublisher(client *redis.Client, logger *zap.Logger) *RedisEventPublisher {
	return &RedisEventPublisher{
		client: client,
		logger: logger,
	}
}

func (p *RedisEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	values, err := streamValues(event)
	if err != nil {
		return err
	}

	stream := StreamKey(event.GetEventType())
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: clientStreamMaxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		p.logger.Error("failed to publish client event",
			zap.Error(err),
			zap.String("stream", stream),
			zap.String("event_id", event.GetEventID()),
			zap.Int64("client_id", event.GetAggregateID()),
		)
		return fmt.Errorf("failed to publish %s: %w", event.GetEventType(), err)
	}

	p.logger.Debug("client event published",
		zap.String("stream", stream),
		zap.String("message_id", id),
		zap.String("event_id", event.GetEventID()),
		zap.Int64("client_id", event.GetAggregateID()),
	)

	return nil
}

// streamValues flattens an event into the message fields. The subscriber
// only needs data; the rest lets operators filter with XRANGE by eye.
func streamValues(event domain.DomainEvent) (map[string]interface{}, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.GetEventType(), err)
	}

	return map[string]interface{}{
		"event_id":    event.GetEventID(),
		"event_type":  event.GetEventType(),
		"client_id":   strconv.FormatInt(event.GetAggregateID(), 10),
		"occurred_at": event.GetOccurredAt().UTC().Format(time.RFC3339Nano),
		"data":        string(data),
	}, nil
}
