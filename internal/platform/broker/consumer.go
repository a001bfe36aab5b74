package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"smartWaiter/internal/modules/realtime/domain"
)

const readRetryDelay = time.Second

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type KafkaConsumer struct {
	reader messageReader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume reads until ctx is cancelled, handing every message to handler. Handler
// failures are logged and the message is committed anyway.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.Message) error) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			slog.Warn("kafka reader close error", slog.Any("error", err))
		}
	}()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(readRetryDelay):
			}
			continue
		}
		msg := decodeMessage(m)
		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", msg.Entity),
			slog.String("action", msg.Action),
			slog.String("resourceId", msg.ResourceID),
		)
		if err := handler(msg); err != nil {
			slog.Warn("kafka handler error", slog.String("topic", m.Topic), slog.Any("error", err))
		}
	}
}

type rawEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Metadata   map[string]string `json:"metadata"`
	Data       any               `json:"data"`
}

// decodeMessage keeps the Kafka topic as the dispatch topic. Envelope fields are
// honoured when present; otherwise the whole body becomes the message data.
func decodeMessage(m kafka.Message) *domain.Message {
	entity, action := domain.SplitTopic(m.Topic)
	msg := &domain.Message{
		Topic:      m.Topic,
		Entity:     entity,
		Action:     action,
		ResourceID: strings.TrimSpace(string(m.Key)),
		Timestamp:  time.Now().UTC(),
	}

	var body map[string]any
	if err := json.Unmarshal(m.Value, &body); err != nil {
		msg.Data = string(m.Value)
		return msg
	}
	msg.Data = body

	var event rawEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return msg
	}
	msg.Entity = firstNonEmpty(event.Entity, msg.Entity)
	msg.Action = firstNonEmpty(event.Action, msg.Action)
	msg.ResourceID = firstNonEmpty(event.ResourceID, msg.ResourceID)
	if len(event.Metadata) > 0 {
		msg.Metadata = event.Metadata
	}
	if event.Data != nil {
		msg.Data = event.Data
	}
	return msg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
