package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"smartWaiter/internal/modules/realtime/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes broadcast messages to a single event topic. Writes are
// asynchronous; delivery failures are only logged.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Warn("kafka publish failed", slog.String("topic", topic), slog.Int("messages", len(messages)), slog.Any("error", err))
			}
		},
	}
	return &KafkaPublisher{writer: writer, topic: topic}
}

func (p *KafkaPublisher) Broadcast(ctx context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	body, err := json.Marshal(msg)
	if err != nil {
		slog.Error("kafka publish marshal error", slog.Any("error", err))
		return
	}
	key := msg.ResourceID
	if key == "" {
		key = uuid.NewString()
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event-topic", Value: []byte(msg.Topic)},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: msg.Timestamp,
	})
	if err != nil {
		slog.Warn("kafka publish error", slog.String("topic", p.topic), slog.String("eventTopic", msg.Topic), slog.Any("error", err))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
