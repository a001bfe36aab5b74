package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"smartWaiter/internal/modules/realtime/domain"
)

const amqpPublishTimeout = 5 * time.Second

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher fans broadcast messages out through a durable fanout exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	mu       sync.Mutex
}

func DialAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Broadcast(ctx context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	body, err := json.Marshal(msg)
	if err != nil {
		slog.Error("amqp publish marshal error", slog.Any("error", err))
		return
	}

	// The request that triggered the event may finish before the broker acknowledges.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), amqpPublishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(publishCtx, p.exchange, msg.Topic, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Type:         msg.Topic,
		Timestamp:    msg.Timestamp,
		Headers: amqp.Table{
			"x-source": "smart-waiter",
			"x-entity": msg.Entity,
		},
		Body: body,
	})
	if err != nil {
		slog.Warn("amqp publish error", slog.String("exchange", p.exchange), slog.String("eventTopic", msg.Topic), slog.Any("error", err))
	}
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if closeErr := p.conn.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
