package port

import (
	"context"

	"smartWaiter/internal/modules/realtime/domain"
)

// Broadcaster delivers a message to one destination (websocket clients, a broker topic, an exchange).
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler is implemented by handlers registered against a consumed broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
