package infrastructure

import (
	"context"
	"sync"

	"smartWaiter/internal/modules/realtime/application/port"
	"smartWaiter/internal/modules/realtime/domain"
)

// HandlerRegistry routes consumed broker messages to the handler registered for their topic.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	if h == nil || h.Topic() == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Topic()] = h
}

// Topics lists the topics that have a registered handler.
func (r *HandlerRegistry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	r.mu.RLock()
	handler, ok := r.handlers[msg.Topic]
	r.mu.RUnlock()
	if ok {
		return handler.Handle(ctx, msg)
	}
	return nil
}
