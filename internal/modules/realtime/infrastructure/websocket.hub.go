package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"smartWaiter/internal/modules/realtime/domain"
)

// Hub fans realtime messages out to connected dashboards and tablets. Each
// session carries its own topic filter; the hub only tracks who is connected.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Client
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Client)}
}

// AttachClient connects c with a filter limited to topics. Blank topics are skipped.
func (h *Hub) AttachClient(c *Client, topics []string) {
	h.join(c, func(f *topicFilter) {
		for _, topic := range topics {
			f.add(topic)
		}
	})
	slog.Info("ws session joined", slog.String("clientId", c.id), slog.Any("topics", topics))
}

// AttachClientToAll connects c with a filter that accepts every topic.
func (h *Hub) AttachClientToAll(c *Client) {
	h.join(c, func(f *topicFilter) { f.all = true })
	slog.Info("ws session joined for every topic", slog.String("clientId", c.id))
}

// join registers c, closing any older session that used the same id.
func (h *Hub) join(c *Client, setup func(*topicFilter)) {
	h.mu.Lock()
	setup(&c.filter)
	previous := h.sessions[c.id]
	h.sessions[c.id] = c
	h.mu.Unlock()

	if previous != nil && previous != c {
		previous.shutdown()
		slog.Info("ws session replaced", slog.String("clientId", c.id), slog.String("remoteAddr", c.remoteAddr))
	}
}

func (h *Hub) follow(c *Client, topic string) {
	h.mu.Lock()
	c.filter.add(topic)
	h.mu.Unlock()
}

func (h *Hub) unfollow(c *Client, topic string) {
	h.mu.Lock()
	c.filter.remove(topic)
	h.mu.Unlock()
}

// drop ends c and forgets it unless a newer session already took its id.
func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	if h.sessions[c.id] == c {
		delete(h.sessions, c.id)
	}
	h.mu.Unlock()

	if c.shutdown() {
		slog.Info("ws session left", slog.String("clientId", c.id))
	}
}

// ClientCount reports the number of connected sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast delivers msg to every session whose filter accepts its topic. A
// "clientId" metadata entry narrows delivery to that session. Sessions whose
// outbox is full are dropped.
func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	frame, err := json.Marshal(msg)
	if err != nil {
		slog.Error("ws broadcast encode failed", slog.String("topic", msg.Topic), slog.Any("error", err))
		return
	}
	for _, c := range h.recipients(msg) {
		if !c.offer(frame) {
			slog.Warn("ws session too slow", slog.String("clientId", c.id), slog.String("topic", msg.Topic))
			go h.drop(c)
		}
	}
}

func (h *Hub) recipients(msg *domain.Message) []*Client {
	target := strings.TrimSpace(msg.Metadata["clientId"])

	h.mu.RLock()
	defer h.mu.RUnlock()
	if target != "" {
		if c, ok := h.sessions[target]; ok && c.filter.accepts(msg.Topic) {
			return []*Client{c}
		}
		return nil
	}
	matched := make([]*Client, 0, len(h.sessions))
	for _, c := range h.sessions {
		if c.filter.accepts(msg.Topic) {
			matched = append(matched, c)
		}
	}
	return matched
}

// topicFilter is the set of topics a session listens to. all accepts everything.
type topicFilter struct {
	all    bool
	topics map[string]struct{}
}

func (f *topicFilter) add(topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return
	}
	if f.topics == nil {
		f.topics = make(map[string]struct{})
	}
	f.topics[topic] = struct{}{}
}

func (f *topicFilter) remove(topic string) {
	delete(f.topics, strings.TrimSpace(topic))
}

func (f *topicFilter) accepts(topic string) bool {
	if f.all {
		return true
	}
	_, ok := f.topics[topic]
	return ok
}
