package domain

import (
	"strings"
	"time"
)

// Metadata carries flat routing attributes attached to a Message.
type Metadata map[string]string

// Message is the event envelope shared by the websocket hub and the brokers.
type Message struct {
	Topic      string    `json:"topic"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ResourceID string    `json:"resourceId,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	Data       any       `json:"data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewMessage builds a message for entity/action stamped with the current UTC time.
func NewMessage(entity, action, resourceID string, data any) *Message {
	return &Message{
		Topic:      CustomTopic(entity, action),
		Entity:     strings.TrimSpace(entity),
		Action:     strings.TrimSpace(action),
		ResourceID: strings.TrimSpace(resourceID),
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}
}

// WithMetadata sets key on the message metadata and returns the message.
func (m *Message) WithMetadata(key, value string) *Message {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return m
	}
	if m.Metadata == nil {
		m.Metadata = Metadata{}
	}
	m.Metadata[key] = value
	return m
}
