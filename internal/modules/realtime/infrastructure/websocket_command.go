package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"smartWaiter/internal/modules/realtime/domain"
)

const actionTimeout = 10 * time.Second

// Command is a frame sent by a websocket client.
type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CommandHandler serves a client action. ctx expires after actionTimeout.
type CommandHandler func(ctx context.Context, client *Client, cmd Command)

// actionRouter answers subscribe, unsubscribe and ping on the read loop and
// hands any other action to fallback on its own goroutine.
type actionRouter struct {
	builtin  map[string]func(*Client, Command)
	fallback CommandHandler
	timeout  time.Duration
}

func newActionRouter(hub *Hub, fallback CommandHandler) *actionRouter {
	return &actionRouter{
		builtin: map[string]func(*Client, Command){
			"subscribe": func(c *Client, cmd Command) {
				hub.follow(c, cmd.Topic)
			},
			"unsubscribe": func(c *Client, cmd Command) {
				hub.unfollow(c, cmd.Topic)
			},
			"ping": func(c *Client, _ Command) {
				c.Send(domain.NewMessage(domain.SystemEntity, domain.ActionPong, "", nil))
			},
		},
		fallback: fallback,
		timeout:  actionTimeout,
	}
}

func (r *actionRouter) dispatch(c *Client, cmd Command) {
	action := actionName(cmd.Action)
	if action == "" {
		return
	}
	if serve, ok := r.builtin[action]; ok {
		serve(c, cmd)
		slog.Debug("ws action served", slog.String("clientId", c.id), slog.String("action", action), slog.String("topic", cmd.Topic))
		return
	}
	if r.fallback == nil {
		slog.Debug("ws action ignored", slog.String("clientId", c.id), slog.String("action", action))
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.fallback(ctx, c, cmd)
	}()
}

func actionName(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}

// SendCommandError answers a failed client action on the system error topic.
func SendCommandError(client *Client, action, reason string) {
	if client == nil {
		return
	}
	client.Send(domain.NewMessage(domain.SystemEntity, domain.ActionError, "", map[string]string{"error": reason}).
		WithMetadata("action", actionName(action)).
		WithMetadata("clientId", client.id))
}
