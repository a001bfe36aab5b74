package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	domain "smartWaiter/internal/modules/realtime/domain"
	"smartWaiter/internal/modules/realtime/infrastructure"
	"smartWaiter/internal/shared/normalization"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// entityTopics lists the topics a client receives when it subscribes by entity name.
var entityTopics = map[string][]string{
	domain.OrdersEntity: {domain.TopicOrderStatusChanged},
	domain.RobotEntity:  {domain.TopicRobotPositionChanged, domain.TopicRobotCommandResult},
}

// GreetingFunc supplies the data attached to the system.connected message.
type GreetingFunc func(ctx context.Context) any

type WebsocketOptions struct {
	BufferSize int
	Greeting   GreetingFunc
	Commands   infrastructure.CommandHandler
}

// NewWebsocketHandler upgrades the request and attaches the client to hub. Clients may narrow
// the stream with ?topics=a,b or ?entities=orders,robot; otherwise they receive every message.
func NewWebsocketHandler(hub *infrastructure.Hub, opts WebsocketOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		topics := requestedTopics(c.QueryParam("topics"), c.QueryParam("entities"))
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		clientID := requestID
		if clientID == "" {
			clientID = uuid.NewString()
		}
		peerIP := c.RealIP()

		var greeting any
		if opts.Greeting != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			greeting = opts.Greeting(ctx)
			cancel()
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws handler upgrade failed", slog.String("ip", peerIP), slog.String("requestId", requestID), slog.Any("error", err))
			return err
		}

		client := infrastructure.NewClient(hub, conn, clientID, peerIP, opts.BufferSize, opts.Commands)
		if len(topics) == 0 {
			hub.AttachClientToAll(client)
		} else {
			hub.AttachClient(client, topics)
		}

		go client.Run()

		connected := domain.NewMessage(domain.SystemEntity, domain.ActionConnected, clientID, map[string]any{
			"clientId": clientID,
			"topics":   topics,
			"status":   greeting,
		})
		client.Send(connected)
		slog.Info("ws handler sent system.connected", slog.String("clientId", clientID), slog.String("ip", peerIP), slog.Any("topics", topics))

		return nil
	}
}

func requestedTopics(rawTopics, rawEntities string) []string {
	topics := make([]string, 0)
	seen := make(map[string]struct{})
	add := func(topic string) {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			return
		}
		if _, exists := seen[topic]; exists {
			return
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}

	for _, topic := range strings.Split(rawTopics, ",") {
		add(topic)
	}
	for _, entity := range strings.Split(rawEntities, ",") {
		if strings.TrimSpace(entity) == "" {
			continue
		}
		if !normalization.IsValidEntity(entity) {
			slog.Debug("ws handler ignored unknown entity", slog.String("entity", entity))
			continue
		}
		for _, topic := range entityTopics[normalization.NormalizeEntity(entity)] {
			add(topic)
		}
	}
	return topics
}
