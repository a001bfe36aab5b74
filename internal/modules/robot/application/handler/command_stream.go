package handler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	rtport "smartWaiter/internal/modules/realtime/application/port"
	rtdomain "smartWaiter/internal/modules/realtime/domain"
	"smartWaiter/internal/modules/robot/domain"
	"smartWaiter/internal/shared/normalization"
)

var ErrEmptyCommand = errors.New("robot command payload has no command")

// Dispatcher executes robot commands.
type Dispatcher interface {
	SendCommand(ctx context.Context, cmd domain.Command) domain.Result
}

// CommandStreamHandler feeds robot commands consumed from a broker topic into the
// controller and publishes each outcome as robot.command-result.
type CommandStreamHandler struct {
	topic       string
	dispatcher  Dispatcher
	broadcaster rtport.Broadcaster
	logger      *slog.Logger
}

func NewCommandStreamHandler(topic string, dispatcher Dispatcher, broadcaster rtport.Broadcaster, logger *slog.Logger) *CommandStreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandStreamHandler{
		topic:       strings.TrimSpace(topic),
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (h *CommandStreamHandler) Topic() string {
	return h.topic
}

func (h *CommandStreamHandler) Handle(ctx context.Context, msg *rtdomain.Message) error {
	if msg == nil {
		return nil
	}
	cmd, err := DecodeCommand(msg.Data)
	if err != nil {
		h.logger.Warn("robot command stream skipped message", slog.String("topic", msg.Topic), slog.Any("error", err))
		return err
	}
	if cmd.OrderID == nil && msg.ResourceID != "" {
		if id, parseErr := strconv.ParseInt(msg.ResourceID, 10, 64); parseErr == nil {
			cmd.OrderID = &id
		}
	}

	result := h.dispatcher.SendCommand(ctx, cmd)
	h.logger.Info("robot command stream handled message",
		slog.String("command", string(cmd.Command)),
		slog.String("status", result.Status),
		slog.String("message", result.Message),
	)
	if h.broadcaster != nil {
		h.broadcaster.Broadcast(ctx, ResultMessage(cmd, result).WithMetadata("source", "broker"))
	}
	return nil
}

// DecodeCommand reads a robot command from a loosely typed payload: a map, JSON
// bytes or text, optionally wrapped in a "data" envelope.
func DecodeCommand(payload any) (domain.Command, error) {
	fields := normalization.MapFromPayload(payload)
	kind := normalization.AsString(fields["command"])
	if kind == "" {
		return domain.Command{}, ErrEmptyCommand
	}
	cmd := domain.Command{
		Command:     domain.CommandKind(kind),
		TableNumber: normalization.OptionalInt(fields, "table_number"),
	}
	if orderID := normalization.OptionalInt(fields, "order_id"); orderID != nil {
		id := int64(*orderID)
		cmd.OrderID = &id
	}
	return cmd.Normalized(), nil
}

// ResultMessage wraps a command outcome as a robot.command-result message.
func ResultMessage(cmd domain.Command, result domain.Result) *rtdomain.Message {
	resourceID := ""
	if cmd.OrderID != nil {
		resourceID = strconv.FormatInt(*cmd.OrderID, 10)
	}
	return rtdomain.NewMessage(rtdomain.RobotEntity, rtdomain.ActionCommandResult, resourceID, result).
		WithMetadata("command", string(cmd.Command)).
		WithMetadata("status", result.Status)
}
