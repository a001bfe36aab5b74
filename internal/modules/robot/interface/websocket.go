package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"smartWaiter/internal/modules/realtime/infrastructure"
	rtinterface "smartWaiter/internal/modules/realtime/interface"
	"smartWaiter/internal/modules/robot/application/handler"
)

// ActionRobotCommand is the websocket action that forwards its payload to the robot.
const ActionRobotCommand = "robot_command"

// WebsocketOptions wires the robot into the realtime stream: the greeting carries
// the robot status and robot_command actions are executed on the controller.
func (h *Handler) WebsocketOptions(bufferSize int) rtinterface.WebsocketOptions {
	return rtinterface.WebsocketOptions{
		BufferSize: bufferSize,
		Greeting: func(context.Context) any {
			return h.robot.Status()
		},
		Commands: h.websocketCommand,
	}
}

func (h *Handler) websocketCommand(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
	if !strings.EqualFold(strings.TrimSpace(cmd.Action), ActionRobotCommand) {
		infrastructure.SendCommandError(client, cmd.Action, "unsupported action")
		return
	}
	robotCmd, err := handler.DecodeCommand(json.RawMessage(cmd.Payload))
	if err != nil {
		infrastructure.SendCommandError(client, cmd.Action, err.Error())
		return
	}
	result := h.robot.SendCommand(ctx, robotCmd)
	slog.Debug("ws robot command handled", slog.String("clientId", client.ID()), slog.String("status", result.Status))
	client.Send(handler.ResultMessage(robotCmd, result).WithMetadata("clientId", client.ID()))
}
