package domain

import "strings"

const (
	SystemEntity = "system"
	OrdersEntity = "orders"
	RobotEntity  = "robot"

	ActionConnected       = "connected"
	ActionPong            = "pong"
	ActionError           = "error"
	ActionStatusChanged   = "status-changed"
	ActionPositionChanged = "position-changed"
	ActionCommandResult   = "command-result"

	TopicSystemConnected = SystemEntity + "." + ActionConnected
	TopicSystemPong      = SystemEntity + "." + ActionPong
	TopicSystemError     = SystemEntity + "." + ActionError

	TopicOrderStatusChanged   = OrdersEntity + "." + ActionStatusChanged
	TopicRobotPositionChanged = RobotEntity + "." + ActionPositionChanged
	TopicRobotCommandResult   = RobotEntity + "." + ActionCommandResult
)

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}

// SplitTopic infers the entity and action encoded in a dotted topic name.
func SplitTopic(topic string) (string, string) {
	parts := strings.Split(strings.TrimSpace(topic), ".")
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return entity, action
		}
	}
	if last := strings.TrimSpace(parts[len(parts)-1]); last != "" {
		return last, "unknown"
	}
	return "", "unknown"
}
