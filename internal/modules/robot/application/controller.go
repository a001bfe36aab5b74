package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	rtport "smartWaiter/internal/modules/realtime/application/port"
	rtdomain "smartWaiter/internal/modules/realtime/domain"
	"smartWaiter/internal/modules/robot/domain"
)

// Controller is the in-process stand-in for the delivery robot. It owns the robot
// state; movement commands wait the transit delay without holding the lock, so
// concurrent moves overlap and the last one to arrive wins.
type Controller struct {
	mu        sync.RWMutex
	connected bool
	position  string

	transitDelay time.Duration
	broadcaster  rtport.Broadcaster
	logger       *slog.Logger
}

type Option func(*Controller)

// WithBroadcaster publishes a robot.position-changed message after every move.
func WithBroadcaster(b rtport.Broadcaster) Option {
	return func(c *Controller) {
		c.broadcaster = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewController(transitDelay time.Duration, opts ...Option) *Controller {
	if transitDelay < 0 {
		transitDelay = 0
	}
	c := &Controller{
		position:     domain.PositionHome,
		transitDelay: transitDelay,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns a snapshot of the robot state.
func (c *Controller) Status() domain.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.Status{Connected: c.connected, CurrentPosition: c.position}
}

// SendCommand executes cmd and reports the outcome as a Result. It never returns
// an error: invalid commands, cancellations and panics all become error results.
func (c *Controller) SendCommand(ctx context.Context, cmd domain.Command) (result domain.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("robot command panicked", slog.Any("panic", r))
			result = domain.Failure(fmt.Errorf("robot command failed: %v", r))
		}
	}()

	c.logger.Info("sending command to robot", commandAttrs(cmd)...)

	if err := cmd.Validate(); err != nil {
		c.logger.Warn("robot command rejected", slog.String("command", string(cmd.Command)), slog.Any("error", err))
		return domain.Failure(err)
	}

	switch cmd.Command {
	case domain.CommandGoToTable:
		tableNumber := *cmd.TableNumber
		if err := c.travel(ctx, domain.TablePosition(tableNumber), cmd); err != nil {
			return domain.Failure(err)
		}
		return domain.Success(fmt.Sprintf("Robot moving to table %d", tableNumber))
	case domain.CommandReturnHome:
		if err := c.travel(ctx, domain.PositionHome, cmd); err != nil {
			return domain.Failure(err)
		}
		return domain.Success("Robot returning home")
	default:
		return domain.Success("Robot stopped")
	}
}

func (c *Controller) travel(ctx context.Context, destination string, cmd domain.Command) error {
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("robot transit to %s interrupted: %w", destination, err)
	}

	c.mu.Lock()
	previous := c.position
	c.position = destination
	status := domain.Status{Connected: c.connected, CurrentPosition: c.position}
	c.mu.Unlock()

	c.logger.Info("robot position changed", slog.String("from", previous), slog.String("to", destination))
	c.publish(ctx, previous, status, cmd)
	return nil
}

func (c *Controller) wait(ctx context.Context) error {
	if c.transitDelay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.transitDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Controller) publish(ctx context.Context, previous string, status domain.Status, cmd domain.Command) {
	if c.broadcaster == nil {
		return
	}
	resourceID := ""
	if cmd.OrderID != nil {
		resourceID = fmt.Sprint(*cmd.OrderID)
	}
	msg := rtdomain.NewMessage(rtdomain.RobotEntity, rtdomain.ActionPositionChanged, resourceID, status).
		WithMetadata("previousPosition", previous).
		WithMetadata("command", string(cmd.Command))
	c.broadcaster.Broadcast(ctx, msg)
}

func commandAttrs(cmd domain.Command) []any {
	attrs := []any{slog.String("command", string(cmd.Command))}
	if cmd.TableNumber != nil {
		attrs = append(attrs, slog.Int("table_number", *cmd.TableNumber))
	}
	if cmd.OrderID != nil {
		attrs = append(attrs, slog.Int64("order_id", *cmd.OrderID))
	}
	return attrs
}
