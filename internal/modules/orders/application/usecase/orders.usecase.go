package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"smartWaiter/internal/modules/orders/application/port"
	"smartWaiter/internal/modules/orders/domain"
	rtport "smartWaiter/internal/modules/realtime/application/port"
	rtdomain "smartWaiter/internal/modules/realtime/domain"
	robot "smartWaiter/internal/modules/robot/domain"
	"smartWaiter/internal/platform/store"
)

// StatusUpdate is the outcome of a status change. RobotCommand is set only when
// the change dispatched the robot.
type StatusUpdate struct {
	Order        domain.Order  `json:"order"`
	RobotCommand *robot.Result `json:"robot_command,omitempty"`
}

type OrdersUseCase struct {
	repo        port.OrderRepository
	tables      port.TableLookup
	robot       port.RobotDispatcher
	broadcaster rtport.Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

func NewOrdersUseCase(repo port.OrderRepository, tables port.TableLookup, dispatcher port.RobotDispatcher, broadcaster rtport.Broadcaster, logger *slog.Logger) *OrdersUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrdersUseCase{
		repo:        repo,
		tables:      tables,
		robot:       dispatcher,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *OrdersUseCase) List(ctx context.Context, filter domain.Filter) ([]domain.Order, error) {
	orders, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (uc *OrdersUseCase) Get(ctx context.Context, id int64) (domain.Order, error) {
	return uc.repo.Get(ctx, id)
}

// Create stamps created_at with the server clock and stores the order. A missing
// status starts the order as pending.
func (uc *OrdersUseCase) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	order.CreatedAt = domain.NewTimestamp(uc.now())
	return uc.repo.Create(ctx, order)
}

// UpdateStatus moves an order to status. Moving to ready sends the robot to the
// order's table and attaches the robot's answer to the result. A missing order
// is reported as an upstream failure; only Get answers not-found.
func (uc *OrdersUseCase) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (StatusUpdate, error) {
	order, err := uc.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		return StatusUpdate{}, store.NewUpstream("update order status", errors.New(err.Error()))
	}
	if err != nil {
		return StatusUpdate{}, err
	}
	uc.publish(ctx, order)

	update := StatusUpdate{Order: order}
	if !order.Status.TriggersDelivery() {
		return update, nil
	}

	table, err := uc.tables.Get(ctx, order.TableID)
	if errors.Is(err, store.ErrNotFound) {
		return StatusUpdate{}, fmt.Errorf("%w: order %d, table %d", domain.ErrUnknownTable, order.ID, order.TableID)
	}
	if err != nil {
		return StatusUpdate{}, fmt.Errorf("look up table %d for order %d: %w", order.TableID, order.ID, err)
	}
	result := uc.robot.SendCommand(ctx, robot.GoToTable(table.Number, order.ID))
	uc.logger.Info("robot dispatched for ready order",
		slog.Int64("order_id", order.ID),
		slog.Int("table_number", table.Number),
		slog.String("result", result.Status),
	)
	update.RobotCommand = &result
	return update, nil
}

func (uc *OrdersUseCase) publish(ctx context.Context, order domain.Order) {
	if uc.broadcaster == nil {
		return
	}
	msg := rtdomain.NewMessage(rtdomain.OrdersEntity, rtdomain.ActionStatusChanged, strconv.FormatInt(order.ID, 10), order).
		WithMetadata("status", string(order.Status)).
		WithMetadata("tableId", strconv.FormatInt(order.TableID, 10))
	uc.broadcaster.Broadcast(ctx, msg)
}
