package port

import (
	"context"

	"smartWaiter/internal/modules/orders/domain"
	robot "smartWaiter/internal/modules/robot/domain"
	tables "smartWaiter/internal/modules/tables/domain"
)

// OrderRepository persists orders.
type OrderRepository interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error)
}

// TableLookup resolves the table an order belongs to.
type TableLookup interface {
	Get(ctx context.Context, id int64) (tables.Table, error)
}

// RobotDispatcher sends delivery commands to the robot.
type RobotDispatcher interface {
	SendCommand(ctx context.Context, cmd robot.Command) robot.Result
}
