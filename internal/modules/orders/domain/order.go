package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidStatus is returned for status values outside the order lifecycle.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrUnknownTable means a ready order points at a table the store does not have.
	ErrUnknownTable = errors.New("order references an unknown table")
)

// OrderStatus tracks an order through the kitchen and delivery lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
)

var allowedOrderStatuses = map[string]OrderStatus{
	string(OrderStatusPending):   OrderStatusPending,
	string(OrderStatusPreparing): OrderStatusPreparing,
	string(OrderStatusReady):     OrderStatusReady,
	string(OrderStatusDelivered): OrderStatusDelivered,
}

// ParseOrderStatus validates raw against the known statuses. Matching is exact
// after trimming so the stored value always equals the filter value.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	trimmed := strings.TrimSpace(raw)
	if status, ok := allowedOrderStatuses[trimmed]; ok {
		return status, nil
	}
	return "", fmt.Errorf("%w: %q (expected pending, preparing, ready or delivered)", ErrInvalidStatus, raw)
}

// TriggersDelivery reports whether moving to this status dispatches the robot.
func (s OrderStatus) TriggersDelivery() bool {
	return s == OrderStatusReady
}

// OrderItem is a line of an order. It is embedded in the order record and never stored on its own.
type OrderItem struct {
	MenuItemID          int64   `json:"menu_item_id"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"special_instructions"`
}

// Order is a table's request to the kitchen. TotalAmount is whatever the client
// supplied; it is not recomputed from Items.
type Order struct {
	ID          int64       `json:"id,omitempty"`
	TableID     int64       `json:"table_id"`
	Items       []OrderItem `json:"items"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   *Timestamp  `json:"created_at,omitempty"`
}

// Filter narrows order listings. Zero values match everything.
type Filter struct {
	Status OrderStatus
}
