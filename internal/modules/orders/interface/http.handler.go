package transport

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"smartWaiter/internal/modules/orders/application/usecase"
	"smartWaiter/internal/modules/orders/domain"
	"smartWaiter/internal/shared/httputil"
)

type orderItemRequest struct {
	MenuItemID          *int64  `json:"menu_item_id" validate:"required"`
	Quantity            *int    `json:"quantity" validate:"required"`
	SpecialInstructions *string `json:"special_instructions"`
}

type createOrderRequest struct {
	ID          *int64             `json:"id"`
	TableID     *int64             `json:"table_id" validate:"required"`
	Items       []orderItemRequest `json:"items" validate:"required,dive"`
	Status      *string            `json:"status" validate:"omitempty,oneof=pending preparing ready delivered"`
	TotalAmount *float64           `json:"total_amount" validate:"required"`
}

func (r createOrderRequest) toDomain() domain.Order {
	order := domain.Order{
		TableID:     *r.TableID,
		Items:       make([]domain.OrderItem, 0, len(r.Items)),
		TotalAmount: *r.TotalAmount,
	}
	if r.ID != nil {
		order.ID = *r.ID
	}
	if r.Status != nil {
		order.Status = domain.OrderStatus(*r.Status)
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID:          *item.MenuItemID,
			Quantity:            *item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	return order
}

type Handler struct {
	orders *usecase.OrdersUseCase
}

func NewHandler(orders *usecase.OrdersUseCase) *Handler {
	return &Handler{orders: orders}
}

// Register mounts the /orders routes.
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id/status", h.updateStatus)
}

func (h *Handler) list(c echo.Context) error {
	filter := domain.Filter{Status: domain.OrderStatus(strings.TrimSpace(c.QueryParam("status")))}
	orders, err := h.orders.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) create(c echo.Context) error {
	var req createOrderRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.orders.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}

func (h *Handler) get(c echo.Context) error {
	id, err := httputil.PathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// updateStatus answers with the bare order unless the robot was dispatched, in
// which case the body is {order, robot_command}.
func (h *Handler) updateStatus(c echo.Context) error {
	id, err := httputil.PathID(c, "id")
	if err != nil {
		return err
	}
	status, err := domain.ParseOrderStatus(c.QueryParam("status"))
	if err != nil {
		return err
	}
	update, err := h.orders.UpdateStatus(c.Request().Context(), id, status)
	if err != nil {
		return err
	}
	if update.RobotCommand == nil {
		return c.JSON(http.StatusOK, update.Order)
	}
	return c.JSON(http.StatusOK, update)
}
