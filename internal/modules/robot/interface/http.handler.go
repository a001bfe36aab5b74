package transport

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"smartWaiter/internal/modules/robot/domain"
	"smartWaiter/internal/shared/httputil"
)

// Controller is the robot surface the HTTP layer needs.
type Controller interface {
	SendCommand(ctx context.Context, cmd domain.Command) domain.Result
	Status() domain.Status
}

type commandRequest struct {
	Command     *string `json:"command" validate:"required"`
	TableNumber *int    `json:"table_number"`
	OrderID     *int64  `json:"order_id"`
}

func (r commandRequest) toDomain() domain.Command {
	return domain.Command{
		Command:     domain.CommandKind(*r.Command),
		TableNumber: r.TableNumber,
		OrderID:     r.OrderID,
	}
}

type Handler struct {
	robot Controller
}

func NewHandler(robot Controller) *Handler {
	return &Handler{robot: robot}
}

// Register mounts POST /robot/command and GET /robot/status.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/command", h.sendCommand)
	g.GET("/status", h.status)
}

// sendCommand always answers 200; robot failures travel in the result body.
func (h *Handler) sendCommand(c echo.Context) error {
	var req commandRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	result := h.robot.SendCommand(c.Request().Context(), req.toDomain())
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.robot.Status())
}
