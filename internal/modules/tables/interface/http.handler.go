package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"smartWaiter/internal/modules/tables/application/usecase"
	"smartWaiter/internal/modules/tables/domain"
	"smartWaiter/internal/shared/httputil"
)

type createTableRequest struct {
	ID       *int64  `json:"id"`
	Number   *int    `json:"number" validate:"required"`
	Capacity *int    `json:"capacity" validate:"required"`
	Status   *string `json:"status" validate:"omitempty,oneof=available occupied reserved"`
}

func (r createTableRequest) toDomain() domain.Table {
	table := domain.Table{Number: *r.Number, Capacity: *r.Capacity}
	if r.ID != nil {
		table.ID = *r.ID
	}
	if r.Status != nil {
		table.Status = domain.NormalizeTableStatus(*r.Status)
	}
	return table
}

type Handler struct {
	tables *usecase.TablesUseCase
}

func NewHandler(tables *usecase.TablesUseCase) *Handler {
	return &Handler{tables: tables}
}

// Register mounts GET and POST /tables.
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.list)
	g.POST("", h.create)
}

func (h *Handler) list(c echo.Context) error {
	tables, err := h.tables.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *Handler) create(c echo.Context) error {
	var req createTableRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.tables.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}
