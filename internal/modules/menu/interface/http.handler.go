package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"smartWaiter/internal/modules/menu/application/usecase"
	"smartWaiter/internal/modules/menu/domain"
	"smartWaiter/internal/shared/httputil"
)

type createMenuItemRequest struct {
	ID          *int64   `json:"id"`
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Category    *string  `json:"category" validate:"required"`
	Available   *bool    `json:"available"`
}

func (r createMenuItemRequest) toDomain() domain.MenuItem {
	item := domain.MenuItem{
		Name:        *r.Name,
		Description: *r.Description,
		Price:       *r.Price,
		Category:    *r.Category,
		Available:   true,
	}
	if r.ID != nil {
		item.ID = *r.ID
	}
	if r.Available != nil {
		item.Available = *r.Available
	}
	return item
}

type Handler struct {
	menu *usecase.MenuUseCase
}

func NewHandler(menu *usecase.MenuUseCase) *Handler {
	return &Handler{menu: menu}
}

// Register mounts GET and POST /menu.
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.list)
	g.POST("", h.create)
}

func (h *Handler) list(c echo.Context) error {
	items, err := h.menu.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c echo.Context) error {
	var req createMenuItemRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.menu.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}
