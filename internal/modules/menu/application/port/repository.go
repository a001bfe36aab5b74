package port

import (
	"context"

	"smartWaiter/internal/modules/menu/domain"
)

// MenuRepository persists menu items.
type MenuRepository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int64) (domain.MenuItem, error)
	Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
}
