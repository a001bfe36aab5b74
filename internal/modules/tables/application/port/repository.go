package port

import (
	"context"

	"smartWaiter/internal/modules/tables/domain"
)

// TableRepository persists dining tables.
type TableRepository interface {
	List(ctx context.Context) ([]domain.Table, error)
	Get(ctx context.Context, id int64) (domain.Table, error)
	Create(ctx context.Context, table domain.Table) (domain.Table, error)
}
