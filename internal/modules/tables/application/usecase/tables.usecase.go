package usecase

import (
	"context"

	"smartWaiter/internal/modules/tables/application/port"
	"smartWaiter/internal/modules/tables/domain"
)

type TablesUseCase struct {
	repo port.TableRepository
}

func NewTablesUseCase(repo port.TableRepository) *TablesUseCase {
	return &TablesUseCase{repo: repo}
}

func (uc *TablesUseCase) List(ctx context.Context) ([]domain.Table, error) {
	tables, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []domain.Table{}
	}
	return tables, nil
}

// Create stores a table, defaulting its status to available.
func (uc *TablesUseCase) Create(ctx context.Context, table domain.Table) (domain.Table, error) {
	return uc.repo.Create(ctx, table.WithDefaults())
}
