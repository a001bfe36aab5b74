package usecase

import (
	"context"

	"smartWaiter/internal/modules/menu/application/port"
	"smartWaiter/internal/modules/menu/domain"
)

type MenuUseCase struct {
	repo port.MenuRepository
}

func NewMenuUseCase(repo port.MenuRepository) *MenuUseCase {
	return &MenuUseCase{repo: repo}
}

func (uc *MenuUseCase) List(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return items, nil
}

func (uc *MenuUseCase) Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	return uc.repo.Create(ctx, item)
}
