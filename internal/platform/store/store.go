package store

import (
	menuport "smartWaiter/internal/modules/menu/application/port"
	orderport "smartWaiter/internal/modules/orders/application/port"
	tableport "smartWaiter/internal/modules/tables/application/port"
)

// Store bundles the repositories a driver provides.
type Store struct {
	Tables tableport.TableRepository
	Menu   menuport.MenuRepository
	Orders orderport.OrderRepository

	closeFn func()
}

func New(tables tableport.TableRepository, menu menuport.MenuRepository, orders orderport.OrderRepository, closeFn func()) *Store {
	return &Store{Tables: tables, Menu: menu, Orders: orders, closeFn: closeFn}
}

// Close releases the driver resources.
func (s *Store) Close() {
	if s != nil && s.closeFn != nil {
		s.closeFn()
	}
}
