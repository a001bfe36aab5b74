package postgrest

import (
	"context"
	"errors"
	"strconv"

	pgrst "github.com/supabase-community/postgrest-go"

	menu "smartWaiter/internal/modules/menu/domain"
	orders "smartWaiter/internal/modules/orders/domain"
	tables "smartWaiter/internal/modules/tables/domain"
	"smartWaiter/internal/platform/store"
)

const (
	tablesTable    = "tables"
	menuItemsTable = "menu_items"
	ordersTable    = "orders"
)

var errEmptyRepresentation = errors.New("store returned no rows")

var ascending = &pgrst.OrderOpts{Ascending: true}

func selectAll(q *pgrst.QueryBuilder) *pgrst.FilterBuilder {
	return q.Select("*", "", false).Order("id", ascending)
}

func selectByID(id int64) builder {
	return func(q *pgrst.QueryBuilder) *pgrst.FilterBuilder {
		return q.Select("*", "", false).Eq("id", strconv.FormatInt(id, 10))
	}
}

func insert(value any) builder {
	return func(q *pgrst.QueryBuilder) *pgrst.FilterBuilder {
		return q.Insert(value, false, "", "representation", "")
	}
}

type TableRepository struct {
	client *Client
}

func NewTableRepository(client *Client) *TableRepository {
	return &TableRepository{client: client}
}

func (r *TableRepository) List(ctx context.Context) ([]tables.Table, error) {
	return run[tables.Table](ctx, r.client, "get "+tablesTable, tablesTable, selectAll)
}

func (r *TableRepository) Get(ctx context.Context, id int64) (tables.Table, error) {
	rows, err := run[tables.Table](ctx, r.client, "get "+tablesTable, tablesTable, selectByID(id))
	if err != nil {
		return tables.Table{}, err
	}
	return first(rows, store.NewNotFound("Table", "id", id))
}

func (r *TableRepository) Create(ctx context.Context, table tables.Table) (tables.Table, error) {
	rows, err := run[tables.Table](ctx, r.client, "post "+tablesTable, tablesTable, insert(table))
	if err != nil {
		return tables.Table{}, err
	}
	return first(rows, store.NewUpstream("post "+tablesTable, errEmptyRepresentation))
}

type MenuRepository struct {
	client *Client
}

func NewMenuRepository(client *Client) *MenuRepository {
	return &MenuRepository{client: client}
}

func (r *MenuRepository) List(ctx context.Context) ([]menu.MenuItem, error) {
	return run[menu.MenuItem](ctx, r.client, "get "+menuItemsTable, menuItemsTable, selectAll)
}

func (r *MenuRepository) Get(ctx context.Context, id int64) (menu.MenuItem, error) {
	rows, err := run[menu.MenuItem](ctx, r.client, "get "+menuItemsTable, menuItemsTable, selectByID(id))
	if err != nil {
		return menu.MenuItem{}, err
	}
	return first(rows, store.NewNotFound("Menu item", "id", id))
}

func (r *MenuRepository) Create(ctx context.Context, item menu.MenuItem) (menu.MenuItem, error) {
	rows, err := run[menu.MenuItem](ctx, r.client, "post "+menuItemsTable, menuItemsTable, insert(item))
	if err != nil {
		return menu.MenuItem{}, err
	}
	return first(rows, store.NewUpstream("post "+menuItemsTable, errEmptyRepresentation))
}

type OrderRepository struct {
	client *Client
}

func NewOrderRepository(client *Client) *OrderRepository {
	return &OrderRepository{client: client}
}

func (r *OrderRepository) List(ctx context.Context, filter orders.Filter) ([]orders.Order, error) {
	return run[orders.Order](ctx, r.client, "get "+ordersTable, ordersTable, func(q *pgrst.QueryBuilder) *pgrst.FilterBuilder {
		query := selectAll(q)
		if filter.Status != "" {
			query = query.Eq("status", string(filter.Status))
		}
		return query
	})
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (orders.Order, error) {
	rows, err := run[orders.Order](ctx, r.client, "get "+ordersTable, ordersTable, selectByID(id))
	if err != nil {
		return orders.Order{}, err
	}
	return first(rows, store.NewNotFound("Order", "id", id))
}

func (r *OrderRepository) Create(ctx context.Context, order orders.Order) (orders.Order, error) {
	rows, err := run[orders.Order](ctx, r.client, "post "+ordersTable, ordersTable, insert(order))
	if err != nil {
		return orders.Order{}, err
	}
	return first(rows, store.NewUpstream("post "+ordersTable, errEmptyRepresentation))
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status orders.OrderStatus) (orders.Order, error) {
	rows, err := run[orders.Order](ctx, r.client, "patch "+ordersTable, ordersTable, func(q *pgrst.QueryBuilder) *pgrst.FilterBuilder {
		return q.Update(map[string]string{"status": string(status)}, "representation", "").
			Eq("id", strconv.FormatInt(id, 10))
	})
	if err != nil {
		return orders.Order{}, err
	}
	return first(rows, store.NewNotFound("Order", "id", id))
}
