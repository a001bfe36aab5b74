package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	menu "smartWaiter/internal/modules/menu/domain"
	orders "smartWaiter/internal/modules/orders/domain"
	tables "smartWaiter/internal/modules/tables/domain"
)

const (
	tableColumns    = "id, number, capacity, status"
	menuItemColumns = "id, name, description, price, category, available"
	orderColumns    = "id, table_id, items, status, total_amount, created_at"
)

// collect adapts a single-row scanner to pgx.CollectRows.
func collect[T any](scan func(pgx.Row) (T, error)) pgx.RowToFunc[T] {
	return func(row pgx.CollectableRow) (T, error) {
		return scan(row)
	}
}

// insertWithID runs an insert that names its own id and then moves the table's
// id sequence past the highest stored id, both in one transaction.
func insertWithID[T any](ctx context.Context, pool *pgxpool.Pool, table string, scan func(pgx.Row) (T, error), query string, args ...any) (T, error) {
	var created T
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		var err error
		if created, err = scan(tx.QueryRow(ctx, query, args...)); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, resyncSequence(table))
		return err
	})
	return created, err
}

func resyncSequence(table string) string {
	return fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST((SELECT MAX(id) FROM %[1]s), 1))", table)
}

// TableRepository provides database operations for dining tables.
type TableRepository struct {
	pool *pgxpool.Pool
}

func NewTableRepository(pool *pgxpool.Pool) *TableRepository {
	return &TableRepository{pool: pool}
}

func (r *TableRepository) List(ctx context.Context) ([]tables.Table, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+tableColumns+" FROM tables ORDER BY id")
	if err != nil {
		return nil, classify(ctx, "table", "list tables", err)
	}
	result, err := pgx.CollectRows(rows, collect(scanTable))
	if err != nil {
		return nil, classify(ctx, "table", "list tables", err)
	}
	return result, nil
}

func (r *TableRepository) Get(ctx context.Context, id int64) (tables.Table, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+tableColumns+" FROM tables WHERE id = $1", id)
	table, err := scanTable(row)
	if err != nil {
		return tables.Table{}, notFoundOr(ctx, err, "Table", id, "get table")
	}
	return table, nil
}

func (r *TableRepository) Create(ctx context.Context, table tables.Table) (tables.Table, error) {
	var (
		created tables.Table
		err     error
	)
	if table.ID != 0 {
		created, err = insertWithID(ctx, r.pool, "tables", scanTable,
			"INSERT INTO tables (id, number, capacity, status) VALUES ($1, $2, $3, $4) RETURNING "+tableColumns,
			table.ID, table.Number, table.Capacity, string(table.Status))
	} else {
		created, err = scanTable(r.pool.QueryRow(ctx,
			"INSERT INTO tables (number, capacity, status) VALUES ($1, $2, $3) RETURNING "+tableColumns,
			table.Number, table.Capacity, string(table.Status)))
	}
	if err != nil {
		return tables.Table{}, classify(ctx, "table", "create table", err)
	}
	return created, nil
}

func scanTable(row pgx.Row) (tables.Table, error) {
	var table tables.Table
	var status string
	if err := row.Scan(&table.ID, &table.Number, &table.Capacity, &status); err != nil {
		return tables.Table{}, err
	}
	table.Status = tables.TableStatus(status)
	return table, nil
}

// MenuRepository provides database operations for menu items.
type MenuRepository struct {
	pool *pgxpool.Pool
}

func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

func (r *MenuRepository) List(ctx context.Context) ([]menu.MenuItem, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+menuItemColumns+" FROM menu_items ORDER BY id")
	if err != nil {
		return nil, classify(ctx, "menu item", "list menu items", err)
	}
	result, err := pgx.CollectRows(rows, collect(scanMenuItem))
	if err != nil {
		return nil, classify(ctx, "menu item", "list menu items", err)
	}
	return result, nil
}

func (r *MenuRepository) Get(ctx context.Context, id int64) (menu.MenuItem, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+menuItemColumns+" FROM menu_items WHERE id = $1", id)
	item, err := scanMenuItem(row)
	if err != nil {
		return menu.MenuItem{}, notFoundOr(ctx, err, "Menu item", id, "get menu item")
	}
	return item, nil
}

func (r *MenuRepository) Create(ctx context.Context, item menu.MenuItem) (menu.MenuItem, error) {
	var (
		created menu.MenuItem
		err     error
	)
	if item.ID != 0 {
		created, err = insertWithID(ctx, r.pool, "menu_items", scanMenuItem,
			"INSERT INTO menu_items (id, name, description, price, category, available) VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+menuItemColumns,
			item.ID, item.Name, item.Description, item.Price, item.Category, item.Available)
	} else {
		created, err = scanMenuItem(r.pool.QueryRow(ctx,
			"INSERT INTO menu_items (name, description, price, category, available) VALUES ($1, $2, $3, $4, $5) RETURNING "+menuItemColumns,
			item.Name, item.Description, item.Price, item.Category, item.Available))
	}
	if err != nil {
		return menu.MenuItem{}, classify(ctx, "menu item", "create menu item", err)
	}
	return created, nil
}

func scanMenuItem(row pgx.Row) (menu.MenuItem, error) {
	var item menu.MenuItem
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.Available)
	return item, err
}

// OrderRepository provides database operations for orders. Items are stored as a jsonb array.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) List(ctx context.Context, filter orders.Filter) ([]orders.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders"
	args := make([]any, 0, 1)
	if filter.Status != "" {
		query += " WHERE status = $1"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(ctx, "order", "list orders", err)
	}
	result, err := pgx.CollectRows(rows, collect(scanOrder))
	if err != nil {
		return nil, classify(ctx, "order", "list orders", err)
	}
	return result, nil
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (orders.Order, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	order, err := scanOrder(row)
	if err != nil {
		return orders.Order{}, notFoundOr(ctx, err, "Order", id, "get order")
	}
	return order, nil
}

func (r *OrderRepository) Create(ctx context.Context, order orders.Order) (orders.Order, error) {
	items, err := encodeItems(order.Items)
	if err != nil {
		return orders.Order{}, err
	}
	createdAt := time.Now().UTC()
	if order.CreatedAt != nil {
		createdAt = order.CreatedAt.Time
	}

	var created orders.Order
	if order.ID != 0 {
		created, err = insertWithID(ctx, r.pool, "orders", scanOrder,
			"INSERT INTO orders (id, table_id, items, status, total_amount, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+orderColumns,
			order.ID, order.TableID, items, string(order.Status), order.TotalAmount, createdAt)
	} else {
		created, err = scanOrder(r.pool.QueryRow(ctx,
			"INSERT INTO orders (table_id, items, status, total_amount, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING "+orderColumns,
			order.TableID, items, string(order.Status), order.TotalAmount, createdAt))
	}
	if err != nil {
		return orders.Order{}, classify(ctx, "order", "create order", err)
	}
	return created, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status orders.OrderStatus) (orders.Order, error) {
	row := r.pool.QueryRow(ctx, "UPDATE orders SET status = $2 WHERE id = $1 RETURNING "+orderColumns, id, string(status))
	updated, err := scanOrder(row)
	if err != nil {
		return orders.Order{}, notFoundOr(ctx, err, "Order", id, "update order status")
	}
	return updated, nil
}

func scanOrder(row pgx.Row) (orders.Order, error) {
	var (
		order     orders.Order
		items     []byte
		status    string
		createdAt time.Time
	)
	if err := row.Scan(&order.ID, &order.TableID, &items, &status, &order.TotalAmount, &createdAt); err != nil {
		return orders.Order{}, err
	}
	decoded, err := decodeItems(items)
	if err != nil {
		return orders.Order{}, err
	}
	order.Items = decoded
	order.Status = orders.OrderStatus(status)
	order.CreatedAt = orders.NewTimestamp(createdAt)
	return order, nil
}

func encodeItems(items []orders.OrderItem) ([]byte, error) {
	if items == nil {
		items = []orders.OrderItem{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}
	return encoded, nil
}

func decodeItems(raw []byte) ([]orders.OrderItem, error) {
	items := make([]orders.OrderItem, 0)
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return items, nil
}
