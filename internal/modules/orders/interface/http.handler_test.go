package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartWaiter/internal/modules/orders/application/usecase"
	"smartWaiter/internal/modules/orders/domain"
	robot "smartWaiter/internal/modules/robot/domain"
	tables "smartWaiter/internal/modules/tables/domain"
	"smartWaiter/internal/platform/server"
	"smartWaiter/internal/platform/store"
)

type memoryOrders struct {
	orders map[int64]domain.Order
	nextID int64
}

func (m *memoryOrders) List(_ context.Context, filter domain.Filter) ([]domain.Order, error) {
	result := make([]domain.Order, 0)
	for id := int64(1); id <= m.nextID; id++ {
		order, ok := m.orders[id]
		if ok && (filter.Status == "" || order.Status == filter.Status) {
			result = append(result, order)
		}
	}
	return result, nil
}

func (m *memoryOrders) Get(_ context.Context, id int64) (domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return domain.Order{}, store.NewNotFound("Order", "id", id)
	}
	return order, nil
}

func (m *memoryOrders) Create(_ context.Context, order domain.Order) (domain.Order, error) {
	m.nextID++
	order.ID = m.nextID
	m.orders[order.ID] = order
	return order, nil
}

func (m *memoryOrders) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	order, err := m.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Status = status
	m.orders[id] = order
	return order, nil
}

type tableLookup struct{}

func (tableLookup) Get(_ context.Context, id int64) (tables.Table, error) {
	return tables.Table{ID: id, Number: int(id) + 100, Capacity: 4, Status: tables.TableStatusOccupied}, nil
}

type stubRobot struct{}

func (stubRobot) SendCommand(_ context.Context, cmd robot.Command) robot.Result {
	return robot.Success("Robot moving to table " + robot.TablePosition(*cmd.TableNumber))
}

func newTestServer() (http.Handler, *memoryOrders) {
	repo := &memoryOrders{orders: map[int64]domain.Order{}}
	uc := usecase.NewOrdersUseCase(repo, tableLookup{}, stubRobot{}, nil, nil)
	e := server.New(nil, "error")
	NewHandler(uc).Register(e.Group("/orders"))
	return e, repo
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOrders_CreateAndGet(t *testing.T) {
	h, repo := newTestServer()

	rec := do(t, h, http.MethodPost, "/orders", `{"table_id":2,"items":[{"menu_item_id":1,"quantity":2,"special_instructions":null}],"total_amount":19.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":1`)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	assert.Contains(t, rec.Body.String(), `"created_at":"`)
	assert.NotNil(t, repo.orders[1].CreatedAt)

	rec = do(t, h, http.MethodGet, "/orders/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"special_instructions":null`)
}

func TestOrders_ErrorStatuses(t *testing.T) {
	testCases := map[string]struct {
		method         string
		target         string
		body           string
		expectedStatus int
		expectedDetail string
	}{
		"should return 404 for missing orders": {
			method:         http.MethodGet,
			target:         "/orders/99",
			expectedStatus: http.StatusNotFound,
			expectedDetail: `{"detail":"Order not found"}`,
		},
		"should return 422 for non numeric ids": {
			method:         http.MethodGet,
			target:         "/orders/abc",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		"should return 500 when updating missing orders": {
			method:         http.MethodPut,
			target:         "/orders/99/status?status=ready",
			expectedStatus: http.StatusInternalServerError,
			expectedDetail: `{"detail":"update order status: Order not found"}`,
		},
		"should return 422 for unknown statuses": {
			method:         http.MethodPut,
			target:         "/orders/1/status?status=lost",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		"should return an empty list for unknown status filters": {
			method:         http.MethodGet,
			target:         "/orders?status=lost",
			expectedStatus: http.StatusOK,
			expectedDetail: `[]`,
		},
		"should return 422 when table_id is missing": {
			method:         http.MethodPost,
			target:         "/orders",
			body:           `{"items":[],"total_amount":1}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedDetail: `{"detail":"invalid request: table_id is required"}`,
		},
		"should return 422 for malformed json": {
			method:         http.MethodPost,
			target:         "/orders",
			body:           `{"table_id":`,
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			h, _ := newTestServer()
			rec := do(t, h, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			if tc.expectedDetail != "" {
				assert.JSONEq(t, tc.expectedDetail, rec.Body.String())
			}
		})
	}
}

func TestOrders_UpdateStatusShapes(t *testing.T) {
	h, _ := newTestServer()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/orders", `{"table_id":3,"items":[],"total_amount":5}`).Code)

	rec := do(t, h, http.MethodPut, "/orders/1/status?status=preparing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"preparing"`)
	assert.NotContains(t, rec.Body.String(), "robot_command")

	rec = do(t, h, http.MethodPut, "/orders/1/status?status=ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"order":{`)
	assert.Contains(t, rec.Body.String(), `"robot_command":{"status":"success"`)
	assert.Contains(t, rec.Body.String(), "table_103")
}

func TestOrders_ListFiltersByStatus(t *testing.T) {
	h, _ := newTestServer()
	do(t, h, http.MethodPost, "/orders", `{"table_id":1,"items":[],"total_amount":1}`)
	do(t, h, http.MethodPost, "/orders", `{"table_id":1,"items":[],"total_amount":2,"status":"delivered"}`)

	rec := do(t, h, http.MethodGet, "/orders?status=pending", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_amount":1`)
	assert.NotContains(t, rec.Body.String(), "delivered")

	rec = do(t, h, http.MethodGet, "/orders", "")
	assert.Contains(t, rec.Body.String(), "delivered")
}
