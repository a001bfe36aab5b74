package postgrest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orders "smartWaiter/internal/modules/orders/domain"
	tables "smartWaiter/internal/modules/tables/domain"
	"smartWaiter/internal/platform/store"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   string
}

func newFakePostgREST(t *testing.T, status int, response string) (*store.Store, *recordedRequest) {
	t.Helper()
	recorded := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*recorded = recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
			body:   string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)
	return Open(server.URL+"/", "anon-key", time.Second, nil), recorded
}

func TestNewClient_BaseURL(t *testing.T) {
	assert.Equal(t, "https://demo.supabase.co/rest/v1", NewClient(" https://demo.supabase.co/ ", "k", 0, nil).baseURL)
	assert.Equal(t, "https://demo.supabase.co/rest/v1", NewClient("https://demo.supabase.co/rest/v1", "k", 0, nil).baseURL)
	assert.Equal(t, defaultTimeout, NewClient("https://demo.supabase.co", "k", 0, nil).timeout)
}

func TestTableRepository_List(t *testing.T) {
	s, req := newFakePostgREST(t, http.StatusOK, `[{"id":1,"number":5,"capacity":4,"status":"available"}]`)

	got, err := s.Tables.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []tables.Table{{ID: 1, Number: 5, Capacity: 4, Status: tables.TableStatusAvailable}}, got)
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/rest/v1/tables", req.path)
	assert.Equal(t, "order=id.asc.nullslast&select=%2A", req.query)
	assert.Equal(t, "anon-key", req.header.Get("apikey"))
	assert.Equal(t, "public", req.header.Get("Accept-Profile"))
	assert.Equal(t, "Bearer anon-key", req.header.Get("Authorization"))
	assert.Empty(t, req.header.Get("Prefer"))
}

func TestTableRepository_Create(t *testing.T) {
	s, req := newFakePostgREST(t, http.StatusCreated, `[{"id":9,"number":3,"capacity":2,"status":"reserved"}]`)

	created, err := s.Tables.Create(context.Background(), tables.Table{Number: 3, Capacity: 2, Status: tables.TableStatusReserved})

	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "return=representation", req.header.Get("Prefer"))
	assert.JSONEq(t, `{"number":3,"capacity":2,"status":"reserved"}`, req.body)
}

func TestOrderRepository_ListFiltersByStatus(t *testing.T) {
	s, req := newFakePostgREST(t, http.StatusOK, `[{"id":1,"table_id":2,"items":[],"status":"pending","total_amount":3.5,"created_at":"2024-05-01T10:00:00"}]`)

	got, err := s.Orders.List(context.Background(), orders.Filter{Status: orders.OrderStatusPending})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, orders.OrderStatusPending, got[0].Status)
	assert.Equal(t, "order=id.asc.nullslast&select=%2A&status=eq.pending", req.query)
}

func TestOrderRepository_GetMissingIsNotFound(t *testing.T) {
	s, req := newFakePostgREST(t, http.StatusOK, `[]`)

	_, err := s.Orders.Get(context.Background(), 404)

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.EqualError(t, err, "Order not found")
	assert.Equal(t, "id=eq.404&select=%2A", req.query)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	s, req := newFakePostgREST(t, http.StatusOK, `[{"id":4,"table_id":2,"items":[],"status":"ready","total_amount":10}]`)

	updated, err := s.Orders.UpdateStatus(context.Background(), 4, orders.OrderStatusReady)

	require.NoError(t, err)
	assert.Equal(t, orders.OrderStatusReady, updated.Status)
	assert.Equal(t, http.MethodPatch, req.method)
	assert.Equal(t, "id=eq.4", req.query)
	assert.JSONEq(t, `{"status":"ready"}`, req.body)
}

func TestOrderRepository_UpdateMissingIsNotFound(t *testing.T) {
	s, _ := newFakePostgREST(t, http.StatusOK, `[]`)

	_, err := s.Orders.UpdateStatus(context.Background(), 77, orders.OrderStatusDelivered)

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestErrorClassification(t *testing.T) {
	testCases := map[string]struct {
		status       int
		body         string
		expectedKind error
		expectedText string
	}{
		"should map not-null violations to validation": {
			status:       http.StatusBadRequest,
			body:         `{"code":"23502","message":"null value in column \"table_id\" violates not-null constraint","details":null}`,
			expectedKind: store.ErrValidation,
			expectedText: `invalid order: null value in column "table_id" violates not-null constraint`,
		},
		"should map invalid input syntax to validation": {
			status:       http.StatusInternalServerError,
			body:         `{"code":"22P02","message":"invalid input syntax for type integer"}`,
			expectedKind: store.ErrValidation,
		},
		"should map auth failures to upstream": {
			status:       http.StatusUnauthorized,
			body:         `{"code":"PGRST301","message":"JWT expired"}`,
			expectedKind: store.ErrUpstream,
			expectedText: "get orders: status 401 (PGRST301): JWT expired",
		},
		"should keep raw body when it is not json": {
			status:       http.StatusBadGateway,
			body:         `upstream connect error`,
			expectedKind: store.ErrUpstream,
			expectedText: "get orders: status 502: upstream connect error",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			s, _ := newFakePostgREST(t, tc.status, tc.body)
			_, err := s.Orders.List(context.Background(), orders.Filter{})
			assert.ErrorIs(t, err, tc.expectedKind)
			if tc.expectedText != "" {
				assert.EqualError(t, err, tc.expectedText)
			}
		})
	}
}

func TestRun_ContextDeadlineIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	s := Open(server.URL, "anon-key", 20*time.Millisecond, nil)
	_, err := s.Tables.List(context.Background())

	assert.ErrorIs(t, err, store.ErrUpstream)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_UsesInjectedTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(server.Close)

	var seen string
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.URL.Path
		return http.DefaultTransport.RoundTrip(r)
	})}
	s := Open(server.URL, "anon-key", time.Second, client)

	got, err := s.Menu.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, "/rest/v1/menu_items", seen)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRun_TransportFailureIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	s := Open(url, "anon-key", time.Second, nil)
	_, err := s.Menu.List(context.Background())

	assert.ErrorIs(t, err, store.ErrUpstream)
}

func TestRun_DecodeFailureIsUpstream(t *testing.T) {
	s, _ := newFakePostgREST(t, http.StatusOK, `{"not":"an array"}`)
	_, err := s.Menu.List(context.Background())

	assert.ErrorIs(t, err, store.ErrUpstream)
	var syntax *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &syntax)
}
