package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	orders "smartWaiter/internal/modules/orders/domain"
	"smartWaiter/internal/platform/store"
	"smartWaiter/internal/shared/httputil"
)

func TestErrorMapper(t *testing.T) {
	testCases := map[string]struct {
		err            error
		expectedStatus int
		expectedText   string
	}{
		"should map not found to 404": {
			err:            store.NewNotFound("Order", "id", 7),
			expectedStatus: http.StatusNotFound,
			expectedText:   "Order not found",
		},
		"should map store validation to 422": {
			err:            store.NewValidation("order", "bad"),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		"should map invalid requests to 422": {
			err:            fmt.Errorf("%w: id must be an integer", httputil.ErrInvalidRequest),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		"should map invalid order status to 422": {
			err:            orders.ErrInvalidStatus,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		"should surface upstream text as 500": {
			err:            store.NewUpstream("list tables", errors.New("connection refused")),
			expectedStatus: http.StatusInternalServerError,
			expectedText:   "list tables: connection refused",
		},
		"should map deadlines to 504": {
			err:            store.NewUpstream("get order", context.DeadlineExceeded),
			expectedStatus: http.StatusGatewayTimeout,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			info := ErrorMapper().Map(tc.err)
			assert.Equal(t, tc.expectedStatus, info.Status)
			if tc.expectedText != "" {
				assert.Equal(t, tc.expectedText, info.Message)
			}
		})
	}
}

func TestNew_SystemRoutes(t *testing.T) {
	e := New(nil, "debug")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Smart Waiter Robot API"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestNew_RendersDetailAndCORS(t *testing.T) {
	e := New(nil, "info")
	e.GET("/boom", func(echo.Context) error { return store.NewNotFound("Order", "id", 1) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(echo.HeaderOrigin, "http://kitchen.local")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Order not found"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestNew_RecoversPanics(t *testing.T) {
	e := New(nil, "info")
	e.GET("/panic", func(echo.Context) error { panic("kaboom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "kaboom")
}
