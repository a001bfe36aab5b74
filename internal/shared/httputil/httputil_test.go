package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

func TestErrorMapper_Map(t *testing.T) {
	mapper := NewErrorMapper().
		WithMapping(errMissing, http.StatusNotFound, "").
		WithMapping(ErrInvalidRequest, http.StatusUnprocessableEntity, "")

	testCases := map[string]struct {
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		"should surface raw text for mapped errors": {
			err:            fmt.Errorf("order 7: %w", errMissing),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "order 7: missing",
		},
		"should surface raw text for unmatched errors": {
			err:            errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "connection refused",
		},
		"should map deadline to gateway timeout": {
			err:            fmt.Errorf("query: %w", context.DeadlineExceeded),
			expectedStatus: http.StatusGatewayTimeout,
			expectedMsg:    "request timeout",
		},
		"should map cancellation to unavailable": {
			err:            context.Canceled,
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "request cancelled",
		},
		"should report ok for nil": {
			err:            nil,
			expectedStatus: http.StatusOK,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			info := mapper.Map(tc.err)
			assert.Equal(t, tc.expectedStatus, info.Status)
			assert.Equal(t, tc.expectedMsg, info.Message)
		})
	}
}

func TestQuickMap_UsesFixedMessage(t *testing.T) {
	info := QuickMap(errMissing, ErrorMapping{Error: errMissing, Status: http.StatusNotFound, Message: "gone"})
	assert.Equal(t, HTTPErrorInfo{Status: http.StatusNotFound, Message: "gone"}, info)
}

type createPayload struct {
	Number *int   `json:"number" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=available occupied reserved"`
}

func newContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()
	req := httptest.NewRequest(method, "/tables", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBindAndValidate(t *testing.T) {
	testCases := map[string]struct {
		body        string
		expectedErr string
	}{
		"should accept valid payload": {
			body: `{"number": 4, "status": "reserved"}`,
		},
		"should report missing required field by json name": {
			body:        `{"status": "available"}`,
			expectedErr: "number is required",
		},
		"should report enum violations": {
			body:        `{"number": 1, "status": "broken"}`,
			expectedErr: "status must be one of [available occupied reserved]",
		},
		"should wrap malformed json": {
			body:        `{"number": "x"`,
			expectedErr: "invalid request",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, tc.body)
			var payload createPayload
			err := BindAndValidate(c, &payload)
			if tc.expectedErr == "" {
				require.NoError(t, err)
				assert.Equal(t, 4, *payload.Number)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestHTTPErrorHandler_WritesDetail(t *testing.T) {
	handler := NewHTTPErrorHandler(NewErrorMapper().WithMapping(errMissing, http.StatusNotFound, "Order not found"), nil)

	testCases := map[string]struct {
		err            error
		expectedStatus int
		expectedDetail string
	}{
		"should map domain errors": {
			err:            errMissing,
			expectedStatus: http.StatusNotFound,
			expectedDetail: "Order not found",
		},
		"should pass through echo errors": {
			err:            echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			expectedStatus: http.StatusMethodNotAllowed,
			expectedDetail: "Method Not Allowed",
		},
		"should expose raw upstream text": {
			err:            errors.New("upstream exploded"),
			expectedStatus: http.StatusInternalServerError,
			expectedDetail: "upstream exploded",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "")
			handler(tc.err, c)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.expectedDetail, body.Detail)
		})
	}
}
