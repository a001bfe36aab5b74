package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	testCases := map[string]struct {
		raw         string
		expected    OrderStatus
		expectedErr error
	}{
		"should accept pending":          {raw: "pending", expected: OrderStatusPending},
		"should trim whitespace":         {raw: " ready ", expected: OrderStatusReady},
		"should accept delivered":        {raw: "delivered", expected: OrderStatusDelivered},
		"should reject different casing": {raw: "READY", expectedErr: ErrInvalidStatus},
		"should reject unknown statuses": {raw: "cancelled", expectedErr: ErrInvalidStatus},
		"should reject empty":            {raw: "", expectedErr: ErrInvalidStatus},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			status, err := ParseOrderStatus(tc.raw)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, status)
		})
	}
}

func TestOrderStatus_TriggersDelivery(t *testing.T) {
	assert.True(t, OrderStatusReady.TriggersDelivery())
	assert.False(t, OrderStatusPreparing.TriggersDelivery())
	assert.False(t, OrderStatusDelivered.TriggersDelivery())
}

func TestOrder_DecodesStoreTimestamps(t *testing.T) {
	testCases := map[string]struct {
		raw      string
		expected time.Time
	}{
		"should parse timestamptz": {
			raw:      "2024-05-01T12:30:00.123456+00:00",
			expected: time.Date(2024, 5, 1, 12, 30, 0, 123456000, time.UTC),
		},
		"should parse naive isoformat": {
			raw:      "2024-05-01T12:30:00.5",
			expected: time.Date(2024, 5, 1, 12, 30, 0, 500000000, time.UTC),
		},
		"should parse postgres text output": {
			raw:      "2024-05-01 12:30:00+00",
			expected: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			body := `{"id": 1, "table_id": 2, "items": [{"menu_item_id": 3, "quantity": 1, "special_instructions": null}], "status": "pending", "total_amount": 9.5, "created_at": "` + tc.raw + `"}`
			var order Order
			require.NoError(t, json.Unmarshal([]byte(body), &order))
			require.NotNil(t, order.CreatedAt)
			assert.True(t, tc.expected.Equal(order.CreatedAt.Time), "got %s", order.CreatedAt.Time)
			assert.Nil(t, order.Items[0].SpecialInstructions)
		})
	}
}

func TestOrder_EncodesWireShape(t *testing.T) {
	note := "no onions"
	order := Order{
		TableID:     2,
		Items:       []OrderItem{{MenuItemID: 3, Quantity: 2, SpecialInstructions: &note}},
		Status:      OrderStatusPending,
		TotalAmount: 12.5,
		CreatedAt:   NewTimestamp(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
	}

	encoded, err := json.Marshal(order)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"table_id": 2,
		"items": [{"menu_item_id": 3, "quantity": 2, "special_instructions": "no onions"}],
		"status": "pending",
		"total_amount": 12.5,
		"created_at": "2024-05-01T12:00:00Z"
	}`, string(encoded))
}

func TestParseTimestamp_RejectsGarbage(t *testing.T) {
	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}
