package order_test

import (
	"encoding/json"
	"testing"

	"catering/internal/core/domain/model/order"
	"catering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "NOT_STARTED", order.NotStarted.String())
	assert.Equal(t, "DELIVERY_LOOKUP", order.DeliveryLookup.String())
	assert.Equal(t, "DELIVERED", order.Delivered.String())
	assert.Equal(t, "UNKNOWN", order.Status(99).String())
}

func TestParseStatus(t *testing.T) {
	for _, s := range []order.Status{
		order.NotStarted, order.Cooking, order.Cooked,
		order.DeliveryLookup, order.Delivery, order.Delivered,
	} {
		parsed, err := order.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := order.ParseStatus("UNKNOWN")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.ParseStatus("cooked")
	assert.Error(t, err)
}

func TestStatus_JSON(t *testing.T) {
	type payload struct {
		Status order.Status `json:"status"`
	}

	raw, err := json.Marshal(payload{Status: order.Cooking})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"COOKING"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"status":"DELIVERY"}`), &decoded))
	assert.Equal(t, order.Delivery, decoded.Status)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"LOST"}`), &decoded))
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to order.Status
		allowed  bool
	}{
		{order.NotStarted, order.Cooking, true},
		{order.NotStarted, order.Cooked, true},
		{order.Cooking, order.Cooked, true},
		{order.Cooked, order.DeliveryLookup, true},
		{order.DeliveryLookup, order.Delivery, true},
		{order.Delivery, order.Delivered, true},
		{order.Cooking, order.Cooking, false},
		{order.Cooked, order.Cooked, false},
		{order.Cooked, order.Delivered, false},
		{order.Delivered, order.NotStarted, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransitionSources(t *testing.T) {
	assert.Equal(t, []order.Status{order.NotStarted, order.Cooking}, order.TransitionSources(order.Cooked))
	assert.Empty(t, order.TransitionSources(order.NotStarted))

	sources := order.TransitionSources(order.Cooking)
	sources[0] = order.Delivered
	assert.Equal(t, []order.Status{order.NotStarted}, order.TransitionSources(order.Cooking))
}

func TestStatus_Rank(t *testing.T) {
	assert.Less(t, order.NotStarted.Rank(), order.Cooking.Rank())
	assert.Less(t, order.Delivery.Rank(), order.Delivered.Rank())
	assert.Zero(t, order.Status(42).Rank())
	assert.True(t, order.Delivered.IsTerminal())
	assert.False(t, order.Cooked.IsTerminal())
}
