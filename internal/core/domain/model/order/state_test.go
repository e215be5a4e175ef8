package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_NamesRoundTrip(t *testing.T) {
	for _, s := range order.AllStates() {
		t.Run(s.String(), func(t *testing.T) {
			require.NoError(t, s.Validate())

			parsed, err := order.ParseState(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		})
	}
	assert.Len(t, order.AllStates(), 12)
}

func TestState_Validate(t *testing.T) {
	tests := []struct {
		name  string
		state order.State
	}{
		{name: "unknown", state: order.Unknown},
		{name: "negative", state: order.State(-1)},
		{name: "past_last", state: order.Refunded + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.state.Validate(), errs.ErrValueIsInvalid)
		})
	}
}

func TestParseState_RejectsFreeText(t *testing.T) {
	for _, name := range []string{"", "Unknown", "shipping", "Shipped", " Pending"} {
		_, err := order.ParseState(name)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid, name)
	}
}

func TestState_StringOfInvalidValue(t *testing.T) {
	assert.Equal(t, "Unknown", order.State(99).String())
}

func TestState_IsTerminal(t *testing.T) {
	terminal := map[order.State]bool{
		order.Completed: true,
		order.Cancelled: true,
		order.Refunded:  true,
	}
	for _, s := range order.AllStates() {
		assert.Equal(t, terminal[s], s.IsTerminal(), s.String())
	}
}
