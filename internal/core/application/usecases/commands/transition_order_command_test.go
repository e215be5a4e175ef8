package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand_Success(t *testing.T) {
	// Arrange
	tc := order.TransitionContext{Actor: staffActor(t), Reason: "stock verified"}

	// Act
	cmd, err := commands.NewTransitionOrderCommand(42, order.Confirmed, tc)

	// Assert
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, int64(42), cmd.OrderID())
	assert.Equal(t, order.Confirmed, cmd.Target())
	assert.Equal(t, "stock verified", cmd.Context().Reason)
}

func TestNewTransitionOrderCommand_InvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		orderID int64
		target  order.State
		actor   kernel.Actor
	}{
		{"zero order id", 0, order.Confirmed, staffActor(t)},
		{"unknown target", 1, order.Unknown, staffActor(t)},
		{"missing actor", 1, order.Confirmed, kernel.Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.NewTransitionOrderCommand(tt.orderID, tt.target, order.TransitionContext{Actor: tt.actor})

			require.Error(t, err)
		})
	}
}

func TestNewTransitionOrderCommand_ReportsEveryProblem(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(-1, order.Unknown, order.TransitionContext{})

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.ErrorContains(t, err, "orderID")
	assert.ErrorContains(t, err, "role")
}

func TestTransitionOrderCommand_Validate_ZeroValue(t *testing.T) {
	var cmd commands.TransitionOrderCommand

	err := cmd.Validate()

	require.ErrorIs(t, err, commands.ErrTransitionOrderCommandIsNotConstructed)
}
