package guard_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("command not constructed")

	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_falls_back_to_default", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	type cancelCommand struct {
		orderID int64
		guard   guard.ConstructorGuard
	}
	errCancelNotConstructed := errors.New("cancelCommand must be created via newCancelCommand")

	newCancelCommand := func(orderID int64) (cancelCommand, error) {
		if orderID <= 0 {
			return cancelCommand{}, errors.New("orderID must be positive")
		}
		return cancelCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
	}

	cmd, err := newCancelCommand(10)
	require.NoError(t, err)
	require.NoError(t, cmd.guard.Validate(errCancelNotConstructed))

	literal := cancelCommand{orderID: 10}
	assert.Equal(t, errCancelNotConstructed, literal.guard.Validate(errCancelNotConstructed))

	_, err = newCancelCommand(0)
	require.Error(t, err)
}
