package errs_test

import (
	"database/sql"
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without_cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderID", int64(42))

		assert.Equal(t, "orderID", err.ParamName)
		assert.Equal(t, int64(42), err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: orderID 42", err.Error())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("with_cause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("trackingCode", "GHN123", cause)

		assert.Equal(t,
			"object not found: trackingCode GHN123 (cause: record not found)",
			err.Error())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without_cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("state")

		assert.Equal(t, "value is invalid: state", err.Error())
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("with_cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("state", errors.New("Shipped is not a known state"))

		assert.Equal(t, "value is invalid: state (cause: Shipped is not a known state)", err.Error())
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("without_cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 0, 1, 1000)

		assert.Equal(t, "value is out of range: quantity is 0, min value is 1, max value is 1000", err.Error())
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("with_cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("quantity", -5, 1, 1000, errors.New("negative"))

		assert.Equal(t,
			"value is out of range: quantity is -5, min value is 1, max value is 1000 (cause: negative)",
			err.Error())
	})

	t.Run("newlines_are_flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("reason", "late\nagain", 0, 10)

		assert.Contains(t, err.Error(), "late again")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("actor")
	assert.Equal(t, "value is required: actor", err.Error())
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	withCause := errs.NewValueIsRequiredErrorWithCause("actor", errors.New("empty name"))
	assert.Equal(t, "value is required: actor (cause: empty name)", withCause.Error())
}

func TestAmbiguousCommitError(t *testing.T) {
	err := errs.NewAmbiguousCommitError(sql.ErrTxDone)

	assert.ErrorIs(t, err, errs.ErrAmbiguousCommit)
	assert.ErrorIs(t, err, sql.ErrTxDone)
	assert.Contains(t, err.Error(), "commit outcome is ambiguous")
}

func TestPersistenceFailureError(t *testing.T) {
	t.Run("keeps_cause_reachable", func(t *testing.T) {
		cause := errs.NewObjectNotFoundError("orderID", int64(7))
		err := errs.NewPersistenceFailureError("load order", cause)

		assert.ErrorIs(t, err, errs.ErrPersistenceFailure)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, "persistence failure: load order (cause: object not found: orderID 7)", err.Error())
	})

	t.Run("without_cause", func(t *testing.T) {
		err := errs.NewPersistenceFailureError("commit", nil)

		assert.Equal(t, "persistence failure: commit", err.Error())
		assert.ErrorIs(t, err, errs.ErrPersistenceFailure)
	})
}
