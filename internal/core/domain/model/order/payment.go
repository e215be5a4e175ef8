package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentMethod decides what happens to money on cancellation: an online
// order that was already paid is flagged for refund, cash on delivery is not.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCOD, PaymentOnline:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", string(m)))
	}
}
