package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

const maxTrackingCodeLength = 64

// TrackingCode is the carrier-assigned shipment identifier. Once a shipping
// record carries one it never changes. The zero value is the empty code,
// which IsEmpty reports; transitions into Packing, ReadyToShip and Shipping
// require a non-empty one.
type TrackingCode struct {
	value string
}

// NewTrackingCode trims s and validates it.
//
// Returns:
//   - ValueIsRequiredError for an empty code
//   - ValueIsOutOfRangeError for a code longer than 64 bytes
//   - ValueIsInvalidError for a code containing whitespace
//
// Example:
//
//	code, err := kernel.NewTrackingCode(" GHN8X2K ")
//	// code.String() == "GHN8X2K"
func NewTrackingCode(s string) (TrackingCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TrackingCode{}, errs.NewValueIsRequiredError("tracking code")
	}
	if len(s) > maxTrackingCodeLength {
		return TrackingCode{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"tracking code length", len(s), 1, maxTrackingCodeLength,
			fmt.Errorf("tracking code %q is too long", s),
		)
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return TrackingCode{}, errs.NewValueIsInvalidErrorWithCause(
			"tracking code", fmt.Errorf("%q contains whitespace", s),
		)
	}
	return TrackingCode{value: s}, nil
}

// String returns the code as the carrier issued it.
func (c TrackingCode) String() string {
	return c.value
}

// IsEmpty reports whether no code was assigned.
func (c TrackingCode) IsEmpty() bool {
	return c.value == ""
}

func (c TrackingCode) IsEqual(other TrackingCode) bool {
	return c.value == other.value
}
