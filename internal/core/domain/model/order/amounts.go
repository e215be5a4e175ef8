package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrAmountsAreNotConstructed is returned by Validate for a zero Amounts.
var ErrAmountsAreNotConstructed = errors.New("Amounts must be created via NewAmounts")

// Amounts holds the monetary totals fixed at checkout. The grand total is
// carried, never recomputed: the lifecycle only checks that
// grand = original + tax - discount + shippingFee still holds.
type Amounts struct {
	original    decimal.Decimal
	tax         decimal.Decimal
	discount    decimal.Decimal
	shippingFee decimal.Decimal
	grandTotal  decimal.Decimal
	constructed bool
}

// NewAmounts validates the totals and the grand total equation.
//
// Parameters:
//   - original: the sum of line items before adjustments
//   - tax, discount, shippingFee: adjustments (none may be negative)
//   - grandTotal: the amount charged, as recorded at checkout
//
// Returns a ValueIsInvalidError for each negative component and one when
// grandTotal does not match, joined together.
//
// Example:
//
//	a, err := order.NewAmounts(
//	    decimal.RequireFromString("100.00"), // original
//	    decimal.RequireFromString("10.00"),  // tax
//	    decimal.RequireFromString("5.00"),   // discount
//	    decimal.RequireFromString("3.00"),   // shipping fee
//	    decimal.RequireFromString("108.00"), // grand total
//	)
func NewAmounts(original, tax, discount, shippingFee, grandTotal decimal.Decimal) (Amounts, error) {
	a := Amounts{
		original:    original,
		tax:         tax,
		discount:    discount,
		shippingFee: shippingFee,
		grandTotal:  grandTotal,
		constructed: true,
	}
	if err := a.Validate(); err != nil {
		return Amounts{}, err
	}
	return a, nil
}

// Validate re-checks the invariants; RestoreOrder calls it on every load.
func (a Amounts) Validate() error {
	if !a.constructed {
		return ErrAmountsAreNotConstructed
	}

	var problems []error
	for name, v := range map[string]decimal.Decimal{
		"original amount": a.original,
		"tax":             a.tax,
		"discount":        a.discount,
		"shipping fee":    a.shippingFee,
		"grand total":     a.grandTotal,
	} {
		if v.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", v)))
		}
	}

	expected := a.original.Add(a.tax).Sub(a.discount).Add(a.shippingFee)
	if !expected.Equal(a.grandTotal) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"grand total",
			fmt.Errorf("%s != %s + %s - %s + %s", a.grandTotal, a.original, a.tax, a.discount, a.shippingFee),
		))
	}
	return errors.Join(problems...)
}

func (a Amounts) Original() decimal.Decimal    { return a.original }
func (a Amounts) Tax() decimal.Decimal         { return a.tax }
func (a Amounts) Discount() decimal.Decimal    { return a.discount }
func (a Amounts) ShippingFee() decimal.Decimal { return a.shippingFee }
func (a Amounts) GrandTotal() decimal.Decimal  { return a.grandTotal }
