package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// LineItem is a read-only copy of an order line. The lifecycle only uses it
// to restock inventory on cancellation.
type LineItem struct {
	productID int64
	quantity  int
	unitPrice decimal.Decimal
}

// NewLineItem requires a positive product id and quantity and a non-negative
// unit price. All problems are reported together.
func NewLineItem(productID int64, quantity int, unitPrice decimal.Decimal) (LineItem, error) {
	var problems []error
	if productID <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("productID", fmt.Errorf("%d is not positive", productID)))
	}
	if quantity <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded"))
	}
	if unitPrice.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%s is negative", unitPrice)))
	}
	if err := errors.Join(problems...); err != nil {
		return LineItem{}, err
	}
	return LineItem{productID: productID, quantity: quantity, unitPrice: unitPrice}, nil
}

func (li LineItem) ProductID() int64           { return li.productID }
func (li LineItem) Quantity() int              { return li.quantity }
func (li LineItem) UnitPrice() decimal.Decimal { return li.unitPrice }

// Restock is one inventory adjustment produced by entering Cancelled.
type Restock struct {
	ProductID int64
	Quantity  int
}

// aggregateRestock merges lines per product, keeping first-seen order, so a
// product appearing on two lines is still restocked by a single call.
func aggregateRestock(items []LineItem) []Restock {
	index := make(map[int64]int, len(items))
	out := make([]Restock, 0, len(items))
	for _, li := range items {
		if i, ok := index[li.productID]; ok {
			out[i].Quantity += li.quantity
			continue
		}
		index[li.productID] = len(out)
		out = append(out, Restock{ProductID: li.productID, Quantity: li.quantity})
	}
	return out
}
