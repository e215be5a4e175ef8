package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned by Validate (and so by TransitionTo)
// for an Order that did not come from NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the lifecycle. Its state changes only
// through TransitionTo; identity, code, amounts and line items are fixed at
// checkout.
//
// Invariants:
//   - state is always one of the twelve lifecycle states
//   - amounts satisfy grand = original + tax - discount + shippingFee
//   - note only grows, one line per transition
//   - failedDeliveryCount only grows, once per entry into DeliveryFailed
type Order struct {
	id                  int64
	code                string
	state               State
	amounts             Amounts
	paymentMethod       PaymentMethod
	paid                bool
	refundRequired      bool
	failedDeliveryCount int
	cancelReason        string
	note                string
	items               []LineItem
	createdAt           time.Time
	updatedAt           time.Time
	isConstructed       bool
}

// NewOrder builds an order at checkout. Online orders wait for payment in
// PendingPayment; cash-on-delivery orders start in Pending. The id is zero
// until the repository inserts the row.
//
// Example:
//
//	amounts, _ := order.NewAmounts(d("100"), d("10"), d("5"), d("3"), d("108"))
//	item, _ := order.NewLineItem(42, 2, d("50"))
//	o, err := order.NewOrder("ORD-20261017-0001", amounts, order.PaymentCOD, []order.LineItem{item})
func NewOrder(code string, amounts Amounts, paymentMethod PaymentMethod, items []LineItem) (*Order, error) {
	o := &Order{
		paymentMethod: paymentMethod,
		items:         slices.Clone(items),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setCode(code),
		amounts.Validate(),
		paymentMethod.Validate(),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.amounts = amounts
	o.state = Pending
	if paymentMethod == PaymentOnline {
		o.state = PendingPayment
	}
	now := time.Now().UTC()
	o.createdAt, o.updatedAt = now, now
	return o, nil
}

// RestoreParams carries persisted column values back into an Order.
type RestoreParams struct {
	ID                  int64
	Code                string
	State               State
	Amounts             Amounts
	PaymentMethod       PaymentMethod
	Paid                bool
	RefundRequired      bool
	FailedDeliveryCount int
	CancelReason        string
	Note                string
	Items               []LineItem
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RestoreOrder rehydrates an order from storage. Corrupted rows (unknown
// state, broken totals, negative counters) are rejected rather than loaded.
func RestoreOrder(p RestoreParams) (*Order, error) {
	var problems []error
	if p.ID <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("orderID", fmt.Errorf("%d is not positive", p.ID)))
	}
	if p.FailedDeliveryCount < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("failed delivery count", p.FailedDeliveryCount, 0, "unbounded"))
	}
	problems = append(problems, p.State.Validate(), p.Amounts.Validate(), p.PaymentMethod.Validate())
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Order{
		id:                  p.ID,
		code:                p.Code,
		state:               p.State,
		amounts:             p.Amounts,
		paymentMethod:       p.PaymentMethod,
		paid:                p.Paid,
		refundRequired:      p.RefundRequired,
		failedDeliveryCount: p.FailedDeliveryCount,
		cancelReason:        p.CancelReason,
		note:                p.Note,
		items:               slices.Clone(p.Items),
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
		isConstructed:       true,
	}, nil
}

// Validate rejects a nil Order and one built without a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// AssignID is called once by the repository after insert.
func (o *Order) AssignID(id int64) {
	if o.id == 0 {
		o.id = id
	}
}

func (o *Order) ID() int64                    { return o.id }
func (o *Order) Code() string                 { return o.code }
func (o *Order) State() State                 { return o.state }
func (o *Order) Amounts() Amounts             { return o.amounts }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) IsPaid() bool                 { return o.paid }
func (o *Order) RefundRequired() bool         { return o.refundRequired }
func (o *Order) FailedDeliveryCount() int     { return o.failedDeliveryCount }
func (o *Order) CancelReason() string         { return o.cancelReason }
func (o *Order) Note() string                 { return o.note }
func (o *Order) Items() []LineItem            { return slices.Clone(o.items) }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// AvailableTransitions lists the states the order may move to now.
func (o *Order) AvailableTransitions() []State {
	return AllowedTransitions(o.state)
}

// CanCancel applies the lifecycle's cancellation rights for role to the
// current state.
//
// Example:
//
//	o.State()                        // order.Confirmed
//	o.CanCancel(kernel.RoleCustomer) // false
//	o.CanCancel(kernel.RoleStaff)    // true
func (o *Order) CanCancel(role kernel.Role) bool {
	return CanCancel(o.state, role)
}

// IsEditable reports whether the order's lines and address may still change.
func (o *Order) IsEditable() bool {
	return IsEditable(o.state)
}

// MarkPaid records the payment confirmation. It does not move the order;
// the payment collaborator follows up with a PendingPayment -> Pending transition.
func (o *Order) MarkPaid() {
	o.paid = true
}

func (o *Order) clone() *Order {
	c := *o
	c.items = slices.Clone(o.items)
	return &c
}

func (o *Order) appendNote(line string) {
	if o.note == "" {
		o.note = line
		return
	}
	o.note = o.note + "\n" + line
}

func (o *Order) setCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("order code")
	}
	o.code = code
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}
	for i, li := range items {
		if li.productID <= 0 || li.quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("line items", fmt.Errorf("item %d was not built via NewLineItem", i))
		}
	}
	return nil
}
