package http

import (
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/generated/servers"
)

func toActor(a servers.Actor) (kernel.Actor, error) {
	role, err := kernel.ParseRole(string(a.Role))
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(role, a.Name)
}

func toOrderState(s order.State) servers.OrderState {
	return servers.OrderState(s.String())
}

func toOrderStates(states []order.State) []servers.OrderState {
	out := make([]servers.OrderState, len(states))
	for i, s := range states {
		out[i] = toOrderState(s)
	}
	return out
}

func toOrder(v queries.GetOrderQueryResponse) servers.Order {
	o := servers.Order{
		Id:                   v.ID,
		Code:                 v.Code,
		State:                toOrderState(v.State),
		PaymentMethod:        v.PaymentMethod,
		Paid:                 v.Paid,
		RefundRequired:       v.RefundRequired,
		FailedDeliveryCount:  v.FailedDeliveryCount,
		CancelReason:         optional(v.CancelReason),
		Note:                 optional(v.Note),
		GrandTotal:           v.GrandTotal.StringFixed(2),
		Editable:             v.Editable,
		AvailableTransitions: toOrderStates(v.AvailableTransitions),
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
	}
	if v.Shipping != nil {
		o.Shipping = &servers.Shipping{
			TrackingCode:       v.Shipping.TrackingCode,
			CarrierName:        v.Shipping.CarrierName,
			CarrierStatus:      v.Shipping.CarrierStatus,
			ExpectedDeliveryAt: v.Shipping.ExpectedDeliveryAt,
			DeliveredAt:        v.Shipping.DeliveredAt,
		}
	}
	return o
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
