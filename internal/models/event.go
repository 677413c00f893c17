package models

import "time"

// Order event types published on the event bus.
const (
	EventOrderCreated   = "order.created"
	EventOrderPaid      = "order.paid"
	EventOrderDelivered = "order.delivered"
)

// OrderEvent is the message body published when an order changes.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	TotalPrice  float64   `json:"totalPrice"`
	IsPaid      bool      `json:"isPaid"`
	IsDelivered bool      `json:"isDelivered"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// NewOrderEvent builds an event of the given type from the order's state.
func NewOrderEvent(eventType string, o *Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:        eventType,
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalPrice:  o.TotalPrice,
		IsPaid:      o.IsPaid,
		IsDelivered: o.IsDelivered,
		OccurredAt:  at,
	}
}
