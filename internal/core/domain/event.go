package domain

import "time"

// OrderEventType names what happened to an order.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "created"
	OrderEventStatusChanged OrderEventType = "status_changed"
)

// OrderEvent is an audit record emitted when an order is created or changes status.
type OrderEvent struct {
	OrderID string
	UserID  string
	Type    OrderEventType
	Status  OrderStatus
	At      time.Time
}
