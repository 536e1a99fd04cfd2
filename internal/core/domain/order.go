package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusOrdered   OrderStatus = "Ordered"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Delivered and Cancelled are terminal and have no entry.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusOrdered: {StatusOrdered, StatusDelivered, StatusCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusOrdered, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Currency is an ISO code accepted at checkout.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyCAD Currency = "CAD"
)

// BaseCurrency is the currency catalog prices are expressed in.
const BaseCurrency = CurrencyCAD

func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyCAD:
		return true
	}
	return false
}

// ShippingAddress is where an order is delivered. All fields are required.
type ShippingAddress struct {
	UserName      string `json:"userName" bson:"userName"`
	StreetAddress string `json:"streetAddress" bson:"streetAddress"`
	City          string `json:"city" bson:"city"`
	Province      string `json:"province" bson:"province"`
	ZipCode       string `json:"zipCode" bson:"zipCode"`
}

// Complete reports whether every address field carries a value.
func (a ShippingAddress) Complete() bool {
	return a.UserName != "" && a.StreetAddress != "" && a.City != "" && a.Province != "" && a.ZipCode != ""
}

// Order is the snapshot of a completed checkout. Only Status changes after creation.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user"`
	Products        []LineItem      `json:"products"`
	TotalAmount     float64         `json:"totalAmount"`
	Currency        Currency        `json:"currency"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Status          OrderStatus     `json:"status"`
	OrderDate       time.Time       `json:"orderDate"`
}

// OwnedBy reports whether userID placed the order.
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID != "" && o.UserID == userID
}
