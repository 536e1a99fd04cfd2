package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/threadline/storefront/internal/core/domain"
)

// CheckoutInput carries the checkout request. TotalAmount and Currency are
// supplied by the client and stored as given.
type CheckoutInput struct {
	UserID          string
	ShippingAddress domain.ShippingAddress
	Currency        domain.Currency
	TotalAmount     float64
}

// OrderView is an order with its product lines resolved.
type OrderView struct {
	ID              string
	UserID          string
	Lines           []ResolvedLine
	TotalAmount     float64
	Currency        domain.Currency
	ShippingAddress domain.ShippingAddress
	Status          domain.OrderStatus
	OrderDate       time.Time
	// Subtotal is the catalog value of the lines in the base currency.
	Subtotal decimal.Decimal
}

// UpdateStatusInput carries a status change request.
type UpdateStatusInput struct {
	OrderID     string
	RequesterID string
	Status      domain.OrderStatus
}

// Profile is the account summary with its order history populated.
type Profile struct {
	Username string
	Email    string
	Orders   []OrderView
}

type CheckoutService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*OrderView, error)
}

type OrderService interface {
	// History returns the user's orders, newest first.
	History(ctx context.Context, userID string) ([]OrderView, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderView, error)
	Profile(ctx context.Context, userID string) (*Profile, error)
}
