package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductSummary is the subset of product fields shown on cart and order lines.
type ProductSummary struct {
	ID       string
	Name     string
	Price    float64
	ImageURL string
}

// ResolvedLine is a cart or order line with its product details looked up.
// Product is nil when the referenced product no longer exists.
type ResolvedLine struct {
	ProductID string
	Product   *ProductSummary
	Quantity  int
}

// CartView is the resolved cart returned by every cart operation.
type CartView struct {
	Lines []ResolvedLine
	// Subtotal is the sum of catalog price × quantity in the base currency.
	Subtotal decimal.Decimal
}

type CartService interface {
	GetCart(ctx context.Context, userID string) (*CartView, error)
	// UpsertItem sets the quantity of productID, adding the line when absent.
	UpsertItem(ctx context.Context, userID, productID string, quantity int) (*CartView, error)
	// RemoveItem drops productID from the cart; absent ids are ignored.
	RemoveItem(ctx context.Context, userID, productID string) (*CartView, error)
}
