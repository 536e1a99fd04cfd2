package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

// lookupProducts fetches every product referenced by the given line sets in a
// single query.
func lookupProducts(ctx context.Context, products ports.ProductRepository, sets ...[]domain.LineItem) (map[string]*domain.Product, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, lines := range sets {
		for _, l := range lines {
			if _, ok := seen[l.ProductID]; ok {
				continue
			}
			seen[l.ProductID] = struct{}{}
			ids = append(ids, l.ProductID)
		}
	}
	if len(ids) == 0 {
		return map[string]*domain.Product{}, nil
	}
	return products.FindByIDs(ctx, ids)
}

// buildLines pairs lines with their products and sums the catalog subtotal.
// Lines whose product is gone keep a nil Product and add nothing to the subtotal.
func buildLines(lines []domain.LineItem, found map[string]*domain.Product) ([]ports.ResolvedLine, decimal.Decimal) {
	out := make([]ports.ResolvedLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		rl := ports.ResolvedLine{ProductID: l.ProductID, Quantity: l.Quantity}
		if p, ok := found[l.ProductID]; ok {
			rl.Product = &ports.ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL}
			subtotal = subtotal.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		out = append(out, rl)
	}
	return out, subtotal.Round(2)
}

func resolveCart(ctx context.Context, products ports.ProductRepository, user *domain.User) (*ports.CartView, error) {
	found, err := lookupProducts(ctx, products, user.Cart)
	if err != nil {
		return nil, err
	}
	lines, subtotal := buildLines(user.Cart, found)
	return &ports.CartView{Lines: lines, Subtotal: subtotal}, nil
}

func resolveOrders(ctx context.Context, products ports.ProductRepository, orders []*domain.Order) ([]ports.OrderView, error) {
	sets := make([][]domain.LineItem, 0, len(orders))
	for _, o := range orders {
		sets = append(sets, o.Products)
	}
	found, err := lookupProducts(ctx, products, sets...)
	if err != nil {
		return nil, err
	}

	views := make([]ports.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, *toOrderView(o, found))
	}
	return views, nil
}

func resolveOrder(ctx context.Context, products ports.ProductRepository, o *domain.Order) (*ports.OrderView, error) {
	found, err := lookupProducts(ctx, products, o.Products)
	if err != nil {
		return nil, err
	}
	return toOrderView(o, found), nil
}

// toOrderView copies o into a view; a nil found map leaves every line unresolved.
func toOrderView(o *domain.Order, found map[string]*domain.Product) *ports.OrderView {
	lines, subtotal := buildLines(o.Products, found)
	return &ports.OrderView{
		ID:              o.ID,
		UserID:          o.UserID,
		Lines:           lines,
		TotalAmount:     o.TotalAmount,
		Currency:        o.Currency,
		ShippingAddress: o.ShippingAddress,
		Status:          o.Status,
		OrderDate:       o.OrderDate,
		Subtotal:        subtotal,
	}
}
