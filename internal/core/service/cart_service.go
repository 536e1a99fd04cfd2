package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
	"github.com/threadline/storefront/internal/pkg/metrics"
)

const MaxLineQuantity = 100

// CartService owns every mutation of a user's cart. Each mutation loads the
// user, edits the cart in memory and writes back the cart alone.
type CartService struct {
	users    ports.UserRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewCartService(users ports.UserRepository, products ports.ProductRepository, logger zerolog.Logger) *CartService {
	return &CartService{users: users, products: products, logger: logger}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*ports.CartView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolveCart(ctx, s.products, user)
}

// UpsertItem overwrites the quantity of an existing line; it never adds to it.
func (s *CartService) UpsertItem(ctx context.Context, userID, productID string, quantity int) (*ports.CartView, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, domain.ErrInvalidQuantity
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	if i := user.CartIndex(productID); i >= 0 {
		user.Cart[i].Quantity = quantity
	} else {
		user.Cart = append(user.Cart, domain.LineItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.users.UpdateCart(ctx, user.ID, user.Cart); err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	metrics.CartMutationsTotal.WithLabelValues("upsert").Inc()

	s.logger.Debug().Str("user_id", userID).Str("product_id", productID).Int("quantity", quantity).Msg("cart item set")
	return resolveCart(ctx, s.products, user)
}

// RemoveItem is idempotent: removing a product that is not in the cart
// returns the unchanged cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*ports.CartView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.LineItem, 0, len(user.Cart))
	for _, line := range user.Cart {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	user.Cart = kept

	if err := s.users.UpdateCart(ctx, user.ID, user.Cart); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()

	return resolveCart(ctx, s.products, user)
}
