package ports

import (
	"context"

	"github.com/threadline/storefront/internal/core/domain"
)

// UserRepository defines persistence operations for users, their carts and
// their order history.
type UserRepository interface {
	// Create inserts a new user. Duplicate email or username yields
	// domain.ErrEmailTaken or domain.ErrUsernameTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// UpdateCart replaces only the stored cart. The order history is never
	// written here, so a concurrent checkout keeps its entry.
	UpdateCart(ctx context.Context, userID string, cart []domain.LineItem) error
	// CompleteCheckout empties the cart and appends orderID to the order
	// history in a single update. Re-applying it with the same orderID is a no-op.
	CompleteCheckout(ctx context.Context, userID, orderID string) error
}
