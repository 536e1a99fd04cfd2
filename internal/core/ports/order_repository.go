package ports

import (
	"context"

	"github.com/threadline/storefront/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// Create inserts the order and assigns its ID.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// FindByIDs returns the existing orders in the order of ids.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// OrderEventRepository persists the order audit trail.
type OrderEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.OrderEvent) error
}

// OrderEventPublisher hands order events to the asynchronous audit pipeline.
type OrderEventPublisher interface {
	Publish(event domain.OrderEvent)
}

// Transactor runs fn as one unit of work when the store supports it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether WithinTransaction rolls back partial writes.
	Atomic() bool
}
