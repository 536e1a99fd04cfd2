package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
	"github.com/threadline/storefront/internal/pkg/metrics"
)

type OrderService struct {
	orders   ports.OrderRepository
	users    ports.UserRepository
	products ports.ProductRepository
	events   ports.OrderEventPublisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewOrderService(
	orders ports.OrderRepository,
	users ports.UserRepository,
	products ports.ProductRepository,
	events ports.OrderEventPublisher,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		users:    users,
		products: products,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

func (s *OrderService) History(ctx context.Context, userID string) ([]ports.OrderView, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolveOrders(ctx, s.products, orders)
}

// UpdateStatus applies a status change requested by the order's owner.
// Checks run in order: existence, ownership, terminal state, target validity.
func (s *OrderService) UpdateStatus(ctx context.Context, in ports.UpdateStatusInput) (*ports.OrderView, error) {
	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(in.RequesterID) {
		return nil, domain.ErrForbidden
	}
	switch order.Status {
	case domain.StatusDelivered:
		return nil, domain.ErrOrderDelivered
	case domain.StatusCancelled:
		return nil, domain.ErrOrderCancelled
	}
	if !in.Status.Valid() || !order.Status.CanTransitionTo(in.Status) {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, in.Status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	from := order.Status
	order.Status = in.Status
	metrics.OrderStatusTransitionsTotal.WithLabelValues(string(from), string(in.Status)).Inc()
	s.events.Publish(domain.OrderEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Type:    domain.OrderEventStatusChanged,
		Status:  order.Status,
		At:      s.now().UTC(),
	})

	s.log.Info().
		Str("order_id", order.ID).
		Str("from", string(from)).
		Str("to", string(in.Status)).
		Msg("order status updated")

	return resolveOrder(ctx, s.products, order)
}

// Profile returns the account summary with the orders referenced by its
// history, in history order.
func (s *OrderService) Profile(ctx context.Context, userID string) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindByIDs(ctx, user.OrderHistory)
	if err != nil {
		return nil, err
	}
	views, err := resolveOrders(ctx, s.products, orders)
	if err != nil {
		return nil, err
	}

	return &ports.Profile{
		Username: user.Username,
		Email:    user.Email,
		Orders:   views,
	}, nil
}
