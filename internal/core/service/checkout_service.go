package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
	"github.com/threadline/storefront/internal/pkg/metrics"
)

// errCartNotCleared marks a failure after the order insert succeeded.
var errCartNotCleared = errors.New("cart not cleared")

// CheckoutService turns a user's cart into an order.
type CheckoutService struct {
	users    ports.UserRepository
	orders   ports.OrderRepository
	products ports.ProductRepository
	tx       ports.Transactor
	events   ports.OrderEventPublisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewCheckoutService(
	users ports.UserRepository,
	orders ports.OrderRepository,
	products ports.ProductRepository,
	tx ports.Transactor,
	events ports.OrderEventPublisher,
	log zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		users:    users,
		orders:   orders,
		products: products,
		tx:       tx,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Checkout snapshots the cart into a new Ordered order, then empties the cart
// and appends the order to the user's history. A missing user or an empty
// cart is reported before any problem with the order fields.
//
// A failed order insert leaves the user untouched. When the store is not
// transactional and the user update fails after the insert, the order stays
// persisted with the cart intact; that case is logged and counted.
func (s *CheckoutService) Checkout(ctx context.Context, in ports.CheckoutInput) (*ports.OrderView, error) {
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.CheckoutFailuresTotal.WithLabelValues("user_not_found").Inc()
		}
		return nil, err
	}
	if len(user.Cart) == 0 {
		metrics.CheckoutFailuresTotal.WithLabelValues("cart_empty").Inc()
		return nil, domain.ErrCartEmpty
	}
	if !in.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}
	if in.TotalAmount < 0 || math.IsNaN(in.TotalAmount) || math.IsInf(in.TotalAmount, 0) {
		return nil, domain.ErrInvalidAmount
	}
	if !in.ShippingAddress.Complete() {
		return nil, domain.ErrInvalidAddress
	}

	// 1. Snapshot the cart so later cart edits never reach the order.
	products := make([]domain.LineItem, len(user.Cart))
	copy(products, user.Cart)

	order := &domain.Order{
		UserID:          user.ID,
		Products:        products,
		TotalAmount:     in.TotalAmount,
		Currency:        in.Currency,
		ShippingAddress: in.ShippingAddress,
		Status:          domain.StatusOrdered,
		OrderDate:       s.now().UTC(),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 2. Persist the order.
		if err := s.orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		// 3–5. Clear the cart and append to history in one user update.
		if err := s.users.CompleteCheckout(ctx, user.ID, order.ID); err != nil {
			return fmt.Errorf("%w: %w", errCartNotCleared, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errCartNotCleared) {
			metrics.CheckoutFailuresTotal.WithLabelValues("cart_clear").Inc()
			if !s.tx.Atomic() {
				metrics.CheckoutInconsistentTotal.Inc()
				s.log.Error().Err(err).
					Str("order_id", order.ID).
					Str("user_id", user.ID).
					Msg("checkout left order without cart clear")
			}
		} else {
			metrics.CheckoutFailuresTotal.WithLabelValues("order_insert").Inc()
		}
		return nil, fmt.Errorf("checkout: %w", err)
	}

	metrics.OrdersCreatedTotal.WithLabelValues(string(order.Currency)).Inc()
	s.events.Publish(domain.OrderEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Type:    domain.OrderEventCreated,
		Status:  order.Status,
		At:      order.OrderDate,
	})

	// 6. Resolve product details for the response. The order is already
	// committed, so a lookup failure degrades the response instead of failing it.
	view, err := resolveOrder(ctx, s.products, order)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", order.ID).Msg("failed to resolve order products")
		view = toOrderView(order, nil)
	}

	s.checkTotal(order, view.Subtotal)

	s.log.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Int("lines", len(order.Products)).
		Str("currency", string(order.Currency)).
		Float64("total_amount", order.TotalAmount).
		Msg("order created")

	return view, nil
}

// checkTotal flags base-currency orders whose client total disagrees with the
// catalog subtotal. The client figure is kept either way.
func (s *CheckoutService) checkTotal(order *domain.Order, subtotal decimal.Decimal) {
	if order.Currency != domain.BaseCurrency || subtotal.IsZero() {
		return
	}
	client := decimal.NewFromFloat(order.TotalAmount).Round(2)
	if client.Equal(subtotal) {
		return
	}
	metrics.CheckoutTotalMismatchTotal.Inc()
	s.log.Warn().
		Str("order_id", order.ID).
		Str("client_total", client.StringFixed(2)).
		Str("catalog_subtotal", subtotal.StringFixed(2)).
		Msg("client total differs from catalog subtotal")
}
