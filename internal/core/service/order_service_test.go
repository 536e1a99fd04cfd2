package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

type orderFixture struct {
	svc    *OrderService
	orders *stubOrderRepo
	users  *stubUserRepo
	events *stubPublisher
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders: newStubOrderRepo(),
		users:  newStubUserRepo(),
		events: &stubPublisher{},
	}
	products := newStubProductRepo(&domain.Product{ID: "p1", Name: "ActiveFit T-Shirt", Price: 10})
	f.svc = NewOrderService(f.orders, f.users, products, f.events, discardLogger)
	return f
}

func (f *orderFixture) seedOrder(id, userID string, status domain.OrderStatus, at time.Time) *domain.Order {
	o := &domain.Order{
		ID:              id,
		UserID:          userID,
		Products:        []domain.LineItem{{ProductID: "p1", Quantity: 3}},
		TotalAmount:     30,
		Currency:        domain.CurrencyCAD,
		ShippingAddress: testAddress,
		Status:          status,
		OrderDate:       at,
	}
	f.orders.orders[id] = o
	return o
}

func TestOrderService_UpdateStatus_Success(t *testing.T) {
	for _, next := range []domain.OrderStatus{domain.StatusDelivered, domain.StatusCancelled, domain.StatusOrdered} {
		f := newOrderFixture()
		f.seedOrder("o1", "u1", domain.StatusOrdered, time.Now())

		view, err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{OrderID: "o1", RequesterID: "u1", Status: next})
		require.NoError(t, err, "to %s", next)
		assert.Equal(t, next, view.Status)
		assert.Equal(t, next, f.orders.orders["o1"].Status)
		require.Len(t, view.Lines, 1)
		require.NotNil(t, view.Lines[0].Product)
		assert.Equal(t, "ActiveFit T-Shirt", view.Lines[0].Product.Name)

		require.Len(t, f.events.events, 1)
		assert.Equal(t, domain.OrderEventStatusChanged, f.events.events[0].Type)
		assert.Equal(t, next, f.events.events[0].Status)
	}
}

func TestOrderService_UpdateStatus_TerminalStates(t *testing.T) {
	cases := map[domain.OrderStatus]error{
		domain.StatusDelivered: domain.ErrOrderDelivered,
		domain.StatusCancelled: domain.ErrOrderCancelled,
	}
	for current, wantErr := range cases {
		for _, next := range []domain.OrderStatus{domain.StatusOrdered, domain.StatusDelivered, domain.StatusCancelled, "Bogus"} {
			f := newOrderFixture()
			f.seedOrder("o1", "u1", current, time.Now())

			_, err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{OrderID: "o1", RequesterID: "u1", Status: next})
			assert.ErrorIs(t, err, wantErr, "%s -> %s", current, next)
			assert.Equal(t, current, f.orders.orders["o1"].Status)
			assert.Empty(t, f.events.events)
		}
	}
}

func TestOrderService_UpdateStatus_Forbidden(t *testing.T) {
	f := newOrderFixture()
	f.seedOrder("o1", "owner", domain.StatusOrdered, time.Now())

	_, err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{OrderID: "o1", RequesterID: "intruder", Status: domain.StatusCancelled})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, domain.StatusOrdered, f.orders.orders["o1"].Status)
}

func TestOrderService_UpdateStatus_OwnershipCheckedBeforeTerminal(t *testing.T) {
	f := newOrderFixture()
	f.seedOrder("o1", "owner", domain.StatusDelivered, time.Now())

	_, err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{OrderID: "o1", RequesterID: "intruder", Status: domain.StatusCancelled})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOrderService_UpdateStatus_NotFoundAndInvalid(t *testing.T) {
	f := newOrderFixture()
	f.seedOrder("o1", "u1", domain.StatusOrdered, time.Now())

	_, err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{OrderID: "nope", RequesterID: "u1", Status: domain.StatusDelivered})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{OrderID: "o1", RequesterID: "u1", Status: "Shipped"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestOrderService_UpdateStatus_PersistError(t *testing.T) {
	f := newOrderFixture()
	f.seedOrder("o1", "u1", domain.StatusOrdered, time.Now())
	f.orders.updateErr = errors.New("db unavailable")

	_, err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{OrderID: "o1", RequesterID: "u1", Status: domain.StatusDelivered})
	require.Error(t, err)
	assert.Empty(t, f.events.events)
}

func TestOrderService_History_NewestFirst(t *testing.T) {
	f := newOrderFixture()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.seedOrder("old", "u1", domain.StatusDelivered, base)
	f.seedOrder("new", "u1", domain.StatusOrdered, base.Add(48*time.Hour))
	f.seedOrder("mid", "u1", domain.StatusCancelled, base.Add(24*time.Hour))
	f.seedOrder("other", "u2", domain.StatusOrdered, base.Add(72*time.Hour))

	history, err := f.svc.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "new", history[0].ID)
	assert.Equal(t, "mid", history[1].ID)
	assert.Equal(t, "old", history[2].ID)
	assert.Equal(t, "30.00", history[0].Subtotal.StringFixed(2))
}

func TestOrderService_Profile(t *testing.T) {
	f := newOrderFixture()
	u := f.users.seedUser("u1")
	u.OrderHistory = []string{"o1", "o2"}
	f.seedOrder("o1", "u1", domain.StatusOrdered, time.Now())
	f.seedOrder("o2", "u1", domain.StatusOrdered, time.Now())

	profile, err := f.svc.Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.Username)
	assert.Equal(t, "u1@example.com", profile.Email)
	require.Len(t, profile.Orders, 2)
	assert.Equal(t, "o1", profile.Orders[0].ID)

	_, err = f.svc.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
