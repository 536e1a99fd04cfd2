package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/threadline/storefront/internal/api/middleware"
	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID string) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextEmail, userID+"@example.com")
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubCartService struct {
	getFn    func(ctx context.Context, userID string) (*ports.CartView, error)
	upsertFn func(ctx context.Context, userID, productID string, qty int) (*ports.CartView, error)
	removeFn func(ctx context.Context, userID, productID string) (*ports.CartView, error)
}

func (s *stubCartService) GetCart(ctx context.Context, userID string) (*ports.CartView, error) {
	return s.getFn(ctx, userID)
}

func (s *stubCartService) UpsertItem(ctx context.Context, userID, productID string, qty int) (*ports.CartView, error) {
	return s.upsertFn(ctx, userID, productID, qty)
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID string) (*ports.CartView, error) {
	return s.removeFn(ctx, userID, productID)
}

type stubCheckoutService struct {
	checkoutFn func(ctx context.Context, in ports.CheckoutInput) (*ports.OrderView, error)
}

func (s *stubCheckoutService) Checkout(ctx context.Context, in ports.CheckoutInput) (*ports.OrderView, error) {
	return s.checkoutFn(ctx, in)
}

type stubOrderService struct {
	historyFn func(ctx context.Context, userID string) ([]ports.OrderView, error)
	updateFn  func(ctx context.Context, in ports.UpdateStatusInput) (*ports.OrderView, error)
	profileFn func(ctx context.Context, userID string) (*ports.Profile, error)
}

func (s *stubOrderService) History(ctx context.Context, userID string) ([]ports.OrderView, error) {
	return s.historyFn(ctx, userID)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, in ports.UpdateStatusInput) (*ports.OrderView, error) {
	return s.updateFn(ctx, in)
}

func (s *stubOrderService) Profile(ctx context.Context, userID string) (*ports.Profile, error) {
	return s.profileFn(ctx, userID)
}

type stubCatalogService struct {
	listFn   func(ctx context.Context, in ports.ListProductsInput) (*ports.ProductPage, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	searchFn func(ctx context.Context, q string) ([]*domain.Product, error)
}

func (s *stubCatalogService) List(ctx context.Context, in ports.ListProductsInput) (*ports.ProductPage, error) {
	return s.listFn(ctx, in)
}

func (s *stubCatalogService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalogService) Search(ctx context.Context, q string) ([]*domain.Product, error) {
	return s.searchFn(ctx, q)
}
