package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/threadline/storefront/internal/api/handler"
	"github.com/threadline/storefront/internal/api/middleware"
	"github.com/threadline/storefront/internal/core/ports"
	"github.com/threadline/storefront/internal/infrastructure/http/handlers"
)

const bodyLimit = "10M"

const (
	globalLimitMessage = "Too many requests from this IP, please try again later."
	authLimitMessage   = "Too many authentication attempts, please try again later."
)

// Dependencies is everything the router needs to mount the API.
type Dependencies struct {
	Auth     ports.AuthService
	Catalog  ports.CatalogService
	Carts    ports.CartService
	Checkout ports.CheckoutService
	Orders   ports.OrderService
	Tokens   ports.TokenVerifier

	// GlobalLimiter budgets every /api request, AuthLimiter only register and login.
	GlobalLimiter echomiddleware.RateLimiterStore
	AuthLimiter   echomiddleware.RateLimiterStore

	HealthChecks map[string]handlers.Check

	FrontendURL string
	Development bool

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
	Logger     zerolog.Logger
}

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	guards  []echo.MiddlewareFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(middleware.CORS(deps.FrontendURL, deps.Development))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "storefront",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth, no rate limit) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gathererFor(registerer),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	api := e.Group("/api", middleware.RateLimit(middleware.RateLimitPolicy{
		Name:    "global",
		Store:   deps.GlobalLimiter,
		Message: globalLimitMessage,
	}, deps.Logger))

	for _, r := range routes(deps) {
		api.Add(r.method, r.path, r.handler, r.guards...)
	}

	return e
}

func routes(deps Dependencies) []route {
	authHandler := handler.NewAuthHandler(deps.Auth)
	productHandler := handler.NewProductHandler(deps.Catalog)
	cartHandler := handler.NewCartHandler(deps.Carts, deps.Checkout)
	orderHandler := handler.NewOrderHandler(deps.Orders)

	authLimit := middleware.RateLimit(middleware.RateLimitPolicy{
		Name:    "auth",
		Store:   deps.AuthLimiter,
		Message: authLimitMessage,
	}, deps.Logger)
	bearer := middleware.Auth(deps.Tokens)

	return []route{
		{http.MethodPost, "/users/register", authHandler.Register, []echo.MiddlewareFunc{authLimit}},
		{http.MethodPost, "/users/login", authHandler.Login, []echo.MiddlewareFunc{authLimit}},
		{http.MethodGet, "/users/profile", orderHandler.Profile, []echo.MiddlewareFunc{bearer}},
		{http.MethodGet, "/users/cart", cartHandler.Get, []echo.MiddlewareFunc{bearer}},
		{http.MethodPost, "/users/cart", cartHandler.Upsert, []echo.MiddlewareFunc{bearer}},
		{http.MethodDelete, "/users/cart/item/:productId", cartHandler.Remove, []echo.MiddlewareFunc{bearer}},
		{http.MethodPost, "/users/cart/checkout", cartHandler.Checkout, []echo.MiddlewareFunc{bearer}},

		{http.MethodGet, "/products", productHandler.List, nil},
		{http.MethodGet, "/products/search", productHandler.Search, nil},
		{http.MethodGet, "/products/:id", productHandler.Get, nil},

		{http.MethodGet, "/orders/history", orderHandler.History, []echo.MiddlewareFunc{bearer}},
		{http.MethodPatch, "/orders/:id/status", orderHandler.UpdateStatus, []echo.MiddlewareFunc{bearer}},
	}
}

// gathererFor serves /metrics from the same registry the middleware writes to.
func gathererFor(r prometheus.Registerer) prometheus.Gatherer {
	if g, ok := r.(prometheus.Gatherer); ok {
		return g
	}
	return prometheus.DefaultGatherer
}
