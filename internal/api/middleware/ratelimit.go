package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/threadline/storefront/internal/pkg/metrics"
)

// RateLimitPolicy is a named fixed request budget per client address.
type RateLimitPolicy struct {
	Name    string
	Store   echomiddleware.RateLimiterStore
	Message string
}

// RateLimit rejects requests over the policy budget with 429. A failing store
// lets the request through so a Redis outage does not take the API down.
func RateLimit(policy RateLimitPolicy, log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: failOpenStore{store: policy.Store, policy: policy.Name, log: log},
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.RateLimitedTotal.WithLabelValues(policy.Name).Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, policy.Message)
		},
	})
}

type failOpenStore struct {
	store  echomiddleware.RateLimiterStore
	policy string
	log    zerolog.Logger
}

func (s failOpenStore) Allow(identifier string) (bool, error) {
	allowed, err := s.store.Allow(identifier)
	if err != nil {
		s.log.Warn().Err(err).Str("policy", s.policy).Msg("rate limit store unavailable, allowing request")
		return true, nil
	}
	return allowed, nil
}
