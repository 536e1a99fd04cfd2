package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

const bearerPrefix = "Bearer "

// Auth validates the bearer token and injects its claims into context.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. No token provided.").
					SetInternal(domain.ErrTokenMissing)
			}
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token.").
					SetInternal(domain.ErrInvalidToken)
			}

			claims, err := verifier.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				if errors.Is(err, domain.ErrTokenMissing) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. No token provided.").SetInternal(err)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token.").SetInternal(err)
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextEmail, claims.Email)

			return next(c)
		}
	}
}
