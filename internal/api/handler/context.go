package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/threadline/storefront/internal/api/middleware"
)

// ctxUserID returns the caller id injected by the Auth middleware. An empty
// id means the route was mounted without the middleware.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Access denied. No token provided.")
	}
	return userID, nil
}

// bindJSON binds and validates a request body.
func bindJSON(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}
	return c.Validate(req)
}
