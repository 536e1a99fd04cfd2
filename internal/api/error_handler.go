package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/threadline/storefront/internal/api/handler"
	"github.com/threadline/storefront/internal/core/domain"
)

// domainErrors maps known domain errors to their HTTP status and client message.
var domainErrors = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrEmailTaken, http.StatusBadRequest, "User with this email already exists"},
	{domain.ErrUsernameTaken, http.StatusBadRequest, "Username already taken"},
	{domain.ErrCartEmpty, http.StatusBadRequest, "Cart is empty"},
	{domain.ErrEmptyQuery, http.StatusBadRequest, "Query parameter is required"},
	{domain.ErrOrderDelivered, http.StatusBadRequest, "Delivered orders cannot be updated"},
	{domain.ErrOrderCancelled, http.StatusBadRequest, "Cancelled orders cannot be updated"},
	{domain.ErrInvalidStatus, http.StatusBadRequest, "Invalid order status"},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, "Quantity must be between 1 and 100"},
	{domain.ErrInvalidCurrency, http.StatusBadRequest, "Invalid currency"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, "Total amount must be a positive number"},
	{domain.ErrInvalidAddress, http.StatusBadRequest, "Shipping address is incomplete"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{domain.ErrTokenMissing, http.StatusUnauthorized, "Access denied. No token provided."},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token."},
	{domain.ErrForbidden, http.StatusForbidden, "You don't have permission to update this order"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{domain.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders {"success": false, "message": "...", "errors": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, handler.ErrorResponse{Message: "Validation failed", Errors: ve.Errors}
	}

	// Echo's own errors (bind failures, unknown routes, rate limits, auth).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		return he.Code, handler.ErrorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			return de.code, handler.ErrorResponse{Message: de.msg}
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnexpected(log, c, err)
	return http.StatusInternalServerError, handler.ErrorResponse{Message: "Internal server error"}
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
