package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTokenMissing      = errors.New("no token provided")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrMissingSigningKey = errors.New("token signing key is not configured")

	ErrProductNotFound = errors.New("product not found")
	ErrEmptyQuery      = errors.New("query parameter is required")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 100")

	ErrCartEmpty       = errors.New("cart is empty")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidAmount   = errors.New("total amount must be a positive number")
	ErrInvalidAddress  = errors.New("shipping address is incomplete")

	ErrOrderNotFound  = errors.New("order not found")
	ErrForbidden      = errors.New("access forbidden")
	ErrOrderDelivered = errors.New("delivered orders cannot be updated")
	ErrOrderCancelled = errors.New("cancelled orders cannot be updated")
	ErrInvalidStatus  = errors.New("invalid order status")
)
