package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by Validate when a request fails its rules.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := &ValidationError{Errors: make([]FieldError, 0, len(ve))}
			for _, fe := range ve {
				field := fieldPath(fe)
				out.Errors = append(out.Errors, FieldError{Field: field, Message: fieldMessage(field, fe)})
			}
			return out
		}
		return err
	}
	return nil
}

// strongPassword requires a lowercase letter, an uppercase letter and a digit.
func strongPassword(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// fieldPath drops the top-level struct name: "shippingAddress.city".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

var messages = map[string]string{
	"username.min":                  "Username must be between 3 and 30 characters",
	"username.max":                  "Username must be between 3 and 30 characters",
	"username.username":             "Username can only contain letters, numbers, and underscores",
	"email.email":                   "Invalid email address",
	"password.min":                  "Password must be at least 6 characters long",
	"password.password":             "Password must contain at least one uppercase letter, one lowercase letter, and one number",
	"password.required":             "Password is required",
	"productId.required":            "Product ID is required",
	"productId.mongodb":             "Invalid product ID format",
	"quantity.min":                  "Quantity must be between 1 and 100",
	"quantity.max":                  "Quantity must be between 1 and 100",
	"shippingAddress.userName":      "User name is required",
	"shippingAddress.streetAddress": "Street address is required",
	"shippingAddress.city":          "City is required",
	"shippingAddress.province":      "Province is required",
	"shippingAddress.zipCode":       "Zip code is required",
	"currency.oneof":                "Invalid currency",
	"currency.required":             "Invalid currency",
	"totalAmount.required":          "Total amount must be a positive number",
	"totalAmount.gte":               "Total amount must be a positive number",
	"status.oneof":                  "Invalid order status",
	"status.required":               "Invalid order status",
	"id.mongodb":                    "Invalid product ID format",
}

// fieldMessage picks the message for field+tag, then for the field alone,
// and falls back to a generic description.
func fieldMessage(field string, fe validator.FieldError) string {
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[field]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
