package handler

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/threadline/storefront/internal/core/domain"
)

// --- Requests ---

type registerRequest struct {
	Username string `json:"username" validate:"min=3,max=30,username"`
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"min=6,password"`
}

func (r *registerRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type loginRequest struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"required"`
}

type cartItemRequest struct {
	ProductID string `json:"productId" validate:"required,mongodb"`
	Quantity  int    `json:"quantity" validate:"min=1,max=100"`
}

type shippingAddressRequest struct {
	UserName      string `json:"userName" validate:"required"`
	StreetAddress string `json:"streetAddress" validate:"required"`
	City          string `json:"city" validate:"required"`
	Province      string `json:"province" validate:"required"`
	ZipCode       string `json:"zipCode" validate:"required"`
}

type checkoutRequest struct {
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
	Currency        string                 `json:"currency" validate:"required,oneof=USD EUR GBP CAD"`
	TotalAmount     *float64               `json:"totalAmount" validate:"required,gte=0"`
}

func (r *checkoutRequest) normalize() {
	a := &r.ShippingAddress
	a.UserName = strings.TrimSpace(a.UserName)
	a.StreetAddress = strings.TrimSpace(a.StreetAddress)
	a.City = strings.TrimSpace(a.City)
	a.Province = strings.TrimSpace(a.Province)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=Ordered Delivered Cancelled"`
}

type productIDParam struct {
	ID string `json:"id" validate:"mongodb"`
}

// --- Responses ---

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type userSummary struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    userSummary `json:"user"`
}

type productSummaryResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// lineResponse is a cart or order line; Product is null when the product
// no longer exists.
type lineResponse struct {
	ProductID string                  `json:"productId"`
	Product   *productSummaryResponse `json:"product"`
	Quantity  int                     `json:"quantity"`
}

type cartResponse struct {
	Success  bool            `json:"success"`
	Cart     []lineResponse  `json:"cart"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID              string                 `json:"id"`
	User            string                 `json:"user"`
	Products        []lineResponse         `json:"products"`
	TotalAmount     float64                `json:"totalAmount"`
	Currency        domain.Currency        `json:"currency"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	Status          domain.OrderStatus     `json:"status"`
	OrderDate       time.Time              `json:"orderDate"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
}

type orderEnvelope struct {
	Success bool          `json:"success"`
	Order   orderResponse `json:"order"`
}

type orderListResponse struct {
	Success bool            `json:"success"`
	Orders  []orderResponse `json:"orders"`
	Count   int             `json:"count"`
}

type profileResponse struct {
	Success      bool            `json:"success"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	OrderHistory []orderResponse `json:"orderHistory"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type productListResponse struct {
	Success    bool              `json:"success"`
	Products   []*domain.Product `json:"products"`
	Pagination pagination        `json:"pagination"`
}

type productResponse struct {
	Success bool            `json:"success"`
	Product *domain.Product `json:"product"`
}

type productSearchResponse struct {
	Success  bool              `json:"success"`
	Products []*domain.Product `json:"products"`
	Count    int               `json:"count"`
}
