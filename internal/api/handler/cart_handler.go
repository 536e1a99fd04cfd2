package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

// CartHandler serves the caller's cart and checkout.
type CartHandler struct {
	carts    ports.CartService
	checkout ports.CheckoutService
}

func NewCartHandler(carts ports.CartService, checkout ports.CheckoutService) *CartHandler {
	return &CartHandler{carts: carts, checkout: checkout}
}

// Get handles GET /api/users/cart.
//
// @Summary      Get the caller's cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/users/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	view, err := h.carts.GetCart(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// Upsert handles POST /api/users/cart. An existing line gets its quantity
// replaced, not incremented.
//
// @Summary      Add a product to the cart or set its quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartItemRequest  true  "Product and quantity (1-100)"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/users/cart [post]
func (h *CartHandler) Upsert(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req cartItemRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	view, err := h.carts.UpsertItem(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// Remove handles DELETE /api/users/cart/item/:productId. Removing a product
// that is not in the cart returns the cart unchanged.
//
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      string  true  "Product ID"
// @Success      200        {object}  cartResponse
// @Failure      401        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /api/users/cart/item/{productId} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	view, err := h.carts.RemoveItem(c.Request().Context(), userID, c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// Checkout handles POST /api/users/cart/checkout.
//
// @Summary      Turn the cart into an order
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkoutRequest  true  "Shipping address, currency and total"
// @Success      201   {object}  orderEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/users/cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.checkout.Checkout(c.Request().Context(), ports.CheckoutInput{
		UserID:          userID,
		ShippingAddress: toShippingAddress(req.ShippingAddress),
		Currency:        domain.Currency(req.Currency),
		TotalAmount:     *req.TotalAmount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderEnvelope{Success: true, Order: toOrderResponse(*view)})
}
