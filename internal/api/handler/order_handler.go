package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

// OrderHandler serves order history, status changes and the profile view.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// History handles GET /api/orders/history.
//
// @Summary      List the caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/orders/history [get]
func (h *OrderHandler) History(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	views, err := h.orders.History(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderListResponse{Success: true, Orders: toOrderResponses(views), Count: len(views)})
}

// UpdateStatus handles PATCH /api/orders/:id/status. Only the owner may
// change an order, and Delivered or Cancelled orders are final.
//
// @Summary      Change an order's status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Order ID"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  orderEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	view, err := h.orders.UpdateStatus(c.Request().Context(), ports.UpdateStatusInput{
		OrderID:     c.Param("id"),
		RequesterID: userID,
		Status:      domain.OrderStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderEnvelope{Success: true, Order: toOrderResponse(*view)})
}

// Profile handles GET /api/users/profile.
//
// @Summary      Get the caller's profile and order history
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/users/profile [get]
func (h *OrderHandler) Profile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.orders.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{
		Success:      true,
		Username:     profile.Username,
		Email:        profile.Email,
		OrderHistory: toOrderResponses(profile.Orders),
	})
}
