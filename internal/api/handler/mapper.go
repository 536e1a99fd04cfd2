package handler

import (
	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

func toLineResponses(lines []ports.ResolvedLine) []lineResponse {
	out := make([]lineResponse, len(lines))
	for i, l := range lines {
		out[i] = lineResponse{ProductID: l.ProductID, Quantity: l.Quantity}
		if l.Product != nil {
			out[i].Product = &productSummaryResponse{
				ID:       l.Product.ID,
				Name:     l.Product.Name,
				Price:    l.Product.Price,
				ImageURL: l.Product.ImageURL,
			}
		}
	}
	return out
}

func toCartResponse(view *ports.CartView) cartResponse {
	return cartResponse{
		Success:  true,
		Cart:     toLineResponses(view.Lines),
		Subtotal: view.Subtotal,
	}
}

func toOrderResponse(v ports.OrderView) orderResponse {
	return orderResponse{
		ID:              v.ID,
		User:            v.UserID,
		Products:        toLineResponses(v.Lines),
		TotalAmount:     v.TotalAmount,
		Currency:        v.Currency,
		ShippingAddress: v.ShippingAddress,
		Status:          v.Status,
		OrderDate:       v.OrderDate,
		Subtotal:        v.Subtotal,
	}
}

func toOrderResponses(views []ports.OrderView) []orderResponse {
	out := make([]orderResponse, len(views))
	for i, v := range views {
		out[i] = toOrderResponse(v)
	}
	return out
}

func toUserSummary(u *domain.User) userSummary {
	return userSummary{Username: u.Username, Email: u.Email}
}

func toShippingAddress(r shippingAddressRequest) domain.ShippingAddress {
	return domain.ShippingAddress{
		UserName:      r.UserName,
		StreetAddress: r.StreetAddress,
		City:          r.City,
		Province:      r.Province,
		ZipCode:       r.ZipCode,
	}
}
