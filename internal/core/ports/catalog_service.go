package ports

import (
	"context"

	"github.com/threadline/storefront/internal/core/domain"
)

// ListProductsInput carries the raw catalog query. Page and Limit are clamped
// by the service.
type ListProductsInput struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Size     string
	Page     int
	Limit    int
}

// ProductPage is returned by List.
type ProductPage struct {
	Items []*domain.Product
	Total int64
	Page  int
	Limit int
	Pages int
}

type CatalogService interface {
	List(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)
}
