package ports

import (
	"context"

	"github.com/threadline/storefront/internal/core/domain"
)

// ProductFilter carries all query parameters for listing products.
// Nil or empty fields impose no constraint.
type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Size     string
	Page     int // 1-based
	Limit    int
}

// ProductRepository defines read access to the catalog plus the bulk writes
// used by the seeder.
type ProductRepository interface {
	// List returns a page of products matching filter and the total count.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDs returns the products that exist, keyed by id. Unknown ids are omitted.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error)
	// Search matches name case-insensitively against the literal query.
	Search(ctx context.Context, query string) ([]*domain.Product, error)
	InsertMany(ctx context.Context, products []*domain.Product) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}
