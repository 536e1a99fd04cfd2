package service

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type CatalogService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewCatalogService(repo ports.ProductRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// List returns one page of products matching every provided filter.
// Limit is clamped to [1, MaxPageLimit] and Page to at least 1, and low
// enough that the number of skipped products fits in an int.
func (s *CatalogService) List(ctx context.Context, in ports.ListProductsInput) (*ports.ProductPage, error) {
	limit := clampLimit(in.Limit)
	page := clampPage(in.Page, limit)

	items, total, err := s.repo.List(ctx, ports.ProductFilter{
		Category: strings.TrimSpace(in.Category),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Size:     strings.TrimSpace(in.Size),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ProductPage{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pageCount(total, limit),
	}, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	return s.repo.Search(ctx, query)
}

func clampPage(page, limit int) int {
	switch {
	case page < 1:
		return 1
	case page > math.MaxInt/limit:
		return math.MaxInt / limit
	default:
		return page
	}
}

func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > MaxPageLimit:
		return MaxPageLimit
	default:
		return limit
	}
}

// pageCount is ceil(total/limit).
func pageCount(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
