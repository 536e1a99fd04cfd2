package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

func catalogFixture() *stubProductRepo {
	return newStubProductRepo(
		&domain.Product{ID: "p1", Name: "ActiveFit T-Shirt", Category: "Top", Price: 20, Size: "M"},
		&domain.Product{ID: "p2", Name: "FlexWear Leggings", Category: "Pants", Price: 45, Size: "S"},
		&domain.Product{ID: "p3", Name: "ChicStyle Maxi Dress", Category: "Dress", Price: 80, Size: "M"},
		&domain.Product{ID: "p4", Name: "PowerFlex Tank Top", Category: "Top", Price: 15, Size: "L"},
	)
}

func ptr(f float64) *float64 { return &f }

func TestCatalogService_List_ClampsPagination(t *testing.T) {
	repo := catalogFixture()
	svc := NewCatalogService(repo, discardLogger)

	page, err := svc.List(context.Background(), ports.ListProductsInput{Page: 0, Limit: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", page.Page)
	}
	if page.Limit != 100 {
		t.Errorf("expected limit clamped to 100, got %d", page.Limit)
	}
	if repo.lastList.Page != 1 || repo.lastList.Limit != 100 {
		t.Errorf("repo received unclamped pagination: %+v", repo.lastList)
	}

	page, _ = svc.List(context.Background(), ports.ListProductsInput{Page: -3, Limit: 0})
	if page.Page != 1 || page.Limit != 1 {
		t.Errorf("expected page=1 limit=1, got page=%d limit=%d", page.Page, page.Limit)
	}
}

func TestCatalogService_List_HugePage(t *testing.T) {
	for _, tc := range []struct{ page, limit int }{
		{100000000000000000, 100},
		{math.MaxInt, 1},
		{math.MaxInt, 20},
	} {
		repo := catalogFixture()
		svc := NewCatalogService(repo, discardLogger)

		page, err := svc.List(context.Background(), ports.ListProductsInput{Page: tc.page, Limit: tc.limit})
		if err != nil {
			t.Fatalf("page=%d limit=%d: unexpected error: %v", tc.page, tc.limit, err)
		}
		if len(page.Items) != 0 || page.Total != 4 {
			t.Errorf("page=%d: expected empty page of 4, got %d of %d", tc.page, len(page.Items), page.Total)
		}
		skip := int64(repo.lastList.Page-1) * int64(repo.lastList.Limit)
		if skip < 0 || repo.lastList.Page < 1 {
			t.Errorf("page=%d limit=%d: skip overflowed to %d", tc.page, tc.limit, skip)
		}
	}
}

func TestCatalogService_List_FiltersAreConjunctive(t *testing.T) {
	svc := NewCatalogService(catalogFixture(), discardLogger)

	page, err := svc.List(context.Background(), ports.ListProductsInput{
		Category: "Top",
		MinPrice: ptr(16),
		Page:     1,
		Limit:    20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != "p1" {
		t.Fatalf("expected only p1, got total=%d items=%v", page.Total, page.Items)
	}

	page, _ = svc.List(context.Background(), ports.ListProductsInput{Size: "M", MaxPrice: ptr(50), Page: 1, Limit: 20})
	if page.Total != 1 || page.Items[0].ID != "p1" {
		t.Fatalf("expected only p1 for size M under 50, got %v", page.Items)
	}

	page, _ = svc.List(context.Background(), ports.ListProductsInput{Page: 1, Limit: 20})
	if page.Total != 4 {
		t.Fatalf("no filters must match everything, got %d", page.Total)
	}
}

func TestCatalogService_List_PageCount(t *testing.T) {
	repo := newStubProductRepo()
	for i := 0; i < 45; i++ {
		id := fmt.Sprintf("p%02d", i)
		repo.products[id] = &domain.Product{ID: id, Name: id, Category: "Top"}
	}
	svc := NewCatalogService(repo, discardLogger)

	page, err := svc.List(context.Background(), ports.ListProductsInput{Page: 3, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 45 || page.Pages != 3 {
		t.Fatalf("expected total=45 pages=3, got total=%d pages=%d", page.Total, page.Pages)
	}
	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items on last page, got %d", len(page.Items))
	}
	if page.Items[0].ID != "p40" {
		t.Fatalf("expected skip of 40, first item %s", page.Items[0].ID)
	}
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 1, 100},
	}
	for _, tc := range cases {
		if got := pageCount(tc.total, tc.limit); got != tc.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestCatalogService_GetByID(t *testing.T) {
	svc := NewCatalogService(catalogFixture(), discardLogger)

	p, err := svc.GetByID(context.Background(), "p2")
	if err != nil || p.Name != "FlexWear Leggings" {
		t.Fatalf("unexpected result: %v %v", p, err)
	}
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCatalogService_Search(t *testing.T) {
	svc := NewCatalogService(catalogFixture(), discardLogger)

	items, err := svc.Search(context.Background(), "  flex ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 case-insensitive matches, got %d", len(items))
	}

	for _, q := range []string{"", "   ", "\t"} {
		if _, err := svc.Search(context.Background(), q); !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
}
