package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/threadline/storefront/internal/core/ports"
)

const (
	defaultPage      = 1
	defaultPageLimit = 20
)

// ProductHandler serves the public catalog.
type ProductHandler struct {
	catalog ports.CatalogService
}

func NewProductHandler(catalog ports.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /api/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Exact category"
// @Param        minPrice  query     number  false  "Minimum price (inclusive)"
// @Param        maxPrice  query     number  false  "Maximum price (inclusive)"
// @Param        size      query     string  false  "Exact size"
// @Param        page      query     int     false  "Page, default 1"
// @Param        limit     query     int     false  "Page size, default 20, at most 100"
// @Success      200       {object}  productListResponse
// @Failure      400       {object}  ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	minPrice, err := queryFloat(c, "minPrice")
	if err != nil {
		return err
	}
	maxPrice, err := queryFloat(c, "maxPrice")
	if err != nil {
		return err
	}

	page, err := h.catalog.List(c.Request().Context(), ports.ListProductsInput{
		Category: c.QueryParam("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Size:     c.QueryParam("size"),
		Page:     queryInt(c, "page", defaultPage),
		Limit:    queryInt(c, "limit", defaultPageLimit),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, productListResponse{
		Success:  true,
		Products: page.Items,
		Pagination: pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: page.Total,
			Pages: page.Pages,
		},
	})
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	param := productIDParam{ID: c.Param("id")}
	if err := c.Validate(&param); err != nil {
		return err
	}

	product, err := h.catalog.GetByID(c.Request().Context(), param.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Success: true, Product: product})
}

// Search handles GET /api/products/search?q=.
//
// @Summary      Search products by name
// @Tags         products
// @Produce      json
// @Param        q    query     string  true  "Case-insensitive name fragment"
// @Success      200  {object}  productSearchResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c echo.Context) error {
	products, err := h.catalog.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productSearchResponse{Success: true, Products: products, Count: len(products)})
}

// queryInt returns the integer query parameter, or def when it is absent or
// not a number. Range clamping is the catalog service's job.
func queryInt(c echo.Context, name string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return def
	}
	return n
}

// queryFloat returns nil for an absent parameter and a validation error for a
// malformed one.
func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, newValidationError(name, name+" must be a number")
	}
	return &v, nil
}
