// Package seed builds product catalogs for the cmd/seed loader.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/threadline/storefront/internal/core/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog describes how to generate products plus a list of fixed ones.
type Catalog struct {
	Price        PriceRange        `yaml:"price"`
	Sizes        []string          `yaml:"sizes"`
	Images       []string          `yaml:"images"`
	Descriptions []string          `yaml:"descriptions"`
	Categories   []Category        `yaml:"categories"`
	Products     []*domain.Product `yaml:"products"`
}

// Category names are built as "<prefix> <suffix>".
type Category struct {
	Name     string   `yaml:"name"`
	Prefixes []string `yaml:"prefixes"`
	Suffixes []string `yaml:"suffixes"`
}

type PriceRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	for i, p := range c.Products {
		if p == nil || p.Name == "" || p.Category == "" || p.Size == "" {
			return fmt.Errorf("catalog: product %d needs name, category and size", i)
		}
		if p.Price < 0 {
			return fmt.Errorf("catalog: product %q has a negative price", p.Name)
		}
	}
	if len(c.Categories) == 0 {
		return nil
	}
	if c.Price.Min < 0 || c.Price.Max < c.Price.Min {
		return fmt.Errorf("catalog: invalid price range [%v, %v]", c.Price.Min, c.Price.Max)
	}
	if len(c.Sizes) == 0 || len(c.Images) == 0 || len(c.Descriptions) == 0 {
		return errors.New("catalog: sizes, images and descriptions must not be empty")
	}
	for _, cat := range c.Categories {
		if cat.Name == "" || len(cat.Prefixes) == 0 || len(cat.Suffixes) == 0 {
			return fmt.Errorf("catalog: category %q needs prefixes and suffixes", cat.Name)
		}
	}
	return nil
}

// Generate returns the fixed products followed by count generated ones.
// Prices are rounded to cents.
func (c *Catalog) Generate(count int, rnd *rand.Rand) []*domain.Product {
	out := make([]*domain.Product, 0, len(c.Products)+count)
	for _, p := range c.Products {
		cp := *p
		out = append(out, &cp)
	}
	if len(c.Categories) == 0 {
		return out
	}

	for i := 0; i < count; i++ {
		cat := c.Categories[rnd.IntN(len(c.Categories))]
		out = append(out, &domain.Product{
			Name:        pick(rnd, cat.Prefixes) + " " + pick(rnd, cat.Suffixes),
			Category:    cat.Name,
			Price:       c.price(rnd),
			Size:        pick(rnd, c.Sizes),
			Description: pick(rnd, c.Descriptions),
			ImageURL:    pick(rnd, c.Images),
		})
	}
	return out
}

func (c *Catalog) price(rnd *rand.Rand) float64 {
	lo := decimal.NewFromFloat(c.Price.Min)
	span := decimal.NewFromFloat(c.Price.Max).Sub(lo)
	return lo.Add(span.Mul(decimal.NewFromFloat(rnd.Float64()))).Round(2).InexactFloat64()
}

func pick(rnd *rand.Rand, values []string) string {
	return values[rnd.IntN(len(values))]
}
