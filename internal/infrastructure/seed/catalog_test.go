package seed

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Generate(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	products := c.Generate(50, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, products, 51)
	assert.Equal(t, "ActiveFit™ Signature Hoodie", products[0].Name)

	categories := map[string]bool{"Top": true, "Pants": true, "Dress": true}
	for _, p := range products {
		assert.True(t, categories[p.Category], "unexpected category %q", p.Category)
		assert.GreaterOrEqual(t, p.Price, 20.0)
		assert.LessOrEqual(t, p.Price, 150.0)
		assert.Equal(t, p.Price, float64(int64(p.Price*100+0.5))/100, "price %v not rounded to cents", p.Price)
		assert.NotEmpty(t, p.ImageURL)
		assert.Empty(t, p.ID)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	a := c.Generate(10, rand.New(rand.NewPCG(7, 7)))
	b := c.Generate(10, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a, b)
}

func TestGenerate_CopiesFixedProducts(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	first := c.Generate(0, rand.New(rand.NewPCG(1, 1)))
	first[0].ID = "assigned-by-insert"
	second := c.Generate(0, rand.New(rand.NewPCG(1, 1)))
	assert.Empty(t, second[0].ID)
}

func TestLoad_FixedOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
products:
  - {name: Trail Runner, category: Shoes, price: 120, size: L, description: Grippy, imageUrl: x}
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	products := c.Generate(25, rand.New(rand.NewPCG(1, 1)))
	require.Len(t, products, 1)
	assert.Equal(t, "Shoes", products[0].Category)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":      "price: [",
		"price range":   "price: {min: 10, max: 5}\nsizes: [S]\nimages: [x]\ndescriptions: [d]\ncategories: [{name: Top, prefixes: [A], suffixes: [B]}]",
		"no sizes":      "price: {min: 1, max: 5}\nimages: [x]\ndescriptions: [d]\ncategories: [{name: Top, prefixes: [A], suffixes: [B]}]",
		"no suffixes":   "price: {min: 1, max: 5}\nsizes: [S]\nimages: [x]\ndescriptions: [d]\ncategories: [{name: Top, prefixes: [A]}]",
		"fixed no size": "products: [{name: A, category: B, price: 1}]",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}
