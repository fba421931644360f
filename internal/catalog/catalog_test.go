package catalog

import (
	"testing"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func productIDs(products []Product) []int {
	ids := make([]int, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

// ============================================
// Lookup Tests
// ============================================

func TestCatalog_Product(t *testing.T) {
	c := newTestCatalog(t)

	p, ok := c.Product("1")
	require.True(t, ok)
	assert.Equal(t, "Gaming Desktop PC - RTX 4070", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(1299)))
	require.True(t, p.OriginalPrice.Valid)
	assert.True(t, p.OriginalPrice.Decimal.Equal(decimal.NewFromInt(1499)))
	assert.Len(t, p.Features, 8)
	require.Len(t, p.Specifications, 8)
	assert.Equal(t, Specification{Name: "Processor", Value: "Intel Core i7-13700K"}, p.Specifications[0])

	laptop, ok := c.Product("2")
	require.True(t, ok)
	assert.False(t, laptop.OriginalPrice.Valid)
	assert.Equal(t, `14" Full HD IPS`, laptop.Specifications[3].Value)

	keyboard, ok := c.Product("6")
	require.True(t, ok)
	assert.False(t, keyboard.InStock)
}

func TestCatalog_Product_NotFound(t *testing.T) {
	c := newTestCatalog(t)

	for _, id := range []string{"0", "9", "-1", "abc", "", "1.5"} {
		_, ok := c.Product(id)
		assert.False(t, ok, "id %q", id)
	}
}

func TestCatalog_Service(t *testing.T) {
	c := newTestCatalog(t)

	s, ok := c.Service("2")
	require.True(t, ok)
	assert.Equal(t, "CCTV Installation & Setup", s.Name)
	assert.Equal(t, "installation", s.Category)
	assert.True(t, s.Price.Equal(decimal.NewFromInt(299)))
	assert.Equal(t, "On-site only", s.Location)
	assert.Len(t, s.Includes, 6)

	_, ok = c.Service("99")
	assert.False(t, ok)
}

// ============================================
// Search Tests
// ============================================

func TestCatalog_SearchProducts(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"everything", Filter{}, []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{"all category", Filter{Category: AllCategories}, []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{"category only", Filter{Category: "printers"}, []int{3, 8}},
		{"case-insensitive search", Filter{Query: "PRINTER"}, []int{3, 8}},
		{"search and category", Filter{Query: "gaming", Category: "accessories"}, []int{6}},
		{"search across categories", Filter{Query: "gaming"}, []int{1, 6}},
		{"no match", Filter{Query: "toaster"}, []int{}},
		{"unknown category", Filter{Category: "toasters"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, productIDs(c.SearchProducts(tt.filter)))
		})
	}
}

func TestCatalog_SearchServices(t *testing.T) {
	c := newTestCatalog(t)

	assert.Len(t, c.SearchServices(Filter{}), 4)

	repair := c.SearchServices(Filter{Category: "repair"})
	require.Len(t, repair, 1)
	assert.Equal(t, 1, repair[0].ID)

	found := c.SearchServices(Filter{Query: "cctv"})
	require.Len(t, found, 1)
	assert.Equal(t, 2, found[0].ID)
}

func TestCatalog_Categories(t *testing.T) {
	c := newTestCatalog(t)

	categories := c.ProductCategories()
	require.Len(t, categories, 6)
	assert.Equal(t, Category{Value: "all", Label: "All Products"}, categories[0])
	assert.Equal(t, Category{Value: "cctv", Label: "CCTV Systems"}, categories[3])

	assert.Equal(t, "all", c.ServiceCategories()[0].Value)
}

// ============================================
// CartItem Tests
// ============================================

func TestProductAndService_CartItem(t *testing.T) {
	c := newTestCatalog(t)

	p, _ := c.Product("3")
	item := p.CartItem()
	assert.Equal(t, cart.Key{ID: 3, Type: cart.ItemTypeProduct}, item.Key())
	assert.Equal(t, p.Name, item.Name)
	assert.Equal(t, p.Image, item.Image)
	assert.True(t, item.Price.Equal(p.Price))

	s, _ := c.Service("1")
	assert.Equal(t, cart.Key{ID: 1, Type: cart.ItemTypeService}, s.CartItem().Key())
}

// ============================================
// Load Tests
// ============================================

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "products: [\n"},
		{"duplicate product id", "products:\n  - {id: 1, name: a, price: '1'}\n  - {id: 1, name: b, price: '2'}\n"},
		{"zero id", "services:\n  - {id: 0, name: a, price: '1'}\n"},
		{"bad price", "products:\n  - {id: 1, name: a, price: 'cheap'}\n"},
		{"negative price", "products:\n  - {id: 1, name: a, price: '-5'}\n"},
		{"bad original price", "products:\n  - {id: 1, name: a, price: '5', original_price: x}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProductAndServiceIDsAreIndependent(t *testing.T) {
	c, err := Load([]byte("products:\n  - {id: 1, name: Widget, price: '2.50'}\nservices:\n  - {id: 1, name: Fixing, price: '10'}\n"))
	require.NoError(t, err)

	p, ok := c.Product("1")
	require.True(t, ok)
	assert.Equal(t, "Widget", p.Name)

	s, ok := c.Service("1")
	require.True(t, ok)
	assert.Equal(t, "Fixing", s.Name)
}
