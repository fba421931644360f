// Package catalog serves the static product and service listings.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AllCategories matches every category in a Filter.
const AllCategories = "all"

//go:embed data/catalog.yaml
var defaultCatalog []byte

type Category struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type Specification struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type Product struct {
	ID             int                 `json:"id"`
	Name           string              `json:"name"`
	Category       string              `json:"category"`
	Price          decimal.Decimal     `json:"price"`
	OriginalPrice  decimal.NullDecimal `json:"original_price"`
	Image          string              `json:"image"`
	Rating         float64             `json:"rating"`
	Reviews        int                 `json:"reviews"`
	Badge          string              `json:"badge,omitempty"`
	InStock        bool                `json:"in_stock"`
	Description    string              `json:"description,omitempty"`
	Features       []string            `json:"features,omitempty"`
	Specifications []Specification     `json:"specifications,omitempty"`
}

// CartItem converts the product into a cart line.
func (p Product) CartItem() cart.Item {
	return cart.Item{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
		Type:  cart.ItemTypeProduct,
	}
}

type Service struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	Badge       string          `json:"badge,omitempty"`
	Available   bool            `json:"available"`
	Description string          `json:"description,omitempty"`
	Features    []string        `json:"features,omitempty"`
	Includes    []string        `json:"includes,omitempty"`
	Duration    string          `json:"duration,omitempty"`
	Location    string          `json:"location,omitempty"`
	Warranty    string          `json:"warranty,omitempty"`
}

func (s Service) CartItem() cart.Item {
	return cart.Item{
		ID:    s.ID,
		Name:  s.Name,
		Price: s.Price,
		Image: s.Image,
		Type:  cart.ItemTypeService,
	}
}

// Filter selects listings whose name contains Query (case-insensitive)
// and whose category equals Category. An empty or "all" category matches
// everything.
type Filter struct {
	Query    string
	Category string
}

func (f Filter) matches(name, category string) bool {
	if f.Category != "" && f.Category != AllCategories && f.Category != category {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(f.Query))
}

// Catalog is immutable after Load and safe for concurrent reads.
type Catalog struct {
	products          []Product
	services          []Service
	productCategories []Category
	serviceCategories []Category
	productIndex      map[int]int
	serviceIndex      map[int]int
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// LoadFile loads a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Load(data)
}

type rawProduct struct {
	ID             int             `yaml:"id"`
	Name           string          `yaml:"name"`
	Category       string          `yaml:"category"`
	Price          string          `yaml:"price"`
	OriginalPrice  string          `yaml:"original_price"`
	Image          string          `yaml:"image"`
	Rating         float64         `yaml:"rating"`
	Reviews        int             `yaml:"reviews"`
	Badge          string          `yaml:"badge"`
	InStock        bool            `yaml:"in_stock"`
	Description    string          `yaml:"description"`
	Features       []string        `yaml:"features"`
	Specifications []Specification `yaml:"specifications"`
}

type rawService struct {
	ID          int      `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Price       string   `yaml:"price"`
	Image       string   `yaml:"image"`
	Rating      float64  `yaml:"rating"`
	Reviews     int      `yaml:"reviews"`
	Badge       string   `yaml:"badge"`
	Available   bool     `yaml:"available"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Includes    []string `yaml:"includes"`
	Duration    string   `yaml:"duration"`
	Location    string   `yaml:"location"`
	Warranty    string   `yaml:"warranty"`
}

type document struct {
	ProductCategories []Category   `yaml:"product_categories"`
	ServiceCategories []Category   `yaml:"service_categories"`
	Products          []rawProduct `yaml:"products"`
	Services          []rawService `yaml:"services"`
}

// Load parses a YAML catalog document. Ids must be positive and unique
// within their kind, and prices non-negative decimals.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		productCategories: doc.ProductCategories,
		serviceCategories: doc.ServiceCategories,
		productIndex:      make(map[int]int, len(doc.Products)),
		serviceIndex:      make(map[int]int, len(doc.Services)),
	}

	for _, rp := range doc.Products {
		if err := checkID(rp.ID, c.productIndex); err != nil {
			return nil, fmt.Errorf("product %q: %w", rp.Name, err)
		}
		price, err := parsePrice(rp.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", rp.ID, err)
		}
		p := Product{
			ID:             rp.ID,
			Name:           rp.Name,
			Category:       rp.Category,
			Price:          price,
			Image:          rp.Image,
			Rating:         rp.Rating,
			Reviews:        rp.Reviews,
			Badge:          rp.Badge,
			InStock:        rp.InStock,
			Description:    rp.Description,
			Features:       rp.Features,
			Specifications: rp.Specifications,
		}
		if rp.OriginalPrice != "" {
			original, err := parsePrice(rp.OriginalPrice)
			if err != nil {
				return nil, fmt.Errorf("product %d original price: %w", rp.ID, err)
			}
			p.OriginalPrice = decimal.NewNullDecimal(original)
		}
		c.productIndex[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	for _, rs := range doc.Services {
		if err := checkID(rs.ID, c.serviceIndex); err != nil {
			return nil, fmt.Errorf("service %q: %w", rs.Name, err)
		}
		price, err := parsePrice(rs.Price)
		if err != nil {
			return nil, fmt.Errorf("service %d: %w", rs.ID, err)
		}
		c.serviceIndex[rs.ID] = len(c.services)
		c.services = append(c.services, Service{
			ID:          rs.ID,
			Name:        rs.Name,
			Category:    rs.Category,
			Price:       price,
			Image:       rs.Image,
			Rating:      rs.Rating,
			Reviews:     rs.Reviews,
			Badge:       rs.Badge,
			Available:   rs.Available,
			Description: rs.Description,
			Features:    rs.Features,
			Includes:    rs.Includes,
			Duration:    rs.Duration,
			Location:    rs.Location,
			Warranty:    rs.Warranty,
		})
	}

	return c, nil
}

func checkID(id int, seen map[int]int) error {
	if id <= 0 {
		return fmt.Errorf("invalid id %d", id)
	}
	if _, dup := seen[id]; dup {
		return fmt.Errorf("duplicate id %d", id)
	}
	return nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price %s", s)
	}
	return price, nil
}

// parseID converts a route parameter. Anything that is not a decimal
// integer simply matches nothing.
func parseID(id string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Product looks a product up by its string id.
func (c *Catalog) Product(id string) (Product, bool) {
	n, ok := parseID(id)
	if !ok {
		return Product{}, false
	}
	i, ok := c.productIndex[n]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Service looks a service up by its string id.
func (c *Catalog) Service(id string) (Service, bool) {
	n, ok := parseID(id)
	if !ok {
		return Service{}, false
	}
	i, ok := c.serviceIndex[n]
	if !ok {
		return Service{}, false
	}
	return c.services[i], true
}

// SearchProducts returns matching products in catalog order.
func (c *Catalog) SearchProducts(f Filter) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if f.matches(p.Name, p.Category) {
			out = append(out, p)
		}
	}
	return out
}

// SearchServices returns matching services in catalog order.
func (c *Catalog) SearchServices(f Filter) []Service {
	out := make([]Service, 0, len(c.services))
	for _, s := range c.services {
		if f.matches(s.Name, s.Category) {
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) ProductCategories() []Category {
	return append([]Category(nil), c.productCategories...)
}

func (c *Catalog) ServiceCategories() []Category {
	return append([]Category(nil), c.serviceCategories...)
}
