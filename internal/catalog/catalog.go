// internal/catalog/catalog.go
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"cookie-storefront/internal/models"
)

var ErrEmptyCatalog = errors.New("catalog has no products")

// SortOrder selects how Sorted orders the products.
type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// ParseSortOrder maps a query value to a SortOrder. Empty means SortDefault.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortDefault:
		return SortDefault, nil
	case SortPriceAsc:
		return SortPriceAsc, nil
	case SortPriceDesc:
		return SortPriceDesc, nil
	default:
		return SortDefault, fmt.Errorf("unknown sort order %q", s)
	}
}

// Catalog is the immutable, ordered list of purchasable products.
type Catalog struct {
	products []models.Product
	index    map[string]int
}

func New(products []models.Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		products: make([]models.Product, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product at position %d has no id", i)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q has negative price %s", p.ID, p.Price)
		}
		p.Ingredients = append([]string(nil), p.Ingredients...)
		c.products[i] = p
		c.index[p.ID] = i
	}
	return c, nil
}

// Products returns every product in catalog order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Lookup(id string) (models.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// First returns the first product in catalog order. A Catalog is never empty.
func (c *Catalog) First() models.Product {
	return c.products[0]
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Sorted returns the products in the requested order. Ties keep catalog order.
func (c *Catalog) Sorted(order SortOrder) []models.Product {
	out := c.Products()
	switch order {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// Candidates lists the products in the shape sent to the recommendation gateway.
func (c *Catalog) Candidates() []models.Candidate {
	out := make([]models.Candidate, len(c.products))
	for i, p := range c.products {
		out[i] = models.Candidate{ID: p.ID, Name: p.Name, Description: p.Description}
	}
	return out
}

type productRecord struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Tagline     string   `yaml:"tagline"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	ImageURL    string   `yaml:"image_url"`
	Ingredients []string `yaml:"ingredients"`
	Accent      string   `yaml:"accent"`
}

type catalogFile struct {
	Products []productRecord `yaml:"products"`
}

// Load reads a catalog from a YAML file. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	products := make([]models.Product, 0, len(file.Products))
	for _, r := range file.Products {
		products = append(products, models.Product{
			ID:          r.ID,
			Name:        r.Name,
			Tagline:     r.Tagline,
			Description: r.Description,
			Price:       toCents(r.Price),
			ImageURL:    r.ImageURL,
			Ingredients: r.Ingredients,
			Accent:      r.Accent,
		})
	}
	return New(products)
}

func toCents(price float64) models.Money {
	if price < 0 {
		return models.Money(price*100 - 0.5)
	}
	return models.Money(price*100 + 0.5)
}
