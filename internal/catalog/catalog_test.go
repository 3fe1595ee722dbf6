package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookie-storefront/internal/models"
)

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestDefault(t *testing.T) {
	c := Default()

	require.Equal(t, 6, c.Len())
	assert.Equal(t, "c1", c.First().ID)
	assert.Equal(t, models.Money(390), c.First().Price)

	p, ok := c.Lookup("c2")
	require.True(t, ok)
	assert.Equal(t, "Red Velvet Air", p.Name)
	assert.Equal(t, models.Money(350), p.Price)

	_, ok = c.Lookup("nope")
	assert.False(t, ok)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		products []models.Product
		wantErr  string
	}{
		{name: "empty", products: nil, wantErr: "no products"},
		{name: "missing id", products: []models.Product{{Name: "x"}}, wantErr: "has no id"},
		{name: "duplicate id", products: []models.Product{{ID: "a"}, {ID: "a"}}, wantErr: "duplicate"},
		{name: "negative price", products: []models.Product{{ID: "a", Price: -1}}, wantErr: "negative price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.products)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProducts_ReturnsCopy(t *testing.T) {
	c := Default()

	products := c.Products()
	products[0].Name = "mutated"
	products[0].Ingredients[0] = "mutated"

	assert.Equal(t, "iChoco Pro Max", c.First().Name)
}

func TestNew_CopiesIngredients(t *testing.T) {
	ingredients := []string{"Farinha"}
	c, err := New([]models.Product{{ID: "a", Ingredients: ingredients}})
	require.NoError(t, err)

	ingredients[0] = "mutated"
	assert.Equal(t, "Farinha", c.First().Ingredients[0])
}

func TestSorted(t *testing.T) {
	c := Default()

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortDefault, []string{"c1", "c2", "c3", "c4", "c5", "c6"}},
		{SortPriceAsc, []string{"c6", "c4", "c2", "c5", "c1", "c3"}},
		{SortPriceDesc, []string{"c3", "c1", "c5", "c2", "c4", "c6"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ids(c.Sorted(tt.order))); diff != "" {
				t.Errorf("Sorted(%s) mismatch (-want +got):\n%s", tt.order, diff)
			}
		})
	}

	// Sorting never disturbs catalog order.
	assert.Equal(t, "c1", c.First().ID)
}

func TestSorted_StableOnTies(t *testing.T) {
	c, err := New([]models.Product{
		{ID: "a", Price: 200},
		{ID: "b", Price: 100},
		{ID: "c", Price: 200},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, ids(c.Sorted(SortPriceAsc)))
	assert.Equal(t, []string{"a", "c", "b"}, ids(c.Sorted(SortPriceDesc)))
}

func TestParseSortOrder(t *testing.T) {
	order, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDefault, order)

	order, err = ParseSortOrder(" Price-Asc ")
	require.NoError(t, err)
	assert.Equal(t, SortPriceAsc, order)

	_, err = ParseSortOrder("alphabetical")
	assert.Error(t, err)
}

func TestCandidates(t *testing.T) {
	c := Default()

	candidates := c.Candidates()
	require.Len(t, candidates, 6)
	assert.Equal(t, models.Candidate{
		ID:          "c5",
		Name:        "Dark Mode",
		Description: "85% Cacau. Para quem trabalha até tarde e prefere a interface escura da vida.",
	}, candidates[4])
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses default", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 6, c.Len())
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		doc := `
products:
  - id: s1
    name: Sea Salt
    price: 3.9
    ingredients: [Sal, Farinha]
  - id: s2
    name: Oat
    price: 2.15
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

		c, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 2, c.Len())

		p, ok := c.Lookup("s1")
		require.True(t, ok)
		assert.Equal(t, models.Money(390), p.Price)
		assert.Equal(t, []string{"Sal", "Farinha"}, p.Ingredients)

		p, _ = c.Lookup("s2")
		assert.Equal(t, models.Money(215), p.Price)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid products", func(t *testing.T) {
		_, err := Parse([]byte("products: []"))
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})
}

func TestImageOrFallback(t *testing.T) {
	assert.Equal(t, models.FallbackImageURL, models.Product{}.ImageOrFallback())
	assert.Equal(t, "x.png", models.Product{ImageURL: "x.png"}.ImageOrFallback())
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "11.30", models.Money(1130).String())
	assert.Equal(t, "0.05", models.Money(5).String())
	assert.Equal(t, "-2.50", models.Money(-250).String())
}
