// internal/models/product.go
package models

import (
	"fmt"
)

// FallbackImageURL is served in place of a product image that is missing or
// fails to load.
const FallbackImageURL = "https://images.unsplash.com/photo-1558961363-fa8fdf82db35?auto=format&fit=crop&w=800&q=80"

// Money is an amount in euro cents.
type Money int64

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%02d", sign, int64(m)/100, int64(m)%100)
}

// Times multiplies a unit amount by a quantity.
func (m Money) Times(qty int) Money {
	return m * Money(qty)
}

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	Price       Money    `json:"price_cents"`
	ImageURL    string   `json:"image_url"`
	Ingredients []string `json:"ingredients"`
	Accent      string   `json:"accent"`
}

// ImageOrFallback returns the product image, or FallbackImageURL when none is set.
func (p Product) ImageOrFallback() string {
	if p.ImageURL == "" {
		return FallbackImageURL
	}
	return p.ImageURL
}

// Candidate is the slice of a product the recommendation gateway sees.
type Candidate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
