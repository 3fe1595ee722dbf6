// internal/models/order.go
package models

import (
	"time"
)

// Order is the receipt written when a simulated checkout completes.
type Order struct {
	ID         string      `json:"id"`
	PlacedAt   time.Time   `json:"placed_at"`
	TotalItems int         `json:"total_items"`
	Total      Money       `json:"total_cents"`
	Lines      []OrderLine `json:"lines"`
}

type OrderLine struct {
	ItemID    string     `json:"item_id"`
	Kind      ItemKind   `json:"kind"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	UnitPrice Money      `json:"unit_price_cents"`
	Subtotal  Money      `json:"subtotal_cents"`
	Contents  []BoxGroup `json:"contents,omitempty"`
}

// BoxGroup groups identical products inside a box with their count.
type BoxGroup struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
}

type ItemKind string

const (
	SimpleItem ItemKind = "simple"
	BoxItem    ItemKind = "box"
)
