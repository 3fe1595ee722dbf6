// internal/cart/line.go
package cart

import (
	"cookie-storefront/internal/models"
)

const (
	// BoxSize is the number of cookies in a composite box.
	BoxSize = 6

	// BoxPrice is the flat price of a box, regardless of contents.
	BoxPrice models.Money = 1800

	// BoxName is the display name of every box line.
	BoxName = "Box Personalizada (6)"

	// MaxQuantity caps the quantity of a single cart line.
	MaxQuantity = 999
)

// LineItem is one cart entry. It is either a SimpleLine or a BoxLine.
type LineItem interface {
	ID() string
	Kind() models.ItemKind
	Name() string
	Quantity() int
	UnitPrice() models.Money
	Subtotal() models.Money

	withQuantity(qty int) LineItem
}

// SimpleLine is a catalog product bought by the unit. Quantities of the same
// product merge into one line.
type SimpleLine struct {
	Product models.Product
	Qty     int
}

func (l SimpleLine) ID() string              { return l.Product.ID }
func (l SimpleLine) Kind() models.ItemKind   { return models.SimpleItem }
func (l SimpleLine) Name() string            { return l.Product.Name }
func (l SimpleLine) Quantity() int           { return l.Qty }
func (l SimpleLine) UnitPrice() models.Money { return l.Product.Price }
func (l SimpleLine) Subtotal() models.Money  { return l.Product.Price.Times(l.Qty) }

func (l SimpleLine) withQuantity(qty int) LineItem {
	l.Qty = qty
	return l
}

// BoxLine is a box of BoxSize hand-picked cookies sold at BoxPrice. Boxes
// never merge, not even with identical contents.
type BoxLine struct {
	BoxID    string
	Qty      int
	Contents [BoxSize]models.Product
}

func (l BoxLine) ID() string              { return l.BoxID }
func (l BoxLine) Kind() models.ItemKind   { return models.BoxItem }
func (l BoxLine) Name() string            { return BoxName }
func (l BoxLine) Quantity() int           { return l.Qty }
func (l BoxLine) UnitPrice() models.Money { return BoxPrice }
func (l BoxLine) Subtotal() models.Money  { return BoxPrice.Times(l.Qty) }

func (l BoxLine) withQuantity(qty int) LineItem {
	l.Qty = qty
	return l
}

// Groups collapses the box contents by product, in order of first appearance.
func (l BoxLine) Groups() []models.BoxGroup {
	var groups []models.BoxGroup
	pos := make(map[string]int, BoxSize)
	for _, p := range l.Contents {
		if i, ok := pos[p.ID]; ok {
			groups[i].Count++
			continue
		}
		pos[p.ID] = len(groups)
		groups = append(groups, models.BoxGroup{ProductID: p.ID, Name: p.Name, Count: 1})
	}
	return groups
}
