// internal/cart/ledger.go
package cart

import (
	"github.com/google/uuid"

	"cookie-storefront/internal/models"
)

// Ledger holds the cart lines in insertion order.
//
// A Ledger is not safe for concurrent use; the owner serialises access.
type Ledger struct {
	items []LineItem
	newID func() string
}

func NewLedger() *Ledger {
	return &Ledger{newID: newBoxID}
}

func newBoxID() string {
	return "box-" + uuid.NewString()
}

// AddSimple adds one unit of product, merging with an existing simple line.
// A line already at MaxQuantity is left as is.
func (l *Ledger) AddSimple(product models.Product) SimpleLine {
	for i, item := range l.items {
		if line, ok := item.(SimpleLine); ok && line.Product.ID == product.ID {
			if line.Qty < MaxQuantity {
				line.Qty++
				l.items[i] = line
			}
			return line
		}
	}

	line := SimpleLine{Product: product, Qty: 1}
	l.items = append(l.items, line)
	return line
}

// AddComposite appends a new box with quantity 1.
func (l *Ledger) AddComposite(contents [BoxSize]models.Product) BoxLine {
	line := BoxLine{BoxID: l.newID(), Qty: 1, Contents: contents}
	l.items = append(l.items, line)
	return line
}

// UpdateQuantity shifts the quantity of the line with the given id by delta,
// clamping to [0, MaxQuantity]. A line that reaches zero is removed. It
// reports whether a line matched.
func (l *Ledger) UpdateQuantity(id string, delta int) bool {
	for i, item := range l.items {
		if item.ID() != id {
			continue
		}

		qty := shiftQuantity(item.Quantity(), delta)
		if qty == 0 {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
		l.items[i] = item.withQuantity(qty)
		return true
	}
	return false
}

// shiftQuantity adds delta to qty without overflowing, clamped to
// [0, MaxQuantity]. qty is always within that range.
func shiftQuantity(qty, delta int) int {
	switch {
	case delta >= MaxQuantity-qty:
		return MaxQuantity
	case delta <= -qty:
		return 0
	default:
		return qty + delta
	}
}

func (l *Ledger) Clear() {
	l.items = nil
}

// Lines returns the current lines in insertion order.
func (l *Ledger) Lines() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Len() int {
	return len(l.items)
}

func (l *Ledger) TotalItemCount() int {
	total := 0
	for _, item := range l.items {
		total += item.Quantity()
	}
	return total
}

func (l *Ledger) TotalPrice() models.Money {
	var total models.Money
	for _, item := range l.items {
		total += item.Subtotal()
	}
	return total
}

// Snapshot is the serialisable view of the ledger.
type Snapshot struct {
	Lines      []models.OrderLine `json:"lines"`
	TotalItems int                `json:"total_items"`
	Total      models.Money       `json:"total_cents"`
}

func (l *Ledger) Snapshot() Snapshot {
	lines := make([]models.OrderLine, 0, len(l.items))
	for _, item := range l.items {
		lines = append(lines, viewOf(item))
	}
	return Snapshot{
		Lines:      lines,
		TotalItems: l.TotalItemCount(),
		Total:      l.TotalPrice(),
	}
}

func viewOf(item LineItem) models.OrderLine {
	line := models.OrderLine{
		ItemID:    item.ID(),
		Kind:      item.Kind(),
		Name:      item.Name(),
		Quantity:  item.Quantity(),
		UnitPrice: item.UnitPrice(),
		Subtotal:  item.Subtotal(),
	}
	if box, ok := item.(BoxLine); ok {
		line.Contents = box.Groups()
	}
	return line
}
