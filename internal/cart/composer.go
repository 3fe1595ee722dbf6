// internal/cart/composer.go
package cart

import (
	"cookie-storefront/internal/models"
)

// Composer fills a box one slot at a time and hands the finished box to the
// Ledger. Like the Ledger, it is not safe for concurrent use.
type Composer struct {
	slots  [BoxSize]*models.Product
	ledger *Ledger
}

func NewComposer(ledger *Ledger) *Composer {
	return &Composer{ledger: ledger}
}

// Pick places product in the lowest empty slot. It returns the slot index, or
// false when the box is already full.
func (c *Composer) Pick(product models.Product) (int, bool) {
	for i, slot := range c.slots {
		if slot == nil {
			p := product
			c.slots[i] = &p
			return i, true
		}
	}
	return -1, false
}

// Unpick empties the slot at index. Empty slots and out-of-range indexes are
// left alone.
func (c *Composer) Unpick(index int) bool {
	if index < 0 || index >= BoxSize || c.slots[index] == nil {
		return false
	}
	c.slots[index] = nil
	return true
}

func (c *Composer) FilledCount() int {
	n := 0
	for _, slot := range c.slots {
		if slot != nil {
			n++
		}
	}
	return n
}

func (c *Composer) IsComplete() bool {
	return c.FilledCount() == BoxSize
}

// Slots returns a copy of the buffer; nil marks an empty slot.
func (c *Composer) Slots() [BoxSize]*models.Product {
	var out [BoxSize]*models.Product
	for i, slot := range c.slots {
		if slot != nil {
			p := *slot
			out[i] = &p
		}
	}
	return out
}

// Commit moves a complete box into the ledger and empties every slot. On an
// incomplete box it does nothing and returns false.
func (c *Composer) Commit() (BoxLine, bool) {
	if !c.IsComplete() {
		return BoxLine{}, false
	}

	var contents [BoxSize]models.Product
	for i, slot := range c.slots {
		contents[i] = *slot
	}
	line := c.ledger.AddComposite(contents)
	c.slots = [BoxSize]*models.Product{}
	return line, true
}

// BoxView is the serialisable view of the composer.
type BoxView struct {
	Slots       []*models.Product `json:"slots"`
	FilledCount int               `json:"filled_count"`
	Complete    bool              `json:"complete"`
	Price       models.Money      `json:"price_cents"`
}

func (c *Composer) View() BoxView {
	slots := c.Slots()
	return BoxView{
		Slots:       slots[:],
		FilledCount: c.FilledCount(),
		Complete:    c.IsComplete(),
		Price:       BoxPrice,
	}
}
