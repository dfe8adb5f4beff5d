package model

import (
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/shopspring/decimal"
)

// CartLine is a menu item snapshot taken when it was added to the cart.
type CartLine struct {
	MenuItemID uint   `json:"menu_item_id"`
	Title      string `json:"title"`
	UnitPrice  string `json:"unit_price"` // currency formatted, e.g. "₱159.00"
	ImageURL   string `json:"image_url"`
	Quantity   int    `json:"quantity"`
}

// Price parses the unit price snapshot.
func (l CartLine) Price() decimal.Decimal {
	return util.ParsePrice(l.UnitPrice)
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l CartLine) sameItem(other CartLine) bool {
	if l.MenuItemID != 0 || other.MenuItemID != 0 {
		return l.MenuItemID == other.MenuItemID
	}
	return l.Title == other.Title
}

// Cart is the ordered list of lines owned by one customer session.
// The zero value is an empty cart.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// AddItem merges the line into an existing line for the same menu item,
// or appends it with quantity 1.
func (c *Cart) AddItem(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].sameItem(line) {
			c.Lines[i].Quantity++
			return
		}
	}
	line.Quantity = 1
	c.Lines = append(c.Lines, line)
}

// ChangeQuantity adds delta to the line at index. A line whose quantity
// drops to zero or below is removed. Out-of-range indexes leave the cart
// untouched and return false.
func (c *Cart) ChangeQuantity(index, delta int) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}
	c.Lines[index].Quantity += delta
	if c.Lines[index].Quantity <= 0 {
		c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	}
	return true
}

// DeleteLine removes the line at index.
func (c *Cart) DeleteLine(index int) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return true
}

// Total sums unit price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Count returns the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

// Subtract takes other's quantities off the matching lines. Lines that reach
// zero are removed; lines other does not hold are left alone.
func (c *Cart) Subtract(other *Cart) {
	if other == nil {
		return
	}
	for _, taken := range other.Lines {
		for i := range c.Lines {
			if c.Lines[i].sameItem(taken) {
				c.ChangeQuantity(i, -taken.Quantity)
				break
			}
		}
	}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Clear() {
	c.Lines = nil
}

// Clone returns a deep copy so stored carts are never shared.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return &Cart{}
	}
	out := &Cart{}
	if len(c.Lines) > 0 {
		out.Lines = make([]CartLine, len(c.Lines))
		copy(out.Lines, c.Lines)
	}
	return out
}
