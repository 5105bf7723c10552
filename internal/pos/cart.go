package pos

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientStock = errors.New("not enough stock")
	ErrEmptyCart         = errors.New("cart is empty")
)

// Cart holds the pending sale, one line per product. Lines carry the product
// snapshot taken at add time; quantity never exceeds that snapshot's stock.
type Cart struct {
	lines map[int64]CartLine
}

func NewCart() *Cart {
	return &Cart{lines: make(map[int64]CartLine)}
}

func (c *Cart) Add(p Product) error {
	line, ok := c.lines[p.ID]
	if !ok {
		if p.Stock < 1 {
			return ErrInsufficientStock
		}
		c.lines[p.ID] = CartLine{Product: p, Quantity: 1}
		return nil
	}
	if line.Quantity >= p.Stock {
		return ErrInsufficientStock
	}
	line.Quantity++
	c.lines[p.ID] = line
	return nil
}

// Remove decrements the line for productID, deleting it at quantity 1.
// Removing a product that is not in the cart is a no-op.
func (c *Cart) Remove(productID int64) {
	line, ok := c.lines[productID]
	if !ok {
		return
	}
	if line.Quantity > 1 {
		line.Quantity--
		c.lines[productID] = line
		return
	}
	delete(c.lines, productID)
}

func (c *Cart) Quantity(productID int64) int {
	return c.lines[productID].Quantity
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the cart lines in product id order.
func (c *Cart) Lines() []CartLine {
	if len(c.lines) == 0 {
		return nil
	}
	lines := make([]CartLine, 0, len(c.lines))
	for _, line := range c.lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Product.ID < lines[j].Product.ID
	})
	return lines
}

// Total is recomputed from the lines on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c *Cart) Clear() {
	c.lines = make(map[int64]CartLine)
}
