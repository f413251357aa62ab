package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. Name and UnitPrice are snapshots taken when the
// product was first added; catalog edits after that point do not touch them.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Cart is the ordered collection of lines for one storefront session. The
// zero value is an empty cart.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add increments the quantity when the product is already present, otherwise
// appends a new line with quantity 1.
func (c *Cart) Add(line Line) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity++
			return
		}
	}
	line.Quantity = 1
	c.Lines = append(c.Lines, line)
}

// AdjustQuantity applies delta to the line's quantity; the line is removed
// when the result drops to zero or below. Unknown products are a no-op.
func (c *Cart) AdjustQuantity(productID uuid.UUID, delta int) {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		next := c.Lines[i].Quantity + delta
		if next <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = next
		}
		return
	}
}

// Remove drops the line regardless of quantity.
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Total derives the cart value as sum(unit_price * quantity).
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Count sums the line quantities, used for the cart badge.
func (c *Cart) Count() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}
