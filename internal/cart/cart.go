// Package cart is the storefront's in-memory shopping cart: one line per
// product, kept in insertion order, with totals derived on every read.
package cart

import (
	"strconv"

	"github.com/dukerupert/sweethome/internal/delivery"
	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CART ERRORS
// =============================================================================

// ErrInvalidQuantity is returned when adding zero or fewer units.
var ErrInvalidQuantity = &domain.Error{Code: domain.EINVALID, Op: "cart.add", Message: "Quantity must be greater than 0"}

// Line is one product and how many of it the customer wants.
type Line struct {
	Product  domain.Product
	Quantity int
}

// Total returns price times quantity for the line.
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per product ID.
// The zero value is an empty cart ready to use. A Cart is not safe for
// concurrent use; the owning session serializes access.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts quantity units of product into the cart, growing the existing
// line when the product is already present.
func (c *Cart) Add(product domain.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if i := c.index(product.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		return nil
	}

	c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
	return nil
}

// UpdateQuantity sets the quantity of a line and reports whether the line
// was removed. A quantity of zero or less removes the line, and removing an
// absent line is a no-op. Setting a positive quantity on an absent line
// returns a not-found error.
func (c *Cart) UpdateQuantity(productID int, quantity int) (removed bool, err error) {
	if quantity <= 0 {
		return c.Remove(productID), nil
	}

	i := c.index(productID)
	if i < 0 {
		return false, domain.NotFound("cart.update_quantity", "cart line", strconv.Itoa(productID))
	}

	c.lines[i].Quantity = max(quantity, 1)
	return false, nil
}

// Remove deletes the line for productID and reports whether it was present.
func (c *Cart) Remove(productID int) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// Line returns the line for productID.
func (c *Cart) Line(productID int) (Line, bool) {
	if i := c.index(productID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() *Cart {
	return &Cart{lines: c.Lines()}
}

// ItemCount is the sum of all line quantities, shown on the cart badge.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// DeliveryFee returns the price of the selected option, zero if it is unknown.
func (c *Cart) DeliveryFee(selection string, options delivery.Options) decimal.Decimal {
	return options.Fee(selection)
}

// Total is the subtotal plus the selected delivery fee.
func (c *Cart) Total(selection string, options delivery.Options) decimal.Decimal {
	return c.Subtotal().Add(c.DeliveryFee(selection, options))
}

func (c *Cart) index(productID int) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
