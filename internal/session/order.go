package session

import (
	"strings"

	"github.com/dukerupert/sweethome/internal/cart"
	"github.com/dukerupert/sweethome/internal/delivery"
	"github.com/dukerupert/sweethome/internal/domain"
)

// BuildOrderRequest derives the order payload from a cart and delivery
// selection. An unmatched selection contributes no fee.
func BuildOrderRequest(c *cart.Cart, selection string, options delivery.Options, customer domain.CustomerInfo, instructions string) (domain.OrderRequest, error) {
	if c.IsEmpty() {
		return domain.OrderRequest{}, domain.ErrEmptyCart
	}

	lines := c.Lines()
	items := make([]domain.OrderRequestItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderRequestItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		}
	}

	subtotal := c.Subtotal()
	fee := c.DeliveryFee(selection, options)

	return domain.OrderRequest{
		CustomerInfo:        customer,
		Items:               items,
		DeliveryOption:      selection,
		DeliveryFee:         fee,
		Subtotal:            subtotal,
		Total:               subtotal.Add(fee),
		SpecialInstructions: strings.TrimSpace(instructions),
	}, nil
}
