// Package delivery looks up the bakery's fulfillment options and the fee each one adds to an order.
package delivery

import (
	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultOptionID is the selection every session starts with.
const DefaultOptionID = "pickup"

// Options is the delivery option catalog fetched from the backend.
type Options []domain.DeliveryOption

// Find returns the option with the given ID.
func (o Options) Find(id string) (domain.DeliveryOption, bool) {
	for _, opt := range o {
		if opt.ID == id {
			return opt, true
		}
	}
	return domain.DeliveryOption{}, false
}

// Contains reports whether id names a known option.
func (o Options) Contains(id string) bool {
	_, ok := o.Find(id)
	return ok
}

// Fee returns the price of the option matching id, or zero when nothing matches.
func (o Options) Fee(id string) decimal.Decimal {
	if opt, ok := o.Find(id); ok {
		return opt.Price
	}
	return decimal.Zero
}

// Select validates a requested selection against the catalog.
func Select(options Options, id string) (string, error) {
	if id == "" {
		return "", ErrSelectionRequired
	}
	if !options.Contains(id) {
		return "", ErrUnknownOption(id)
	}
	return id, nil
}

// Label renders the option's price the way the storefront shows it.
func Label(opt domain.DeliveryOption) string {
	if opt.IsFree() {
		return "FREE"
	}
	return "$" + opt.Price.StringFixed(2)
}
