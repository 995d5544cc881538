package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATALOG DOMAIN TYPES
// =============================================================================

// Product is a baked good in the backend catalog. Read-only to the storefront.
type Product struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit"`
	Image        string          `json:"image"`
	Category     string          `json:"category"`
	PrepTime     string          `json:"prep_time"`
	Availability bool            `json:"availability"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// ErrProductUnavailable is returned when adding a product the bakery is not currently offering.
var ErrProductUnavailable = &Error{Code: ECONFLICT, Message: "Product is not currently available"}

// DeliveryOption is one fulfillment method offered by the bakery.
// A zero Price means the option is free.
type DeliveryOption struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Time        string          `json:"time"`
	Icon        string          `json:"icon"`
}

// IsFree reports whether the option carries no delivery fee.
func (o DeliveryOption) IsFree() bool {
	return o.Price.IsZero()
}
