package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order-related domain errors.
var (
	ErrEmptyCart            = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrSubmissionInProgress = &Error{Code: ECONFLICT, Message: "An order is already being submitted"}
	ErrCatalogNotLoaded     = &Error{Code: ECONFLICT, Message: "The bakery's delivery options are not loaded yet"}
)

// CustomerInfo identifies who placed an order.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=30"`
	Address string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// OrderRequestItem is one cart line as submitted to the backend.
type OrderRequestItem struct {
	ProductID int
	Quantity  int
	Price     decimal.Decimal
}

// OrderRequest is the payload that creates an order. It is derived from the
// cart and delivery selection at submission time and never stored.
type OrderRequest struct {
	CustomerInfo        CustomerInfo
	Items               []OrderRequestItem
	DeliveryOption      string
	DeliveryFee         decimal.Decimal
	Subtotal            decimal.Decimal
	Total               decimal.Decimal
	SpecialInstructions string
}

// OrderItem is a line of a stored order.
type OrderItem struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order is an order as recorded by the backend.
type Order struct {
	OrderID             string          `json:"order_id"`
	CustomerInfo        CustomerInfo    `json:"customer_info"`
	Items               []OrderItem     `json:"items"`
	DeliveryOption      string          `json:"delivery_option"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Total               decimal.Decimal `json:"total"`
	Status              string          `json:"status"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	CreatedAt           *time.Time      `json:"created_at,omitempty"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
}

// OrderConfirmation is the backend's answer to a successful order submission.
type OrderConfirmation struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
	Order   *Order `json:"order,omitempty"`
}

// Order statuses reported by the backend.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
)

// OrderStatusLabel returns the customer-facing wording for an order status.
func OrderStatusLabel(status string) string {
	switch status {
	case OrderStatusPending:
		return "Order Received"
	case OrderStatusPreparing:
		return "Baking in Progress"
	case OrderStatusReady:
		return "Ready for Pickup/Delivery"
	case OrderStatusCompleted:
		return "Order Completed"
	default:
		return status
	}
}
