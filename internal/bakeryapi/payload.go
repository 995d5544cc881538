package bakeryapi

import (
	"encoding/json"

	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/shopspring/decimal"
)

// orderPayload is the wire form of domain.OrderRequest. Money goes out as
// JSON numbers with two decimals, which is what the backend parses.
type orderPayload struct {
	CustomerInfo        customerPayload    `json:"customer_info"`
	Items               []orderItemPayload `json:"items"`
	DeliveryOption      string             `json:"delivery_option"`
	DeliveryFee         json.Number        `json:"delivery_fee"`
	Subtotal            json.Number        `json:"subtotal"`
	Total               json.Number        `json:"total"`
	SpecialInstructions *string            `json:"special_instructions"`
}

type customerPayload struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address *string `json:"address"`
}

type orderItemPayload struct {
	ProductID int         `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

func newOrderPayload(req domain.OrderRequest) orderPayload {
	items := make([]orderItemPayload, len(req.Items))
	for i, item := range req.Items {
		items[i] = orderItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     money(item.Price),
		}
	}

	return orderPayload{
		CustomerInfo: customerPayload{
			Name:    req.CustomerInfo.Name,
			Email:   req.CustomerInfo.Email,
			Phone:   req.CustomerInfo.Phone,
			Address: optional(req.CustomerInfo.Address),
		},
		Items:               items,
		DeliveryOption:      req.DeliveryOption,
		DeliveryFee:         money(req.DeliveryFee),
		Subtotal:            money(req.Subtotal),
		Total:               money(req.Total),
		SpecialInstructions: optional(req.SpecialInstructions),
	}
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
