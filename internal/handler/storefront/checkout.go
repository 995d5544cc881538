package storefront

import (
	"net/http"

	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/dukerupert/sweethome/internal/handler"
)

type checkoutRequest struct {
	CustomerInfo        domain.CustomerInfo `json:"customer_info"`
	SpecialInstructions string              `json:"special_instructions"`
}

// Checkout handles POST /api/checkout. The cart and delivery selection come
// from the session; the body only carries who is ordering.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "storefront.checkout"

	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	conf, err := s.PlaceOrder(r.Context(), req.CustomerInfo, req.SpecialInstructions)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, ConfirmationView{
		OrderID: conf.OrderID,
		Message: conf.Message,
		Order:   newOrderView(conf.Order),
		Cart:    newCartView(s.Snapshot()),
	})
}

// OrderStatus handles GET /api/orders/{id}
func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	order, err := s.OrderStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, newOrderView(order))
}
