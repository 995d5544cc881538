package storefront

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/dukerupert/sweethome/internal/handler"
)

type addItemRequest struct {
	ProductID int  `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type selectDeliveryRequest struct {
	DeliveryOption string `json:"delivery_option"`
}

// Cart handles GET /api/cart
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	handler.JSON(w, http.StatusOK, newCartView(s.Snapshot()))
}

// AddItem handles POST /api/cart/items. Quantity defaults to 1.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "storefront.add_item"

	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.ProductID <= 0 {
		handler.ErrorResponse(w, r, domain.NewValidationError(op, "product_id", "is required"))
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := s.AddProductByID(r.Context(), req.ProductID, quantity); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, newCartView(s.Snapshot()))
}

// UpdateItem handles PUT /api/cart/items/{id}. Quantity <= 0 removes the line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	const op = "storefront.update_item"

	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	productID, err := productIDParam(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateItemRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := s.UpdateQuantity(productID, req.Quantity); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, newCartView(s.Snapshot()))
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "storefront.remove_item"

	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	productID, err := productIDParam(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := s.RemoveFromCart(productID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, newCartView(s.Snapshot()))
}

// SelectDelivery handles PUT /api/delivery
func (h *Handler) SelectDelivery(w http.ResponseWriter, r *http.Request) {
	const op = "storefront.select_delivery"

	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req selectDeliveryRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := s.SelectDelivery(req.DeliveryOption); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, newCartView(s.Snapshot()))
}

func productIDParam(r *http.Request, op string) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, domain.Invalid(op, "Invalid product ID")
	}
	return id, nil
}
