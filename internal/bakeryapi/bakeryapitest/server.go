// Package bakeryapitest provides an in-memory bakery backend for tests and
// local development. It speaks the same JSON API as the real backend, keeps
// orders and reviews in memory only, and can be told to fail or stall
// individual endpoints.
package bakeryapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/sweethome/internal/bakeryapi"
	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/dukerupert/sweethome/internal/router"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivedOrder is an order submission exactly as it arrived on the wire.
type ReceivedOrder struct {
	CustomerInfo domain.CustomerInfo `json:"customer_info"`
	Items        []struct {
		ProductID int             `json:"product_id"`
		Quantity  int             `json:"quantity"`
		Price     decimal.Decimal `json:"price"`
	} `json:"items"`
	DeliveryOption      string          `json:"delivery_option"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Total               decimal.Decimal `json:"total"`
	SpecialInstructions *string         `json:"special_instructions"`
}

type failure struct {
	status int
	detail string
}

// Backend is the fake API state plus its HTTP handler.
type Backend struct {
	mu       sync.Mutex
	products []domain.Product
	options  []domain.DeliveryOption
	reviews  []domain.Review
	info     domain.BusinessInfo
	hours    domain.BusinessHours
	orders   map[string]domain.Order
	received []ReceivedOrder

	failures map[string]failure
	delays   map[string]time.Duration
	hits     map[string]int

	handler http.Handler
}

// NewBackend returns a backend seeded with the bakery's reference data.
func NewBackend() *Backend {
	b := &Backend{
		products: SeedProducts(),
		options:  SeedDeliveryOptions(),
		reviews:  SeedReviews(),
		info:     SeedBusinessInfo(),
		hours:    SeedBusinessHours(),
		orders:   make(map[string]domain.Order),
		failures: make(map[string]failure),
		delays:   make(map[string]time.Duration),
		hits:     make(map[string]int),
	}

	r := router.New()
	r.Get("/api/{$}", b.endpoint(bakeryapi.OpHealth, b.health))
	r.Get("/api/products", b.endpoint(bakeryapi.OpProducts, b.listProducts))
	r.Get("/api/products/{id}", b.endpoint(bakeryapi.OpProduct, b.getProduct))
	r.Get("/api/business-info", b.endpoint(bakeryapi.OpBusinessInfo, b.businessInfo))
	r.Get("/api/delivery-options", b.endpoint(bakeryapi.OpDeliveryOptions, b.deliveryOptions))
	r.Get("/api/business-hours", b.endpoint(bakeryapi.OpBusinessHours, b.businessHours))
	r.Get("/api/reviews", b.endpoint(bakeryapi.OpReviews, b.listReviews))
	r.Post("/api/reviews", b.endpoint(bakeryapi.OpSubmitReview, b.createReview))
	r.Post("/api/orders", b.endpoint(bakeryapi.OpCreateOrder, b.createOrder))
	r.Get("/api/orders/{id}", b.endpoint(bakeryapi.OpOrder, b.getOrder))
	b.handler = r

	return b
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.handler.ServeHTTP(w, r)
}

// Server is a Backend listening on a local httptest server.
type Server struct {
	*Backend
	*httptest.Server
}

// NewServer starts a fake backend that is shut down when the test ends.
func NewServer(tb testing.TB) *Server {
	tb.Helper()
	b := NewBackend()
	srv := httptest.NewServer(b)
	tb.Cleanup(srv.Close)
	return &Server{Backend: b, Server: srv}
}

// Client returns a bakeryapi client pointed at the server.
func (s *Server) Client(tb testing.TB, opts ...bakeryapi.Option) *bakeryapi.Client {
	tb.Helper()
	c, err := bakeryapi.New(s.URL, opts...)
	if err != nil {
		tb.Fatalf("bakeryapitest: create client: %v", err)
	}
	return c
}

// Fail makes op answer with status and a JSON detail until Recover is called.
// An empty detail sends an empty JSON object.
func (b *Backend) Fail(op string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[op] = failure{status: status, detail: detail}
}

// Recover clears a failure set with Fail.
func (b *Backend) Recover(op string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, op)
}

// Delay makes op wait d before answering, or until the request is cancelled.
func (b *Backend) Delay(op string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delays[op] = d
}

// Hits returns how many requests op has received.
func (b *Backend) Hits(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[op]
}

// ReceivedOrders returns every order submission seen so far.
func (b *Backend) ReceivedOrders() []ReceivedOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ReceivedOrder, len(b.received))
	copy(out, b.received)
	return out
}

// SetProductAvailability toggles whether a product is offered.
func (b *Backend) SetProductAvailability(id int, available bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			b.products[i].Availability = available
		}
	}
}

func (b *Backend) endpoint(op string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[op]++
		f, failing := b.failures[op]
		delay := b.delays[op]
		b.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if failing {
			body := map[string]any{}
			if f.detail != "" {
				body["detail"] = f.detail
			}
			writeJSON(w, f.status, body)
			return
		}

		fn(w, r)
	}
}

func (b *Backend) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Sweet Home Bakery API is running",
		"status":  "healthy",
	})
}

func (b *Backend) listProducts(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	products := make([]domain.Product, 0, len(b.products))
	for _, p := range b.products {
		if p.Availability {
			products = append(products, p)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (b *Backend) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "product_id must be an integer")
		return
	}

	p, ok := b.product(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) businessInfo(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.info)
}

func (b *Backend) deliveryOptions(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.options)
}

func (b *Backend) businessHours(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.hours)
}

func (b *Backend) listReviews(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	b.mu.Lock()
	total := len(b.reviews)
	start := min(max(offset, 0), total)
	end := min(start+max(limit, 0), total)
	page := make([]domain.Review, end-start)
	copy(page, b.reviews[start:end])
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.ReviewPage{Reviews: page, Total: total})
}

func (b *Backend) createReview(w http.ResponseWriter, r *http.Request) {
	var in domain.ReviewInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid review payload")
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		// Field validation failures carry a structured detail, as the real backend's do.
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "rating"}, "msg": "rating must be between 1 and 5"}},
		})
		return
	}

	now := time.Now().UTC()
	b.mu.Lock()
	next := 1
	for _, rv := range b.reviews {
		next = max(next, rv.ID+1)
	}
	review := domain.Review{ID: next, Name: in.Name, Rating: in.Rating, Comment: in.Comment, Verified: true, CreatedAt: &now}
	b.reviews = append(b.reviews, review)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"review": review, "message": "Review submitted successfully"})
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	var in ReceivedOrder
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid order payload")
		return
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		p, ok := b.product(item.ProductID)
		if !ok {
			writeDetail(w, http.StatusNotFound, fmt.Sprintf("Product %d not found", item.ProductID))
			return
		}
		items = append(items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	now := time.Now().UTC()
	order := domain.Order{
		OrderID:        uuid.NewString(),
		CustomerInfo:   in.CustomerInfo,
		Items:          items,
		DeliveryOption: in.DeliveryOption,
		DeliveryFee:    in.DeliveryFee,
		Subtotal:       in.Subtotal,
		Total:          in.Total,
		Status:         domain.OrderStatusPending,
		CreatedAt:      &now,
		UpdatedAt:      &now,
	}
	if in.SpecialInstructions != nil {
		order.SpecialInstructions = *in.SpecialInstructions
	}

	b.mu.Lock()
	b.orders[order.OrderID] = order
	b.received = append(b.received, in)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.OrderConfirmation{
		OrderID: order.OrderID,
		Message: "Order placed successfully",
		Order:   &order,
	})
}

func (b *Backend) getOrder(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	order, ok := b.orders[r.PathValue("id")]
	b.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (b *Backend) product(id int) (domain.Product, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return v
	}
	return fallback
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
