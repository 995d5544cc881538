package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// StorefrontMetrics holds Prometheus metrics for the storefront's business events.
// A nil *StorefrontMetrics is valid and records nothing.
type StorefrontMetrics struct {
	// Cart
	CartItemsAdded *prometheus.CounterVec
	CartUpdated    *prometheus.CounterVec
	CartCleared    *prometheus.CounterVec

	// Orders
	OrdersPlaced   *prometheus.CounterVec
	OrdersFailed   *prometheus.CounterVec
	OrderValue     prometheus.Histogram
	OrderItemCount prometheus.Histogram

	// Catalog loading
	InitialLoads *prometheus.CounterVec

	// Reviews
	ReviewsSubmitted *prometheus.CounterVec

	// Sessions
	ActiveSessions prometheus.Gauge

	// Backend API performance
	BackendLatency *prometheus.HistogramVec
}

// NewStorefrontMetrics creates the storefront metrics and registers them with reg.
func NewStorefrontMetrics(reg prometheus.Registerer, namespace string) *StorefrontMetrics {
	if namespace == "" {
		namespace = "sweethome"
	}

	factory := promauto.With(reg)
	subsystem := "storefront"

	return &StorefrontMetrics{
		CartItemsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total units added to carts",
			},
			[]string{"product_id"},
		),
		CartUpdated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_updates_total",
				Help:      "Total cart quantity changes and removals",
			},
			[]string{"action"}, // action: update, remove
		),
		CartCleared: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "carts_cleared_total",
				Help:      "Total carts emptied",
			},
			[]string{"reason"}, // reason: order_placed
		),
		OrdersPlaced: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_placed_total",
				Help:      "Total orders accepted by the backend",
			},
			[]string{"delivery_option"},
		),
		OrdersFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_failed_total",
				Help:      "Total order submissions that failed",
			},
			[]string{"reason"}, // reason: invalid, not_found, unavailable, internal
		),
		OrderValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_dollars",
				Help:      "Order totals in dollars",
				Buckets:   []float64{5, 10, 25, 50, 75, 100, 150, 250, 500},
			},
		),
		OrderItemCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Units per order",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
		InitialLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "initial_loads_total",
				Help:      "Total catalog loads by result",
			},
			[]string{"result"}, // result: success, failure
		),
		ReviewsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reviews_submitted_total",
				Help:      "Total reviews submitted by rating",
			},
			[]string{"rating"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_sessions",
				Help:      "Number of live storefront sessions",
			},
		),
		BackendLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "request_duration_seconds",
				Help:      "Bakery backend API request latency",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "status"},
		),
	}
}

// CartItemAdded records quantity units of a product added to a cart.
func (m *StorefrontMetrics) CartItemAdded(productID, quantity int) {
	if m == nil {
		return
	}
	m.CartItemsAdded.WithLabelValues(strconv.Itoa(productID)).Add(float64(quantity))
}

// CartChanged records a quantity update or removal.
func (m *StorefrontMetrics) CartChanged(action string) {
	if m == nil {
		return
	}
	m.CartUpdated.WithLabelValues(action).Inc()
}

// OrderPlaced records a successful order and clears the cart counter.
func (m *StorefrontMetrics) OrderPlaced(deliveryOption string, total decimal.Decimal, items int) {
	if m == nil {
		return
	}
	m.OrdersPlaced.WithLabelValues(deliveryOption).Inc()
	m.OrderValue.Observe(total.InexactFloat64())
	m.OrderItemCount.Observe(float64(items))
	m.CartCleared.WithLabelValues("order_placed").Inc()
}

// OrderFailed records a failed submission by error code.
func (m *StorefrontMetrics) OrderFailed(reason string) {
	if m == nil {
		return
	}
	m.OrdersFailed.WithLabelValues(reason).Inc()
}

// InitialLoad records the outcome of a catalog load.
func (m *StorefrontMetrics) InitialLoad(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.InitialLoads.WithLabelValues(result).Inc()
}

// ReviewSubmitted records an accepted review.
func (m *StorefrontMetrics) ReviewSubmitted(rating int) {
	if m == nil {
		return
	}
	m.ReviewsSubmitted.WithLabelValues(strconv.Itoa(rating)).Inc()
}

// SetActiveSessions reports the current session count.
func (m *StorefrontMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

// ObserveBackendRequest records one bakery API call. Status 0 means no response.
func (m *StorefrontMetrics) ObserveBackendRequest(endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	m.BackendLatency.WithLabelValues(endpoint, label).Observe(duration.Seconds())
}
