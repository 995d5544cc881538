// Package bakeryapi is the HTTP client for the bakery backend API.
//
// A Client holds only the backend base URL and an HTTP transport; construct
// one per process with New and pass it to whatever needs it.
package bakeryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/sweethome/internal/domain"
)

// DefaultTimeout bounds every request when no other timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Operation names, used in logs, errors and metric labels.
const (
	OpProducts        = "products.list"
	OpProduct         = "products.get"
	OpBusinessInfo    = "business.info"
	OpDeliveryOptions = "delivery.list"
	OpBusinessHours   = "business.hours"
	OpReviews         = "reviews.list"
	OpCreateOrder     = "orders.create"
	OpOrder           = "orders.get"
	OpSubmitReview    = "reviews.create"
	OpHealth          = "health"
)

// Metrics receives one observation per backend request.
// status is 0 when no response was received.
type Metrics interface {
	ObserveBackendRequest(endpoint string, status int, duration time.Duration)
}

// Client talks to the bakery backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client (and so its transport and timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records request latency and status.
func WithMetrics(m Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client for the backend at backendURL (without the /api prefix).
func New(backendURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", backendURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: host is required", backendURL)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(u.String(), "/") + "/api",
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the API root, including the /api prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Products returns the available catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.do(ctx, OpProducts, http.MethodGet, "/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Product returns a single product.
func (c *Client) Product(ctx context.Context, id int) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, OpProduct, http.MethodGet, "/products/"+strconv.Itoa(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// BusinessInfo returns the bakery's contact details.
func (c *Client) BusinessInfo(ctx context.Context) (*domain.BusinessInfo, error) {
	var info domain.BusinessInfo
	if err := c.do(ctx, OpBusinessInfo, http.MethodGet, "/business-info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeliveryOptions returns the fulfillment methods on offer.
func (c *Client) DeliveryOptions(ctx context.Context) ([]domain.DeliveryOption, error) {
	var options []domain.DeliveryOption
	if err := c.do(ctx, OpDeliveryOptions, http.MethodGet, "/delivery-options", nil, &options); err != nil {
		return nil, err
	}
	return options, nil
}

// BusinessHours returns weekly opening hours.
func (c *Client) BusinessHours(ctx context.Context) (*domain.BusinessHours, error) {
	var hours domain.BusinessHours
	if err := c.do(ctx, OpBusinessHours, http.MethodGet, "/business-hours", nil, &hours); err != nil {
		return nil, err
	}
	return &hours, nil
}

// Reviews returns one page of published reviews.
func (c *Client) Reviews(ctx context.Context, limit, offset int) (*domain.ReviewPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page domain.ReviewPage
	if err := c.do(ctx, OpReviews, http.MethodGet, "/reviews?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	if page.Reviews == nil {
		page.Reviews = []domain.Review{}
	}
	return &page, nil
}

// CreateOrder submits an order.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderConfirmation, error) {
	var conf domain.OrderConfirmation
	if err := c.do(ctx, OpCreateOrder, http.MethodPost, "/orders", newOrderPayload(req), &conf); err != nil {
		return nil, err
	}
	if conf.OrderID == "" && conf.Order != nil {
		conf.OrderID = conf.Order.OrderID
	}
	if conf.OrderID == "" {
		return nil, domain.Internal(nil, "bakeryapi.orders.create", "order response carried no order_id")
	}
	return &conf, nil
}

// Order returns an order by ID.
func (c *Client) Order(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, OpOrder, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SubmitReview posts a customer review. The backend answers either with the
// review itself or with a {review, message} envelope; both are accepted.
func (c *Client) SubmitReview(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	var raw json.RawMessage
	if err := c.do(ctx, OpSubmitReview, http.MethodPost, "/reviews", in, &raw); err != nil {
		return nil, err
	}

	var envelope struct {
		Review *domain.Review `json:"review"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Review != nil {
		return envelope.Review, nil
	}

	var review domain.Review
	if err := json.Unmarshal(raw, &review); err != nil {
		return nil, domain.Internal(err, "bakeryapi.reviews.create", "failed to decode review")
	}
	return &review, nil
}

// Health pings the API root.
func (c *Client) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	return c.do(ctx, OpHealth, http.MethodGet, "/", nil, &status)
}

// do performs one JSON round trip. Every failure is logged here and returned.
func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return domain.Internal(err, "bakeryapi."+op, "failed to encode request")
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return domain.Internal(err, "bakeryapi."+op, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := domain.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(op, 0, start)
		netErr := &NetworkError{Op: op, Err: err}
		c.logger.ErrorContext(ctx, "bakery API request failed",
			"op", op,
			"method", method,
			"path", path,
			"timeout", netErr.Timeout(),
			"error", err,
		)
		return netErr
	}
	defer resp.Body.Close()
	c.observe(op, resp.StatusCode, start)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to read bakery API response", "op", op, "error", err)
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &HTTPStatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(data),
		}
		c.logger.ErrorContext(ctx, "bakery API returned error status",
			"op", op,
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"detail", statusErr.Detail,
		)
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.ErrorContext(ctx, "failed to decode bakery API response", "op", op, "error", err)
		return domain.Internal(err, "bakeryapi."+op, "failed to decode response")
	}

	return nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveBackendRequest(op, status, time.Since(start))
	}
}

// errorDetail extracts a string "detail" from a JSON error body. Structured
// details (such as per-field validation lists) fall back to the status message.
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
