package bakeryapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/sweethome/internal/bakeryapi"
	"github.com/dukerupert/sweethome/internal/bakeryapi/bakeryapitest"
	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	endpoint string
	status   int
}

type recordingMetrics struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (m *recordingMetrics) ObserveBackendRequest(endpoint string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedCall{endpoint: endpoint, status: status})
}

func newClient(t *testing.T, url string, opts ...bakeryapi.Option) *bakeryapi.Client {
	t.Helper()
	c, err := bakeryapi.New(url, opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "plain host", url: "http://localhost:8001", want: "http://localhost:8001/api"},
		{name: "trailing slash", url: "https://bakery.example.com/", want: "https://bakery.example.com/api"},
		{name: "missing scheme", url: "localhost:8001", wantErr: true},
		{name: "unsupported scheme", url: "ftp://bakery.example.com", wantErr: true},
		{name: "missing host", url: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := bakeryapi.New(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
		})
	}
}

func TestClient_ReadEndpoints(t *testing.T) {
	srv := bakeryapitest.NewServer(t)
	c := srv.Client(t)
	ctx := context.Background()

	products, err := c.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Classic Chocolate Chip Cookies", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("24.99")))

	product, err := c.Product(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Artisan Sourdough Bread", product.Name)

	info, err := c.BusinessInfo(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, info.Name)

	options, err := c.DeliveryOptions(ctx)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "pickup", options[0].ID)

	hours, err := c.BusinessHours(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, hours.Monday)

	page, err := c.Reviews(ctx, 4, 0)
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 4)
	assert.Equal(t, 6, page.Total)

	page, err = c.Reviews(ctx, 4, 4)
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 2)

	require.NoError(t, c.Health(ctx))
}

func TestClient_NumericAndQuotedPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"products":[
			{"id":1,"name":"Cookies","price":24.99,"availability":true},
			{"id":2,"name":"Bread","price":"12.99","availability":true}
		]}`)
	}))
	defer srv.Close()

	products, err := newClient(t, srv.URL).Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "24.99", products[0].Price.StringFixed(2))
	assert.Equal(t, "12.99", products[1].Price.StringFixed(2))
}

func TestClient_HTTPErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "detail is surfaced",
			status:      http.StatusNotFound,
			body:        `{"detail":"Product not found"}`,
			wantMessage: "Product not found",
			wantCode:    domain.ENOTFOUND,
		},
		{
			name:        "empty body falls back to status",
			status:      http.StatusInternalServerError,
			body:        ``,
			wantMessage: "HTTP error! status: 500",
			wantCode:    domain.EUNAVAILABLE,
		},
		{
			name:        "structured detail falls back to status",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail":[{"loc":["body","rating"],"msg":"bad"}]}`,
			wantMessage: "HTTP error! status: 422",
			wantCode:    domain.EINVALID,
		},
		{
			name:        "non-json body falls back to status",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: "HTTP error! status: 502",
			wantCode:    domain.EUNAVAILABLE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL).Product(context.Background(), 99)
			require.Error(t, err)

			var se *bakeryapi.HTTPStatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantMessage, se.Message())
			assert.Equal(t, tt.wantMessage, domain.ErrorMessage(err))
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
			assert.Equal(t, tt.status, bakeryapi.StatusCode(err))
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	metrics := &recordingMetrics{}
	_, err := newClient(t, url, bakeryapi.WithMetrics(metrics)).Products(context.Background())
	require.Error(t, err)

	var ne *bakeryapi.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.False(t, ne.Timeout())
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
	assert.Equal(t, 0, bakeryapi.StatusCode(err))

	require.Len(t, metrics.calls, 1)
	assert.Equal(t, recordedCall{endpoint: bakeryapi.OpProducts, status: 0}, metrics.calls[0])
}

func TestClient_Timeout(t *testing.T) {
	srv := bakeryapitest.NewServer(t)
	srv.Delay(bakeryapi.OpProducts, time.Second)
	c := srv.Client(t, bakeryapi.WithTimeout(50*time.Millisecond))

	_, err := c.Products(context.Background())
	require.Error(t, err)

	var ne *bakeryapi.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.True(t, ne.Timeout())
	assert.Contains(t, domain.ErrorMessage(err), "too long")
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := bakeryapitest.NewServer(t)
	srv.Delay(bakeryapi.OpBusinessInfo, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := srv.Client(t).BusinessInfo(ctx)
	var ne *bakeryapi.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.True(t, ne.Timeout())
}

func TestClient_CreateOrder(t *testing.T) {
	var body map[string]any
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		require.NoError(t, dec.Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"order_id":"abc-123","message":"Order placed successfully"}`)
	}))
	defer srv.Close()

	ctx := domain.NewContextWithRequestID(context.Background(), "req-1")
	conf, err := newClient(t, srv.URL).CreateOrder(ctx, domain.OrderRequest{
		CustomerInfo: domain.CustomerInfo{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"},
		Items: []domain.OrderRequestItem{
			{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("24.99")},
		},
		DeliveryOption: "express_delivery",
		DeliveryFee:    decimal.RequireFromString("8.99"),
		Subtotal:       decimal.RequireFromString("49.98"),
		Total:          decimal.RequireFromString("58.97"),
	})
	require.NoError(t, err)
	assert.Equal(t, "abc-123", conf.OrderID)
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "req-1", headers.Get("X-Request-ID"))

	assert.Equal(t, json.Number("58.97"), body["total"])
	assert.Equal(t, json.Number("8.99"), body["delivery_fee"])
	assert.Equal(t, json.Number("49.98"), body["subtotal"])
	assert.Equal(t, "express_delivery", body["delivery_option"])
	assert.Nil(t, body["special_instructions"])

	customer := body["customer_info"].(map[string]any)
	assert.Equal(t, "Ada", customer["name"])
	assert.Nil(t, customer["address"])

	items := body["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, json.Number("1"), item["product_id"])
	assert.Equal(t, json.Number("2"), item["quantity"])
	assert.Equal(t, json.Number("24.99"), item["price"])
}

func TestClient_CreateOrderAgainstFake(t *testing.T) {
	srv := bakeryapitest.NewServer(t)
	c := srv.Client(t)

	conf, err := c.CreateOrder(context.Background(), domain.OrderRequest{
		CustomerInfo:   domain.CustomerInfo{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"},
		Items:          []domain.OrderRequestItem{{ProductID: 3, Quantity: 1, Price: decimal.RequireFromString("32.99")}},
		DeliveryOption: "pickup",
		DeliveryFee:    decimal.Zero,
		Subtotal:       decimal.RequireFromString("32.99"),
		Total:          decimal.RequireFromString("32.99"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, conf.OrderID)

	order, err := c.Order(context.Background(), conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("32.99")))

	_, err = c.Order(context.Background(), "missing")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.Equal(t, "Order not found", domain.ErrorMessage(err))
}

func TestClient_CreateOrderWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).CreateOrder(context.Background(), domain.OrderRequest{})
	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}

func TestClient_SubmitReview(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "envelope", body: `{"review":{"id":7,"name":"Ada","rating":5,"comment":"Lovely"},"message":"ok"}`},
		{name: "bare review", body: `{"id":7,"name":"Ada","rating":5,"comment":"Lovely"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			review, err := newClient(t, srv.URL).SubmitReview(context.Background(), domain.ReviewInput{Name: "Ada", Rating: 5, Comment: "Lovely"})
			require.NoError(t, err)
			assert.Equal(t, 7, review.ID)
			assert.Equal(t, 5, review.Rating)
		})
	}
}

func TestClient_Metrics(t *testing.T) {
	srv := bakeryapitest.NewServer(t)
	srv.Fail(bakeryapi.OpDeliveryOptions, http.StatusServiceUnavailable, "")

	metrics := &recordingMetrics{}
	c := srv.Client(t, bakeryapi.WithMetrics(metrics))

	_, err := c.Products(context.Background())
	require.NoError(t, err)
	_, err = c.DeliveryOptions(context.Background())
	require.Error(t, err)

	assert.Equal(t, []recordedCall{
		{endpoint: bakeryapi.OpProducts, status: http.StatusOK},
		{endpoint: bakeryapi.OpDeliveryOptions, status: http.StatusServiceUnavailable},
	}, metrics.calls)
	assert.Equal(t, 1, srv.Hits(bakeryapi.OpDeliveryOptions))
}
