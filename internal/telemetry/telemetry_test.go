package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorefrontMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefrontMetrics(reg, "test")

	m.CartItemAdded(1, 3)
	m.CartItemAdded(1, 2)
	m.CartChanged("remove")
	m.OrderPlaced("pickup", decimal.RequireFromString("62.97"), 3)
	m.OrderFailed("unavailable")
	m.InitialLoad(true)
	m.InitialLoad(false)
	m.ReviewSubmitted(5)
	m.SetActiveSessions(4)
	m.ObserveBackendRequest("products.list", 200, 30*time.Millisecond)
	m.ObserveBackendRequest("products.list", 0, time.Second)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.CartItemsAdded.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartUpdated.WithLabelValues("remove")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartCleared.WithLabelValues("order_placed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersPlaced.WithLabelValues("pickup")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersFailed.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InitialLoads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InitialLoads.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsSubmitted.WithLabelValues("5")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ActiveSessions))
	assert.Equal(t, 2, testutil.CollectAndCount(m.BackendLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OrderValue))
}

func TestStorefrontMetrics_NilIsNoop(t *testing.T) {
	var m *StorefrontMetrics
	assert.NotPanics(t, func() {
		m.CartItemAdded(1, 1)
		m.CartChanged("update")
		m.OrderPlaced("pickup", decimal.Zero, 1)
		m.OrderFailed("internal")
		m.InitialLoad(true)
		m.ReviewSubmitted(4)
		m.SetActiveSessions(1)
		m.ObserveBackendRequest("health", 200, time.Millisecond)
	})
}

func TestStorefrontMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewStorefrontMetrics(reg, "dup")
	assert.Panics(t, func() { NewStorefrontMetrics(reg, "dup") })
}

type eventSink struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (s *eventSink) beforeSend(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func newTestReporter(t *testing.T) (*ErrorReporter, *eventSink) {
	t.Helper()
	sink := &eventSink{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:        "https://public@sentry.example.com/1",
		BeforeSend: sink.beforeSend,
	})
	require.NoError(t, err)
	return NewErrorReporterWithHub(sentry.NewHub(client, sentry.NewScope())), sink
}

func TestErrorReporter_Capture(t *testing.T) {
	reporter, sink := newTestReporter(t)

	reporter.Capture(context.Background(), errors.New("backend down"), map[string]string{"op": "session.load"})
	reporter.Capture(context.Background(), nil, nil)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "session.load", sink.events[0].Tags["op"])
	require.NotEmpty(t, sink.events[0].Exception)
	assert.Equal(t, "backend down", sink.events[0].Exception[0].Value)
}

func TestErrorReporter_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reporter, cleanup, err := NewErrorReporter(SentryConfig{Enabled: false}, logger)
	require.NoError(t, err)
	defer cleanup()

	assert.False(t, reporter.Enabled())
	assert.NotPanics(t, func() {
		reporter.Capture(context.Background(), errors.New("x"), nil)
		reporter.Breadcrumb("cart", "added", nil)
	})

	reporter, _, err = NewErrorReporter(SentryConfig{Enabled: true}, logger)
	require.NoError(t, err)
	assert.False(t, reporter.Enabled(), "missing DSN disables reporting")

	var nilReporter *ErrorReporter
	assert.False(t, nilReporter.Enabled())
}

func TestErrorReporter_MiddlewareReportsPanics(t *testing.T) {
	reporter, sink := newTestReporter(t)

	handler := reporter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	assert.Panics(t, func() {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	})
	assert.Len(t, sink.events, 1)
}
