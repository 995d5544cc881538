package session

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/sweethome/internal/telemetry"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(idle time.Duration) (*Store, *time.Time) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	st := NewStore(idle, func(id uuid.UUID) *Session {
		return New(id, &mockBackend{})
	}, nil)
	st.now = func() time.Time { return now }
	return st, &now
}

func TestStore_CreateGet(t *testing.T) {
	st, _ := newTestStore(time.Hour)

	s := st.Create()
	got, ok := st.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, st.Len())

	_, ok = st.Get(uuid.New())
	assert.False(t, ok)
	assert.Equal(t, 1, st.Len())
}

func TestStore_IdleExpiry(t *testing.T) {
	st, now := newTestStore(time.Hour)

	stale := st.Create()
	fresh := st.Create()

	*now = now.Add(40 * time.Minute)
	_, ok := st.Get(fresh.ID())
	require.True(t, ok, "Get refreshes last use")

	*now = now.Add(40 * time.Minute)
	_, ok = st.Get(stale.ID())
	assert.False(t, ok, "idle for 80 minutes")
	_, ok = st.Get(fresh.ID())
	assert.True(t, ok, "idle for 40 minutes")
	assert.Equal(t, 1, st.Len())
}

func TestStore_Sweep(t *testing.T) {
	st, now := newTestStore(time.Hour)
	for range 3 {
		st.Create()
	}

	*now = now.Add(30 * time.Minute)
	keep := st.Create()

	*now = now.Add(45 * time.Minute)
	assert.Equal(t, 3, st.Sweep())
	assert.Equal(t, 1, st.Len())
	_, ok := st.Get(keep.ID())
	assert.True(t, ok)
}

func TestStore_ZeroTimeoutNeverExpires(t *testing.T) {
	st, now := newTestStore(0)
	s := st.Create()

	*now = now.Add(1000 * time.Hour)
	assert.Equal(t, 0, st.Sweep())
	_, ok := st.Get(s.ID())
	assert.True(t, ok)
}

func TestStore_ActiveSessionsGauge(t *testing.T) {
	metrics := telemetry.NewStorefrontMetrics(prometheus.NewRegistry(), "test")
	st := NewStore(time.Hour, func(id uuid.UUID) *Session { return New(id, &mockBackend{}) }, metrics)

	now := time.Now()
	st.now = func() time.Time { return now }

	st.Create()
	now = now.Add(30 * time.Minute)
	st.Create()
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ActiveSessions))

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActiveSessions))
}

func TestStore_SweepEvery(t *testing.T) {
	st, _ := newTestStore(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	swept := make(chan int, 1)
	go st.SweepEvery(ctx, 5*time.Millisecond, func(removed int) {
		select {
		case swept <- removed:
		default:
		}
	})

	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("sweeper never ran")
	}
	cancel()
}
