package api

import (
	"strings"
	"sync"
	"testing"
	"time"

	"weather-chat/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move the store's notion of now
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward and returns the new time
func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func newTestStore(m *metrics.Metrics) (*SessionStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	store := NewSessionStore(m)
	store.now = clock.Now
	return store, clock
}

func TestSessionStoreLifecycle(t *testing.T) {
	store, clock := newTestStore(nil)

	s := store.Open(TransportHTTP)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, TransportHTTP, s.Transport)
	assert.Equal(t, clock.Now(), s.StartedAt)
	assert.Equal(t, 1, store.Count())

	now := clock.Advance(time.Minute)
	touched, ok := store.Touch(s.ID)
	require.True(t, ok)
	assert.Equal(t, 1, touched.Messages)
	assert.Equal(t, now, touched.LastActive)

	got, ok := store.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, touched, got)

	assert.True(t, store.Close(s.ID))
	assert.False(t, store.Close(s.ID))
	_, ok = store.Get(s.ID)
	assert.False(t, ok)
	_, ok = store.Touch(s.ID)
	assert.False(t, ok)
}

func TestSessionStoreListOrdered(t *testing.T) {
	store, clock := newTestStore(nil)

	first := store.Open(TransportWebSocket)
	clock.Advance(time.Second)
	second := store.Open(TransportHTTP)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestSessionStorePruneIdle(t *testing.T) {
	m := metrics.New()
	store, clock := newTestStore(m)

	stale := store.Open(TransportHTTP)
	fresh := store.Open(TransportHTTP)

	clock.Advance(20 * time.Minute)
	store.Touch(fresh.ID)
	clock.Advance(15 * time.Minute)

	pruned := store.PruneIdle(30 * time.Minute)

	assert.Equal(t, 1, pruned)
	_, ok := store.Get(stale.ID)
	assert.False(t, ok)
	_, ok = store.Get(fresh.ID)
	assert.True(t, ok)
	expected := `
# HELP weather_chat_active_sessions Chat sessions currently tracked.
# TYPE weather_chat_active_sessions gauge
weather_chat_active_sessions 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "weather_chat_active_sessions"))
}

func TestSessionStorePruneIdleKeepsWebSocketSessions(t *testing.T) {
	store, clock := newTestStore(nil)

	live := store.Open(TransportWebSocket)
	idle := store.Open(TransportHTTP)

	clock.Advance(time.Hour)
	pruned := store.PruneIdle(30 * time.Minute)

	assert.Equal(t, 1, pruned)
	_, ok := store.Get(live.ID)
	assert.True(t, ok)
	_, ok = store.Get(idle.ID)
	assert.False(t, ok)
}
