package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCounter struct {
	mu     sync.Mutex
	counts []int64
	errs   []error
	calls  int
}

func (c *fakeCounter) Count(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return 0, c.errs[i]
	}
	if i >= len(c.counts) {
		return c.counts[len(c.counts)-1], nil
	}
	return c.counts[i], nil
}

func TestOrderWatcher_Poll(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	counter := &fakeCounter{counts: []int64{4, 4, 6}}
	hub := NewHub(4)
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	w := NewOrderWatcher(counter, hub, time.Second, zaptest.NewLogger(t))
	w.now = func() time.Time { return at }

	ctx := context.Background()
	w.Poll(ctx)
	w.Poll(ctx)
	assert.Empty(t, ch)

	w.Poll(ctx)
	require.Len(t, ch, 1)
	assert.Equal(t, NewOrders{Delta: 2, Total: 6, At: at}, <-ch)
}

func TestOrderWatcher_FailedPollKeepsBaseline(t *testing.T) {
	counter := &fakeCounter{
		counts: []int64{2, 0, 3},
		errs:   []error{nil, errors.New("store unavailable"), nil},
	}
	hub := NewHub(4)
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	w := NewOrderWatcher(counter, hub, time.Second, zaptest.NewLogger(t))
	ctx := context.Background()
	w.Poll(ctx)
	w.Poll(ctx)
	w.Poll(ctx)

	require.Len(t, ch, 1)
	assert.Equal(t, int64(1), (<-ch).Delta)
}

func TestOrderWatcher_RunStopsOnCancel(t *testing.T) {
	counter := &fakeCounter{counts: []int64{1, 2}}
	hub := NewHub(4)
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	w := NewOrderWatcher(counter, hub, 10*time.Millisecond, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case n := <-ch:
		assert.Equal(t, int64(1), n.Delta)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewOrderWatcher_DefaultInterval(t *testing.T) {
	w := NewOrderWatcher(&fakeCounter{counts: []int64{0}}, NewHub(1), 0, zaptest.NewLogger(t))
	assert.Equal(t, 10*time.Second, w.interval)
}
