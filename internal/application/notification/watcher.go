package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OrderCounter returns the number of stored orders
type OrderCounter interface {
	Count(ctx context.Context) (int64, error)
}

// OrderWatcher polls the order count on a fixed interval and broadcasts a
// NewOrders notification whenever it grows.
type OrderWatcher struct {
	counter  OrderCounter
	tracker  *CountTracker
	hub      *Hub
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrderWatcher creates a new OrderWatcher
func NewOrderWatcher(counter OrderCounter, hub *Hub, interval time.Duration, logger *zap.Logger) *OrderWatcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &OrderWatcher{
		counter:  counter,
		tracker:  NewCountTracker(),
		hub:      hub,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled
func (w *OrderWatcher) Run(ctx context.Context) {
	w.logger.Info("Order watcher started", zap.Duration("interval", w.interval))

	w.Poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Order watcher stopped")
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll performs a single count check. A failed poll is logged and leaves the
// baseline untouched.
func (w *OrderWatcher) Poll(ctx context.Context) {
	total, err := w.counter.Count(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("Failed to poll order count", zap.Error(err))
		}
		return
	}

	delta := w.tracker.Observe(total)
	if delta == 0 {
		return
	}

	delivered := w.hub.Broadcast(NewOrders{Delta: delta, Total: total, At: w.now()})
	w.logger.Info("New orders detected",
		zap.Int64("delta", delta),
		zap.Int64("total", total),
		zap.Int("subscribers", delivered))
}
