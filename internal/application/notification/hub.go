package notification

import (
	"sync"
	"time"
)

// NewOrders announces orders created since the previous poll
type NewOrders struct {
	Delta int64     `json:"delta"`
	Total int64     `json:"total"`
	At    time.Time `json:"at"`
}

// Hub fans notifications out to subscribers. Each subscriber has a buffered
// channel; a notification is dropped for a subscriber whose buffer is full.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan NewOrders]struct{}
	bufferSize  int
}

// NewHub creates a hub with the given per-subscriber buffer size
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 8
	}
	return &Hub{
		subscribers: make(map[chan NewOrders]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan NewOrders, func()) {
	ch := make(chan NewOrders, h.bufferSize)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast delivers n to every subscriber and returns how many received it
func (h *Hub) Broadcast(n NewOrders) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers {
		select {
		case ch <- n:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
