// Package broadcast fans values out to any number of subscribers.
//
// A new subscriber first receives the most recently published value, then
// every later value exactly once and in publish order. Each subscriber has its
// own unbounded queue drained by its own goroutine, so a slow reader never
// delays the publisher or other subscribers.
package broadcast

import "sync"

// Hub publishes values of type T to subscribers.
type Hub[T any] struct {
	mu      sync.Mutex
	subs    map[*Subscription[T]]struct{}
	current T
	hasCur  bool
	closed  bool
}

// New creates an empty hub.
func New[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Publish records v as the current value and queues it for every subscriber.
// Publishing on a closed hub is a no-op.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.current = v
	h.hasCur = true
	for sub := range h.subs {
		sub.push(v)
	}
}

// Current returns the most recently published value.
func (h *Hub[T]) Current() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current, h.hasCur
}

// Subscribe registers a new subscriber. The current value, if any, is the
// first value it receives. Subscribing to a closed hub returns an already
// closed subscription.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := newSubscription(h)
	go sub.run()
	if h.closed {
		sub.stop()
		return sub
	}
	if h.hasCur {
		sub.push(h.current)
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Len returns the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close closes every subscription and rejects further publishes.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := h.subs
	h.subs = make(map[*Subscription[T]]struct{})
	h.mu.Unlock()

	for sub := range subs {
		sub.stop()
	}
}

func (h *Hub[T]) remove(sub *Subscription[T]) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}
