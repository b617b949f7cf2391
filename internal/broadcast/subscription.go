package broadcast

import "sync"

// Subscription delivers published values on C until closed.
type Subscription[T any] struct {
	// C receives values in publish order. It is closed once the
	// subscription stops.
	C <-chan T

	hub *Hub[T]
	out chan T

	mu     sync.Mutex
	queue  []T
	notify chan struct{}

	done     chan struct{}
	stopOnce sync.Once
}

func newSubscription[T any](h *Hub[T]) *Subscription[T] {
	s := &Subscription[T]{
		hub:    h,
		out:    make(chan T),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	s.C = s.out
	return s
}

// Close stops delivery to this subscriber. Values still queued are dropped.
// Other subscribers are unaffected.
func (s *Subscription[T]) Close() {
	s.hub.remove(s)
	s.stop()
}

// Done is closed when the subscription stops, either through Close or
// because the hub was closed.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Pending returns the number of values queued but not yet received.
func (s *Subscription[T]) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Subscription[T]) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.queue = nil
		s.mu.Unlock()
	})
}

// push appends v to the queue. It never blocks.
func (s *Subscription[T]) push(v T) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// run drains the queue into out until the subscription stops.
func (s *Subscription[T]) run() {
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.notify:
				continue
			case <-s.done:
				return
			}
		}
		v := s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
