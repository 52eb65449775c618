package eventbus

import "sync"

// Bus is an unbounded, multi-producer/single-consumer FIFO of Events.
// Producers append under a mutex; the consumer drains with a single swap
// under the same mutex, so a producer enqueueing mid-drain waits only for
// that swap and its event is never lost.
type Bus struct {
	mu      sync.Mutex
	pending []Event
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Push enqueues an event. Never blocks beyond the short-held mutex.
func (b *Bus) Push(ev Event) {
	b.mu.Lock()
	b.pending = append(b.pending, ev)
	b.mu.Unlock()
}

// PushKind is a convenience wrapper around Push for a bare Kind.
func (b *Bus) PushKind(k Kind) {
	b.Push(Event{Kind: k})
}

// Drain atomically moves every currently enqueued event into the returned
// slice, leaving the bus empty. Non-blocking.
func (b *Bus) Drain() []Event {
	b.mu.Lock()
	drained := b.pending
	b.pending = nil
	b.mu.Unlock()
	return drained
}

// Contains reports whether any of events has the given kind.
func Contains(events []Event, k Kind) bool {
	for _, ev := range events {
		if ev.Kind == k {
			return true
		}
	}
	return false
}
