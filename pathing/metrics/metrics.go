// Package metrics tracks read-only observability counters for a pathing
// core. Nothing in this package participates in the state machine's
// control flow: a Registry may be nil, in which case every method is a
// no-op, mirroring server/world/redstone.Metrics.
package metrics

import "sync"

// Registry accumulates per-core counters for observability.
type Registry struct {
	mu sync.Mutex

	searchesStarted  uint64
	searchesFinished uint64
	searchesFailed   uint64
	orphansDiscarded uint64
	splices          uint64
	ticksProcessed   uint64
	eventsByKind     map[string]uint64
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{eventsByKind: make(map[string]uint64)}
}

// IncSearchesStarted increments the count of searches launched.
func (r *Registry) IncSearchesStarted() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.searchesStarted++
	r.mu.Unlock()
}

// IncSearchesFinished increments the count of searches that produced a
// usable path.
func (r *Registry) IncSearchesFinished() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.searchesFinished++
	r.mu.Unlock()
}

// IncSearchesFailed increments the count of searches that ended without a
// usable path.
func (r *Registry) IncSearchesFailed() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.searchesFailed++
	r.mu.Unlock()
}

// IncOrphansDiscarded increments the count of search results discarded
// because their start no longer matched the expected start.
func (r *Registry) IncOrphansDiscarded() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.orphansDiscarded++
	r.mu.Unlock()
}

// IncSplices increments the count of successful current/next splices.
func (r *Registry) IncSplices() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.splices++
	r.mu.Unlock()
}

// IncTicksProcessed increments the count of ticks the core has processed.
func (r *Registry) IncTicksProcessed() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ticksProcessed++
	r.mu.Unlock()
}

// IncEvent increments the count of emitted events of the given kind.
func (r *Registry) IncEvent(kind string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.eventsByKind[kind]++
	r.mu.Unlock()
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	SearchesStarted  uint64
	SearchesFinished uint64
	SearchesFailed   uint64
	OrphansDiscarded uint64
	Splices          uint64
	TicksProcessed   uint64
	EventsByKind     map[string]uint64
}

// Snapshot returns a copy of the current counters. Safe to call from any
// goroutine, including while the core is mid-tick.
func (r *Registry) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{EventsByKind: map[string]uint64{}}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byKind := make(map[string]uint64, len(r.eventsByKind))
	for k, v := range r.eventsByKind {
		byKind[k] = v
	}
	return Snapshot{
		SearchesStarted:  r.searchesStarted,
		SearchesFinished: r.searchesFinished,
		SearchesFailed:   r.searchesFailed,
		OrphansDiscarded: r.orphansDiscarded,
		Splices:          r.splices,
		TicksProcessed:   r.ticksProcessed,
		EventsByKind:     byKind,
	}
}
