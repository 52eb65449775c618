// Package worldctx declares the narrow interfaces the pathing control core
// requires from its external collaborators: the player's physical state,
// the input override layer, the world's chunk-loaded probe, the asynchronous
// searcher and the per-tick path executor. None of these are implemented in
// this module; production wiring supplies concrete adapters.
package worldctx

import (
	"time"

	"github.com/df-mc/pathkeeper/pathing/geo"
)

// PlayerContext exposes the physical state of the agent the core steers.
type PlayerContext interface {
	// PlayerFeet returns the block the player's feet currently occupy.
	PlayerFeet() geo.BlockPos
	// Position returns the player's continuous position.
	Position() (x, y, z float64)
	// OnGround reports whether the player is standing on solid ground.
	OnGround() bool
	// ChunkLoaded reports whether the chunk at the given chunk coordinates
	// is currently loaded.
	ChunkLoaded(x, z int32) bool
	// Disconnect disconnects the agent from the world. Used only when the
	// disconnect_on_arrival setting is enabled.
	Disconnect()
}

// InputSink lets the core release any input overrides it has applied.
type InputSink interface {
	// ClearAllKeys releases every held movement/action key override.
	ClearAllKeys()
	// StopBreakingBlock cancels an in-progress block-breaking action.
	StopBreakingBlock()
}

// PathExecutor drives one geometric path tick by tick. Implementations are
// produced externally from a geo.Path; the core only ever holds the
// resulting handle.
type PathExecutor interface {
	// Tick advances the executor by one game tick and reports whether it is
	// currently safe to cancel the underlying path.
	Tick() (safeToCancel bool)
	// Failed reports whether the executor gave up; mutually exclusive with
	// Finished and with being ongoing.
	Failed() bool
	// Finished reports whether the executor reached the end of its path.
	Finished() bool
	// Sprinting reports whether the executor is currently causing the agent
	// to sprint.
	Sprinting() bool
	// Src returns the position the underlying path started from.
	Src() geo.BlockPos
	// Dest returns the position the underlying path ends at.
	Dest() geo.BlockPos
	// Goal returns the goal the underlying path was computed against.
	Goal() geo.Goal
	// Positions returns every block the underlying path passes through.
	Positions() []geo.BlockPos
	// TrySplice returns an executor that continues onto next once the
	// current path finishes, grafting next's head onto the current path's
	// tail when possible. When next cannot be grafted, TrySplice returns
	// the executor unchanged (idempotent no-op).
	TrySplice(next PathExecutor) PathExecutor
	// SnipSnapIfPossible reports whether this executor (as a pre-planned
	// next path) can be entered early, from the agent's current position,
	// before the still-running current executor finishes.
	SnipSnapIfPossible() bool
}

// ExecutorFactory wraps a freshly-found geo.Path into a PathExecutor ready
// to be driven tick by tick.
type ExecutorFactory interface {
	NewExecutor(p geo.Path) PathExecutor
}

// BlockQuery answers the block-solidity questions StartResolver needs that
// PlayerContext alone doesn't expose.
type BlockQuery interface {
	// Walkable reports whether an agent can stand on top of the block at
	// pos (i.e. it is solid enough to support the agent's weight).
	Walkable(pos geo.BlockPos) bool
	// WalkThroughable reports whether an agent's body can legally occupy
	// pos (i.e. it is passable, not solid).
	WalkThroughable(pos geo.BlockPos) bool
}

// ElytraSafety is consulted by IsSafeToCancel when no path is currently
// executing, deferring to the elytra subsystem's own notion of safety.
type ElytraSafety interface {
	// Active reports whether elytra flight is currently engaged.
	Active() bool
	// SafeToCancel reports whether it is currently safe to cancel while
	// elytra flight is active.
	SafeToCancel() bool
}

// SearchResultType classifies how a Searcher.Calculate call ended.
type SearchResultType uint8

const (
	// ResultSuccess indicates a complete path was found.
	ResultSuccess SearchResultType = iota
	// ResultPartial indicates the primary timeout expired and the best
	// path found so far (possibly not reaching the goal) was returned.
	ResultPartial
	// ResultFailure indicates the failure timeout expired with no usable
	// path.
	ResultFailure
	// ResultCancellation indicates Cancel was called before completion.
	ResultCancellation
	// ResultException indicates the search aborted on an internal error.
	ResultException
)

// SearchResult is what a Searcher.Calculate call produces.
type SearchResult struct {
	Type SearchResultType
	Path geo.Path
}

// Ok reports whether the result carries a usable path (success or partial).
func (r SearchResult) Ok() bool {
	return r.Type == ResultSuccess || r.Type == ResultPartial
}

// Searcher performs one asynchronous A* search. A Searcher instance is
// single-use: it is constructed for one (start, goal) pair and discarded
// after Calculate returns.
type Searcher interface {
	// GetStart returns the position the search was constructed with.
	GetStart() geo.BlockPos
	// GetGoal returns the goal the search was constructed with.
	GetGoal() geo.Goal
	// BestSoFar returns the best path found so far, if the search has
	// produced an intermediate candidate.
	BestSoFar() (geo.Path, bool)
	// Calculate runs the search to completion, to the primary timeout, or
	// to the failure timeout, whichever comes first. On primary expiry the
	// best path found so far (if any) is returned as ResultPartial; on
	// failure expiry, ResultFailure is returned.
	Calculate(primary, failure time.Duration) SearchResult
	// Cancel requests that an in-progress Calculate return
	// ResultCancellation at the next opportunity. Cancel is idempotent and
	// may be called from any goroutine.
	Cancel()
}

// SearcherFactory constructs a Searcher for a fresh (start, goal) pair,
// optionally seeded with the previous segment's path for continuity hints.
type SearcherFactory interface {
	NewSearcher(start geo.BlockPos, goal geo.Goal, previous *geo.Path, calcCtx geo.CalculationContext) Searcher
}
