// Package store implements PathStore, the sole owner of the current path,
// the pre-planned next path, the in-flight search handle, the expected
// search start and the active goal. Two locks guard disjoint groups of
// fields and must always be acquired path-lock-then-calc-lock, never the
// reverse; the Tx types below make that ordering the only one reachable
// through the exported API.
package store

import (
	"sync"

	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/worldctx"
)

// ActiveSearch is the handle for the single in-flight background search a
// PathStore may hold at a time.
type ActiveSearch struct {
	Searcher worldctx.Searcher
	// Start is the expected_start_of_search captured at launch.
	Start geo.BlockPos
	// Primary distinguishes an initial search from a plan-ahead search.
	Primary bool
	Cancel  func()
}

// PathStore owns current, next, activeSearch, expectedStart and goal.
type PathStore struct {
	pathLock sync.Mutex
	calcLock sync.Mutex

	current       worldctx.PathExecutor
	next          worldctx.PathExecutor
	expectedStart *geo.BlockPos
	goal          geo.Goal

	activeSearch *ActiveSearch
}

// New creates an empty PathStore.
func New() *PathStore {
	return &PathStore{}
}

// PathTx exposes the path-lock-guarded fields (current, next,
// expectedStart, goal) to a function running while path_lock is held.
type PathTx struct {
	s *PathStore
}

// CalcTx exposes the calc-lock-guarded activeSearch field to a function
// running while calc_lock is held, nested inside an already-held
// path_lock.
type CalcTx struct {
	s *PathStore
}

// WithPathLock runs fn while holding path_lock alone.
func (s *PathStore) WithPathLock(fn func(tx *PathTx)) {
	s.pathLock.Lock()
	defer s.pathLock.Unlock()
	fn(&PathTx{s: s})
}

// WithCalcLock acquires calc_lock without path_lock. This is only safe for
// call sites that touch no path-lock-guarded field and do not already hold
// path_lock; code that needs both reaches calc_lock through
// PathTx.WithCalcLock or WithBothLocks, which preserve the mandated
// path_lock-then-calc_lock order. The core uses WithCalcLock in
// SoftCancelIfSafe to cancel and clear the active search on its own.
func (s *PathStore) WithCalcLock(fn func(tx *CalcTx)) {
	s.calcLock.Lock()
	defer s.calcLock.Unlock()
	fn(&CalcTx{s: s})
}

// WithBothLocks acquires path_lock then calc_lock and runs fn with access
// to every guarded field. This is what the completion handler uses to
// commit (set current|next, clear active_search) atomically.
func (s *PathStore) WithBothLocks(fn func(path *PathTx, calc *CalcTx)) {
	s.pathLock.Lock()
	defer s.pathLock.Unlock()
	s.calcLock.Lock()
	defer s.calcLock.Unlock()
	fn(&PathTx{s: s}, &CalcTx{s: s})
}

// WithCalcLock, called on a PathTx, nests calc_lock inside the caller's
// already-held path_lock — the only lock-acquisition order this package
// permits.
func (tx *PathTx) WithCalcLock(fn func(calc *CalcTx)) {
	tx.s.calcLock.Lock()
	defer tx.s.calcLock.Unlock()
	fn(&CalcTx{s: tx.s})
}

// Current returns the executor for the path currently being driven.
func (tx *PathTx) Current() (worldctx.PathExecutor, bool) {
	return tx.s.current, tx.s.current != nil
}

// SetCurrent installs exec as the current path.
func (tx *PathTx) SetCurrent(exec worldctx.PathExecutor) {
	tx.s.current = exec
}

// ClearCurrentAndNext implements invariant I5: current transitioning to
// None always clears next too. Releasing input overrides is the caller's
// responsibility, since PathStore does not hold an InputSink.
func (tx *PathTx) ClearCurrentAndNext() {
	tx.s.current = nil
	tx.s.next = nil
}

// Next returns the pre-planned next path, if any.
func (tx *PathTx) Next() (worldctx.PathExecutor, bool) {
	return tx.s.next, tx.s.next != nil
}

// SetNext installs exec as the pre-planned next path. Per invariant I2,
// callers must only do this when exec.Src() == current.Dest().
func (tx *PathTx) SetNext(exec worldctx.PathExecutor) {
	tx.s.next = exec
}

// ClearNext drops the pre-planned next path without touching current.
func (tx *PathTx) ClearNext() {
	tx.s.next = nil
}

// ExpectedStart returns the block the next/current path is expected to
// originate from.
func (tx *PathTx) ExpectedStart() (geo.BlockPos, bool) {
	if tx.s.expectedStart == nil {
		return geo.BlockPos{}, false
	}
	return *tx.s.expectedStart, true
}

// SetExpectedStart records pos as the new expected start.
func (tx *PathTx) SetExpectedStart(pos geo.BlockPos) {
	tx.s.expectedStart = &pos
}

// Goal returns the active goal, if one has been set.
func (tx *PathTx) Goal() (geo.Goal, bool) {
	return tx.s.goal, tx.s.goal != nil
}

// SetGoal installs g as the active goal.
func (tx *PathTx) SetGoal(g geo.Goal) {
	tx.s.goal = g
}

// ClearGoal drops the active goal.
func (tx *PathTx) ClearGoal() {
	tx.s.goal = nil
}

// ActiveSearch returns the in-flight search handle, if any.
func (tx *CalcTx) ActiveSearch() (*ActiveSearch, bool) {
	return tx.s.activeSearch, tx.s.activeSearch != nil
}

// SetActiveSearch installs search as the in-flight search. Per invariant
// I1, callers must only do this when no search is currently active.
func (tx *CalcTx) SetActiveSearch(search *ActiveSearch) {
	tx.s.activeSearch = search
}

// ClearActiveSearch drops the in-flight search handle.
func (tx *CalcTx) ClearActiveSearch() {
	tx.s.activeSearch = nil
}
