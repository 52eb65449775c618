package pathing

import (
	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/store"
)

// The methods in this file satisfy arbiter.Core: the narrow callback
// surface the ControlArbiter dispatches PathingCommands through.

// SetGoalAndMaybePath sets the active goal and, per invariant I4, launches
// a fresh search only when no segment is currently executing and the
// expected start doesn't already satisfy the goal.
func (c *Core) SetGoalAndMaybePath(g geo.Goal) {
	if g == nil {
		return
	}
	c.store.WithPathLock(func(path *store.PathTx) {
		path.SetGoal(g)

		if _, hasCurrent := path.Current(); hasCurrent {
			return
		}
		expectedStart, hasExpected := path.ExpectedStart()
		if !hasExpected || g.InGoal(expectedStart) {
			return
		}
		c.launchSearch(path, expectedStart, true)
	})
}

// ClearGoal drops the active goal.
func (c *Core) ClearGoal() {
	c.store.WithPathLock(func(path *store.PathTx) {
		path.ClearGoal()
	})
}

// RequestPause records a pause request, honored by updatePath once it is
// safe to cancel.
func (c *Core) RequestPause() {
	c.pauseRequested = true
}

// CancelAndSetGoal sets the new goal and cancels the current segment if
// safe. Cancelling first (rather than after, as the command's effect
// description names the steps) is required: only a current == None state
// makes SetGoalAndMaybePath's fresh-search branch reachable.
func (c *Core) CancelAndSetGoal(g geo.Goal) {
	c.SoftCancelIfSafe()
	c.SetGoalAndMaybePath(g)
}

// SoftCancelIfSafe cancels this core's own active search unconditionally
// and, only if it is currently safe to cancel, also drops current and next
// and requests a cancel on the next updatePath.
func (c *Core) SoftCancelIfSafe() {
	c.store.WithCalcLock(func(calc *store.CalcTx) {
		if search, ok := calc.ActiveSearch(); ok {
			search.Cancel()
			calc.ClearActiveSearch()
		}
	})
	if !c.IsSafeToCancel() {
		return
	}
	c.store.WithPathLock(func(path *store.PathTx) {
		path.ClearCurrentAndNext()
	})
	c.cancelRequested = true
}

// IsSafeToCancel implements is_safe_to_cancel(): the last executor-reported
// value while a segment runs, else the elytra subsystem's own safety flag.
func (c *Core) IsSafeToCancel() bool {
	var hasCurrent bool
	c.store.WithPathLock(func(path *store.PathTx) {
		_, hasCurrent = path.Current()
	})
	if hasCurrent {
		return c.lastSafeToCancel
	}
	if c.elytra == nil {
		return true
	}
	return !c.elytra.Active() || c.elytra.SafeToCancel()
}

// CalcFailedLastTick reports whether CALC_FAILED was among the events
// drained at the start of the current tick.
func (c *Core) CalcFailedLastTick() bool {
	return c.calcFailedLastTick
}

// CurrentGoal returns the active goal, if any.
func (c *Core) CurrentGoal() (geo.Goal, bool) {
	var (
		g  geo.Goal
		ok bool
	)
	c.store.WithPathLock(func(path *store.PathTx) {
		g, ok = path.Goal()
	})
	return g, ok
}

// CurrentDest returns the destination of the currently executing segment,
// if one exists.
func (c *Core) CurrentDest() (geo.BlockPos, bool) {
	var (
		dest geo.BlockPos
		ok   bool
	)
	c.store.WithPathLock(func(path *store.PathTx) {
		if current, hasCurrent := path.Current(); hasCurrent {
			dest = current.Dest()
			ok = true
		}
	})
	return dest, ok
}
