package pathing

import (
	"github.com/df-mc/pathkeeper/pathing/eventbus"
	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/store"
	"github.com/df-mc/pathkeeper/pathing/worldctx"
)

// updatePath implements update_path(): pause/cancel handling, then one
// advance of the current executor under path_lock.
func (c *Core) updatePath() {
	c.pausedThisTick = false

	if c.cancelRequested {
		c.cancelRequested = false
		c.input.ClearAllKeys()
		return
	}

	if c.pauseRequested && c.IsSafeToCancel() {
		c.pauseRequested = false
		c.pausedThisTick = true
		if c.wasUnpausedLastTick {
			c.input.ClearAllKeys()
			c.handlePauseResume(c.player.PlayerFeet())
		}
		c.wasUnpausedLastTick = false
		return
	}
	c.wasUnpausedLastTick = true

	c.store.WithPathLock(func(path *store.PathTx) {
		feet := c.player.PlayerFeet()
		c.validateActiveSearch(path, feet)

		current, ok := path.Current()
		if !ok {
			return
		}
		safeToCancel := current.Tick()
		c.lastSafeToCancel = safeToCancel
		c.dispatchCompletion(path, feet, safeToCancel)
	})
}

// handlePauseResume implements PathStore.handle_pause_resume: clears
// current and next, cancels the active search, and resets expected_start
// to the player's current block.
func (c *Core) handlePauseResume(playerBlock geo.BlockPos) {
	c.store.WithBothLocks(func(path *store.PathTx, calc *store.CalcTx) {
		path.ClearCurrentAndNext()
		if search, ok := calc.ActiveSearch(); ok {
			search.Cancel()
			calc.ClearActiveSearch()
		}
		path.SetExpectedStart(playerBlock)
	})
}

// validateActiveSearch implements the invalidation rule: a running search
// is cancelled when it can no longer graft onto anything useful.
func (c *Core) validateActiveSearch(path *store.PathTx, playerFeet geo.BlockPos) {
	path.WithCalcLock(func(calc *store.CalcTx) {
		search, hasSearch := calc.ActiveSearch()
		if !hasSearch {
			return
		}
		current, hasCurrent := path.Current()
		expectedStart, hasExpected := path.ExpectedStart()

		destMismatch := !hasCurrent || current.Dest() != search.Start
		notFeet := search.Start != playerFeet
		notExpected := !hasExpected || search.Start != expectedStart

		bestUseless := true
		if best, ok := search.Searcher.BestSoFar(); ok {
			nodes := best.NodeSet()
			containsFeet := nodes.Contains(playerFeet)
			containsExpected := hasExpected && nodes.Contains(expectedStart)
			bestUseless = !containsFeet && !containsExpected
		}

		if destMismatch && notFeet && notExpected && bestUseless {
			search.Cancel()
			calc.ClearActiveSearch()
		}
	})
}

// dispatchCompletion implements dispatch_completion(), assuming current is
// Some (checked by the caller).
func (c *Core) dispatchCompletion(path *store.PathTx, playerFeet geo.BlockPos, safeToCancel bool) {
	current, _ := path.Current()

	if !current.Failed() && !current.Finished() {
		c.handleOngoing(path, current, safeToCancel)
		return
	}

	goal, hasGoal := path.Goal()
	if !hasGoal || goal.InGoal(playerFeet) {
		c.reachedGoal(path)
		return
	}

	next, hasNext := path.Next()
	if hasNext && !nextIsValid(next, playerFeet, path) {
		path.ClearNext()
		c.emit(eventbus.DiscardNext)
		c.dispatchCompletion(path, playerFeet, safeToCancel)
		return
	}

	if hasNext {
		c.continueToNext(path, next)
		return
	}

	expectedStart, _ := path.ExpectedStart()
	c.launchSearch(path, expectedStart, true)
}

// nextIsValid implements next_is_valid(): next's positions must contain
// either the player's feet or the expected start.
func nextIsValid(next worldctx.PathExecutor, playerFeet geo.BlockPos, path *store.PathTx) bool {
	expectedStart, hasExpected := path.ExpectedStart()
	for _, pos := range next.Positions() {
		if pos == playerFeet {
			return true
		}
		if hasExpected && pos == expectedStart {
			return true
		}
	}
	return false
}

// reachedGoal implements reached_goal().
func (c *Core) reachedGoal(path *store.PathTx) {
	c.emit(eventbus.AtGoal)
	path.ClearCurrentAndNext()
	c.input.ClearAllKeys()
	if c.settings.Load().DisconnectOnArrival {
		c.player.Disconnect()
	}
}

// continueToNext implements continue_to_next(): promote next to current
// and tick it once so it begins this frame. The original implementation
// reassigns current to itself immediately after the promotion; that is an
// observable no-op and is intentionally not reproduced here.
func (c *Core) continueToNext(path *store.PathTx, next worldctx.PathExecutor) {
	c.emit(eventbus.ContinuingOntoPlannedNext)
	path.SetCurrent(next)
	path.ClearNext()
	c.lastSafeToCancel = next.Tick()
}
