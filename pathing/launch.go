package pathing

import (
	"github.com/df-mc/pathkeeper/pathing/eventbus"
	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/store"
	"github.com/df-mc/pathkeeper/pathing/worldctx"
)

// launchSearch implements the search-launch procedure: under calc_lock,
// bail out with PATH_FINISHED_NEXT_STILL_CALCULATING if a search is already
// active, otherwise build and dispatch one to the worker pool.
func (c *Core) launchSearch(path *store.PathTx, start geo.BlockPos, primary bool) {
	path.WithCalcLock(func(calc *store.CalcTx) {
		if _, active := calc.ActiveSearch(); active {
			c.emit(eventbus.PathFinishedNextStillCalculating)
			return
		}
		goal, hasGoal := path.Goal()
		if !hasGoal {
			return
		}
		snap := c.settings.Load()
		goal = geo.SimplifyGoalIfUnloaded(goal, c.player.ChunkLoaded, snap.SimplifyUnloadedY)

		primaryTimeout, failureTimeout := snap.PrimaryTimeout, snap.FailureTimeout
		if primary {
			c.emit(eventbus.CalcStarted)
		} else {
			c.emit(eventbus.NextSegmentCalcStarted)
			primaryTimeout, failureTimeout = snap.PlanAheadPrimaryTimeout, snap.PlanAheadFailureTimeout
		}

		var previous *geo.Path
		if current, ok := path.Current(); ok {
			p := pathOf(current)
			previous = &p
		}

		searcher := c.searcherFactory.NewSearcher(start, goal, previous, c.calcContext())
		search := &store.ActiveSearch{
			Searcher: searcher,
			Start:    start,
			Primary:  primary,
			Cancel:   searcher.Cancel,
		}
		calc.SetActiveSearch(search)
		c.metrics.IncSearchesStarted()

		c.pool.Dispatch(func() {
			result := searcher.Calculate(primaryTimeout, failureTimeout)
			c.handleSearchCompletion(search, result)
		})
	})
}

// handleSearchCompletion runs on the worker goroutine once Calculate
// returns. It commits the result under both locks, ignoring stale
// completions whose handle no longer matches the store's active search
// (already invalidated, cancelled, or replaced since dispatch).
func (c *Core) handleSearchCompletion(search *store.ActiveSearch, result worldctx.SearchResult) {
	c.store.WithBothLocks(func(path *store.PathTx, calc *store.CalcTx) {
		active, ok := calc.ActiveSearch()
		if !ok || active != search {
			return
		}
		defer calc.ClearActiveSearch()

		if _, hasCurrent := path.Current(); !hasCurrent {
			c.handleInitialCompletion(path, result)
			return
		}
		current, _ := path.Current()
		c.handlePlanAheadCompletion(path, current, result)
	})
}

func (c *Core) handleInitialCompletion(path *store.PathTx, result worldctx.SearchResult) {
	expectedStart, hasExpected := path.ExpectedStart()

	switch {
	case result.Ok() && hasExpected && result.Path.Src == expectedStart:
		exec := c.executorFactory.NewExecutor(result.Path)
		path.SetCurrent(exec)
		c.emit(eventbus.CalcFinishedNowExecuting)
		if goal, hasGoal := path.Goal(); hasGoal {
			c.resetETABaseline(goal, result.Path.Src)
		}
		c.metrics.IncSearchesFinished()
	case result.Ok():
		c.log.Warn("pathing: discarding orphan path", "expected", expectedStart, "got", result.Path.Src)
		c.metrics.IncOrphansDiscarded()
	case result.Type == worldctx.ResultCancellation, result.Type == worldctx.ResultException:
		// silent, per the error taxonomy.
	default:
		c.emit(eventbus.CalcFailed)
		c.metrics.IncSearchesFailed()
	}
}

func (c *Core) handlePlanAheadCompletion(path *store.PathTx, current worldctx.PathExecutor, result worldctx.SearchResult) {
	if _, hasNext := path.Next(); hasNext {
		c.log.Warn("pathing: dropping plan-ahead result, next already set")
		return
	}

	switch {
	case result.Ok() && result.Path.Src == current.Dest():
		exec := c.executorFactory.NewExecutor(result.Path)
		path.SetNext(exec)
		c.emit(eventbus.NextSegmentCalcFinished)
		c.metrics.IncSearchesFinished()
	case result.Ok():
		c.log.Warn("pathing: discarding orphan plan-ahead path", "expected", current.Dest(), "got", result.Path.Src)
		c.metrics.IncOrphansDiscarded()
	case result.Type == worldctx.ResultCancellation, result.Type == worldctx.ResultException:
		// silent, per the error taxonomy.
	default:
		c.emit(eventbus.NextCalcFailed)
		c.metrics.IncSearchesFailed()
	}
}
