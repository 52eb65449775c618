package pathing

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df-mc/pathkeeper/pathing/eventbus"
	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/store"
	"github.com/df-mc/pathkeeper/pathing/worldctx"
)

// blocksPerTick approximates sprint-walking speed, used only to turn a
// straight-line distance into a tick count for the plan-ahead trigger.
const blocksPerTick = 0.215

// handleOngoing implements handle_ongoing(): early/silent splice, next
// redundancy pruning, and plan-ahead launch for a segment that is neither
// failed nor finished.
func (c *Core) handleOngoing(path *store.PathTx, current worldctx.PathExecutor, safeToCancel bool) {
	next, hasNext := path.Next()

	if safeToCancel && hasNext && next.SnipSnapIfPossible() {
		c.emit(eventbus.SplicingOntoNextEarly)
		path.SetCurrent(next)
		path.ClearNext()
		c.lastSafeToCancel = next.Tick()
		c.metrics.IncSplices()
		return
	}

	if c.settings.Load().SplicePath {
		var nextExec worldctx.PathExecutor
		if hasNext {
			nextExec = next
		}
		spliced := current.TrySplice(nextExec)
		if nextExec != nil && spliced != current {
			c.metrics.IncSplices()
		}
		current = spliced
		path.SetCurrent(current)
	}

	if hasNext && next.Dest() == current.Dest() {
		path.ClearNext()
		hasNext = false
		c.metrics.IncSplices()
	}
	if hasNext {
		return
	}

	goal, hasGoal := path.Goal()
	if !hasGoal || goal.InGoal(current.Dest()) {
		return
	}

	var hasActiveSearch bool
	path.WithCalcLock(func(calc *store.CalcTx) {
		_, hasActiveSearch = calc.ActiveSearch()
	})
	if hasActiveSearch {
		return
	}

	if c.etaToSegmentEnd(current) < float64(c.settings.Load().PlanningTickLookahead) {
		c.launchSearch(path, current.Dest(), false)
	}
}

// etaToSegmentEnd estimates ticks remaining until the agent reaches the end
// of the segment it is currently executing, from straight-line distance.
func (c *Core) etaToSegmentEnd(current worldctx.PathExecutor) float64 {
	px, py, pz := c.player.Position()
	return current.Dest().DistanceTo(mgl64.Vec3{px, py, pz}) / blocksPerTick
}

// resetETABaseline records the goal heuristic at a freshly accepted search's
// start and restarts the elapsed-tick counter the ETA formula divides by.
func (c *Core) resetETABaseline(goal geo.Goal, start geo.BlockPos) {
	c.etaBaselineHeuristic = goal.Heuristic(start)
	c.etaBaselineSet = true
	c.elapsedTicks = 0
}

// EstimatedTicksToGoal implements estimated_ticks_to_goal(): progress of the
// goal heuristic since the baseline was last reset, extrapolated forward.
// The second return value is false when no estimate can be produced yet.
func (c *Core) EstimatedTicksToGoal() (float64, bool) {
	feet := c.player.PlayerFeet()

	var (
		goal    geo.Goal
		hasGoal bool
	)
	c.store.WithPathLock(func(path *store.PathTx) {
		goal, hasGoal = path.Goal()
	})
	if !hasGoal {
		return 0, false
	}
	if goal.InGoal(feet) {
		return 0, true
	}
	if c.elapsedTicks == 0 || !c.etaBaselineSet {
		return 0, false
	}

	hFeet := goal.Heuristic(feet)
	hClosest := goal.HeuristicToClosest()
	denom := math.Abs(c.etaBaselineHeuristic - hFeet)
	if denom == 0 {
		return 0, false
	}
	return math.Abs(hFeet-hClosest) * float64(c.elapsedTicks) / denom, true
}
