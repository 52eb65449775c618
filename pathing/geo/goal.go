package geo

import "math"

// Goal is an opaque predicate over positions plus a cost heuristic. Goal
// values must support value equality; implementations are comparable
// structs so that == and the Equal method agree.
type Goal interface {
	// InGoal reports whether pos satisfies the goal.
	InGoal(pos BlockPos) bool
	// Heuristic estimates the remaining cost from pos to the goal.
	Heuristic(pos BlockPos) float64
	// HeuristicToClosest returns the residual cost once standing in the
	// goal, used as the baseline for estimated_ticks_to_goal.
	HeuristicToClosest() float64
	// Equal reports whether other represents the same goal.
	Equal(other Goal) bool
}

// GoalBlock is satisfied by a single exact block.
type GoalBlock struct {
	Pos BlockPos
}

func (g GoalBlock) InGoal(pos BlockPos) bool { return pos == g.Pos }

func (g GoalBlock) Heuristic(pos BlockPos) float64 {
	dx := float64(pos.X - g.Pos.X)
	dy := float64(pos.Y - g.Pos.Y)
	dz := float64(pos.Z - g.Pos.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (g GoalBlock) HeuristicToClosest() float64 { return 0 }

func (g GoalBlock) Equal(other Goal) bool {
	o, ok := other.(GoalBlock)
	return ok && o.Pos == g.Pos
}

// GoalXZ is satisfied by any block in the given XZ column, at any Y. A
// render-goal is simplified to a GoalXZ when its target chunk is unloaded
// (setting simplify_unloaded_y), since the true surface height is unknown.
type GoalXZ struct {
	X, Z int32
}

func (g GoalXZ) InGoal(pos BlockPos) bool { return pos.X == g.X && pos.Z == g.Z }

func (g GoalXZ) Heuristic(pos BlockPos) float64 {
	dx := float64(pos.X - g.X)
	dz := float64(pos.Z - g.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

func (g GoalXZ) HeuristicToClosest() float64 { return 0 }

func (g GoalXZ) Equal(other Goal) bool {
	o, ok := other.(GoalXZ)
	return ok && o.X == g.X && o.Z == g.Z
}

// GoalRenderGoalBlock targets a precise block that was chosen from a
// render/look-direction hint. It behaves like GoalBlock but callers use
// SimplifyGoalIfUnloaded to downgrade it to a GoalXZ when the chunk backing Pos
// is not loaded, per the simplify_unloaded_y setting.
type GoalRenderGoalBlock struct {
	Pos BlockPos
}

func (g GoalRenderGoalBlock) InGoal(pos BlockPos) bool { return pos == g.Pos }

func (g GoalRenderGoalBlock) Heuristic(pos BlockPos) float64 {
	return GoalBlock(g).Heuristic(pos)
}

func (g GoalRenderGoalBlock) HeuristicToClosest() float64 { return 0 }

func (g GoalRenderGoalBlock) Equal(other Goal) bool {
	o, ok := other.(GoalRenderGoalBlock)
	return ok && o.Pos == g.Pos
}

// Simplify returns the GoalXZ a render-goal degrades to when its chunk is
// unloaded; the caller decides, via a chunk-loaded probe, whether to use it.
func (g GoalRenderGoalBlock) Simplify() GoalXZ {
	return GoalXZ{X: g.Pos.X, Z: g.Pos.Z}
}

// SimplifyGoalIfUnloaded applies the simplify_unloaded_y policy: if enabled
// and g is a render-goal whose backing chunk isn't loaded, it returns the
// XZ-only reduction; otherwise g is returned unchanged. enabled carries the
// simplify_unloaded_y setting; callers that want the downgrade suppressed
// pass false.
func SimplifyGoalIfUnloaded(g Goal, chunkLoaded func(x, z int32) bool, enabled bool) Goal {
	if !enabled {
		return g
	}
	render, ok := g.(GoalRenderGoalBlock)
	if !ok {
		return g
	}
	if chunkLoaded(render.Pos.X>>4, render.Pos.Z>>4) {
		return g
	}
	return render.Simplify()
}
