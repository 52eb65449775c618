package arbiter

import "github.com/df-mc/pathkeeper/pathing/geo"

// CommandType enumerates the directives a Process may hand back to the
// arbiter from on_tick.
type CommandType uint8

const (
	// SetGoalAndPath sets the goal and, if one is set, may start a search.
	SetGoalAndPath CommandType = iota
	// SetGoalAndPause is SetGoalAndPath followed by RequestPause.
	SetGoalAndPause
	// RequestPause asks the core to pause once it is safe to cancel.
	RequestPause
	// CancelAndSetGoal sets the goal and cancels the current segment if
	// safe.
	CancelAndSetGoal
	// RevalidateGoalAndPath sets the goal/path and, post-tick, soft-cancels
	// if the current destination no longer satisfies the new goal and the
	// cancel_on_goal_invalidation setting is enabled.
	RevalidateGoalAndPath
	// ForceRevalidateGoalAndPath is RevalidateGoalAndPath but unconditional
	// on the setting.
	ForceRevalidateGoalAndPath
	// Defer skips this process in favour of the next one in priority order.
	Defer
)

func (c CommandType) String() string {
	switch c {
	case SetGoalAndPath:
		return "SET_GOAL_AND_PATH"
	case SetGoalAndPause:
		return "SET_GOAL_AND_PAUSE"
	case RequestPause:
		return "REQUEST_PAUSE"
	case CancelAndSetGoal:
		return "CANCEL_AND_SET_GOAL"
	case RevalidateGoalAndPath:
		return "REVALIDATE_GOAL_AND_PATH"
	case ForceRevalidateGoalAndPath:
		return "FORCE_REVALIDATE_GOAL_AND_PATH"
	case Defer:
		return "DEFER"
	default:
		return "UNKNOWN"
	}
}

// Command is what a Process returns from OnTick. A nil *Command is only
// legal when the process is not active; an active process returning nil is
// a programmer-contract violation (see Process.OnTick).
type Command struct {
	Type CommandType
	Goal geo.Goal
}
