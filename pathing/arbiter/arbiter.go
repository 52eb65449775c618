// Package arbiter implements the per-tick selection of the controlling
// Process and the translation of its PathingCommand into core operations.
package arbiter

import (
	"log/slog"
	"sort"

	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/pathingerr"
	"github.com/df-mc/pathkeeper/pathing/settings"
	"github.com/google/uuid"
)

// Core is the narrow callback surface the arbiter needs from the pathing
// core. It is implemented by *pathing.Core; the arbiter never sees the
// core's internal state directly.
type Core interface {
	SetGoalAndMaybePath(g geo.Goal)
	ClearGoal()
	RequestPause()
	CancelAndSetGoal(g geo.Goal)
	SoftCancelIfSafe()
	IsSafeToCancel() bool
	CalcFailedLastTick() bool
	CurrentGoal() (geo.Goal, bool)
	CurrentDest() (geo.BlockPos, bool)
}

// Config configures a ControlArbiter.
type Config struct {
	Core     Core
	Log      *slog.Logger
	Settings *settings.Store
}

// ControlArbiter maintains the set of registered processes and, each tick,
// selects which one controls the agent.
type ControlArbiter struct {
	core     Core
	log      *slog.Logger
	settings *settings.Store

	registered []*handle
	active     []*handle

	currentControlling *handle
	wasInControlLast   map[uuid.UUID]bool

	pending *pendingRevalidation
}

type pendingRevalidation struct {
	goal  geo.Goal
	force bool
}

// New creates a ControlArbiter bound to core.
func New(cfg Config) *ControlArbiter {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	sset := cfg.Settings
	if sset == nil {
		sset = settings.NewStore(settings.Default())
	}
	return &ControlArbiter{
		core:             cfg.Core,
		log:              log,
		settings:         sset,
		wasInControlLast: make(map[uuid.UUID]bool),
	}
}

// Register installs process under the arbiter's supervision. Registration
// does not imply activity; IsActive is consulted every tick.
func (a *ControlArbiter) Register(process Process) {
	a.registered = append(a.registered, &handle{id: uuid.New(), process: process})
}

// PreTick runs the arbitration algorithm for phase IN of the tick.
func (a *ControlArbiter) PreTick() {
	a.runPendingRevalidation()

	previous := a.currentControlling
	a.currentControlling = nil

	a.updateActiveList()
	a.sortActiveByPriority()

	var currentCommand *Command
	calcFailed := a.core.CalcFailedLastTick()
	safeToCancel := a.core.IsSafeToCancel()

	for i, h := range a.active {
		wasInControl := a.wasInControlLast[h.id]
		cmd := h.process.OnTick(wasInControl && calcFailed, safeToCancel)
		if cmd == nil {
			pathingerr.Fail(h.process.DisplayName(), "active process returned no command")
		}
		if cmd.Type == Defer {
			continue
		}
		currentCommand = cmd
		a.currentControlling = h
		if !h.process.IsTemporary() {
			for _, rest := range a.active[i+1:] {
				rest.process.Release()
			}
		}
		break
	}

	a.refreshWasInControl()

	if currentCommand == nil {
		a.core.SoftCancelIfSafe()
		a.core.ClearGoal()
		return
	}

	if a.currentControlling != previous && currentCommand.Type != RequestPause &&
		previous != nil && !previous.process.IsTemporary() {
		a.core.SoftCancelIfSafe()
	}

	a.dispatch(currentCommand)
}

// TerminateAll releases every registered process and clears arbitration
// state. Used on tick-phase OUT, when the world is tearing the agent down.
func (a *ControlArbiter) TerminateAll() {
	for _, h := range a.registered {
		h.process.Release()
	}
	a.active = nil
	a.currentControlling = nil
	for k := range a.wasInControlLast {
		delete(a.wasInControlLast, k)
	}
	a.pending = nil
}

func (a *ControlArbiter) refreshWasInControl() {
	for k := range a.wasInControlLast {
		delete(a.wasInControlLast, k)
	}
	if a.currentControlling != nil {
		a.wasInControlLast[a.currentControlling.id] = true
	}
}

func (a *ControlArbiter) updateActiveList() {
	activeSet := make(map[uuid.UUID]*handle, len(a.active))
	for _, h := range a.active {
		activeSet[h.id] = h
	}
	for _, h := range a.registered {
		if !h.process.IsActive() {
			continue
		}
		if _, ok := activeSet[h.id]; ok {
			continue
		}
		a.active = append([]*handle{h}, a.active...)
		activeSet[h.id] = h
	}
	kept := a.active[:0]
	for _, h := range a.active {
		if h.process.IsActive() {
			kept = append(kept, h)
		}
	}
	a.active = kept
}

func (a *ControlArbiter) sortActiveByPriority() {
	for _, h := range a.active {
		h.priority = h.process.Priority()
	}
	sort.SliceStable(a.active, func(i, j int) bool {
		return a.active[i].priority > a.active[j].priority
	})
}

func (a *ControlArbiter) dispatch(cmd *Command) {
	switch cmd.Type {
	case SetGoalAndPath:
		a.core.SetGoalAndMaybePath(cmd.Goal)
	case SetGoalAndPause:
		a.core.SetGoalAndMaybePath(cmd.Goal)
		a.core.RequestPause()
	case RequestPause:
		a.core.RequestPause()
	case CancelAndSetGoal:
		a.core.CancelAndSetGoal(cmd.Goal)
	case RevalidateGoalAndPath:
		a.core.SetGoalAndMaybePath(cmd.Goal)
		a.pending = &pendingRevalidation{goal: cmd.Goal, force: false}
	case ForceRevalidateGoalAndPath:
		a.core.SetGoalAndMaybePath(cmd.Goal)
		a.pending = &pendingRevalidation{goal: cmd.Goal, force: true}
	default:
		pathingerr.Fail("ControlArbiter", "unknown command type")
	}
}

func (a *ControlArbiter) runPendingRevalidation() {
	if a.pending == nil {
		return
	}
	p := a.pending
	a.pending = nil

	dest, hasCurrent := a.core.CurrentDest()
	if !hasCurrent {
		return
	}
	currentGoal, _ := a.core.CurrentGoal()

	var mismatched bool
	if p.force {
		mismatched = requiresForceRevalidation(currentGoal, dest, p.goal)
	} else {
		mismatched = requiresGoalRevalidation(currentGoal, dest, p.goal)
	}
	if !mismatched {
		return
	}
	if p.force || a.settings.Load().CancelOnGoalInvalidation {
		a.core.SoftCancelIfSafe()
	}
	a.core.SetGoalAndMaybePath(p.goal)
}

// requiresForceRevalidation implements spec requires_force_revalidation.
func requiresForceRevalidation(currentGoal geo.Goal, currentDest geo.BlockPos, newGoal geo.Goal) bool {
	if currentGoal == nil {
		return false
	}
	return !newGoal.InGoal(currentDest) && !newGoal.Equal(currentGoal)
}

// requiresGoalRevalidation implements spec requires_goal_revalidation.
func requiresGoalRevalidation(currentGoal geo.Goal, currentDest geo.BlockPos, newGoal geo.Goal) bool {
	if currentGoal == nil {
		return false
	}
	return currentGoal.InGoal(currentDest) && !newGoal.InGoal(currentDest)
}
