package pathing

import (
	"testing"
	"time"

	"github.com/df-mc/pathkeeper/pathing/eventbus"
	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/metrics"
	"github.com/df-mc/pathkeeper/pathing/settings"
	"github.com/df-mc/pathkeeper/pathing/store"
	"github.com/df-mc/pathkeeper/pathing/worldctx"
)

type harness struct {
	core        *Core
	player      *fakePlayer
	input       *fakeInput
	searchers   *fakeSearcherFactory
	executors   *fakeExecutorFactory
	events      *eventRecorder
}

func newHarness() *harness {
	return newHarnessWithElytra(nil)
}

func newHarnessWithElytra(elytra worldctx.ElytraSafety) *harness {
	player := &fakePlayer{feet: geo.BlockPos{X: 0, Y: 64, Z: 0}}
	input := &fakeInput{}
	searchers := &fakeSearcherFactory{}
	executors := &fakeExecutorFactory{}
	events := &eventRecorder{}

	core := New(Config{
		Player:          player,
		Blocks:          fakeBlocks{},
		Input:           input,
		SearcherFactory: searchers,
		ExecutorFactory: executors,
		Store:           store.New(),
		Bus:             eventbus.New(),
		Settings:        settings.NewStore(settings.Default()),
		Metrics:         metrics.New(),
		Elytra:          elytra,
		Handler:         events.handle,
	})

	return &harness{core: core, player: player, input: input, searchers: searchers, executors: executors, events: events}
}

// tickUntil runs Tick(In) up to max times, stopping as soon as cond is true.
func (h *harness) tickUntil(max int, cond func() bool) bool {
	for i := 0; i < max; i++ {
		h.core.Tick(In)
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func containsKind(events []eventbus.Kind, k eventbus.Kind) bool {
	for _, e := range events {
		if e == k {
			return true
		}
	}
	return false
}

// Scenario 1: the goal is already satisfied by the expected start; no search
// should ever be launched.
func TestScenarioGoalAlreadyReached(t *testing.T) {
	h := newHarness()
	h.core.Tick(In) // resolve expected_start to the player's feet

	goal := geo.GoalBlock{Pos: geo.BlockPos{X: 0, Y: 64, Z: 0}}
	h.core.Arbiter().Register(&fakeGoalProcess{goal: goal})
	h.core.SetGoalAndMaybePath(goal)

	h.core.Tick(In)
	h.core.Tick(In)

	if h.searchers.searchCount() != 0 {
		t.Errorf("expected no search launched, got %d", h.searchers.searchCount())
	}
	if eta, ok := h.core.EstimatedTicksToGoal(); !ok || eta != 0 {
		t.Errorf("EstimatedTicksToGoal() = %v, %v; want 0, true", eta, ok)
	}
}

// Scenario 2: initial search success emits CALC_STARTED then
// CALC_FINISHED_NOW_EXECUTING, in that order, and installs an executor.
func TestScenarioInitialSearchSuccess(t *testing.T) {
	h := newHarness()
	h.core.Tick(In)

	start := geo.BlockPos{X: 0, Y: 64, Z: 0}
	dest := geo.BlockPos{X: 10, Y: 64, Z: 0}
	h.searchers.results = []worldctx.SearchResult{
		{Type: worldctx.ResultSuccess, Path: geo.Path{Src: start, Dest: dest, Goal: geo.GoalBlock{Pos: dest}}},
	}

	h.core.Arbiter().Register(&fakeGoalProcess{goal: geo.GoalBlock{Pos: dest}})
	h.core.SetGoalAndMaybePath(geo.GoalBlock{Pos: dest})

	ok := h.tickUntil(50, func() bool {
		return containsKind(h.events.snapshot(), eventbus.CalcFinishedNowExecuting)
	})
	if !ok {
		t.Fatal("expected CALC_FINISHED_NOW_EXECUTING within the tick budget")
	}

	events := h.events.snapshot()
	startedAt, finishedAt := -1, -1
	for i, e := range events {
		if e == eventbus.CalcStarted && startedAt == -1 {
			startedAt = i
		}
		if e == eventbus.CalcFinishedNowExecuting && finishedAt == -1 {
			finishedAt = i
		}
	}
	if startedAt == -1 || finishedAt == -1 || startedAt >= finishedAt {
		t.Errorf("expected CALC_STARTED before CALC_FINISHED_NOW_EXECUTING, got order %v", events)
	}
	if len(h.executors.built) != 1 {
		t.Errorf("expected one executor built, got %d", len(h.executors.built))
	}
}

// Scenario 3: a search whose result's Src doesn't match the expected start
// (player moved while it was in flight) is discarded as an orphan rather
// than being installed as current.
func TestScenarioOrphanRejection(t *testing.T) {
	h := newHarness()
	h.core.Tick(In)

	dest := geo.BlockPos{X: 10, Y: 64, Z: 0}
	orphanSrc := geo.BlockPos{X: 99, Y: 64, Z: 99}
	h.searchers.results = []worldctx.SearchResult{
		{Type: worldctx.ResultSuccess, Path: geo.Path{Src: orphanSrc, Dest: dest, Goal: geo.GoalBlock{Pos: dest}}},
	}

	h.core.SetGoalAndMaybePath(geo.GoalBlock{Pos: dest})

	h.tickUntil(50, func() bool { return h.searchers.searchCount() >= 1 })
	// Give the worker goroutine time to complete and the completion handler
	// to run before asserting nothing was installed.
	time.Sleep(20 * time.Millisecond)
	h.core.Tick(In)

	if len(h.executors.built) != 0 {
		t.Errorf("expected the orphaned path to be discarded, got %d executors built", len(h.executors.built))
	}
	if containsKind(h.events.snapshot(), eventbus.CalcFinishedNowExecuting) {
		t.Error("expected no CALC_FINISHED_NOW_EXECUTING for an orphaned result")
	}
}

// Scenario 5: pausing clears current/next and input overrides; resuming at a
// new position sets a fresh expected_start from there.
func TestScenarioPauseAndResumeAtNewPosition(t *testing.T) {
	h := newHarness()
	h.core.Tick(In)

	exec := &fakeExecutor{
		src:          geo.BlockPos{X: 0, Y: 64, Z: 0},
		dest:         geo.BlockPos{X: 10, Y: 64, Z: 0},
		goal:         geo.GoalBlock{Pos: geo.BlockPos{X: 10, Y: 64, Z: 0}},
		safeToCancel: true,
	}
	h.core.store.WithPathLock(func(path *store.PathTx) {
		path.SetGoal(exec.goal)
		path.SetCurrent(exec)
	})

	// One tick first so lastSafeToCancel reflects the executor's own report;
	// RequestPause only takes effect once that's known to be true.
	h.core.Tick(In)
	h.core.RequestPause()
	h.core.Tick(In)

	if _, ok := func() (worldctx.PathExecutor, bool) {
		var e worldctx.PathExecutor
		var ok bool
		h.core.store.WithPathLock(func(path *store.PathTx) { e, ok = path.Current() })
		return e, ok
	}(); ok {
		t.Error("expected current to be cleared once paused")
	}
	if h.input.clearCount() == 0 {
		t.Error("expected input overrides to be cleared on pause")
	}

	h.player.setFeet(geo.BlockPos{X: 3, Y: 64, Z: 3})
	h.core.Tick(In)

	h.core.store.WithPathLock(func(path *store.PathTx) {
		got, ok := path.ExpectedStart()
		if !ok || got != (geo.BlockPos{X: 3, Y: 64, Z: 3}) {
			t.Errorf("ExpectedStart() = %v, %v; want (3,64,3), true", got, ok)
		}
	})
}

// Scenario 4 (simplified): once the current segment finishes short of the
// goal with a valid planned next segment in place, continuing onto it emits
// CONTINUING_ONTO_PLANNED_NEXT and current becomes next.
func TestScenarioContinueOntoPlannedNext(t *testing.T) {
	h := newHarness()
	h.core.Tick(In)

	current := &fakeExecutor{
		src:          geo.BlockPos{X: 0, Y: 64, Z: 0},
		dest:         geo.BlockPos{X: 10, Y: 64, Z: 0},
		goal:         geo.GoalBlock{Pos: geo.BlockPos{X: 20, Y: 64, Z: 0}},
		finished:     true,
		safeToCancel: true,
	}
	next := &fakeExecutor{
		src:       geo.BlockPos{X: 10, Y: 64, Z: 0},
		dest:      geo.BlockPos{X: 20, Y: 64, Z: 0},
		goal:      current.goal,
		positions: []geo.BlockPos{{X: 10, Y: 64, Z: 0}},
	}

	h.core.store.WithPathLock(func(path *store.PathTx) {
		path.SetGoal(current.goal)
		path.SetCurrent(current)
		path.SetNext(next)
	})
	h.core.Arbiter().Register(&fakeGoalProcess{goal: current.goal})
	h.player.setFeet(geo.BlockPos{X: 10, Y: 64, Z: 0})

	h.core.Tick(In)

	if !containsKind(h.events.snapshot(), eventbus.ContinuingOntoPlannedNext) {
		t.Errorf("expected CONTINUING_ONTO_PLANNED_NEXT, got %v", h.events.snapshot())
	}
	h.core.store.WithPathLock(func(path *store.PathTx) {
		got, ok := path.Current()
		if !ok || got != next {
			t.Errorf("expected current to become next, got %v, %v", got, ok)
		}
		if _, ok := path.Next(); ok {
			t.Error("expected next to be cleared")
		}
	})
}

// Property P4: secretInternalSegmentCancel unconditionally tears down
// current, next, and active search, regardless of safe-to-cancel state.
func TestForceCancelClearsEverythingUnconditionally(t *testing.T) {
	h := newHarness()
	h.core.Tick(In)

	exec := &fakeExecutor{safeToCancel: false}
	h.core.store.WithPathLock(func(path *store.PathTx) {
		path.SetCurrent(exec)
	})

	h.core.secretInternalSegmentCancel()

	h.core.store.WithPathLock(func(path *store.PathTx) {
		if _, ok := path.Current(); ok {
			t.Error("expected current to be cleared by force cancel")
		}
	})
	if h.input.clearCount() == 0 {
		t.Error("expected input overrides to be cleared by force cancel")
	}
	h.core.Tick(In) // drain the queued events into the handler
	if !containsKind(h.events.snapshot(), eventbus.Canceled) {
		t.Error("expected CANCELED to be emitted")
	}
}

// Property P1: the worker pool never runs more than one search at a time;
// launching a second search while one is active is a no-op beyond emitting
// PATH_FINISHED_NEXT_STILL_CALCULATING.
func TestAtMostOneActiveSearch(t *testing.T) {
	h := newHarness()
	h.core.Tick(In)

	dest := geo.BlockPos{X: 10, Y: 64, Z: 0}
	h.core.store.WithPathLock(func(path *store.PathTx) {
		path.SetGoal(geo.GoalBlock{Pos: dest})
		start, _ := path.ExpectedStart()
		h.core.launchSearch(path, start, true)
		h.core.launchSearch(path, start, true)
	})
	h.core.Tick(In) // drain the queued events into the handler

	if h.searchers.searchCount() != 1 {
		t.Errorf("expected exactly one Searcher constructed, got %d", h.searchers.searchCount())
	}
	if !containsKind(h.events.snapshot(), eventbus.PathFinishedNextStillCalculating) {
		t.Error("expected the second launch attempt to report next-still-calculating")
	}
}

// Property P6: with no current path, IsSafeToCancel defers entirely to the
// elytra subsystem: safe unless elytra flight is active and itself unsafe.
func TestIsSafeToCancelElytraFallback(t *testing.T) {
	cases := []struct {
		name   string
		elytra *fakeElytra
		want   bool
	}{
		{"no elytra subsystem wired", nil, true},
		{"elytra inactive", &fakeElytra{active: false, safeToCancel: false}, true},
		{"elytra active and safe", &fakeElytra{active: true, safeToCancel: true}, true},
		{"elytra active and unsafe", &fakeElytra{active: true, safeToCancel: false}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var h *harness
			if c.elytra == nil {
				h = newHarness()
			} else {
				h = newHarnessWithElytra(c.elytra)
			}
			h.core.Tick(In)

			if got := h.core.IsSafeToCancel(); got != c.want {
				t.Errorf("IsSafeToCancel() = %v, want %v", got, c.want)
			}
		})
	}
}

// Properties P2/P3: when a next segment is planned ahead of a current
// segment, next.Src() always equals current.Dest(); once a completion
// installs a fresh current, its Src() equals the expected_start the search
// was launched against.
func TestPlanAheadAndCompletionSrcInvariants(t *testing.T) {
	h := newHarness()
	h.core.Tick(In)

	start := geo.BlockPos{X: 0, Y: 64, Z: 0}
	dest := geo.BlockPos{X: 10, Y: 64, Z: 0}
	beyondDest := geo.BlockPos{X: 20, Y: 64, Z: 0}
	goal := geo.GoalBlock{Pos: beyondDest}
	h.searchers.results = []worldctx.SearchResult{
		{Type: worldctx.ResultSuccess, Path: geo.Path{Src: start, Dest: dest, Goal: goal}},
	}
	h.core.Arbiter().Register(&fakeGoalProcess{goal: goal})
	h.core.SetGoalAndMaybePath(goal)

	ok := h.tickUntil(50, func() bool {
		return containsKind(h.events.snapshot(), eventbus.CalcFinishedNowExecuting)
	})
	if !ok {
		t.Fatal("expected the initial search to complete within the tick budget")
	}

	h.core.store.WithPathLock(func(path *store.PathTx) {
		current, ok := path.Current()
		if !ok {
			t.Fatal("expected a current path after completion")
		}
		if current.Src() != start {
			t.Errorf("P3: current.Src() = %v, want expected_start %v", current.Src(), start)
		}
	})

	// Move within the plan-ahead lookahead window of the current segment's
	// end so handle_ongoing launches the next segment's search.
	h.player.setFeet(geo.BlockPos{X: 9, Y: 64, Z: 0})
	h.searchers.results = []worldctx.SearchResult{
		{Type: worldctx.ResultSuccess, Path: geo.Path{Src: dest, Dest: beyondDest, Goal: goal}},
	}

	ok = h.tickUntil(100, func() bool {
		var hasNext bool
		h.core.store.WithPathLock(func(path *store.PathTx) { _, hasNext = path.Next() })
		return hasNext
	})
	if !ok {
		t.Fatal("expected a planned-ahead next segment within the tick budget")
	}

	h.core.store.WithPathLock(func(path *store.PathTx) {
		current, hasCurrent := path.Current()
		next, hasNext := path.Next()
		if !hasCurrent || !hasNext {
			t.Fatal("expected both current and next to be set")
		}
		if next.Src() != current.Dest() {
			t.Errorf("P2: next.Src() = %v, want current.Dest() %v", next.Src(), current.Dest())
		}
	})
}
