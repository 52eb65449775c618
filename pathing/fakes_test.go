package pathing

import (
	"sync"
	"time"

	"github.com/df-mc/pathkeeper/pathing/arbiter"
	"github.com/df-mc/pathkeeper/pathing/eventbus"
	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/worldctx"
)

type fakePlayer struct {
	mu         sync.Mutex
	feet       geo.BlockPos
	disconnect bool
}

func (p *fakePlayer) PlayerFeet() geo.BlockPos {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.feet
}

func (p *fakePlayer) setFeet(pos geo.BlockPos) {
	p.mu.Lock()
	p.feet = pos
	p.mu.Unlock()
}

func (p *fakePlayer) Position() (float64, float64, float64) {
	feet := p.PlayerFeet()
	return float64(feet.X) + 0.5, float64(feet.Y), float64(feet.Z) + 0.5
}

func (p *fakePlayer) OnGround() bool              { return true }
func (p *fakePlayer) ChunkLoaded(x, z int32) bool { return true }
func (p *fakePlayer) Disconnect() {
	p.mu.Lock()
	p.disconnect = true
	p.mu.Unlock()
}

// fakeBlocks always reports the block beneath feet as walkable, so
// start.Resolve always picks feet as the expected start.
type fakeBlocks struct{}

func (fakeBlocks) Walkable(pos geo.BlockPos) bool        { return true }
func (fakeBlocks) WalkThroughable(pos geo.BlockPos) bool { return true }

type fakeInput struct {
	mu       sync.Mutex
	cleared  int
}

func (i *fakeInput) ClearAllKeys() {
	i.mu.Lock()
	i.cleared++
	i.mu.Unlock()
}
func (i *fakeInput) StopBreakingBlock() {}

func (i *fakeInput) clearCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cleared
}

// fakeSearcher returns a pre-baked result as soon as Calculate is invoked.
type fakeSearcher struct {
	start    geo.BlockPos
	goal     geo.Goal
	result   worldctx.SearchResult
	canceled bool
}

func (s *fakeSearcher) GetStart() geo.BlockPos      { return s.start }
func (s *fakeSearcher) GetGoal() geo.Goal           { return s.goal }
func (s *fakeSearcher) BestSoFar() (geo.Path, bool) { return geo.Path{}, false }
func (s *fakeSearcher) Calculate(primary, failure time.Duration) worldctx.SearchResult {
	return s.result
}
func (s *fakeSearcher) Cancel() { s.canceled = true }

type fakeSearcherFactory struct {
	mu      sync.Mutex
	results []worldctx.SearchResult
	built   []*fakeSearcher
}

func (f *fakeSearcherFactory) NewSearcher(start geo.BlockPos, goal geo.Goal, previous *geo.Path, calcCtx geo.CalculationContext) worldctx.Searcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := worldctx.SearchResult{Type: worldctx.ResultFailure}
	if len(f.results) > 0 {
		result = f.results[0]
		f.results = f.results[1:]
	}
	s := &fakeSearcher{start: start, goal: goal, result: result}
	f.built = append(f.built, s)
	return s
}

func (f *fakeSearcherFactory) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.built)
}

// fakeExecutor is a PathExecutor whose terminal state is set directly by
// the test, with no per-tick geometry.
type fakeExecutor struct {
	src, dest       geo.BlockPos
	goal            geo.Goal
	positions       []geo.BlockPos
	failed          bool
	finished        bool
	safeToCancel    bool
	ticks           int
	snipSnap        bool
	spliceResult    worldctx.PathExecutor
}

func (e *fakeExecutor) Tick() bool {
	e.ticks++
	return e.safeToCancel
}
func (e *fakeExecutor) Failed() bool              { return e.failed }
func (e *fakeExecutor) Finished() bool            { return e.finished }
func (e *fakeExecutor) Sprinting() bool           { return true }
func (e *fakeExecutor) Src() geo.BlockPos         { return e.src }
func (e *fakeExecutor) Dest() geo.BlockPos        { return e.dest }
func (e *fakeExecutor) Goal() geo.Goal            { return e.goal }
func (e *fakeExecutor) Positions() []geo.BlockPos { return e.positions }
func (e *fakeExecutor) SnipSnapIfPossible() bool  { return e.snipSnap }
func (e *fakeExecutor) TrySplice(next worldctx.PathExecutor) worldctx.PathExecutor {
	if e.spliceResult != nil {
		return e.spliceResult
	}
	return e
}

type fakeExecutorFactory struct {
	mu    sync.Mutex
	built []*fakeExecutor
}

func (f *fakeExecutorFactory) NewExecutor(p geo.Path) worldctx.PathExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := &fakeExecutor{src: p.Src, dest: p.Dest, goal: p.Goal, positions: p.Nodes}
	f.built = append(f.built, e)
	return e
}

// fakeElytra backs IsSafeToCancel's no-current-path fallback.
type fakeElytra struct {
	active       bool
	safeToCancel bool
}

func (e *fakeElytra) Active() bool       { return e.active }
func (e *fakeElytra) SafeToCancel() bool { return e.safeToCancel }

// fakeGoalProcess is an always-active, non-temporary process that issues
// SET_GOAL_AND_PATH for goal every tick. Without a controlling process the
// arbiter soft-cancels and clears the goal on every tick.
type fakeGoalProcess struct {
	goal geo.Goal
}

func (p *fakeGoalProcess) IsActive() bool      { return true }
func (p *fakeGoalProcess) IsTemporary() bool   { return false }
func (p *fakeGoalProcess) Priority() float64   { return 1 }
func (p *fakeGoalProcess) Release()            {}
func (p *fakeGoalProcess) DisplayName() string { return "goal" }
func (p *fakeGoalProcess) OnTick(calcFailedLastTick, safeToCancel bool) *arbiter.Command {
	return &arbiter.Command{Type: arbiter.SetGoalAndPath, Goal: p.goal}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []eventbus.Kind
}

func (r *eventRecorder) handle(ev eventbus.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev.Kind)
	r.mu.Unlock()
}

func (r *eventRecorder) snapshot() []eventbus.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]eventbus.Kind, len(r.events))
	copy(out, r.events)
	return out
}
