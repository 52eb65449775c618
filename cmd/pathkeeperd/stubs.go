package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/worldctx"
)

// stubPlayer is an in-memory stand-in for a real player/world connection:
// just enough physical state for the core to resolve a start block and
// report movement.
type stubPlayer struct {
	mu   sync.Mutex
	feet geo.BlockPos
}

func (p *stubPlayer) PlayerFeet() geo.BlockPos {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.feet
}

func (p *stubPlayer) Position() (x, y, z float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return float64(p.feet.X) + 0.5, float64(p.feet.Y), float64(p.feet.Z) + 0.5
}

func (p *stubPlayer) OnGround() bool              { return true }
func (p *stubPlayer) ChunkLoaded(x, z int32) bool { return true }
func (p *stubPlayer) Disconnect()                 { println("pathkeeperd: agent disconnected") }

func (p *stubPlayer) setFeet(pos geo.BlockPos) {
	p.mu.Lock()
	p.feet = pos
	p.mu.Unlock()
}

// stubBlocks is a flat superflat world: solid floor at y=63, open air above.
type stubBlocks struct{}

func (stubBlocks) Walkable(pos geo.BlockPos) bool        { return pos.Y == 63 }
func (stubBlocks) WalkThroughable(pos geo.BlockPos) bool { return pos.Y >= 64 }

// stubInput logs input-override releases instead of touching a real session.
type stubInput struct {
	log *slog.Logger
}

func (s *stubInput) ClearAllKeys()      { s.log.Debug("releasing input overrides") }
func (s *stubInput) StopBreakingBlock() { s.log.Debug("stopping block break") }

// stubSearcher resolves instantly to a straight line between start and the
// goal's block, standing in for a real A* search.
type stubSearcher struct {
	start geo.BlockPos
	goal  geo.Goal

	once      sync.Once
	cancelled chan struct{}
}

func newStubSearcher(start geo.BlockPos, goal geo.Goal) *stubSearcher {
	return &stubSearcher{start: start, goal: goal, cancelled: make(chan struct{})}
}

func (s *stubSearcher) GetStart() geo.BlockPos      { return s.start }
func (s *stubSearcher) GetGoal() geo.Goal           { return s.goal }
func (s *stubSearcher) BestSoFar() (geo.Path, bool) { return geo.Path{}, false }

func (s *stubSearcher) Calculate(primary, failure time.Duration) worldctx.SearchResult {
	select {
	case <-time.After(30 * time.Millisecond):
	case <-s.cancelled:
		return worldctx.SearchResult{Type: worldctx.ResultCancellation}
	}

	dest := goalBlockOf(s.goal, s.start)
	nodes := straightLine(s.start, dest)
	return worldctx.SearchResult{
		Type: worldctx.ResultSuccess,
		Path: geo.Path{
			Nodes:              nodes,
			Src:                s.start,
			Dest:               dest,
			Goal:               s.goal,
			NumNodesConsidered: len(nodes),
		},
	}
}

func (s *stubSearcher) Cancel() {
	s.once.Do(func() { close(s.cancelled) })
}

func goalBlockOf(g geo.Goal, fallback geo.BlockPos) geo.BlockPos {
	switch goal := g.(type) {
	case geo.GoalBlock:
		return goal.Pos
	case geo.GoalRenderGoalBlock:
		return goal.Pos
	default:
		return fallback
	}
}

func straightLine(start, dest geo.BlockPos) []geo.BlockPos {
	nodes := []geo.BlockPos{start}
	cur := start
	for cur.X != dest.X {
		if cur.X < dest.X {
			cur.X++
		} else {
			cur.X--
		}
		nodes = append(nodes, cur)
	}
	for cur.Z != dest.Z {
		if cur.Z < dest.Z {
			cur.Z++
		} else {
			cur.Z--
		}
		nodes = append(nodes, cur)
	}
	return nodes
}

type stubSearcherFactory struct{}

func (stubSearcherFactory) NewSearcher(start geo.BlockPos, goal geo.Goal, previous *geo.Path, calcCtx geo.CalculationContext) worldctx.Searcher {
	return newStubSearcher(start, goal)
}

// stubExecutor drives a geo.Path one node per tick, mutating the shared
// player stub so the demo's printed position actually advances.
type stubExecutor struct {
	path   geo.Path
	player *stubPlayer
	idx    int
}

func (e *stubExecutor) Tick() bool {
	if e.idx < len(e.path.Nodes)-1 {
		e.idx++
		e.player.setFeet(e.path.Nodes[e.idx])
	}
	return true
}

func (e *stubExecutor) Failed() bool               { return false }
func (e *stubExecutor) Finished() bool             { return e.idx >= len(e.path.Nodes)-1 }
func (e *stubExecutor) Sprinting() bool            { return true }
func (e *stubExecutor) Src() geo.BlockPos          { return e.path.Src }
func (e *stubExecutor) Dest() geo.BlockPos         { return e.path.Dest }
func (e *stubExecutor) Goal() geo.Goal             { return e.path.Goal }
func (e *stubExecutor) Positions() []geo.BlockPos  { return e.path.Nodes }
func (e *stubExecutor) SnipSnapIfPossible() bool   { return false }

func (e *stubExecutor) TrySplice(next worldctx.PathExecutor) worldctx.PathExecutor {
	return e
}

type stubExecutorFactory struct {
	player *stubPlayer
}

func (f stubExecutorFactory) NewExecutor(p geo.Path) worldctx.PathExecutor {
	return &stubExecutor{path: p, player: f.player}
}
