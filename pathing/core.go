// Package pathing implements PathingCore, the per-tick state machine that
// owns path lifecycle and execution gating for the agent: pause/cancel/
// advance/splice/plan-ahead, emitting PathEvents as it goes.
package pathing

import (
	"log/slog"

	"github.com/df-mc/pathkeeper/pathing/arbiter"
	"github.com/df-mc/pathkeeper/pathing/eventbus"
	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/metrics"
	"github.com/df-mc/pathkeeper/pathing/settings"
	"github.com/df-mc/pathkeeper/pathing/store"
	"github.com/df-mc/pathkeeper/pathing/worker"
	"github.com/df-mc/pathkeeper/pathing/worldctx"
)

// TickPhase distinguishes the two halves of a game tick the core reacts to.
type TickPhase uint8

const (
	// In is the normal tick phase in which arbitration and path execution
	// happen.
	In TickPhase = iota
	// Out marks a tick in which the world is tearing the agent down (e.g.
	// on disconnect); the core tears down its own state instead of ticking.
	Out
)

// Config wires a Core to its collaborators. Player, Blocks, Input,
// SearcherFactory and ExecutorFactory are required. Log, Store, Bus,
// Settings, Pool and CalcContext fall back to defaults when unset; a nil
// Metrics, Elytra or Handler is allowed.
type Config struct {
	Log *slog.Logger

	Player          worldctx.PlayerContext
	Blocks          worldctx.BlockQuery
	Input           worldctx.InputSink
	SearcherFactory worldctx.SearcherFactory
	ExecutorFactory worldctx.ExecutorFactory
	Elytra          worldctx.ElytraSafety

	Store    *store.PathStore
	Bus      *eventbus.Bus
	Settings *settings.Store
	Metrics  *metrics.Registry
	Pool     *worker.Pool

	// Handler receives every PathEvent the core emits, drained twice per
	// tick per the two-drain ordering guarantee.
	Handler func(eventbus.Event)
	// CalcContext produces the CalculationContext snapshot handed to a
	// freshly launched search. Defaults to a context with
	// SafeForThreadedUse always set.
	CalcContext func() geo.CalculationContext
}

// Core is the per-tick pathing state machine. A Core must be driven by a
// single goroutine; only the search-completion handler touches it from
// another goroutine, and it does so exclusively through PathStore's locks.
type Core struct {
	log *slog.Logger

	player          worldctx.PlayerContext
	blocks          worldctx.BlockQuery
	input           worldctx.InputSink
	searcherFactory worldctx.SearcherFactory
	executorFactory worldctx.ExecutorFactory
	elytra          worldctx.ElytraSafety

	store    *store.PathStore
	bus      *eventbus.Bus
	settings *settings.Store
	metrics  *metrics.Registry
	pool     *worker.Pool

	handler     func(eventbus.Event)
	calcContext func() geo.CalculationContext

	arb *arbiter.ControlArbiter

	pauseRequested      bool
	cancelRequested     bool
	wasUnpausedLastTick bool
	pausedThisTick      bool
	calcFailedLastTick  bool
	lastSafeToCancel    bool

	elapsedTicks         int64
	etaBaselineHeuristic float64
	etaBaselineSet       bool
}

// New constructs a Core from cfg.
func New(cfg Config) *Core {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	st := cfg.Store
	if st == nil {
		st = store.New()
	}
	bus := cfg.Bus
	if bus == nil {
		bus = eventbus.New()
	}
	sset := cfg.Settings
	if sset == nil {
		sset = settings.NewStore(settings.Default())
	}
	calcContext := cfg.CalcContext
	if calcContext == nil {
		calcContext = func() geo.CalculationContext { return geo.CalculationContext{SafeForThreadedUse: true} }
	}
	pool := cfg.Pool
	if pool == nil {
		pool = worker.NewPool()
	}

	c := &Core{
		log:                 log,
		player:              cfg.Player,
		blocks:              cfg.Blocks,
		input:               cfg.Input,
		searcherFactory:     cfg.SearcherFactory,
		executorFactory:     cfg.ExecutorFactory,
		elytra:              cfg.Elytra,
		store:               st,
		bus:                 bus,
		settings:            sset,
		metrics:             cfg.Metrics,
		pool:                pool,
		handler:             cfg.Handler,
		calcContext:         calcContext,
		wasUnpausedLastTick: true,
	}
	c.arb = arbiter.New(arbiter.Config{Core: c, Log: log, Settings: sset})
	return c
}

// Arbiter returns the ControlArbiter processes register against.
func (c *Core) Arbiter() *arbiter.ControlArbiter {
	return c.arb
}

// Metrics returns a point-in-time snapshot of the core's counters.
func (c *Core) Metrics() metrics.Snapshot {
	return c.metrics.Snapshot()
}

func (c *Core) emit(k eventbus.Kind) {
	c.bus.PushKind(k)
	c.metrics.IncEvent(k.String())
}

func (c *Core) drainToHandler(events []eventbus.Event) {
	if c.handler == nil {
		return
	}
	for _, ev := range events {
		c.handler(ev)
	}
}

func pathOf(e worldctx.PathExecutor) geo.Path {
	return geo.Path{
		Src:   e.Src(),
		Dest:  e.Dest(),
		Goal:  e.Goal(),
		Nodes: e.Positions(),
	}
}
