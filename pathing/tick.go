package pathing

import (
	"context"

	"github.com/df-mc/pathkeeper/pathing/eventbus"
	"github.com/df-mc/pathkeeper/pathing/pathingerr"
	"github.com/df-mc/pathkeeper/pathing/start"
	"github.com/df-mc/pathkeeper/pathing/store"
)

// Tick runs one iteration of the per-tick algorithm.
func (c *Core) Tick(phase TickPhase) {
	defer c.recoverProgrammerError()

	firstDrain := c.bus.Drain()
	c.drainToHandler(firstDrain)
	c.calcFailedLastTick = eventbus.Contains(firstDrain, eventbus.CalcFailed)

	if phase == Out {
		c.cancelSegment()
		c.terminateAllProcesses()
		return
	}

	resolved := start.Resolve(c.player, c.blocks)
	c.store.WithPathLock(func(path *store.PathTx) {
		path.SetExpectedStart(resolved)
	})

	c.arb.PreTick()

	c.updatePath()

	c.elapsedTicks++

	secondDrain := c.bus.Drain()
	c.drainToHandler(secondDrain)

	c.metrics.IncTicksProcessed()
}

// Run drives Tick from phases received on ticks until ctx is cancelled or
// ticks is closed.
func (c *Core) Run(ctx context.Context, ticks <-chan TickPhase) {
	for {
		select {
		case <-ctx.Done():
			return
		case phase, ok := <-ticks:
			if !ok {
				return
			}
			c.Tick(phase)
		}
	}
}

func (c *Core) recoverProgrammerError() {
	r := recover()
	if r == nil {
		return
	}
	if pe, ok := r.(*pathingerr.ProgrammerError); ok {
		c.log.Error("pathing: programmer contract violation", "component", pe.Component, "message", pe.Message)
		return
	}
	panic(r)
}
