package pathing

import (
	"github.com/df-mc/pathkeeper/pathing/eventbus"
	"github.com/df-mc/pathkeeper/pathing/store"
)

// secretInternalSegmentCancel implements force_cancel: unconditional
// teardown of current and next, regardless of safety, cancelling any active
// search and releasing input overrides. Named after Baritone's own internal
// method of the same name.
func (c *Core) secretInternalSegmentCancel() {
	c.store.WithBothLocks(func(path *store.PathTx, calc *store.CalcTx) {
		path.ClearCurrentAndNext()
		if search, ok := calc.ActiveSearch(); ok {
			search.Cancel()
			calc.ClearActiveSearch()
		}
	})
	c.input.ClearAllKeys()
	c.emit(eventbus.Canceled)
}

// cancelSegment runs on tick-phase OUT, ahead of terminateAllProcesses.
func (c *Core) cancelSegment() {
	c.secretInternalSegmentCancel()
}

// terminateAllProcesses releases every process registered with the
// arbiter, used alongside cancelSegment on tick-phase OUT.
func (c *Core) terminateAllProcesses() {
	c.arb.TerminateAll()
}
