package arbiter

import "github.com/google/uuid"

// Process is the capability set a competing subsystem (mining, following,
// elytra, ...) exposes to the arbiter. Implementations live outside this
// module; the arbiter only ever holds interface values.
type Process interface {
	// IsActive reports whether the process currently wants control.
	IsActive() bool
	// IsTemporary reports whether the process may yield control without
	// invalidating the path already in progress (e.g. a transient
	// override).
	IsTemporary() bool
	// Priority returns the process's current priority; higher wins ties
	// are broken by insertion order via a stable sort.
	Priority() float64
	// OnTick is invoked once per tick for every active process, in
	// descending priority order, until one returns a non-Defer command.
	// Returning nil while IsActive is true is a programmer-contract
	// violation.
	OnTick(calcFailedLastTick, safeToCancel bool) *Command
	// Release notifies the process that another, non-temporary process has
	// won control this tick.
	Release()
	// DisplayName identifies the process in logs and diagnostics.
	DisplayName() string
}

// handle wraps a registered Process with a stable identity, independent of
// its current priority or active status, for diagnostics and stable
// ordering.
type handle struct {
	id       uuid.UUID
	process  Process
	priority float64
}
