// Package settings holds the immutable configuration snapshot consumed by
// the pathing control core, following the same zero-value-is-usable,
// withDefaults-applied convention the rest of the module's ambient stack
// uses for configuration structs.
package settings

import (
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

// Settings is an immutable snapshot of the tunables the core reads each
// tick. A Settings value is never mutated in place; live updates are
// published as new snapshots over the channel returned by Store.Updates.
type Settings struct {
	PrimaryTimeout           time.Duration `toml:"-"`
	FailureTimeout           time.Duration `toml:"-"`
	PlanAheadPrimaryTimeout  time.Duration `toml:"-"`
	PlanAheadFailureTimeout  time.Duration `toml:"-"`
	PlanningTickLookahead    int32         `toml:"-"`
	SplicePath               bool          `toml:"-"`
	SimplifyUnloadedY        bool          `toml:"-"`
	CancelOnGoalInvalidation bool          `toml:"-"`
	DisconnectOnArrival      bool          `toml:"-"`
}

// file mirrors Settings in TOML-friendly units (milliseconds instead of
// time.Duration, which go-toml cannot marshal directly).
type file struct {
	PrimaryTimeoutMS          int64 `toml:"primary_timeout_ms"`
	FailureTimeoutMS          int64 `toml:"failure_timeout_ms"`
	PlanAheadPrimaryTimeoutMS int64 `toml:"plan_ahead_primary_timeout_ms"`
	PlanAheadFailureTimeoutMS int64 `toml:"plan_ahead_failure_timeout_ms"`
	PlanningTickLookahead     int32 `toml:"planning_tick_lookahead"`
	SplicePath                bool  `toml:"splice_path"`
	SimplifyUnloadedY         bool  `toml:"simplify_unloaded_y"`
	CancelOnGoalInvalidation  bool  `toml:"cancel_on_goal_invalidation"`
	DisconnectOnArrival       bool  `toml:"disconnect_on_arrival"`
}

// Default returns the out-of-the-box settings snapshot.
func Default() Settings {
	return Settings{
		PrimaryTimeout:           4 * time.Second,
		FailureTimeout:           8 * time.Second,
		PlanAheadPrimaryTimeout:  2 * time.Second,
		PlanAheadFailureTimeout:  4 * time.Second,
		PlanningTickLookahead:    10,
		SplicePath:               true,
		SimplifyUnloadedY:        true,
		CancelOnGoalInvalidation: true,
		DisconnectOnArrival:      false,
	}
}

func (s Settings) toFile() file {
	return file{
		PrimaryTimeoutMS:          s.PrimaryTimeout.Milliseconds(),
		FailureTimeoutMS:          s.FailureTimeout.Milliseconds(),
		PlanAheadPrimaryTimeoutMS: s.PlanAheadPrimaryTimeout.Milliseconds(),
		PlanAheadFailureTimeoutMS: s.PlanAheadFailureTimeout.Milliseconds(),
		PlanningTickLookahead:     s.PlanningTickLookahead,
		SplicePath:                s.SplicePath,
		SimplifyUnloadedY:         s.SimplifyUnloadedY,
		CancelOnGoalInvalidation:  s.CancelOnGoalInvalidation,
		DisconnectOnArrival:       s.DisconnectOnArrival,
	}
}

func (f file) toSettings() Settings {
	return Settings{
		PrimaryTimeout:           time.Duration(f.PrimaryTimeoutMS) * time.Millisecond,
		FailureTimeout:           time.Duration(f.FailureTimeoutMS) * time.Millisecond,
		PlanAheadPrimaryTimeout:  time.Duration(f.PlanAheadPrimaryTimeoutMS) * time.Millisecond,
		PlanAheadFailureTimeout:  time.Duration(f.PlanAheadFailureTimeoutMS) * time.Millisecond,
		PlanningTickLookahead:    f.PlanningTickLookahead,
		SplicePath:               f.SplicePath,
		SimplifyUnloadedY:        f.SimplifyUnloadedY,
		CancelOnGoalInvalidation: f.CancelOnGoalInvalidation,
		DisconnectOnArrival:      f.DisconnectOnArrival,
	}
}

// Load reads a TOML settings file from path, falling back to Default for
// any field the file omits.
func Load(path string) (Settings, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	data := Default().toFile()
	if err := toml.Unmarshal(contents, &data); err != nil {
		return Settings{}, err
	}
	return data.toSettings(), nil
}

// Save writes s to path as TOML.
func Save(path string, s Settings) error {
	encoded, err := toml.Marshal(s.toFile())
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}
