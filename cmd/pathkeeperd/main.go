// Command pathkeeperd drives a PathingCore against an in-memory stub world:
// no network, no persistence, just a tick loop and a goal.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/df-mc/pathkeeper/pathing"
	"github.com/df-mc/pathkeeper/pathing/eventbus"
	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/metrics"
	"github.com/df-mc/pathkeeper/pathing/settings"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	player := &stubPlayer{feet: geo.BlockPos{X: 0, Y: 64, Z: 0}}

	core := pathing.New(pathing.Config{
		Log:             log,
		Player:          player,
		Blocks:          stubBlocks{},
		Input:           &stubInput{log: log},
		SearcherFactory: stubSearcherFactory{},
		ExecutorFactory: stubExecutorFactory{player: player},
		Settings:        settings.NewStore(settings.Default()),
		Metrics:         metrics.New(),
		Handler: func(ev eventbus.Event) {
			fmt.Printf("event: %s\n", ev.Kind)
		},
	})

	// One tick resolves expected_start before a goal can be accepted.
	core.Tick(pathing.In)
	core.SetGoalAndMaybePath(geo.GoalBlock{Pos: geo.BlockPos{X: 10, Y: 64, Z: 0}})

	for i := 0; i < 40; i++ {
		core.Tick(pathing.In)
		time.Sleep(5 * time.Millisecond)
	}

	snap := core.Metrics()
	fmt.Printf("\nticks processed: %d, searches started: %d, searches finished: %d\n",
		snap.TicksProcessed, snap.SearchesStarted, snap.SearchesFinished)
	fmt.Printf("player now at %s\n", player.PlayerFeet())
}
