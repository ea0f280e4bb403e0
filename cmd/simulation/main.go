// Command simulation runs the flock headless for a fixed number of ticks
// and prints the final statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
)

func main() {
	configFile := flag.String("config", "", "path to a JSON or TOML config file")
	steps := flag.Int("steps", 0, "number of ticks to run (overrides the config)")
	dt := flag.Duration("dt", 0, "tick duration (defaults to 1/ticksPerSecond)")
	quiet := flag.Bool("quiet", false, "only print the final statistics")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			log.Fatalf("💥 cannot load config: %v", err)
		}
	}
	if *steps > 0 {
		cfg.Steps = *steps
	}
	tick := cfg.TickDuration()
	if *dt > 0 {
		tick = *dt
	}

	logger := golog.DefaultLogger
	if *quiet {
		logger = golog.DiscardLogger
	}

	stats, err := run(context.Background(), cfg, tick, logger)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d ticks of %v: %s\n", cfg.Steps, tick, stats)
}

// run drives the world actor through cfg.Steps ticks, then asks for stats.
// Messages to one actor are processed in order, so the stats reply
// reflects every tick sent before it.
func run(ctx context.Context, cfg *simulation.Config, tick time.Duration, logger golog.Logger) (simulation.FlockStats, error) {
	system, err := actor.NewActorSystem("FlockSystem", actor.WithLogger(logger))
	if err != nil {
		return simulation.FlockStats{}, err
	}
	if err := system.Start(ctx); err != nil {
		return simulation.FlockStats{}, err
	}
	defer func() {
		if err := system.Stop(ctx); err != nil {
			logger.Warnf("actor system stop: %v", err)
		}
	}()

	world, err := system.Spawn(ctx, "world", simulation.NewWorldActor(nil, cfg))
	if err != nil {
		return simulation.FlockStats{}, fmt.Errorf("failed to spawn world: %w", err)
	}

	for i := 0; i < cfg.Steps; i++ {
		if err := actor.Tell(ctx, world, simulation.NewTick(tick)); err != nil {
			return simulation.FlockStats{}, fmt.Errorf("tick %d: %w", i, err)
		}
	}

	reply, err := actor.Ask(ctx, world, simulation.NewCommand(simulation.CommandStats), time.Minute)
	if err != nil {
		return simulation.FlockStats{}, fmt.Errorf("stats request failed: %w", err)
	}
	s, ok := reply.(*structpb.Struct)
	if !ok {
		return simulation.FlockStats{}, fmt.Errorf("unexpected stats reply %T", reply)
	}
	return simulation.StatsFromStruct(s)
}
