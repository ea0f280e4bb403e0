package simulation

import (
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns the flock. The engine and the agent slice only ever
// change inside Receive, so one tick always completes before the next one
// (or any rule change) is looked at.
type WorldActor struct {
	cfg    *Config
	engine *flock.Engine
	agents flock.AgentSet
	logger golog.Logger

	// Simulation clock, fed by the host
	ticks   uint64
	elapsed float32

	// Communication with UI
	snapshotCh chan<- *WorldSnapshot

	// Telemetry print timer
	sinceLog float32
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit
func NewWorldActor(snapshotCh chan<- *WorldSnapshot, cfg *Config) *WorldActor {
	return &WorldActor{
		cfg:        cfg,
		snapshotCh: snapshotCh,
		logger:     golog.DiscardLogger,
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	w.init(ctx.ActorSystem().Logger())
	return nil
}

// init builds the engine and seeds the population.
func (w *WorldActor) init(logger golog.Logger) {
	w.logger = logger
	w.engine = w.cfg.NewEngine(logger)
	w.reseed()
	w.logger.Infof("World seeded %d agents (grid %dx%d, spacing %.1f, %d worker(s))",
		len(w.agents), w.cfg.GridSize, w.cfg.GridSize, w.cfg.Spacing, w.engine.Workers())
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started.")

	// 1. The Main Simulation Step (Driven by the host clock)
	case *durationpb.Duration:
		w.step(msg.AsDuration())
		w.pushSnapshot()

	// 2. Live rule changes from the UI
	case *structpb.Struct:
		if err := w.updateRules(msg); err != nil {
			ctx.Logger().Warnf("rule update rejected: %v", err)
		}

	// 3. Commands
	case *wrapperspb.StringValue:
		w.handleCommand(ctx, msg.GetValue())

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) handleCommand(ctx *actor.ReceiveContext, cmd string) {
	switch cmd {
	case CommandReseed:
		w.reseed()
		w.logger.Infof("World reseeded %d agents", len(w.agents))
		w.pushSnapshot()
	case CommandStats:
		reply, err := StatsToStruct(w.stats())
		if err != nil {
			w.logger.Errorf("failed to encode stats: %v", err)
			return
		}
		ctx.Response(reply)
	default:
		ctx.Unhandled()
	}
}

// step advances the flock by d and accumulates the simulation clock.
func (w *WorldActor) step(d time.Duration) {
	dt := float32(d.Seconds())
	if dt <= 0 {
		return
	}
	w.ticks++
	w.elapsed += dt
	w.engine.Tick(w.agents, dt, w.elapsed)

	w.sinceLog += dt
	if w.cfg.LogInterval > 0 && float64(w.sinceLog) >= w.cfg.LogInterval {
		w.sinceLog = 0
		w.logger.Infof("📊 tick %d t=%.1fs | %s", w.ticks, w.elapsed, w.stats())
	}
}

func (w *WorldActor) updateRules(update *structpb.Struct) error {
	current := w.engine.Rules()
	next, err := ApplyRules(current, update)
	if err != nil {
		return err
	}
	if next == current {
		return nil
	}
	w.engine.SetRules(next)
	w.logger.Infof("rules updated: %v", update.AsMap())
	return nil
}

// reseed recreates the initial grid and restarts the clock.
func (w *WorldActor) reseed() {
	w.agents = flock.Seed(w.cfg.Layout())
	w.ticks = 0
	w.elapsed = 0
	w.sinceLog = 0
}

func (w *WorldActor) stats() FlockStats {
	return ComputeStats(w.agents, w.engine.Rules().MaxRange)
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.buildSnapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) buildSnapshot() *WorldSnapshot {
	return &WorldSnapshot{
		Tick:    w.ticks,
		Elapsed: w.elapsed,
		Agents:  w.agents.Clone(),
		Rules:   w.engine.Rules(),
		Stats:   w.stats(),
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown after %d ticks (t=%.1fs)", w.ticks, w.elapsed)
	return nil
}
