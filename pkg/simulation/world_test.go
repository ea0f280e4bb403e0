package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
)

func newTestWorld(t testing.TB, snapshotCh chan<- *WorldSnapshot) *WorldActor {
	t.Helper()
	cfg := DefaultConfig()
	cfg.GridSize = 4
	w := NewWorldActor(snapshotCh, cfg)
	w.init(golog.DiscardLogger)
	return w
}

func TestWorldActor_init(t *testing.T) {
	w := newTestWorld(t, nil)

	if len(w.agents) != 16 {
		t.Fatalf("Expected 16 agents, got %d", len(w.agents))
	}
	if w.agents[5].Position != (mgl32.Vec3{8, 8, 0}) {
		t.Errorf("agent 5 at %v; want (8,8,0)", w.agents[5].Position)
	}
}

func TestWorldActor_step(t *testing.T) {
	w := newTestWorld(t, nil)
	before := w.agents.Clone()

	w.step(100 * time.Millisecond)
	w.step(100 * time.Millisecond)

	if w.ticks != 2 {
		t.Errorf("ticks = %d; want 2", w.ticks)
	}
	if !mgl32.FloatEqualThreshold(w.elapsed, 0.2, 1e-6) {
		t.Errorf("elapsed = %v; want 0.2", w.elapsed)
	}

	// grid spacing 8 is inside the avoid range, the flock must spread out
	moved := 0
	for i := range w.agents {
		if w.agents[i].Position != before[i].Position {
			moved++
		}
	}
	if moved == 0 {
		t.Error("Expected agents to move after two ticks")
	}
}

func TestWorldActor_stepIgnoresNonPositiveDelta(t *testing.T) {
	w := newTestWorld(t, nil)
	before := w.agents.Clone()

	w.step(0)
	w.step(-time.Second)

	if w.ticks != 0 || w.elapsed != 0 {
		t.Errorf("clock moved: ticks=%d elapsed=%v", w.ticks, w.elapsed)
	}
	for i := range w.agents {
		if w.agents[i] != before[i] {
			t.Fatalf("agent %d changed on a zero tick", i)
		}
	}
}

func TestWorldActor_pushSnapshot(t *testing.T) {
	ch := make(chan *WorldSnapshot, 1)
	w := newTestWorld(t, ch)
	w.step(50 * time.Millisecond)

	w.pushSnapshot()
	// channel full: must not block
	w.pushSnapshot()

	snap := <-ch
	if snap.Tick != 1 {
		t.Errorf("snapshot tick = %d; want 1", snap.Tick)
	}
	if snap.Stats.Count != len(w.agents) {
		t.Errorf("snapshot stats count = %d; want %d", snap.Stats.Count, len(w.agents))
	}

	// the snapshot is a copy
	snap.Agents[0].Position = mgl32.Vec3{999, 999, 0}
	if w.agents[0].Position == snap.Agents[0].Position {
		t.Error("snapshot shares memory with the world")
	}
}

func TestWorldActor_updateRules(t *testing.T) {
	w := newTestWorld(t, nil)

	update, err := structpb.NewStruct(map[string]interface{}{
		"maxSpeed":    50.0,
		"timeScaling": "delta",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.updateRules(update); err != nil {
		t.Fatalf("updateRules() error = %v", err)
	}

	got := w.engine.Rules()
	if got.MaxSpeed != 50 || got.TimeScaling != "delta" {
		t.Errorf("rules not applied: %+v", got)
	}
	if got.AlignRange != DefaultConfig().Rules.AlignRange {
		t.Errorf("alignRange should be untouched, got %v", got.AlignRange)
	}

	bad, _ := structpb.NewStruct(map[string]interface{}{"maxSpeed": "fast"})
	if err := w.updateRules(bad); err == nil {
		t.Error("Expected an error for a non numeric maxSpeed")
	}
	if w.engine.Rules().MaxSpeed != 50 {
		t.Error("a rejected update must leave the rules unchanged")
	}
}

func TestWorldActor_reseed(t *testing.T) {
	w := newTestWorld(t, nil)
	w.step(time.Second)

	w.reseed()

	if w.ticks != 0 || w.elapsed != 0 {
		t.Errorf("clock not reset: ticks=%d elapsed=%v", w.ticks, w.elapsed)
	}
	if w.agents[1].Position != (mgl32.Vec3{0, 8, 0}) || w.agents[1].Velocity != (mgl32.Vec3{}) {
		t.Errorf("agent 1 not back on the grid: %v", w.agents[1])
	}
}

func TestWorldActor_ActorSystem(t *testing.T) {
	ctx := context.Background()
	system, err := actor.NewActorSystem("FlockTest", actor.WithLogger(golog.DiscardLogger))
	if err != nil {
		t.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = system.Stop(ctx) }()

	cfg := DefaultConfig()
	cfg.GridSize = 5
	snapshots := make(chan *WorldSnapshot, 16)
	pid, err := system.Spawn(ctx, "world", NewWorldActor(snapshots, cfg))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		if err := actor.Tell(ctx, pid, NewTick(cfg.TickDuration())); err != nil {
			t.Fatal(err)
		}
	}

	reply, err := actor.Ask(ctx, pid, NewCommand(CommandStats), 5*time.Second)
	if err != nil {
		t.Fatalf("Ask(stats) error = %v", err)
	}
	st, ok := reply.(*structpb.Struct)
	if !ok {
		t.Fatalf("unexpected reply type %T", reply)
	}
	stats, err := StatsFromStruct(st)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Count != 25 {
		t.Errorf("stats count = %d; want 25", stats.Count)
	}
	if stats.MaxSpeed <= 0 {
		t.Error("Expected the flock to be moving after 10 ticks")
	}

	select {
	case snap := <-snapshots:
		if len(snap.Agents) != 25 {
			t.Errorf("snapshot has %d agents; want 25", len(snap.Agents))
		}
	default:
		t.Error("Expected at least one snapshot")
	}
}

func BenchmarkWorldActor_step(b *testing.B) {
	w := newTestWorld(b, nil)
	w.cfg.LogInterval = 0
	w.cfg.GridSize = 20
	w.reseed()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.step(time.Second / 60)
	}
}
