package simulation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestComputeStats(t *testing.T) {
	agents := flock.AgentSet{
		{Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{3, 4, 0}},
		{Position: mgl32.Vec3{10, 0, 0}},
		{Position: mgl32.Vec3{10, 10, 0}, Velocity: mgl32.Vec3{0, 10, 0}},
		{Position: mgl32.Vec3{0, 10, 0}, Velocity: mgl32.Vec3{1, 0, 0}},
	}

	got := ComputeStats(agents, 12)

	if got.Count != 4 {
		t.Errorf("Count = %d; want 4", got.Count)
	}
	if math.Abs(got.Centroid.X()-5) > 1e-9 || math.Abs(got.Centroid.Y()-5) > 1e-9 {
		t.Errorf("Centroid = %v; want (5,5)", got.Centroid)
	}
	if got.Extent.Min.X() != 0 || got.Extent.Max.X() != 10 || got.Extent.Max.Y() != 10 {
		t.Errorf("Extent = %v; want [0,0]-[10,10]", got.Extent)
	}
	if math.Abs(got.MeanSpeed-4) > 1e-6 {
		t.Errorf("MeanSpeed = %v; want 4", got.MeanSpeed)
	}
	if math.Abs(got.MaxSpeed-10) > 1e-6 {
		t.Errorf("MaxSpeed = %v; want 10", got.MaxSpeed)
	}
	// only (10,10) is farther than 12 from the origin
	if got.Outside != 1 {
		t.Errorf("Outside = %d; want 1", got.Outside)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	if got := ComputeStats(nil, 500); got != (FlockStats{}) {
		t.Errorf("ComputeStats(nil) = %+v; want zero value", got)
	}
}

func TestStatsStructRoundTrip(t *testing.T) {
	agents := flock.Seed(flock.Layout{GridSize: 3, Spacing: 10})
	want := ComputeStats(agents, 500)

	st, err := StatsToStruct(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := StatsFromStruct(st)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip = %+v; want %+v", got, want)
	}
}

func TestApplyRules(t *testing.T) {
	base := flock.DefaultRules()

	full, err := RulesToStruct(base)
	if err != nil {
		t.Fatal(err)
	}
	same, err := ApplyRules(flock.Rules{}, full)
	if err != nil {
		t.Fatal(err)
	}
	if same != base {
		t.Errorf("full struct should restore every field: %+v", same)
	}

	partial, _ := structpb.NewStruct(map[string]interface{}{
		"boundary": "wrap",
		"wrapMax":  []interface{}{100.0, 50.0},
	})
	next, err := ApplyRules(base, partial)
	if err != nil {
		t.Fatal(err)
	}
	if next.Boundary != flock.BoundaryWrap || next.WrapMax != (mgl32.Vec2{100, 50}) {
		t.Errorf("partial update not applied: %+v", next)
	}
	if next.MaxSpeed != base.MaxSpeed || next.WrapMin != base.WrapMin {
		t.Errorf("partial update touched other fields: %+v", next)
	}
}
