// Package flock is the boids simulation engine.
//
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
//
// Every tick runs two passes over a flat AgentSet: the neighbour-interaction
// pass turns each unordered pair of agents into velocity contributions
// (alignment, separation, cohesion) and then applies the centering force and
// the speed clamp; the integration pass moves agents and turns them to face
// their velocity. The first pass always completes before the second starts.
package flock

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Agent is a single boid. Z is kept at 0 for planar runs but the full 3D
// transform is carried so hosts can hand it to a 3D renderer unchanged.
type Agent struct {
	ID          int
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	Orientation mgl32.Quat
}

// Speed returns |velocity|.
func (a *Agent) Speed() float32 {
	return a.Velocity.Len()
}

// String implements fmt.Stringer for log lines.
func (a Agent) String() string {
	return fmt.Sprintf("#%d pos %s vel %s", a.ID, geometry.String(a.Position), geometry.String(a.Velocity))
}

// AgentSet is the contiguous collection of agents owned by the engine.
// Its length never changes during a run.
type AgentSet []Agent

// Clone returns a copy that hosts can read while the engine keeps ticking.
func (s AgentSet) Clone() AgentSet {
	out := make(AgentSet, len(s))
	copy(out, s)
	return out
}

// Layout describes the initial grid population.
type Layout struct {
	GridSize int     `json:"gridSize" toml:"gridSize"`
	Spacing  float32 `json:"spacing" toml:"spacing"`
}

// DefaultLayout is a 10x10 grid with agents 8 units apart.
func DefaultLayout() Layout {
	return Layout{GridSize: 10, Spacing: 8}
}

// Count returns the number of agents Seed creates for l.
func (l Layout) Count() int {
	if l.GridSize <= 0 {
		return 0
	}
	return l.GridSize * l.GridSize
}

// Seed creates the initial population: GridSize x GridSize agents at
// (row*spacing, col*spacing, 0), at rest, with identity orientation.
// IDs follow row-major order.
func Seed(l Layout) AgentSet {
	agents := make(AgentSet, 0, l.Count())
	for row := 0; row < l.GridSize; row++ {
		for col := 0; col < l.GridSize; col++ {
			agents = append(agents, Agent{
				ID:          len(agents),
				Position:    mgl32.Vec3{float32(row) * l.Spacing, float32(col) * l.Spacing, 0},
				Orientation: mgl32.QuatIdent(),
			})
		}
	}
	return agents
}
