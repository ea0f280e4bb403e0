package flock

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// integrate advances positions by velocity*dt and turns every moving agent
// to face its velocity. Agents at rest keep their previous orientation.
func (e *Engine) integrate(agents AgentSet, dt float32) {
	for i := range agents {
		a := &agents[i]
		a.Position = a.Position.Add(a.Velocity.Mul(dt))
		if geometry.IsZero(a.Velocity) {
			continue
		}
		if q, ok := geometry.FacingRotation(e.forward, a.Velocity); ok {
			a.Orientation = q
		}
	}
	if e.rules.Boundary == BoundaryWrap {
		wrap(agents, e.rules.WrapMin, e.rules.WrapMax)
	}
}

// wrap keeps agents inside [min, max] on x and y: leaving an axis range
// reflects that velocity component and clamps the position back in.
func wrap(agents AgentSet, min, max mgl32.Vec2) {
	for i := range agents {
		a := &agents[i]
		for axis := 0; axis < 2; axis++ {
			p := a.Position[axis]
			if p >= min[axis] && p <= max[axis] {
				continue
			}
			a.Velocity[axis] = -a.Velocity[axis]
			a.Position[axis] = mgl32.Clamp(p, min[axis], max[axis])
		}
	}
}
