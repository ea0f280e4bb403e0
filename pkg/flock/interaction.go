package flock

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"golang.org/x/sync/errgroup"
)

// pairContribution computes the velocity changes the three neighbour rules
// produce for the pair (a, b). Contributions are derived from the tick-start
// state only, so the order pairs are visited in does not matter beyond float
// summation order.
func (r *Rules) pairContribution(a, b *Agent, dt, scale float32) (da, db mgl32.Vec3) {
	distVec := a.Position.Sub(b.Position)
	d := distVec.Len()

	// 1. Alignment: exponential smoothing toward the pair's mean velocity
	if d > r.ProtectedRange && d <= r.AlignRange {
		avg := a.Velocity.Add(b.Velocity).Mul(0.5)
		k := r.AlignFactor * dt
		da = da.Add(avg.Sub(a.Velocity).Mul(k))
		db = db.Add(avg.Sub(b.Velocity).Mul(k))
	}

	// 2. Separation: straight apart along distVec, delta-time scaled
	if d < r.AvoidRange {
		push := distVec.Mul(dt)
		da = da.Add(push)
		db = db.Sub(push)
	}

	// 3. Cohesion: unit step toward the midpoint, scaled by the time scale
	if d > r.ProtectedRange && d < r.CohesionRange {
		mid := a.Position.Add(b.Position).Mul(0.5)
		k := r.CohesionFactor * scale
		da = da.Add(geometry.Direction(a.Position, mid).Mul(k))
		db = db.Add(geometry.Direction(b.Position, mid).Mul(k))
	}

	return da, db
}

// accumulateRows adds the contributions of every pair (i, j) with j > i for
// the rows i = first, first+stride, ... into acc.
func (r *Rules) accumulateRows(agents AgentSet, acc []mgl32.Vec3, first, stride int, dt, scale float32) {
	n := len(agents)
	for i := first; i < n; i += stride {
		for j := i + 1; j < n; j++ {
			da, db := r.pairContribution(&agents[i], &agents[j], dt, scale)
			acc[i] = acc[i].Add(da)
			acc[j] = acc[j].Add(db)
		}
	}
}

// centering pulls agents beyond MaxRange back toward the origin.
func (r *Rules) centering(pos mgl32.Vec3, scale float32) mgl32.Vec3 {
	if r.MaxRange <= 0 {
		return geometry.Zero
	}
	dist := pos.Len()
	if dist <= r.MaxRange {
		return geometry.Zero
	}
	excess := (dist - r.MaxRange) / r.MaxRange
	strength := geometry.Remap(excess, 0, 1, 0, r.CenteringStrength)
	return geometry.Normalize(pos.Mul(-1)).Mul(strength * scale)
}

// interact runs the neighbour-interaction pass and leaves every agent with
// its final velocity for this tick.
func (e *Engine) interact(agents AgentSet, dt, elapsed float32) {
	r := &e.rules
	scale := r.timeScale(dt, elapsed)
	deltas := e.accumulate(agents, dt, scale)

	for i := range agents {
		v := agents[i].Velocity.Add(deltas[i])
		if r.Boundary != BoundaryWrap {
			v = v.Add(r.centering(agents[i].Position, scale))
		}
		agents[i].Velocity = geometry.ClampLength(v, r.MaxSpeed)
	}
}

// accumulate sums the pair contributions per agent. With more than one
// worker the rows are dealt round-robin to workers, each writing to its own
// buffer; buffers are merged in worker order so a given worker count always
// yields the same result.
func (e *Engine) accumulate(agents AgentSet, dt, scale float32) []mgl32.Vec3 {
	n := len(agents)
	workers := e.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	bufs := e.buffers(workers, n)

	if workers == 1 {
		e.rules.accumulateRows(agents, bufs[0], 0, 1, dt, scale)
		return bufs[0]
	}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		acc := bufs[w]
		first := w
		g.Go(func() error {
			e.rules.accumulateRows(agents, acc, first, workers, dt, scale)
			return nil
		})
	}
	_ = g.Wait()

	out := bufs[0]
	for w := 1; w < workers; w++ {
		for i, d := range bufs[w] {
			out[i] = out[i].Add(d)
		}
	}
	return out
}

// buffers returns zeroed accumulators, reusing the previous tick's memory.
func (e *Engine) buffers(workers, n int) [][]mgl32.Vec3 {
	for len(e.acc) < workers {
		e.acc = append(e.acc, nil)
	}
	bufs := e.acc[:workers]
	for w := range bufs {
		if cap(bufs[w]) < n {
			bufs[w] = make([]mgl32.Vec3, n)
			continue
		}
		bufs[w] = bufs[w][:n]
		clear(bufs[w])
	}
	return bufs
}
