package simulation

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// WorldSnapshot is what the World pushes to the UI after every tick.
// Agents is a copy: readers never share memory with the engine.
type WorldSnapshot struct {
	Tick    uint64
	Elapsed float32
	Agents  flock.AgentSet
	Rules   flock.Rules
	Stats   FlockStats
}

// FlockStats summarises the flock on the plane.
type FlockStats struct {
	Count     int       `json:"count"`
	Centroid  orb.Point `json:"centroid"`
	Extent    orb.Bound `json:"extent"`
	MeanSpeed float64   `json:"meanSpeed"`
	MaxSpeed  float64   `json:"maxSpeed"`
	Outside   int       `json:"outside"` // agents beyond maxRange
}

// ComputeStats measures agents; maxRange is the centering radius.
func ComputeStats(agents flock.AgentSet, maxRange float32) FlockStats {
	if len(agents) == 0 {
		return FlockStats{}
	}

	points := make(orb.MultiPoint, len(agents))
	stats := FlockStats{Count: len(agents)}
	var total float64
	for i := range agents {
		a := &agents[i]
		points[i] = geometry.ToPoint(a.Position)

		speed := float64(a.Speed())
		total += speed
		if speed > stats.MaxSpeed {
			stats.MaxSpeed = speed
		}
		if a.Position.Len() > maxRange {
			stats.Outside++
		}
	}

	stats.Centroid, _ = planar.CentroidArea(points)
	stats.Extent = points.Bound()
	stats.MeanSpeed = total / float64(len(agents))
	return stats
}

func (s FlockStats) String() string {
	return fmt.Sprintf("agents: %d | centroid (%.1f, %.1f) | extent %.0fx%.0f | speed avg %.1f max %.1f | outside: %d",
		s.Count, s.Centroid.X(), s.Centroid.Y(),
		s.Extent.Max.X()-s.Extent.Min.X(), s.Extent.Max.Y()-s.Extent.Min.Y(),
		s.MeanSpeed, s.MaxSpeed, s.Outside)
}
