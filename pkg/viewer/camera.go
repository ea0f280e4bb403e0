package viewer

import (
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/paulmach/orb"
)

// viewMargin pads the framed region so agents on its edge stay visible.
const viewMargin = 1.25

// camera maps world coordinates (y up) into a screen rectangle (y down),
// keeping the aspect ratio of the world.
type camera struct {
	view   orb.Bound
	screen orb.Bound
	scale  float64
	offset orb.Point
}

func newCamera(view, screen orb.Bound) camera {
	c := camera{view: view, screen: screen, scale: 1}
	vw, vh := view.Right()-view.Left(), view.Top()-view.Bottom()
	sw, sh := screen.Right()-screen.Left(), screen.Top()-screen.Bottom()
	if vw > 0 && vh > 0 {
		c.scale = min(sw/vw, sh/vh)
	}
	// center the scaled view inside the screen rectangle
	c.offset = orb.Point{
		screen.Left() + (sw-vw*c.scale)/2,
		screen.Bottom() + (sh-vh*c.scale)/2,
	}
	return c
}

func (c camera) toScreen(p orb.Point) (float32, float32) {
	x := c.offset.X() + (p.X()-c.view.Left())*c.scale
	y := c.offset.Y() + (c.view.Top()-p.Y())*c.scale
	return float32(x), float32(y)
}

func (c camera) length(d float64) float32 {
	return float32(d * c.scale)
}

// viewBound picks the world region to frame: the wrap rectangle, the
// centering disc, or the current flock extent when neither applies.
func viewBound(rules flock.Rules, stats simulation.FlockStats) orb.Bound {
	if rules.Boundary == flock.BoundaryWrap {
		return geometry.ToBound(rules.WrapMin, rules.WrapMax)
	}
	if rules.MaxRange > 0 {
		r := float64(rules.MaxRange) * viewMargin
		return orb.Bound{Min: orb.Point{-r, -r}, Max: orb.Point{r, r}}
	}
	if stats.Count > 0 {
		return stats.Extent.Pad(50)
	}
	return orb.Bound{Min: orb.Point{-100, -100}, Max: orb.Point{100, 100}}
}
