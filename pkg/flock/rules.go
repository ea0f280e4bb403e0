package flock

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TimeScaling selects which clock scales cohesion and the centering force.
type TimeScaling string

const (
	// ScaleCumulative multiplies by the total elapsed simulation time, so both
	// forces grow the longer a run lasts. This is the reference tuning.
	ScaleCumulative TimeScaling = "cumulative"
	// ScaleDelta multiplies by the tick delta like the other rules.
	ScaleDelta TimeScaling = "delta"
)

// BoundaryMode selects how the flock is kept inside the world.
type BoundaryMode string

const (
	// BoundaryContain relies on the centering force only.
	BoundaryContain BoundaryMode = "contain"
	// BoundaryWrap reflects velocity and clamps position at a rectangle.
	BoundaryWrap BoundaryMode = "wrap"
)

// Rules is the single tunable rule table of the engine.
// Thresholds are applied as literal comparisons, whatever their ordering.
type Rules struct {
	ProtectedRange float32 `json:"protectedRange" toml:"protectedRange"` // alignment/cohesion dead zone
	AvoidRange     float32 `json:"avoidRange" toml:"avoidRange"`         // separation below this distance
	AlignRange     float32 `json:"alignRange" toml:"alignRange"`
	CohesionRange  float32 `json:"cohesionRange" toml:"cohesionRange"`

	AlignFactor    float32 `json:"alignFactor" toml:"alignFactor"`
	CohesionFactor float32 `json:"cohesionFactor" toml:"cohesionFactor"`

	MaxRange          float32 `json:"maxRange" toml:"maxRange"` // centering starts beyond |pos| > MaxRange
	MaxSpeed          float32 `json:"maxSpeed" toml:"maxSpeed"`
	CenteringStrength float32 `json:"centeringStrength" toml:"centeringStrength"`

	TimeScaling TimeScaling  `json:"timeScaling" toml:"timeScaling"`
	Boundary    BoundaryMode `json:"boundary" toml:"boundary"`
	WrapMin     mgl32.Vec2   `json:"wrapMin" toml:"wrapMin"`
	WrapMax     mgl32.Vec2   `json:"wrapMax" toml:"wrapMax"`
}

// DefaultRules returns the reference tuning.
func DefaultRules() Rules {
	return Rules{
		ProtectedRange:    40,
		AvoidRange:        20,
		AlignRange:        300,
		CohesionRange:     200,
		AlignFactor:       0.125,
		CohesionFactor:    0.05,
		MaxRange:          500,
		MaxSpeed:          200,
		CenteringStrength: 0.5,
		TimeScaling:       ScaleCumulative,
		Boundary:          BoundaryContain,
		WrapMin:           mgl32.Vec2{-960, -540},
		WrapMax:           mgl32.Vec2{960, 540},
	}
}

// timeScale returns the multiplier used by cohesion and centering.
func (r *Rules) timeScale(dt, elapsed float32) float32 {
	if r.TimeScaling == ScaleDelta {
		return dt
	}
	return elapsed
}

// Inconsistencies lists threshold orderings that are probably mistakes.
// They are reported to the caller, never enforced.
func (r Rules) Inconsistencies() []string {
	var out []string
	if r.AvoidRange > r.AlignRange {
		out = append(out, fmt.Sprintf("avoidRange %.1f > alignRange %.1f: separation overrides alignment", r.AvoidRange, r.AlignRange))
	}
	if r.ProtectedRange >= r.AlignRange {
		out = append(out, fmt.Sprintf("protectedRange %.1f >= alignRange %.1f: alignment never fires", r.ProtectedRange, r.AlignRange))
	}
	if r.ProtectedRange >= r.CohesionRange {
		out = append(out, fmt.Sprintf("protectedRange %.1f >= cohesionRange %.1f: cohesion never fires", r.ProtectedRange, r.CohesionRange))
	}
	if r.MaxSpeed <= 0 {
		out = append(out, fmt.Sprintf("maxSpeed %.1f: every agent is clamped to rest speed", r.MaxSpeed))
	}
	if r.TimeScaling != ScaleCumulative && r.TimeScaling != ScaleDelta {
		out = append(out, fmt.Sprintf("unknown timeScaling %q: using %q", r.TimeScaling, ScaleCumulative))
	}
	switch r.Boundary {
	case BoundaryContain:
	case BoundaryWrap:
		if r.WrapMin.X() >= r.WrapMax.X() || r.WrapMin.Y() >= r.WrapMax.Y() {
			out = append(out, fmt.Sprintf("wrap bound min %v is not below max %v", r.WrapMin, r.WrapMax))
		}
	default:
		out = append(out, fmt.Sprintf("unknown boundary %q: using %q", r.Boundary, BoundaryContain))
	}
	return out
}
