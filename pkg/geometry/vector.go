package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/paulmach/orb"
)

// Epsilon is the length under which a vector is treated as having no direction.
const Epsilon float32 = 1e-6

// Zero is the at-rest vector.
var Zero = mgl32.Vec3{}

// IsZero reports whether v is exactly the zero vector.
// Velocities are compared exactly: only a true zero means "at rest".
func IsZero(v mgl32.Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Normalize returns a unit vector in the same direction as v.
// Returns the zero vector if the length is effectively zero, so callers
// never see NaN components.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Zero
	}
	return v.Mul(1 / l)
}

// Direction returns the unit vector pointing from -> to, or zero when the
// two points coincide.
func Direction(from, to mgl32.Vec3) mgl32.Vec3 {
	return Normalize(to.Sub(from))
}

// ClampLength rescales v to exactly max when it is longer than max.
// A zero vector is returned untouched.
func ClampLength(v mgl32.Vec3, max float32) mgl32.Vec3 {
	if IsZero(v) {
		return v
	}
	l := v.Len()
	if l <= max {
		return v
	}
	return v.Mul(max / l)
}

// Remap maps value linearly from [lo1, hi1] onto [lo2, hi2].
// Values outside the source range are extrapolated, not clamped.
func Remap(value, lo1, hi1, lo2, hi2 float32) float32 {
	if hi1 == lo1 {
		return lo2
	}
	return lo2 + (value-lo1)*(hi2-lo2)/(hi1-lo1)
}

// FacingRotation returns the rotation that maps the forward axis onto dir.
// ok is false when either vector has no direction; callers keep their
// previous orientation in that case.
func FacingRotation(forward, dir mgl32.Vec3) (q mgl32.Quat, ok bool) {
	f, d := Normalize(forward), Normalize(dir)
	if IsZero(f) || IsZero(d) {
		return mgl32.QuatIdent(), false
	}
	return mgl32.QuatBetweenVectors(f, d), true
}

// Heading returns the planar angle (radians, range [-Pi, Pi]) of the
// forward axis once rotated by q. Used by renderers working in 2D.
func Heading(q mgl32.Quat, forward mgl32.Vec3) float64 {
	d := q.Rotate(forward)
	return math.Atan2(float64(d.Y()), float64(d.X()))
}

// ---------------------------------------------------------------------
// Planar conversions
// ---------------------------------------------------------------------

// ToPoint drops the z component and returns the planar orb point.
func ToPoint(v mgl32.Vec3) orb.Point {
	return orb.Point{float64(v.X()), float64(v.Y())}
}

// ToBound converts a min/max pair of planar corners into an orb bound.
func ToBound(min, max mgl32.Vec2) orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(min.X()), float64(min.Y())},
		Max: orb.Point{float64(max.X()), float64(max.Y())},
	}
}

// String formats a vector the way the logs print positions.
func String(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z())
}
