package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tolerance = 1e-5

func TestIsZero(t *testing.T) {
	tests := []struct {
		name string
		v    mgl32.Vec3
		want bool
	}{
		{"Zero", mgl32.Vec3{}, true},
		{"Negative zero", mgl32.Vec3{float32(math.Copysign(0, -1)), 0, 0}, true},
		{"Tiny X", mgl32.Vec3{1e-30, 0, 0}, false},
		{"Unit Z", mgl32.Vec3{0, 0, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsZero(tt.v); got != tt.want {
				t.Errorf("IsZero(%v) = %v; want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		got := Normalize(mgl32.Vec3{3, 4, 0})
		want := mgl32.Vec3{0.6, 0.8, 0}
		if !got.ApproxEqualThreshold(want, tolerance) {
			t.Errorf("Normalize((3,4,0)) = %v; want %v", got, want)
		}
	})

	t.Run("ZeroStaysZero", func(t *testing.T) {
		got := Normalize(mgl32.Vec3{})
		if !IsZero(got) {
			t.Errorf("Normalize(zero) = %v; want zero vector", got)
		}
		for i := range got {
			if math.IsNaN(float64(got[i])) {
				t.Fatalf("Normalize(zero) produced NaN: %v", got)
			}
		}
	})
}

func TestDirection(t *testing.T) {
	got := Direction(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{0, 0, 0})
	if !got.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, tolerance) {
		t.Errorf("Direction = %v; want (-1,0,0)", got)
	}
	if got := Direction(mgl32.Vec3{5, 5, 0}, mgl32.Vec3{5, 5, 0}); !IsZero(got) {
		t.Errorf("Direction between coincident points = %v; want zero", got)
	}
}

func TestClampLength(t *testing.T) {
	tests := []struct {
		name string
		v    mgl32.Vec3
		max  float32
		want mgl32.Vec3
	}{
		{"Under limit", mgl32.Vec3{1, 1, 0}, 10, mgl32.Vec3{1, 1, 0}},
		{"Over limit", mgl32.Vec3{30, 40, 0}, 5, mgl32.Vec3{3, 4, 0}},
		{"Zero untouched", mgl32.Vec3{}, 5, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampLength(tt.v, tt.max)
			if !got.ApproxEqualThreshold(tt.want, tolerance) {
				t.Errorf("ClampLength(%v, %v) = %v; want %v", tt.v, tt.max, got, tt.want)
			}
		})
	}
}

func TestRemap(t *testing.T) {
	tests := []struct {
		name                      string
		value, lo1, hi1, lo2, hi2 float32
		want                      float32
	}{
		{"Low end", 0, 0, 1, 0, 0.5, 0},
		{"High end", 1, 0, 1, 0, 0.5, 0.5},
		{"Middle", 0.5, 0, 1, 0, 0.5, 0.25},
		{"Extrapolated", 2, 0, 1, 0, 0.5, 1},
		{"Degenerate source", 3, 1, 1, 7, 9, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remap(tt.value, tt.lo1, tt.hi1, tt.lo2, tt.hi2)
			if !mgl32.FloatEqualThreshold(got, tt.want, tolerance) {
				t.Errorf("Remap(%v) = %v; want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFacingRotation(t *testing.T) {
	forward := mgl32.Vec3{0, 1, 0}

	dirs := []mgl32.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, -1, 0},
		{-3, 4, 0},
	}
	for _, d := range dirs {
		q, ok := FacingRotation(forward, d)
		if !ok {
			t.Fatalf("FacingRotation(%v) not ok", d)
		}
		got := q.Rotate(forward)
		if !got.ApproxEqualThreshold(Normalize(d), 1e-3) {
			t.Errorf("rotation of forward = %v; want %v", got, Normalize(d))
		}
	}

	if _, ok := FacingRotation(forward, mgl32.Vec3{}); ok {
		t.Error("FacingRotation with zero direction should not be ok")
	}
}

func TestHeading(t *testing.T) {
	forward := mgl32.Vec3{1, 0, 0}
	q, _ := FacingRotation(forward, mgl32.Vec3{0, 2, 0})
	if got := Heading(q, forward); math.Abs(got-math.Pi/2) > 1e-3 {
		t.Errorf("Heading = %v; want Pi/2", got)
	}
	if got := Heading(mgl32.QuatIdent(), forward); math.Abs(got) > 1e-6 {
		t.Errorf("Heading(identity) = %v; want 0", got)
	}
}

func TestToBound(t *testing.T) {
	b := ToBound(mgl32.Vec2{-10, -5}, mgl32.Vec2{10, 5})
	if !b.Contains(ToPoint(mgl32.Vec3{0, 0, 99})) {
		t.Errorf("bound %v should contain origin", b)
	}
	if b.Contains(ToPoint(mgl32.Vec3{11, 0, 0})) {
		t.Errorf("bound %v should not contain (11,0)", b)
	}
}

func TestString(t *testing.T) {
	want := "(1.23, 5.68, 0.00)"
	if got := String(mgl32.Vec3{1.234, 5.678, 0}); got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}
