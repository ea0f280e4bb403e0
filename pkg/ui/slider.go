package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider edits a float value between Min and Max by dragging.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Format   string // value format, "%.2f" when empty
	X, Y     float64
	W, H     float64
}

// NewSlider creates a slider; value is clamped into [min, max].
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{Label: label, Min: min, Max: max, X: x, Y: y, W: w, H: 12}
	s.Value = s.clamp(value)
	return s
}

func (s *Slider) clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

func (s *Slider) contains(mx, my int) bool {
	return float64(mx) >= s.X && float64(mx) <= s.X+s.W &&
		float64(my) >= s.Y && float64(my) <= s.Y+s.H
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if !s.contains(mx, my) {
		return
	}
	p := (float64(mx) - s.X) / s.W
	s.Value = s.clamp(s.Min + p*(s.Max-s.Min))
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 100, G: 200, B: 255, A: 255}, true)

	format := s.Format
	if format == "" {
		format = "%.2f"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(format, s.Value), int(s.X+s.W-60), int(s.Y-15))
}

// RowHeight is the vertical room the slider takes with its label.
func (s *Slider) RowHeight() float64 { return s.H + 25 }

// SetY moves the slider when the panel scrolls.
func (s *Slider) SetY(y float64) { s.Y = y }
