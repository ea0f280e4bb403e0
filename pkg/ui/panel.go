package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything the panel can stack vertically.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	RowHeight() float64
	SetY(y float64)
}

type section struct {
	title string
	start int // index of the first widget in this section
}

// Panel lays out widgets in titled sections and scrolls them with the wheel.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	widgets  []Widget
	labels   []string
	sections []section
}

func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new header; widgets added afterwards belong to it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title, start: len(p.widgets)})
}

func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, p.Y+p.contentHeight(), p.Width-20, label, min, max, value)
	p.add(label, s)
	return s
}

func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+p.Width-30, p.Y+p.contentHeight(), label, value)
	p.add(label, c)
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, p.Y+p.contentHeight(), p.Width-20, 24, label, onClick)
	p.add("", b)
	return b
}

func (p *Panel) add(label string, w Widget) {
	p.widgets = append(p.widgets, w)
	p.labels = append(p.labels, label)
}

// Contains reports whether the screen point lies inside the panel.
func (p *Panel) Contains(x, y int) bool {
	return float64(x) >= p.X && float64(x) <= p.X+p.Width &&
		float64(y) >= p.Y && float64(y) <= p.Y+p.Height
}

// contentHeight is the height of the title, headers and widgets.
func (p *Panel) contentHeight() float64 {
	h := 30 + float64(len(p.sections))*25
	for _, w := range p.widgets {
		h += w.RowHeight()
	}
	return h
}

// Update scrolls, repositions every widget, then lets them handle input.
func (p *Panel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		mx, my := ebiten.CursorPosition()
		if p.Contains(mx, my) {
			p.ScrollOffset -= dy * 20
			maxScroll := max(p.contentHeight()-p.Height+40, 0)
			p.ScrollOffset = min(max(p.ScrollOffset, 0), maxScroll)
		}
	}

	p.layout(func(i int, y float64) {
		p.widgets[i].SetY(y)
	}, nil)

	for _, w := range p.widgets {
		w.Update()
	}
}

// layout walks headers and widgets top to bottom from the scrolled origin.
func (p *Panel) layout(widget func(i int, y float64), header func(title string, y float64)) {
	y := p.Y + 30 - p.ScrollOffset
	next := 0
	for si, s := range p.sections {
		if header != nil {
			header(s.title, y)
		}
		y += 25
		end := len(p.widgets)
		if si+1 < len(p.sections) {
			end = p.sections[si+1].start
		}
		for ; next < end; next++ {
			widget(next, y+15)
			y += p.widgets[next].RowHeight()
		}
	}
	// widgets added before any section
	for ; next < len(p.widgets); next++ {
		widget(next, y+15)
		y += p.widgets[next].RowHeight()
	}
}

func (p *Panel) visible(y float64) bool {
	return y >= p.Y+20 && y <= p.Y+p.Height-10
}

func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	p.layout(func(i int, y float64) {
		if !p.visible(y) {
			return
		}
		if p.labels[i] != "" {
			ebitenutil.DebugPrintAt(screen, p.labels[i], int(p.X+10), int(y-15))
		}
		p.widgets[i].Draw(screen)
	}, func(title string, y float64) {
		if !p.visible(y + 10) {
			return
		}
		vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20,
			color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
		ebitenutil.DebugPrintAt(screen, title, int(p.X+10), int(y+3))
	})
}
