// Package viewer draws a running flock with ebiten and lets the rules be
// tuned live from a side panel.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
	"github.com/paulmach/orb"
	"github.com/tochemey/goakt/v3/actor"
)

const panelWidth = 280

var (
	whiteImage = ebiten.NewImage(3, 3)
	background = color.RGBA{R: 10, G: 10, B: 30, A: 255}
)

func init() {
	whiteImage.Fill(color.White)
}

type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	worldPID   *actor.PID
	snapshotCh chan *simulation.WorldSnapshot
	lastState  *simulation.WorldSnapshot

	cfg    *simulation.Config
	sent   flock.Rules // last rules pushed to the world
	paused bool

	// UI Controls
	panel *ui.Panel

	widgetProtectedRange *ui.Slider
	widgetAvoidRange     *ui.Slider
	widgetAlignRange     *ui.Slider
	widgetCohesionRange  *ui.Slider
	widgetAlignFactor    *ui.Slider
	widgetCohesionFactor *ui.Slider
	widgetMaxRange       *ui.Slider
	widgetMaxSpeed       *ui.Slider
	widgetCentering      *ui.Slider
	widgetDeltaScaling   *ui.Checkbox
	widgetWrap           *ui.Checkbox
	widgetShowStats      *ui.Checkbox

	// reused every frame
	vertices []ebiten.Vertex
	indices  []uint16

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64
}

// NewGame spawns the world actor on system and builds the control panel.
func NewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem) (*Game, error) {
	snapshotCh := make(chan *simulation.WorldSnapshot, 10)

	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(snapshotCh, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		System:     system,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		cfg:        cfg,
		sent:       cfg.Rules,
	}
	g.buildPanel()
	return g, nil
}

func (g *Game) buildPanel() {
	r := g.cfg.Rules
	p := ui.NewPanel(10, 10, panelWidth, g.cfg.WorldHeight-20, "Flock rules")

	p.AddSection("Distances")
	g.widgetProtectedRange = p.AddSlider("Protected Range", 0, 200, float64(r.ProtectedRange))
	g.widgetAvoidRange = p.AddSlider("Avoid Range", 0, 200, float64(r.AvoidRange))
	g.widgetAlignRange = p.AddSlider("Align Range", 0, 600, float64(r.AlignRange))
	g.widgetCohesionRange = p.AddSlider("Cohesion Range", 0, 600, float64(r.CohesionRange))

	p.AddSection("Factors")
	g.widgetAlignFactor = p.AddSlider("Align Factor", 0, 1, float64(r.AlignFactor))
	g.widgetCohesionFactor = p.AddSlider("Cohesion Factor", 0, 0.5, float64(r.CohesionFactor))
	g.widgetCohesionFactor.Format = "%.3f"

	p.AddSection("Containment")
	g.widgetMaxRange = p.AddSlider("Max Range", 0, 1500, float64(r.MaxRange))
	g.widgetMaxRange.Format = "%.0f"
	g.widgetMaxSpeed = p.AddSlider("Max Speed", 0, 600, float64(r.MaxSpeed))
	g.widgetMaxSpeed.Format = "%.0f"
	g.widgetCentering = p.AddSlider("Centering Strength", 0, 5, float64(r.CenteringStrength))
	g.widgetDeltaScaling = p.AddCheckbox("Scale by tick delta", r.TimeScaling == flock.ScaleDelta)
	g.widgetWrap = p.AddCheckbox("Wrap at bounds", r.Boundary == flock.BoundaryWrap)

	p.AddSection("Simulation")
	g.widgetShowStats = p.AddCheckbox("Show extent", true)
	p.AddButton("Reseed", g.reseed)

	g.panel = p
}

// rulesFromPanel overlays the widget values on the last rules sent.
func (g *Game) rulesFromPanel() flock.Rules {
	r := g.sent
	r.ProtectedRange = float32(g.widgetProtectedRange.Value)
	r.AvoidRange = float32(g.widgetAvoidRange.Value)
	r.AlignRange = float32(g.widgetAlignRange.Value)
	r.CohesionRange = float32(g.widgetCohesionRange.Value)
	r.AlignFactor = float32(g.widgetAlignFactor.Value)
	r.CohesionFactor = float32(g.widgetCohesionFactor.Value)
	r.MaxRange = float32(g.widgetMaxRange.Value)
	r.MaxSpeed = float32(g.widgetMaxSpeed.Value)
	r.CenteringStrength = float32(g.widgetCentering.Value)

	r.TimeScaling = flock.ScaleCumulative
	if g.widgetDeltaScaling.Value {
		r.TimeScaling = flock.ScaleDelta
	}
	r.Boundary = flock.BoundaryContain
	if g.widgetWrap.Value {
		r.Boundary = flock.BoundaryWrap
	}
	return r
}

func (g *Game) reseed() {
	if err := actor.Tell(g.ctx, g.worldPID, simulation.NewCommand(simulation.CommandReseed)); err != nil {
		g.System.Logger().Errorf("reseed failed: %v", err)
	}
}

// pushRules sends the panel rules to the world when they changed.
func (g *Game) pushRules() error {
	next := g.rulesFromPanel()
	if next == g.sent {
		return nil
	}
	update, err := simulation.RulesToStruct(next)
	if err != nil {
		return err
	}
	if err := actor.Tell(g.ctx, g.worldPID, update); err != nil {
		return err
	}
	g.sent = next
	return nil
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reseed()
	}

	// keep only the most recent snapshot
	for drained := false; !drained; {
		select {
		case snap := <-g.snapshotCh:
			g.lastState = snap
		default:
			drained = true
		}
	}

	if err := g.pushRules(); err != nil {
		g.System.Logger().Warnf("rule update failed: %v", err)
	}

	if !g.paused {
		if err := actor.Tell(g.ctx, g.worldPID, simulation.NewTick(g.cfg.TickDuration())); err != nil {
			return fmt.Errorf("tick failed: %w", err)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)

	if g.lastState != nil {
		cam := g.camera(screen)
		g.drawBounds(screen, cam)
		g.drawAgents(screen, cam)
	}

	g.panel.Draw(screen)
	g.drawStats(screen)
}

// camera frames the area right of the panel.
func (g *Game) camera(screen *ebiten.Image) camera {
	b := screen.Bounds()
	area := orb.Bound{
		Min: orb.Point{panelWidth + 20, 10},
		Max: orb.Point{float64(b.Dx()) - 10, float64(b.Dy()) - 10},
	}
	return newCamera(viewBound(g.lastState.Rules, g.lastState.Stats), area)
}

func (g *Game) drawBounds(screen *ebiten.Image, cam camera) {
	rules := g.lastState.Rules
	frame := color.RGBA{R: 90, G: 90, B: 120, A: 255}

	if rules.Boundary == flock.BoundaryWrap {
		x0, y0 := cam.toScreen(orb.Point{float64(rules.WrapMin.X()), float64(rules.WrapMax.Y())})
		x1, y1 := cam.toScreen(orb.Point{float64(rules.WrapMax.X()), float64(rules.WrapMin.Y())})
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, frame, true)
	} else if rules.MaxRange > 0 {
		cx, cy := cam.toScreen(orb.Point{0, 0})
		vector.StrokeCircle(screen, cx, cy, cam.length(float64(rules.MaxRange)), 1, frame, true)
	}

	if !g.widgetShowStats.Value || g.lastState.Stats.Count == 0 {
		return
	}
	ext := g.lastState.Stats.Extent
	x0, y0 := cam.toScreen(orb.Point{ext.Left(), ext.Top()})
	x1, y1 := cam.toScreen(orb.Point{ext.Right(), ext.Bottom()})
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, color.RGBA{R: 60, G: 160, B: 60, A: 255}, true)
	cx, cy := cam.toScreen(g.lastState.Stats.Centroid)
	vector.FillCircle(screen, cx, cy, 3, color.RGBA{R: 255, G: 200, B: 0, A: 255}, true)
}

// drawAgents batches every agent triangle into a single draw call.
func (g *Game) drawAgents(screen *ebiten.Image, cam camera) {
	agents := g.lastState.Agents
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]

	for i := range agents {
		a := &agents[i]
		x, y := cam.toScreen(geometry.ToPoint(a.Position))
		// screen y grows downwards, so the world heading is mirrored
		angle := -geometry.Heading(a.Orientation, g.cfg.Forward)

		base := uint16(len(g.vertices))
		for _, corner := range [3]struct{ off, r float64 }{{0, 7}, {2.5, 5}, {-2.5, 5}} {
			g.vertices = append(g.vertices, ebiten.Vertex{
				DstX:   x + float32(math.Cos(angle+corner.off)*corner.r),
				DstY:   y + float32(math.Sin(angle+corner.off)*corner.r),
				SrcX:   1,
				SrcY:   1,
				ColorR: 0.4, ColorG: 0.8, ColorB: 1, ColorA: 1,
			})
		}
		g.indices = append(g.indices, base, base+1, base+2)

		// DrawTriangles takes at most 65536 vertices per call
		if len(g.vertices) >= math.MaxUint16-3 {
			screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
			g.vertices = g.vertices[:0]
			g.indices = g.indices[:0]
		}
	}
	if len(g.vertices) > 0 {
		screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
	}
}

func (g *Game) drawStats(screen *ebiten.Image) {
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)

	if s := g.lastState; s != nil {
		msg += fmt.Sprintf("\n\nTick: %d\nTime: %.1fs\nAgents: %d\nMean speed: %.1f\nMax speed:  %.1f\nOutside: %d",
			s.Tick, s.Elapsed, s.Stats.Count, s.Stats.MeanSpeed, s.Stats.MaxSpeed, s.Stats.Outside)
	}
	if g.paused {
		msg += "\n\nPAUSED (space)"
	}
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-170, 10)
}

func (g *Game) Layout(w, h int) (int, int) {
	return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight)
}
