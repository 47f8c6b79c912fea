package main

import (
	"context"
	"flag"
	"image/color"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"localization-field/internal/agent"
	"localization-field/internal/common"
	"localization-field/internal/config"
	"localization-field/internal/editor"
	"localization-field/internal/field"
	"localization-field/internal/logging"
	"localization-field/internal/sensor"
)

// ============================================================================
// CONFIGURATION - Adjust these values to customize the editor
// ============================================================================

// Readout panel to the right of the field
const (
	PanelWidth   = 300
	PanelPadding = 10
)

// Keyboard step sizes
const (
	HeadingStep       = 5.0  // Degrees per Q/E press (Shift: 1)
	ObstacleAngleStep = 5.0  // Degrees per [ / ] press
	ObstacleSizeStep  = 0.1  // Field units per W/H press
	OffsetStep        = 0.05 // Sensor offset per arrow press
	LocalizeTimeout   = 5 * time.Second
)

// Field colors
var (
	ColorBackground = color.RGBA{15, 17, 23, 255}
	ColorField      = color.RGBA{18, 20, 31, 255}
	ColorBorder     = color.RGBA{76, 79, 138, 255}
	ColorGrid       = color.RGBA{27, 31, 53, 255}
	ColorPanel      = color.RGBA{0, 0, 0, 180}
)

// Object colors
var (
	ColorRobot          = color.RGBA{139, 92, 246, 255}
	ColorRobotSelected  = color.RGBA{196, 181, 253, 255}
	ColorRobotHandle    = color.RGBA{167, 139, 250, 255}
	ColorHeading        = color.RGBA{255, 255, 255, 255}
	ColorObstacle       = color.RGBA{220, 38, 38, 255}
	ColorObstacleSel    = color.RGBA{252, 165, 165, 255}
	ColorObstacleHandle = color.RGBA{248, 113, 113, 255}
	ColorLandmark       = color.RGBA{59, 130, 246, 255}
	ColorLandmarkSel    = color.RGBA{147, 197, 253, 255}
	ColorEstimate       = color.RGBA{74, 222, 128, 160}
)

// Sensor colors: front, right, back, left
var SensorColors = [field.SensorCount]color.RGBA{
	{250, 204, 21, 255},
	{74, 222, 128, 255},
	{56, 189, 248, 255},
	{251, 146, 60, 255},
}

// ============================================================================

type estimateResult struct {
	est agent.Estimate
	err error
}

type Game struct {
	Editor   *editor.Editor
	View     editor.Viewport
	Agent    agent.Agent
	Readings [field.SensorCount]sensor.Reading

	// Analytics & Visuals
	ActiveSensor int
	Cursor       *common.Vec2 // nil when the pointer is off the field
	Estimate     *agent.Estimate
	Localizing   bool
	Status       string

	scenarioPath string
	estimates    chan estimateResult
	dirty        bool
	log          *zap.Logger
	width        int
	height       int
}

func (g *Game) Update() error {
	g.updatePointer()
	g.updateKeys()

	select {
	case res := <-g.estimates:
		g.Localizing = false
		if res.err != nil {
			g.log.Warn("localize failed", zap.Error(res.err))
			g.Status = "localize failed"
		} else {
			g.Estimate = &res.est
			g.log.Info("localized",
				zap.Float64("x", res.est.Pose.Position.X),
				zap.Float64("y", res.est.Pose.Position.Y),
				zap.Float64("heading", res.est.Pose.Heading),
				zap.Float64("rms", res.est.RMS))
		}
	default:
	}

	if g.dirty {
		g.updateSensors()
	}
	return nil
}

func (g *Game) updatePointer() {
	cx, cy := ebiten.CursorPosition()
	sx, sy := float64(cx), float64(cy)
	p := g.View.ToField(sx, sy)

	if g.View.Inside(sx, sy) {
		g.Cursor = &p
	} else {
		g.Cursor = nil
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && sx < g.View.Size {
		g.Editor.Press(p)
		g.dirty = true
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && g.Editor.Dragging() != editor.DragNone {
		if g.Editor.Drag(p) {
			g.dirty = true
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.Editor.Release()
	}
}

func (g *Game) updateKeys() {
	e := g.Editor
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	changed := true

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		e.Select(e.AddObstacle().ID)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		e.Select(e.AddLandmark().ID)
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if err := e.RemoveSelected(); err != nil {
			g.Status = err.Error()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.ClearAll()
		g.Estimate = nil
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		e.RotateRobotBy(pick(shift, 1, HeadingStep))
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		e.RotateRobotBy(-pick(shift, 1, HeadingStep))
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.withObstacle(func(o *field.Obstacle) error { return e.SetObstacleAngle(o.Angle + ObstacleAngleStep) })
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.withObstacle(func(o *field.Obstacle) error { return e.SetObstacleAngle(o.Angle - ObstacleAngleStep) })
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		g.withObstacle(func(o *field.Obstacle) error {
			return e.SetObstacleWidth(o.Width + pick(shift, -ObstacleSizeStep, ObstacleSizeStep))
		})
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.withObstacle(func(o *field.Obstacle) error {
			return e.SetObstacleHeight(o.Height + pick(shift, -ObstacleSizeStep, ObstacleSizeStep))
		})
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		e.NudgeSensorOffset(g.ActiveSensor, -OffsetStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		e.NudgeSensorOffset(g.ActiveSensor, OffsetStep)
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		e.SetSensorOffset(g.ActiveSensor, 0)
	default:
		changed = false
	}
	if changed {
		g.dirty = true
	}

	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4} {
		if inpututil.IsKeyJustPressed(key) {
			g.ActiveSensor = i
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.saveScenario()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.startLocalize()
	}
}

func (g *Game) withObstacle(fn func(o *field.Obstacle) error) {
	o, ok := g.Editor.SelectedObstacle()
	if !ok {
		g.Status = editor.ErrNoObstacleSelected.Error()
		return
	}
	if err := fn(o); err != nil {
		g.Status = err.Error()
	}
}

func (g *Game) updateSensors() {
	readings, err := sensor.ReadWorld(g.Editor.World)
	if err != nil {
		g.log.Error("sensor read failed", zap.Error(err))
		g.Status = err.Error()
		return
	}
	g.Readings = readings
	g.dirty = false
}

func (g *Game) saveScenario() {
	if err := field.SaveScenarioFile(g.scenarioPath, g.Editor.World); err != nil {
		g.log.Error("save scenario", zap.String("path", g.scenarioPath), zap.Error(err))
		g.Status = "save failed"
		return
	}
	g.log.Info("scenario saved", zap.String("path", g.scenarioPath), zap.String("id", g.Editor.World.ScenarioID))
	g.Status = "saved " + g.scenarioPath
}

// startLocalize runs the localizer on a snapshot so the editor stays live.
func (g *Game) startLocalize() {
	if g.Localizing {
		return
	}
	// Edits made earlier in this frame have not been read yet
	if g.dirty {
		g.updateSensors()
		if g.dirty {
			return
		}
	}
	g.Localizing = true
	m := agent.MapOf(g.Editor.World)
	obs := agent.Observe(g.Readings)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), LocalizeTimeout)
		defer cancel()
		est, err := g.Agent.Localize(ctx, m, obs)
		g.estimates <- estimateResult{est: est, err: err}
	}()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

func loadWorld(cfg config.Config, log *zap.Logger) *field.World {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	w, err := field.LoadScenarioFile(cfg.Scenario, rng)
	if err == nil {
		log.Info("scenario loaded", zap.String("path", cfg.Scenario), zap.Int("objects", len(w.Objects)))
		return w
	}
	if !os.IsNotExist(errors.Cause(err)) {
		log.Warn("scenario ignored", zap.String("path", cfg.Scenario), zap.Error(err))
	}

	// Pre-place a few landmarks as an example
	w = field.NewWorld(rng)
	for i := 0; i < cfg.Landmarks; i++ {
		w.AddLandmark()
	}
	return w
}

func main() {
	configPath := flag.String("config", "config.yaml", "settings file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log := logging.Must(cfg.LogLevel, cfg.LogEncoding).With(zap.String("session", uuid.NewString()))
	defer log.Sync()

	ag, err := agent.NewAgent(cfg.Localizer.Agent())
	if err != nil {
		log.Fatal("localizer config", zap.Error(err))
	}

	world := loadWorld(cfg, log)
	ed := editor.New(world, log.Named("editor"))

	// Fit the field square next to the panel
	size := math.Min(float64(cfg.Window.Width-PanelWidth), float64(cfg.Window.Height))
	view := editor.Viewport{Size: size}
	ed.Calibrate(view)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("Localization Field")

	game := &Game{
		Editor:       ed,
		View:         view,
		Agent:        ag,
		scenarioPath: cfg.Scenario,
		estimates:    make(chan estimateResult, 1),
		dirty:        true,
		log:          log,
		width:        cfg.Window.Width,
		height:       cfg.Window.Height,
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal("run", zap.Error(err))
	}
}
