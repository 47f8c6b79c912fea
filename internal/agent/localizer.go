package agent

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"localization-field/internal/common"
	"localization-field/internal/field"
	"localization-field/internal/physics"
	"localization-field/internal/sensor"
)

// Search resolution defaults
const (
	DefaultPositionStep = 0.25 // Field units
	DefaultHeadingStep  = 5.0  // Degrees
)

var ErrInvalidStep = errors.New("localizer step must be positive")

// Observation is what localization code gets to see: the four distances at
// exchange precision, in sensor slot order.
type Observation struct {
	Distances [field.SensorCount]float64
}

// Observe turns a sensor read into an Observation.
func Observe(readings [field.SensorCount]sensor.Reading) Observation {
	return Observation{Distances: sensor.Distances(readings)}
}

// Map is the known environment the robot localizes against.
type Map struct {
	Objects []field.Object
	Offsets [field.SensorCount]float64
}

// MapOf deep-copies the parts of w a localizer may know about, so the
// result can be searched on another goroutine while w keeps changing.
// Landmarks are left out since they never affect a reading.
func MapOf(w *field.World) Map {
	var objs []field.Object
	for _, o := range w.Obstacles() {
		cp := *o
		objs = append(objs, &cp)
	}
	return Map{Objects: objs, Offsets: w.Offsets}
}

// Estimate is a localizer's best guess.
type Estimate struct {
	Pose      physics.Robot
	RMS       float64 // Root mean square distance error over the four sensors
	Evaluated int     // Candidate poses scored
}

type Agent interface {
	Localize(ctx context.Context, m Map, obs Observation) (Estimate, error)
	DebugInfoStr() string
}

type Config struct {
	PositionStep float64
	HeadingStep  float64
	Workers      int // 0 means GOMAXPROCS
}

// GridLocalizer scores every pose on a regular grid and keeps the one whose
// predicted readings best match the observation. It holds no state between
// calls, so Localize and DebugInfoStr may run on different goroutines.
type GridLocalizer struct {
	cfg Config
}

// NewAgent validates cfg. The position step must leave at least one grid
// cell on the field.
func NewAgent(cfg Config) (Agent, error) {
	if cfg.PositionStep <= 0 || cfg.PositionStep > physics.FieldUnits || cfg.HeadingStep <= 0 {
		return nil, errors.Wrapf(ErrInvalidStep, "position %v, heading %v", cfg.PositionStep, cfg.HeadingStep)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &GridLocalizer{cfg: cfg}, nil
}

// axis returns the cell centers covering [0, FieldUnits).
func axis(step float64) []float64 {
	n := int(math.Floor(physics.FieldUnits / step))
	out := make([]float64, n)
	for i := range out {
		out[i] = step/2 + float64(i)*step
	}
	return out
}

func squaredError(pred [field.SensorCount]sensor.Reading, obs Observation) float64 {
	sum := 0.0
	for i, r := range pred {
		d := r.Distance - obs.Distances[i]
		sum += d * d
	}
	return sum
}

type candidate struct {
	pose      physics.Robot
	cost      float64
	evaluated int
}

func (g *GridLocalizer) searchHeading(ctx context.Context, m Map, obs Observation, heading float64, xs, ys []float64) (candidate, error) {
	best := candidate{cost: math.Inf(1)}
	for _, x := range xs {
		if err := ctx.Err(); err != nil {
			return best, err
		}
		for _, y := range ys {
			pose := physics.Robot{Position: common.Vec2{X: x, Y: y}, Heading: heading}
			pred, err := sensor.Read(pose, m.Offsets, m.Objects)
			if err != nil {
				return best, err
			}
			best.evaluated++
			if c := squaredError(pred, obs); c < best.cost {
				best.pose, best.cost = pose, c
			}
		}
	}
	return best, nil
}

// Localize searches all headings in parallel. Ties resolve to the lowest
// heading, then the lowest x, then the lowest y.
func (g *GridLocalizer) Localize(ctx context.Context, m Map, obs Observation) (Estimate, error) {
	xs := axis(g.cfg.PositionStep)
	ys := xs

	var headings []float64
	for h := 0.0; h < 360; h += g.cfg.HeadingStep {
		headings = append(headings, h)
	}

	results := make([]candidate, len(headings))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for i, h := range headings {
		eg.Go(func() error {
			c, err := g.searchHeading(egCtx, m, obs, h, xs, ys)
			if err != nil {
				return err
			}
			results[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Estimate{}, errors.Wrap(err, "localize")
	}

	best := candidate{cost: math.Inf(1)}
	evaluated := 0
	for _, c := range results {
		evaluated += c.evaluated
		if c.cost < best.cost {
			best = c
		}
	}

	return Estimate{
		Pose:      best.pose,
		RMS:       math.Sqrt(best.cost / field.SensorCount),
		Evaluated: evaluated,
	}, nil
}

func (g *GridLocalizer) DebugInfoStr() string {
	return fmt.Sprintf("Agent Type: Grid\nStep: %.2f u / %.0f deg\nWorkers: %d",
		g.cfg.PositionStep, g.cfg.HeadingStep, g.cfg.Workers)
}

// FormatEstimate renders an estimate for the readout panel; nil means none yet.
func FormatEstimate(est *Estimate) string {
	if est == nil {
		return "Estimate: none"
	}
	p := est.Pose
	return fmt.Sprintf("Estimate: (%.2f, %.2f)\nHeading: %.1f deg\nRMS: %.4f",
		p.Position.X, p.Position.Y, p.Heading, est.RMS)
}
