package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"localization-field/internal/common"
	"localization-field/internal/field"
	"localization-field/internal/logging"
	"localization-field/internal/physics"
)

// Preview colors
var (
	colorFloor    = color.RGBA{18, 20, 31, 255}
	colorObstacle = color.RGBA{220, 38, 38, 255}
	colorLandmark = color.RGBA{59, 130, 246, 255}
	colorRobot    = color.RGBA{139, 92, 246, 255}
)

// placementTries bounds the search for a free robot spot.
const placementTries = 100

var ErrNoRobotSpot = errors.New("no free spot for the robot")

func generate(rng *rand.Rand, obstacles, landmarks int) (*field.World, error) {
	w := field.NewWorld(rng)
	w.ScenarioID = uuid.NewString()

	for i := 0; i < obstacles; i++ {
		o := w.AddObstacle()
		o.SetWidth(0.5 + rng.Float64()*2.5)
		o.SetHeight(0.5 + rng.Float64()*2.5)
		o.SetAngle(rng.Float64() * 360)
	}
	for i := 0; i < landmarks; i++ {
		w.AddLandmark()
	}

	if err := placeRobot(w, rng); err != nil {
		return nil, err
	}
	w.Robot.SetHeading(rng.Float64() * 360)
	return w, nil
}

// placeRobot drops the robot somewhere it does not overlap an obstacle.
func placeRobot(w *field.World, rng *rand.Rand) error {
	for tries := 0; tries < placementTries; tries++ {
		p := common.V(1+rng.Float64()*10, 1+rng.Float64()*10)
		if !blocked(w, p) {
			w.Robot.MoveTo(common.V(common.Round(p.X, 2), common.Round(p.Y, 2)))
			return nil
		}
	}
	return errors.Wrapf(ErrNoRobotSpot, "%d obstacles, %d tries", len(w.Obstacles()), placementTries)
}

func blocked(w *field.World, p common.Vec2) bool {
	for _, o := range w.Obstacles() {
		if o.Contains(p) || o.Position.Dist(p) < o.Width/2+o.Height/2+physics.RobotHalf {
			return true
		}
	}
	return false
}

// renderPreview draws the scenario top-down on a size x size image.
func renderPreview(w *field.World, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	unit := float64(size) / physics.FieldUnits
	obstacles := w.Obstacles()

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Pixel centers, field Y up
			p := common.V((float64(x)+0.5)/unit, physics.FieldUnits-(float64(y)+0.5)/unit)
			col := colorFloor
			for _, o := range obstacles {
				if o.Contains(p) {
					col = colorObstacle
					break
				}
			}
			if p.Dist(w.Robot.Position) < physics.RobotHalf {
				col = colorRobot
			}
			for _, obj := range w.Objects {
				if obj.Kind() == field.KindLandmark && p.Dist(obj.Meta().Position) < 0.15 {
					col = colorLandmark
				}
			}
			img.Set(x, y, col)
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create preview")
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrap(err, "encode preview")
	}
	return errors.Wrap(f.Close(), "close preview")
}

func main() {
	out := flag.String("out", "assets/field.yaml", "scenario file to write")
	preview := flag.String("png", "", "optional top-down preview image")
	obstacles := flag.Int("obstacles", 4, "number of obstacles")
	landmarks := flag.Int("landmarks", 3, "number of landmarks")
	seed := flag.Int64("seed", 0, "random seed, 0 for time based")
	flag.Parse()

	log := logging.Must("info", "console")
	defer log.Sync()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	w, err := generate(rand.New(rand.NewSource(*seed)), *obstacles, *landmarks)
	if err != nil {
		log.Fatal("generate scenario", zap.Int64("seed", *seed), zap.Error(err))
	}

	if err := field.SaveScenarioFile(*out, w); err != nil {
		log.Fatal("write scenario", zap.String("path", *out), zap.Error(err))
	}
	log.Info("scenario written",
		zap.String("path", *out),
		zap.String("id", w.ScenarioID),
		zap.Int64("seed", *seed),
		zap.Int("objects", len(w.Objects)))

	if *preview != "" {
		if err := writePNG(*preview, renderPreview(w, 600)); err != nil {
			log.Fatal("write preview", zap.String("path", *preview), zap.Error(err))
		}
		log.Info("preview written", zap.String("path", *preview))
	}
}
