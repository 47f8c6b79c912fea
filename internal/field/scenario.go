package field

import (
	"io"
	"math/rand"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"localization-field/internal/common"
)

var ErrUnknownObjectType = errors.New("unknown object type")

type scenarioFile struct {
	ID            string               `yaml:"id"`
	Robot         robotConfig          `yaml:"robot"`
	SensorOffsets [SensorCount]float64 `yaml:"sensor_offsets"`
	Objects       []objectConfig       `yaml:"objects"`
}

type robotConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
}

type objectConfig struct {
	Type   string  `yaml:"type"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
	Angle  float64 `yaml:"angle,omitempty"`
}

// LoadScenario decodes a YAML scenario into a fresh World. Values outside
// their domains are clamped or wrapped; IDs are reassigned in file order.
func LoadScenario(r io.Reader, rng *rand.Rand) (*World, error) {
	var sf scenarioFile
	if err := yaml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}

	w := NewWorld(rng)
	w.ScenarioID = sf.ID
	w.Robot.MoveTo(common.Vec2{X: sf.Robot.X, Y: sf.Robot.Y})
	w.Robot.SetHeading(sf.Robot.Heading)
	for i, v := range sf.SensorOffsets {
		w.SetOffset(i, v)
	}

	for i, oc := range sf.Objects {
		entity := Entity{Label: oc.Label, Position: common.Vec2{X: oc.X, Y: oc.Y}}
		switch oc.Type {
		case KindLandmark.String():
			w.Insert(&Landmark{Entity: entity})
		case KindObstacle.String():
			width, height := oc.Width, oc.Height
			if width == 0 {
				width = DefaultObstacleSize
			}
			if height == 0 {
				height = DefaultObstacleSize
			}
			w.Insert(&Obstacle{Entity: entity, Width: width, Height: height, Angle: oc.Angle})
		default:
			return nil, errors.Wrapf(ErrUnknownObjectType, "object %d: %q", i, oc.Type)
		}
	}
	return w, nil
}

// SaveScenario encodes w as YAML. A world without a scenario ID is given one.
func SaveScenario(out io.Writer, w *World) error {
	if w.ScenarioID == "" {
		w.ScenarioID = uuid.NewString()
	}
	sf := scenarioFile{
		ID: w.ScenarioID,
		Robot: robotConfig{
			X:       w.Robot.Position.X,
			Y:       w.Robot.Position.Y,
			Heading: w.Robot.Heading,
		},
		SensorOffsets: w.Offsets,
	}
	for _, o := range w.Objects {
		m := o.Meta()
		oc := objectConfig{
			Type:  o.Kind().String(),
			Label: m.Label,
			X:     m.Position.X,
			Y:     m.Position.Y,
		}
		if obs, ok := o.(*Obstacle); ok {
			oc.Width, oc.Height, oc.Angle = obs.Width, obs.Height, obs.Angle
		}
		sf.Objects = append(sf.Objects, oc)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&sf); err != nil {
		return errors.Wrap(err, "encode scenario")
	}
	return errors.Wrap(enc.Close(), "flush scenario")
}

// LoadScenarioFile opens path and decodes it with LoadScenario.
func LoadScenarioFile(path string, rng *rand.Rand) (*World, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scenario")
	}
	defer file.Close()

	return LoadScenario(file, rng)
}

// SaveScenarioFile writes w to path, replacing any existing file.
func SaveScenarioFile(path string, w *World) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create scenario")
	}
	if err := SaveScenario(file, w); err != nil {
		file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "close scenario")
}
