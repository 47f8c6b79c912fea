package sensor

import (
	"github.com/pkg/errors"

	"localization-field/internal/common"
	"localization-field/internal/field"
	"localization-field/internal/physics"
)

// Decimal places used where distances leave the core.
const (
	DisplayPrecision   = 2 // Readout panel
	ExchangePrecision  = 4 // Values handed to localization code
	minDirectionLength = 1e-9
)

var ErrDegenerateDirection = errors.New("sensor direction is zero or not finite")

// Reading is one sensor's placement plus the distance its ray travels.
type Reading struct {
	Placement
	Distance float64
}

// Hit is the point where the ray stopped.
func (r Reading) Hit() common.Vec2 {
	return r.Position.Add(r.Direction.Scale(r.Distance))
}

// Rounded returns the distance rounded to places decimals.
func (r Reading) Rounded(places int) float64 {
	return common.Round(r.Distance, places)
}

// Read places all four sensors and casts each ray. Readings come back in
// Slots order. Only a non-finite robot pose can yield ErrDegenerateDirection.
func Read(robot physics.Robot, offsets [field.SensorCount]float64, objects []field.Object) ([field.SensorCount]Reading, error) {
	var out [field.SensorCount]Reading
	for i, p := range Place(robot, offsets) {
		if !p.Direction.IsFinite() || p.Direction.Len() < minDirectionLength {
			return out, errors.Wrapf(ErrDegenerateDirection, "%s sensor", p.Slot)
		}
		out[i] = Reading{
			Placement: p,
			Distance:  CastRay(p.Position, p.Direction, objects),
		}
	}
	return out, nil
}

// ReadWorld reads the sensors against the current state of w.
func ReadWorld(w *field.World) ([field.SensorCount]Reading, error) {
	return Read(w.Robot, w.Offsets, w.Objects)
}

// Distances extracts the four distances at exchange precision.
func Distances(readings [field.SensorCount]Reading) [field.SensorCount]float64 {
	var out [field.SensorCount]float64
	for i, r := range readings {
		out[i] = r.Rounded(ExchangePrecision)
	}
	return out
}
