package field

import (
	"math"

	"localization-field/internal/common"
	"localization-field/internal/geom"
)

// Obstacle size limits and handle placement, in field units.
const (
	MinObstacleSize     = 0.2
	MaxObstacleSize     = 6.0
	DefaultObstacleSize = 1.0
	// ObstacleHandleGap is the distance between the obstacle's top edge and
	// its rotation handle.
	ObstacleHandleGap = 0.7
)

// ID identifies an object for the lifetime of a World. IDs are never reused.
type ID int

// Kind tags the concrete type behind an Object.
type Kind int

const (
	KindLandmark Kind = iota
	KindObstacle
)

func (k Kind) String() string {
	switch k {
	case KindLandmark:
		return "landmark"
	case KindObstacle:
		return "obstacle"
	}
	return "unknown"
}

// Prefix is the label prefix used for auto-named objects.
func (k Kind) Prefix() string {
	if k == KindLandmark {
		return "L"
	}
	return "O"
}

// Entity holds what every placed object has.
type Entity struct {
	ID       ID
	Label    string
	Position common.Vec2
}

// Meta exposes the shared fields of an Object.
func (e *Entity) Meta() *Entity { return e }

// Object is either a *Landmark or an *Obstacle.
type Object interface {
	Kind() Kind
	Meta() *Entity
}

// Landmark is a point marker. It is drawn but never blocks a sensor.
type Landmark struct {
	Entity
}

func (*Landmark) Kind() Kind { return KindLandmark }

// Obstacle is a rectangle centered on Position and rotated by Angle degrees CCW.
type Obstacle struct {
	Entity
	Width  float64
	Height float64
	Angle  float64
}

func (*Obstacle) Kind() Kind { return KindObstacle }

// Frame is the obstacle's local coordinate system.
func (o *Obstacle) Frame() geom.Frame {
	return geom.Frame{Center: o.Position, Angle: o.Angle}
}

// Corners returns the rectangle corners in field coordinates.
func (o *Obstacle) Corners() [4]common.Vec2 {
	return geom.Corners(o.Frame(), o.Width, o.Height)
}

// Contains reports whether p lies inside or on the rectangle.
func (o *Obstacle) Contains(p common.Vec2) bool {
	local, _ := o.Frame().ToLocal(p, common.Vec2{})
	return geom.CenteredBox(o.Width, o.Height).Contains(local)
}

// SetWidth clamps w into the allowed size range.
func (o *Obstacle) SetWidth(w float64) {
	o.Width = common.Clamp(w, MinObstacleSize, MaxObstacleSize)
}

// SetHeight clamps h into the allowed size range.
func (o *Obstacle) SetHeight(h float64) {
	o.Height = common.Clamp(h, MinObstacleSize, MaxObstacleSize)
}

// SetAngle wraps deg onto [0, 360) in whole degrees.
func (o *Obstacle) SetAngle(deg float64) {
	o.Angle = common.WrapDegrees(common.Round(common.WrapDegrees(deg), 0))
}

// RotHandle sits on the obstacle's local +Y axis, above its top edge.
func (o *Obstacle) RotHandle() common.Vec2 {
	dist := o.Height/2 + ObstacleHandleGap
	return o.Frame().ToWorld(common.Vec2{Y: dist})
}

// RotateToward turns the obstacle so its local +Y axis points at target.
func (o *Obstacle) RotateToward(target common.Vec2) {
	d := target.Sub(o.Position)
	if d.X == 0 && d.Y == 0 {
		return
	}
	o.SetAngle(common.Degrees(math.Atan2(d.Y, d.X)) - 90)
}
