package physics

import (
	"math"

	"localization-field/internal/common"
)

const (
	FieldUnits = 12.0 // Side of the square field
	RobotHalf  = 0.45 // Half-side of the square body
	// SensorRange scales a [-1,1] slide offset into field units.
	SensorRange = 0.32
	// RotHandleDist is how far the rotation handle sits from the robot center.
	RotHandleDist = RobotHalf * 3.0
)

// DefaultPosition is where a reset robot spawns.
var DefaultPosition = common.Vec2{X: 6, Y: 6}

type Robot struct {
	Position common.Vec2
	Heading  float64 // Degrees in [0, 360), CCW from +X
}

func NewRobot() *Robot {
	return &Robot{
		Position: DefaultPosition,
		Heading:  0,
	}
}

// Reset puts the robot back at the field center facing +X.
func (r *Robot) Reset() {
	*r = *NewRobot()
}

// Front is the unit vector the robot faces.
func (r Robot) Front() common.Vec2 {
	return common.FromHeading(r.Heading)
}

// Right is Front rotated 90 degrees clockwise.
func (r Robot) Right() common.Vec2 {
	return r.Front().Clockwise()
}

// MoveTo places the robot at p, clamped to the field.
func (r *Robot) MoveTo(p common.Vec2) {
	r.Position = ClampToField(p)
}

// SetHeading wraps deg onto [0, 360) and keeps one decimal.
func (r *Robot) SetHeading(deg float64) {
	r.Heading = common.Round(common.WrapDegrees(deg), 1)
	// 359.96 rounds up to 360.0
	if r.Heading >= 360 {
		r.Heading = 0
	}
}

// RotHandle returns the rotation handle position in field coordinates.
func (r Robot) RotHandle() common.Vec2 {
	return r.Position.Add(r.Front().Scale(RotHandleDist))
}

// RotateToward points the robot at target, as when dragging the rotation handle.
// A target on the robot center leaves the heading untouched.
func (r *Robot) RotateToward(target common.Vec2) {
	d := target.Sub(r.Position)
	if d.X == 0 && d.Y == 0 {
		return
	}
	r.SetHeading(common.Degrees(math.Atan2(d.Y, d.X)))
}

// Corners returns the body corners in field coordinates, front-right first.
func (r Robot) Corners() [4]common.Vec2 {
	f := r.Front().Scale(RobotHalf)
	rt := r.Right().Scale(RobotHalf)

	// Local corner offsets
	offsets := [4]common.Vec2{
		f.Add(rt),       // Front Right
		f.Sub(rt),       // Front Left
		f.Neg().Sub(rt), // Rear Left
		f.Neg().Add(rt), // Rear Right
	}
	var out [4]common.Vec2
	for i, off := range offsets {
		out[i] = r.Position.Add(off)
	}
	return out
}

// ClampToField limits a point to the field square.
func ClampToField(p common.Vec2) common.Vec2 {
	return common.Vec2{
		X: common.Clamp(p.X, 0, FieldUnits),
		Y: common.Clamp(p.Y, 0, FieldUnits),
	}
}
