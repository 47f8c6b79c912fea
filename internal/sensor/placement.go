// Package sensor models the robot's four sliding rangefinders and casts their
// rays against the field walls and obstacles. Everything here is a pure
// function of its arguments.
package sensor

import (
	"localization-field/internal/common"
	"localization-field/internal/field"
	"localization-field/internal/physics"
)

// Slot identifies one of the four rangefinders.
type Slot int

const (
	Front Slot = iota
	Right
	Back
	Left
)

// Slots lists the sensors in reporting order.
var Slots = [field.SensorCount]Slot{Front, Right, Back, Left}

func (s Slot) String() string {
	switch s {
	case Front:
		return "front"
	case Right:
		return "right"
	case Back:
		return "back"
	case Left:
		return "left"
	}
	return "unknown"
}

// Placement is where a sensor sits and which way it fires.
type Placement struct {
	Slot      Slot
	Position  common.Vec2
	Direction common.Vec2 // Unit outward face normal
}

// mount describes a face in terms of the robot's front/right axes.
type mount struct {
	anchor common.Vec2 // Face midpoint direction from the robot center
	slide  common.Vec2 // Direction of a positive offset along the face
}

func mounts(front, right common.Vec2) [field.SensorCount]mount {
	return [field.SensorCount]mount{
		Front: {anchor: front, slide: right},
		Right: {anchor: right, slide: front.Neg()},
		Back:  {anchor: front.Neg(), slide: right.Neg()},
		Left:  {anchor: right.Neg(), slide: front},
	}
}

// Place computes all four sensor placements for a robot pose and per-slot
// slide offsets. The firing direction always equals the anchor direction.
func Place(robot physics.Robot, offsets [field.SensorCount]float64) [field.SensorCount]Placement {
	var out [field.SensorCount]Placement
	for i, m := range mounts(robot.Front(), robot.Right()) {
		pos := robot.Position.
			Add(m.anchor.Scale(physics.RobotHalf)).
			Add(m.slide.Scale(offsets[i] * physics.SensorRange))
		out[i] = Placement{
			Slot:      Slot(i),
			Position:  pos,
			Direction: m.anchor,
		}
	}
	return out
}
