package geom

import "localization-field/internal/common"

// Frame is the local coordinate system of a rotated object: origin at Center,
// axes rotated by Angle degrees counter-clockwise.
type Frame struct {
	Center common.Vec2
	Angle  float64
}

// ToLocal expresses a world ray in the frame. The origin is translated and
// rotated, the direction only rotated.
func (f Frame) ToLocal(origin, dir common.Vec2) (common.Vec2, common.Vec2) {
	rel := origin.Sub(f.Center)
	return rel.Rotate(-f.Angle), dir.Rotate(-f.Angle)
}

// ToWorld maps a local point back to field coordinates.
func (f Frame) ToWorld(local common.Vec2) common.Vec2 {
	return local.Rotate(f.Angle).Add(f.Center)
}

// RayOrientedBox intersects a world ray with a width x height rectangle
// centered on the frame origin and aligned with the frame axes.
func RayOrientedBox(origin, dir common.Vec2, frame Frame, width, height float64) float64 {
	lo, ld := frame.ToLocal(origin, dir)
	return RayAABB(lo, ld, CenteredBox(width, height))
}

// Corners returns the four corners of the oriented rectangle in field
// coordinates, counter-clockwise starting at the local (+w/2, +h/2) corner.
func Corners(frame Frame, width, height float64) [4]common.Vec2 {
	hw, hh := width/2, height/2
	local := [4]common.Vec2{
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
	}
	var out [4]common.Vec2
	for i, p := range local {
		out[i] = frame.ToWorld(p)
	}
	return out
}
