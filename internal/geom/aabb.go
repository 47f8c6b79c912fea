// Package geom holds the ray intersection primitives used by the sensor model.
package geom

import (
	"math"

	"localization-field/internal/common"
)

// ParallelEpsilon is the direction magnitude below which a ray is treated as
// exactly parallel to a slab.
const ParallelEpsilon = 1e-10

// Box is an axis-aligned rectangle.
type Box struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// CenteredBox returns a width x height box centered on the origin.
func CenteredBox(width, height float64) Box {
	return Box{
		MinX: -width / 2,
		MaxX: width / 2,
		MinY: -height / 2,
		MaxY: height / 2,
	}
}

// Contains reports whether p lies inside or on the edge of the box.
func (b Box) Contains(p common.Vec2) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// RayAABB returns the distance along dir at which the ray enters box, or +Inf
// if it never does. Hits behind the origin are clamped to 0, so an origin
// inside the box reports 0.
func RayAABB(origin, dir common.Vec2, box Box) float64 {
	tmin, tmax := 0.0, math.Inf(1)

	if math.Abs(dir.X) > ParallelEpsilon {
		t1 := (box.MinX - origin.X) / dir.X
		t2 := (box.MaxX - origin.X) / dir.X
		tmin = math.Max(tmin, math.Min(t1, t2))
		tmax = math.Min(tmax, math.Max(t1, t2))
	} else if origin.X < box.MinX || origin.X > box.MaxX {
		return math.Inf(1)
	}

	if math.Abs(dir.Y) > ParallelEpsilon {
		t1 := (box.MinY - origin.Y) / dir.Y
		t2 := (box.MaxY - origin.Y) / dir.Y
		tmin = math.Max(tmin, math.Min(t1, t2))
		tmax = math.Min(tmax, math.Max(t1, t2))
	} else if origin.Y < box.MinY || origin.Y > box.MaxY {
		return math.Inf(1)
	}

	if tmax < tmin {
		return math.Inf(1)
	}
	return tmin
}
