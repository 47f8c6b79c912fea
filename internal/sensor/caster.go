package sensor

import (
	"math"

	"localization-field/internal/common"
	"localization-field/internal/field"
	"localization-field/internal/geom"
	"localization-field/internal/physics"
)

const (
	// WallEpsilon is the direction magnitude below which a ray never reaches
	// the walls on that axis.
	WallEpsilon = 1e-9
	// HitEpsilon discards obstacle hits at or behind the sensor face.
	HitEpsilon = 1e-4
)

// WallDistance returns the distance along dir to the nearest field wall in
// front of origin. An origin already past the wall it faces reports 0; a
// zero direction reports +Inf.
func WallDistance(origin, dir common.Vec2) float64 {
	t := math.Inf(1)
	if dir.X > WallEpsilon {
		t = math.Min(t, (physics.FieldUnits-origin.X)/dir.X)
	} else if dir.X < -WallEpsilon {
		t = math.Min(t, (0-origin.X)/dir.X)
	}
	if dir.Y > WallEpsilon {
		t = math.Min(t, (physics.FieldUnits-origin.Y)/dir.Y)
	} else if dir.Y < -WallEpsilon {
		t = math.Min(t, (0-origin.Y)/dir.Y)
	}
	return math.Max(t, 0)
}

// ObstacleDistance returns the distance along dir to where the ray enters
// the obstacle, or +Inf on a miss.
func ObstacleDistance(origin, dir common.Vec2, o *field.Obstacle) float64 {
	return geom.RayOrientedBox(origin, dir, o.Frame(), o.Width, o.Height)
}

// CastRay returns the distance from origin along dir to the nearest wall or
// obstacle. Landmarks are ignored. Obstacle hits within HitEpsilon of the
// origin do not count.
func CastRay(origin, dir common.Vec2, objects []field.Object) float64 {
	best := WallDistance(origin, dir)
	for _, obj := range objects {
		switch o := obj.(type) {
		case *field.Obstacle:
			if d := ObstacleDistance(origin, dir, o); d > HitEpsilon && d < best {
				best = d
			}
		case *field.Landmark:
			continue
		}
	}
	return best
}
