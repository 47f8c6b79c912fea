package sensor

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localization-field/internal/common"
	"localization-field/internal/field"
	"localization-field/internal/physics"
)

const tol = 1e-9

func centeredRobot(heading float64) physics.Robot {
	r := physics.NewRobot()
	r.SetHeading(heading)
	return *r
}

func box(x, y, w, h, angle float64) *field.Obstacle {
	return &field.Obstacle{
		Entity: field.Entity{Position: common.V(x, y)},
		Width:  w,
		Height: h,
		Angle:  angle,
	}
}

func objects(objs ...field.Object) []field.Object {
	return objs
}

func TestWallOnlyFromCenter(t *testing.T) {
	d := CastRay(common.V(6, 6), common.V(1, 0), nil)
	assert.InDelta(t, 6.0, d, tol)
}

func TestWallDistance(t *testing.T) {
	cases := []struct {
		name   string
		origin common.Vec2
		dir    common.Vec2
		want   float64
	}{
		{"left wall", common.V(6, 6), common.V(-1, 0), 6},
		{"top wall", common.V(2, 9), common.V(0, 1), 3},
		{"corner diagonal", common.V(6, 6), common.V(1, 1).Normalize(), 6 * math.Sqrt2},
		{"from outside facing in", common.V(-1, 6), common.V(1, 0), 13},
		{"past the wall", common.V(12.45, 6), common.V(1, 0), 0},
		{"on the wall", common.V(12, 3), common.V(1, 0), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, WallDistance(c.origin, c.dir), tol)
		})
	}

	assert.True(t, math.IsInf(WallDistance(common.V(6, 6), common.Vec2{}), 1))
}

func TestObstacleDirectlyAhead(t *testing.T) {
	obs := box(6.45+1, 6, 1, 1, 0)

	readings, err := Read(centeredRobot(0), [4]float64{}, objects(obs))
	require.NoError(t, err)

	front := readings[Front]
	assert.InDelta(t, 6.45, front.Position.X, tol)
	assert.InDelta(t, 6, front.Position.Y, tol)
	// left face at 7.45 - 0.5
	assert.InDelta(t, 6.95-6.45, front.Distance, tol)
}

func TestCenterSymmetryAxisAligned(t *testing.T) {
	for _, heading := range []float64{0, 90, 180, 270} {
		readings, err := Read(centeredRobot(heading), [4]float64{}, nil)
		require.NoError(t, err)
		for _, r := range readings {
			assert.InDelta(t, 5.55, r.Distance, tol, "heading %v slot %s", heading, r.Slot)
		}
	}
}

func TestCenterSymmetryAnyHeading(t *testing.T) {
	for heading := 0.0; heading < 360; heading += 7.5 {
		readings, err := Read(centeredRobot(heading), [4]float64{}, nil)
		require.NoError(t, err)
		assert.InDelta(t, readings[Front].Distance, readings[Back].Distance, 1e-9, "heading %v", heading)
		assert.InDelta(t, readings[Right].Distance, readings[Left].Distance, 1e-9, "heading %v", heading)
	}
}

func TestRotationBy360IsInvariant(t *testing.T) {
	origin := common.V(1, 2)
	dir := common.V(3, 2).Normalize()
	for _, angle := range []float64{0, 17, 45, 133, 260} {
		a := CastRay(origin, dir, objects(box(6, 5.5, 2, 1.5, angle)))
		b := CastRay(origin, dir, objects(box(6, 5.5, 2, 1.5, angle+360)))
		assert.InDelta(t, a, b, 1e-9, "angle %v", angle)
		assert.Less(t, a, WallDistance(origin, dir), "ray should hit the box at angle %v", angle)
	}
}

func TestTouchingFaceIsSkipped(t *testing.T) {
	touching := box(6.95, 6, 1, 1, 0) // left face on the front sensor
	farther := box(9, 6, 1, 1, 0)

	readings, err := Read(centeredRobot(0), [4]float64{}, objects(touching))
	require.NoError(t, err)
	assert.InDelta(t, 5.55, readings[Front].Distance, tol)

	readings, err = Read(centeredRobot(0), [4]float64{}, objects(touching, farther))
	require.NoError(t, err)
	assert.InDelta(t, 8.5-6.45, readings[Front].Distance, tol)
}

func TestObstacleBehindIsIgnored(t *testing.T) {
	behind := box(3, 6, 1, 1, 0)

	readings, err := Read(centeredRobot(0), [4]float64{}, objects(behind))
	require.NoError(t, err)
	assert.InDelta(t, 5.55, readings[Front].Distance, tol)
	// the back sensor sees it instead
	assert.InDelta(t, 5.55-3.5, readings[Back].Distance, tol)
}

func TestLandmarksNeverBlock(t *testing.T) {
	lm := &field.Landmark{Entity: field.Entity{Position: common.V(8, 6)}}

	readings, err := Read(centeredRobot(0), [4]float64{}, objects(lm))
	require.NoError(t, err)
	assert.InDelta(t, 5.55, readings[Front].Distance, tol)
}

func TestNearestOfSeveralObstacles(t *testing.T) {
	near := box(8, 6, 1, 1, 0)
	far := box(10, 6, 1, 1, 0)
	twin := box(8, 6.2, 1, 3, 0) // same near face as near

	for _, objs := range [][]field.Object{
		objects(near, far),
		objects(far, near),
		objects(far, twin, near),
	} {
		d := CastRay(common.V(6.45, 6), common.V(1, 0), objs)
		assert.InDelta(t, 7.5-6.45, d, tol)
	}
}

func TestOffsetSweepHasOnlyEdgeJumps(t *testing.T) {
	// thin bar spanning y in [5.95, 6.25]
	bar := box(8, 6.1, 1, 0.3, 0)
	robot := centeredRobot(0)

	var prev float64
	jumps := 0
	for i := 0; i <= 200; i++ {
		offset := -1 + float64(i)/100
		readings, err := Read(robot, [4]float64{offset, 0, 0, 0}, objects(bar))
		require.NoError(t, err)

		d := readings[Front].Distance
		onBar := math.Abs(d-1.05) < tol
		onWall := math.Abs(d-5.55) < tol
		require.True(t, onBar || onWall, "offset %v gave %v", offset, d)

		if i > 0 && math.Abs(d-prev) > 1e-6 {
			jumps++
		}
		prev = d
	}
	assert.Equal(t, 2, jumps)
}

func TestOffsetSweepIsContinuousOnTiltedFace(t *testing.T) {
	slab := box(9, 6, 1, 4, 20)
	robot := centeredRobot(0)
	step := 0.01
	// lateral move of step*SensorRange changes depth by at most tan(20deg) times that
	maxDelta := step*physics.SensorRange*math.Tan(common.Radians(20)) + 1e-9

	var prev float64
	for i := 0; i <= 200; i++ {
		offset := -1 + float64(i)*step
		readings, err := Read(robot, [4]float64{offset, 0, 0, 0}, objects(slab))
		require.NoError(t, err)

		d := readings[Front].Distance
		require.Less(t, d, 5.55)
		if i > 0 {
			assert.LessOrEqual(t, math.Abs(d-prev), maxDelta, "offset %v", offset)
		}
		prev = d
	}
}

func TestPlacementTable(t *testing.T) {
	p := Place(centeredRobot(0), [4]float64{1, 1, 1, 1})

	expect := []struct {
		slot Slot
		pos  common.Vec2
		dir  common.Vec2
	}{
		{Front, common.V(6.45, 5.68), common.V(1, 0)},
		{Right, common.V(5.68, 5.55), common.V(0, -1)},
		{Back, common.V(5.55, 6.32), common.V(-1, 0)},
		{Left, common.V(6.32, 6.45), common.V(0, 1)},
	}
	for i, e := range expect {
		assert.Equal(t, e.slot, p[i].Slot)
		assert.InDelta(t, e.pos.X, p[i].Position.X, tol, "%s x", e.slot)
		assert.InDelta(t, e.pos.Y, p[i].Position.Y, tol, "%s y", e.slot)
		assert.InDelta(t, e.dir.X, p[i].Direction.X, tol, "%s dx", e.slot)
		assert.InDelta(t, e.dir.Y, p[i].Direction.Y, tol, "%s dy", e.slot)
	}
}

func TestPlacementRotatesWithHeading(t *testing.T) {
	p := Place(centeredRobot(90), [4]float64{-0.5, 0, 0, 0})

	// facing +Y, right is +X, so a negative offset slides toward -X
	assert.InDelta(t, 6-0.5*physics.SensorRange, p[Front].Position.X, tol)
	assert.InDelta(t, 6.45, p[Front].Position.Y, tol)
	assert.InDelta(t, 1, p[Front].Direction.Y, tol)

	for _, pl := range p {
		assert.InDelta(t, 1, pl.Direction.Len(), tol)
	}
}

func TestDegenerateDirectionRejected(t *testing.T) {
	robot := *physics.NewRobot()
	robot.Heading = math.NaN()

	_, err := Read(robot, [4]float64{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateDirection))
}

func TestReadWorldAndDistances(t *testing.T) {
	w := field.NewWorld(nil)
	w.Insert(box(6, 9, 2, 1, 0))
	w.AddLandmark()

	readings, err := ReadWorld(w)
	require.NoError(t, err)

	// bottom face of the box at y=8.5, left sensor at y=6.45
	assert.InDelta(t, 2.05, readings[Left].Distance, tol)

	hit := readings[Left].Hit()
	assert.InDelta(t, 6, hit.X, tol)
	assert.InDelta(t, 8.5, hit.Y, tol)

	d := Distances(readings)
	assert.Equal(t, [4]float64{5.55, 5.55, 5.55, 2.05}, d)
	assert.Equal(t, 2.05, readings[Left].Rounded(DisplayPrecision))
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "front", Front.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "unknown", Slot(7).String())
}
