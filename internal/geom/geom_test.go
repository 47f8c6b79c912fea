package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"localization-field/internal/common"
)

const tol = 1e-9

func unitBox() Box {
	return Box{MinX: 2, MaxX: 4, MinY: -1, MaxY: 1}
}

func TestRayAABB(t *testing.T) {
	cases := []struct {
		name   string
		origin common.Vec2
		dir    common.Vec2
		want   float64
	}{
		{"straight hit", common.V(0, 0), common.V(1, 0), 2},
		{"pointing away", common.V(0, 0), common.V(-1, 0), math.Inf(1)},
		{"passes above", common.V(0, 2), common.V(1, 0), math.Inf(1)},
		{"grazes top edge", common.V(0, 1), common.V(1, 0), 2},
		{"origin inside", common.V(3, 0), common.V(1, 0), 0},
		{"vertical into box", common.V(3, -5), common.V(0, 1), 4},
		{"vertical outside slab", common.V(5, -5), common.V(0, 1), math.Inf(1)},
		{"diagonal", common.V(0, -2), common.V(1, 1).Normalize(), 2 * math.Sqrt2},
		{"diagonal miss", common.V(0, -6), common.V(1, 1).Normalize(), math.Inf(1)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := RayAABB(c.origin, c.dir, unitBox())
			if math.IsInf(c.want, 1) {
				assert.True(t, math.IsInf(got, 1), "got %v", got)
				return
			}
			assert.InDelta(t, c.want, got, tol)
		})
	}
}

func TestRayAABBNearZeroComponent(t *testing.T) {
	// a sub-epsilon Y component counts as parallel, so the Y slab is skipped
	got := RayAABB(common.V(0, 0.5), common.V(1, 1e-12), unitBox())
	assert.InDelta(t, 2, got, tol)

	got = RayAABB(common.V(0, 1.5), common.V(1, 1e-12), unitBox())
	assert.True(t, math.IsInf(got, 1))
}

func TestRayAABBIsRepeatable(t *testing.T) {
	o, d := common.V(0, 0.3), common.V(1, 0.1).Normalize()
	first := RayAABB(o, d, unitBox())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, RayAABB(o, d, unitBox()))
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := Frame{Center: common.V(3, 4), Angle: 37}
	p := common.V(-1.5, 2.25)

	lo, _ := f.ToLocal(f.ToWorld(p), common.V(1, 0))
	assert.InDelta(t, p.X, lo.X, tol)
	assert.InDelta(t, p.Y, lo.Y, tol)
}

func TestFrameToLocalUndoesRotation(t *testing.T) {
	f := Frame{Center: common.V(5, 5), Angle: 90}

	lo, ld := f.ToLocal(common.V(5, 7), common.V(0, -1))
	// world +Y is local +X after undoing a quarter turn
	assert.InDelta(t, 2, lo.X, tol)
	assert.InDelta(t, 0, lo.Y, tol)
	assert.InDelta(t, -1, ld.X, tol)
	assert.InDelta(t, 0, ld.Y, tol)
}

func TestRayOrientedBox(t *testing.T) {
	// 2x1 box rotated 90 degrees: 1 wide along X, 2 tall along Y
	f := Frame{Center: common.V(6, 6), Angle: 90}

	d := RayOrientedBox(common.V(0, 6), common.V(1, 0), f, 2, 1)
	assert.InDelta(t, 5.5, d, tol)

	d = RayOrientedBox(common.V(6, 0), common.V(0, 1), f, 2, 1)
	assert.InDelta(t, 5, d, tol)

	// 45 degree square presents its corner
	f = Frame{Center: common.V(6, 6), Angle: 45}
	d = RayOrientedBox(common.V(0, 6), common.V(1, 0), f, 1, 1)
	assert.InDelta(t, 6-math.Sqrt2/2, d, tol)
}

func TestCorners(t *testing.T) {
	c := Corners(Frame{Center: common.V(1, 1)}, 2, 4)
	assert.InDelta(t, 2, c[0].X, tol)
	assert.InDelta(t, 3, c[0].Y, tol)
	assert.InDelta(t, 0, c[2].X, tol)
	assert.InDelta(t, -1, c[2].Y, tol)

	b := CenteredBox(2, 4)
	assert.True(t, b.Contains(common.V(1, 2)))
	assert.False(t, b.Contains(common.V(1.01, 0)))
}
