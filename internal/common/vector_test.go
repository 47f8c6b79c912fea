package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-12

func TestVecArithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(3, -1)

	assert.Equal(t, V(4, 1), a.Add(b))
	assert.Equal(t, V(-2, 3), a.Sub(b))
	assert.Equal(t, V(2, 4), a.Scale(2))
	assert.Equal(t, V(-1, -2), a.Neg())
	assert.InDelta(t, 1.0, a.Dot(b), eps)
	assert.InDelta(t, 5.0, V(3, 4).Len(), eps)
	assert.InDelta(t, 5.0, V(0, 0).Dist(V(3, 4)), eps)
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())

	n := V(0, -7).Normalize()
	assert.InDelta(t, 0, n.X, eps)
	assert.InDelta(t, -1, n.Y, eps)
}

func TestRotateAndClockwise(t *testing.T) {
	r := V(1, 0).Rotate(90)
	assert.InDelta(t, 0, r.X, eps)
	assert.InDelta(t, 1, r.Y, eps)

	// clockwise of the +X heading points down the Y axis
	assert.Equal(t, V(0, -1), V(1, 0).Clockwise())

	h := FromHeading(30)
	cw := h.Clockwise()
	back := cw.Rotate(90)
	assert.InDelta(t, h.X, back.X, eps)
	assert.InDelta(t, h.Y, back.Y, eps)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, V(1, 2).IsFinite())
	assert.False(t, V(math.NaN(), 0).IsFinite())
	assert.False(t, V(0, math.Inf(-1)).IsFinite())
}

func TestWrapDegrees(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{720, 0},
		{-90, 270},
		{-450, 270},
		{45.25, 45.25},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, WrapDegrees(c.in), 1e-9, "wrap(%v)", c.in)
	}

	w := WrapDegrees(-1e-15)
	assert.GreaterOrEqual(t, w, 0.0)
	assert.Less(t, w, 360.0)
}

func TestClampAndRound(t *testing.T) {
	assert.Equal(t, 0.2, Clamp(0.1, 0.2, 6))
	assert.Equal(t, 6.0, Clamp(9, 0.2, 6))
	assert.Equal(t, 3.0, Clamp(3, 0.2, 6))

	assert.Equal(t, 1.23, Round(1.2349, 2))
	assert.Equal(t, 45.0, Round(44.6, 0))
	assert.Equal(t, 12.3, Round(12.25, 1))
}
