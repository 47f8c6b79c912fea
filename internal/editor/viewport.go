package editor

import (
	"localization-field/internal/common"
	"localization-field/internal/physics"
)

// PadRatio is the share of the canvas left blank on each side of the field.
const PadRatio = 0.08

// Viewport maps field units onto a square canvas of Size pixels. Field Y
// points up, screen Y points down.
type Viewport struct {
	Size    float64
	OffsetX float64 // Canvas origin on screen
	OffsetY float64
}

func (v Viewport) pad() float64   { return v.Size * PadRatio }
func (v Viewport) inner() float64 { return v.Size - v.pad()*2 }

// UnitPx is the length of one field unit in pixels.
func (v Viewport) UnitPx() float64 {
	return v.inner() / physics.FieldUnits
}

// ToScreen converts field coordinates to screen pixels.
func (v Viewport) ToScreen(p common.Vec2) (float64, float64) {
	pad, in := v.pad(), v.inner()
	return v.OffsetX + pad + p.X/physics.FieldUnits*in,
		v.OffsetY + pad + (1-p.Y/physics.FieldUnits)*in
}

// ToField converts screen pixels to field coordinates, kept to 3 decimals.
func (v Viewport) ToField(sx, sy float64) common.Vec2 {
	pad, in := v.pad(), v.inner()
	cx, cy := sx-v.OffsetX, sy-v.OffsetY
	return common.Vec2{
		X: common.Round((cx-pad)/in*physics.FieldUnits, 3),
		Y: common.Round((1-(cy-pad)/in)*physics.FieldUnits, 3),
	}
}

// Inside reports whether a screen point lies over the field square.
func (v Viewport) Inside(sx, sy float64) bool {
	pad, in := v.pad(), v.inner()
	cx, cy := sx-v.OffsetX, sy-v.OffsetY
	return cx >= pad && cx <= pad+in && cy >= pad && cy <= pad+in
}

// PxToUnits converts a pixel length to field units.
func (v Viewport) PxToUnits(px float64) float64 {
	return px / v.UnitPx()
}
