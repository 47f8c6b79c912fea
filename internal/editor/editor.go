// Package editor implements the pointer-driven editing of a field.World:
// selection, dragging, rotation handles and the object commands behind the
// toolbar. All coordinates are field units; the caller converts pointer
// pixels through a Viewport first.
package editor

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"localization-field/internal/common"
	"localization-field/internal/field"
)

// Pixel sizes the radii are derived from.
const (
	MinHitPx      = 12.0
	HitSizeRatio  = 0.026
	RotHandlePx   = 8.0
	HandleSlackPx = 2.0
)

var (
	ErrNothingSelected    = errors.New("nothing selected")
	ErrNoObstacleSelected = errors.New("no obstacle selected")
)

type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectRobot
	SelectObject
)

type Selection struct {
	Kind SelectionKind
	ID   field.ID // Valid when Kind == SelectObject
}

type HitKind int

const (
	HitNone HitKind = iota
	HitRobotRotate
	HitObstacleRotate
	HitRobot
	HitObject
)

type Hit struct {
	Kind HitKind
	ID   field.ID
}

type DragMode int

const (
	DragNone DragMode = iota
	DragMove
	DragRotateRobot
	DragRotateObstacle
)

type dragState struct {
	mode  DragMode
	robot bool     // DragMove target is the robot
	id    field.ID // DragMove / DragRotateObstacle target object
	grab  common.Vec2
}

type Editor struct {
	World     *field.World
	Selection Selection

	// HitRadius and HandleRadius are in field units.
	HitRadius    float64
	HandleRadius float64

	drag dragState
	log  *zap.Logger
}

func New(w *field.World, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{
		World:        w,
		HitRadius:    0.37,
		HandleRadius: 0.2,
		log:          log,
	}
}

// Calibrate sizes the hit radii for the canvas the field is drawn on.
func (e *Editor) Calibrate(v Viewport) {
	e.HitRadius = v.PxToUnits(math.Max(MinHitPx, v.Size*HitSizeRatio))
	e.HandleRadius = v.PxToUnits(RotHandlePx + HandleSlackPx)
}

// Dragging reports the active drag mode.
func (e *Editor) Dragging() DragMode {
	return e.drag.mode
}

// SelectedObstacle returns the selected object if it is an obstacle.
func (e *Editor) SelectedObstacle() (*field.Obstacle, bool) {
	if e.Selection.Kind != SelectObject {
		return nil, false
	}
	return e.World.Obstacle(e.Selection.ID)
}

// SelectedObject returns the selected object, landmark or obstacle.
func (e *Editor) SelectedObject() (field.Object, bool) {
	if e.Selection.Kind != SelectObject {
		return nil, false
	}
	return e.World.Find(e.Selection.ID)
}

func (e *Editor) SelectRobot() {
	e.Selection = Selection{Kind: SelectRobot}
}

func (e *Editor) Select(id field.ID) {
	if _, ok := e.World.Find(id); !ok {
		return
	}
	e.Selection = Selection{Kind: SelectObject, ID: id}
}

func (e *Editor) Deselect() {
	e.Selection = Selection{}
}

// HitTest finds what sits under p. Handles of the current selection win,
// then the robot body, then objects from the last drawn backwards.
func (e *Editor) HitTest(p common.Vec2) Hit {
	w := e.World

	if e.Selection.Kind == SelectRobot && p.Dist(w.Robot.RotHandle()) < e.HandleRadius {
		return Hit{Kind: HitRobotRotate}
	}
	if o, ok := e.SelectedObstacle(); ok && p.Dist(o.RotHandle()) < e.HandleRadius {
		return Hit{Kind: HitObstacleRotate, ID: o.ID}
	}
	if p.Dist(w.Robot.Position) < e.HitRadius {
		return Hit{Kind: HitRobot}
	}
	for i := len(w.Objects) - 1; i >= 0; i-- {
		m := w.Objects[i].Meta()
		if p.Dist(m.Position) < e.HitRadius {
			return Hit{Kind: HitObject, ID: m.ID}
		}
	}
	return Hit{}
}

// Press starts a drag on whatever lies under p, or clears the selection
// when nothing does.
func (e *Editor) Press(p common.Vec2) Hit {
	hit := e.HitTest(p)
	switch hit.Kind {
	case HitNone:
		e.Deselect()
	case HitRobotRotate:
		e.SelectRobot()
		e.drag = dragState{mode: DragRotateRobot}
	case HitObstacleRotate:
		e.Select(hit.ID)
		e.drag = dragState{mode: DragRotateObstacle, id: hit.ID}
	case HitRobot:
		e.SelectRobot()
		e.drag = dragState{mode: DragMove, robot: true, grab: p.Sub(e.World.Robot.Position)}
	case HitObject:
		e.Select(hit.ID)
		o, _ := e.World.Find(hit.ID)
		e.drag = dragState{mode: DragMove, id: hit.ID, grab: p.Sub(o.Meta().Position)}
	}
	e.log.Debug("press", zap.Int("hit", int(hit.Kind)), zap.Int("id", int(hit.ID)))
	return hit
}

// Drag moves the pointer to p. It returns true when the world changed and
// the sensors need to be read again.
func (e *Editor) Drag(p common.Vec2) bool {
	w := e.World
	switch e.drag.mode {
	case DragRotateRobot:
		w.Robot.RotateToward(p)
		return true
	case DragRotateObstacle:
		o, ok := w.Obstacle(e.drag.id)
		if !ok {
			e.Release()
			return false
		}
		o.RotateToward(p)
		return true
	case DragMove:
		target := p.Sub(e.drag.grab)
		if e.drag.robot {
			w.Robot.MoveTo(target)
			return true
		}
		if err := w.MoveObject(e.drag.id, target); err != nil {
			e.log.Debug("drag target vanished", zap.Error(err))
			e.Release()
			return false
		}
		return true
	}
	return false
}

// Release ends any drag.
func (e *Editor) Release() {
	e.drag = dragState{}
}

func (e *Editor) AddObstacle() *field.Obstacle {
	o := e.World.AddObstacle()
	e.log.Info("obstacle added", zap.Int("id", int(o.ID)), zap.String("label", o.Label))
	return o
}

func (e *Editor) AddLandmark() *field.Landmark {
	l := e.World.AddLandmark()
	e.log.Info("landmark added", zap.Int("id", int(l.ID)), zap.String("label", l.Label))
	return l
}

// Remove deletes an object and drops it from the selection.
func (e *Editor) Remove(id field.ID) error {
	if err := e.World.Remove(id); err != nil {
		return err
	}
	if e.Selection.Kind == SelectObject && e.Selection.ID == id {
		e.Deselect()
	}
	if e.drag.id == id {
		e.Release()
	}
	e.log.Info("object removed", zap.Int("id", int(id)))
	return nil
}

// RemoveSelected deletes the selected object. The robot cannot be removed,
// so selecting it counts as nothing selected.
func (e *Editor) RemoveSelected() error {
	if e.Selection.Kind != SelectObject {
		return ErrNothingSelected
	}
	return e.Remove(e.Selection.ID)
}

// ClearAll empties the field and resets robot and sensors.
func (e *Editor) ClearAll() {
	e.World.Clear()
	e.Deselect()
	e.Release()
	e.log.Info("field cleared")
}

func (e *Editor) SetRobotHeading(deg float64) {
	e.World.Robot.SetHeading(deg)
}

func (e *Editor) RotateRobotBy(delta float64) {
	e.World.Robot.SetHeading(e.World.Robot.Heading + delta)
}

func (e *Editor) SetObstacleWidth(v float64) error {
	o, ok := e.SelectedObstacle()
	if !ok {
		return ErrNoObstacleSelected
	}
	o.SetWidth(v)
	return nil
}

func (e *Editor) SetObstacleHeight(v float64) error {
	o, ok := e.SelectedObstacle()
	if !ok {
		return ErrNoObstacleSelected
	}
	o.SetHeight(v)
	return nil
}

func (e *Editor) SetObstacleAngle(deg float64) error {
	o, ok := e.SelectedObstacle()
	if !ok {
		return ErrNoObstacleSelected
	}
	o.SetAngle(deg)
	return nil
}

func (e *Editor) SetSensorOffset(slot int, v float64) {
	e.World.SetOffset(slot, v)
}

// NudgeSensorOffset shifts one offset by delta, staying inside [-1, 1].
func (e *Editor) NudgeSensorOffset(slot int, delta float64) {
	if slot < 0 || slot >= field.SensorCount {
		return
	}
	e.World.SetOffset(slot, common.Round(e.World.Offsets[slot]+delta, 2))
}
