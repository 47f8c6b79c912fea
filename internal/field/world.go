// Package field holds the simulator's world state: the robot, its sensor
// offsets and the objects placed on the 12x12 field.
package field

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"localization-field/internal/common"
	"localization-field/internal/physics"
)

// SensorCount is the number of rangefinders on the robot.
const SensorCount = 4

// New objects spawn uniformly inside [SpawnMin, SpawnMin+SpawnSpan).
const (
	SpawnMin  = 2.0
	SpawnSpan = 8.0
)

var ErrObjectNotFound = errors.New("object not found")

// World is the complete editable simulation state. It is owned by a single
// goroutine; nothing here is safe for concurrent mutation.
type World struct {
	ScenarioID string
	Robot      physics.Robot
	Offsets    [SensorCount]float64 // Slide offsets in [-1, 1], indexed front, right, back, left
	Objects    []Object             // Draw order; last drawn is hit first

	lastID ID
	rng    *rand.Rand
}

// NewWorld returns an empty field with the robot at its default pose.
// rng drives spawn jitter; nil uses a time-independent default source.
func NewWorld(rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &World{
		Robot: *physics.NewRobot(),
		rng:   rng,
	}
}

func (w *World) nextID() ID {
	w.lastID++
	return w.lastID
}

func (w *World) countKind(k Kind) int {
	n := 0
	for _, o := range w.Objects {
		if o.Kind() == k {
			n++
		}
	}
	return n
}

func (w *World) jitter() float64 {
	return common.Round(w.rng.Float64()*SpawnSpan+SpawnMin, 2)
}

func (w *World) newEntity(k Kind) Entity {
	return Entity{
		ID:       w.nextID(),
		Label:    fmt.Sprintf("%s%d", k.Prefix(), w.countKind(k)+1),
		Position: common.Vec2{X: w.jitter(), Y: w.jitter()},
	}
}

// AddLandmark places a landmark at a jittered position.
func (w *World) AddLandmark() *Landmark {
	l := &Landmark{Entity: w.newEntity(KindLandmark)}
	w.Objects = append(w.Objects, l)
	return l
}

// AddObstacle places a unit square obstacle at a jittered position.
func (w *World) AddObstacle() *Obstacle {
	o := &Obstacle{
		Entity: w.newEntity(KindObstacle),
		Width:  DefaultObstacleSize,
		Height: DefaultObstacleSize,
	}
	w.Objects = append(w.Objects, o)
	return o
}

// Insert appends an externally built object, giving it a fresh ID and a
// label if it has none. Position and obstacle dimensions are clamped.
func (w *World) Insert(o Object) Object {
	m := o.Meta()
	m.ID = w.nextID()
	if m.Label == "" {
		m.Label = fmt.Sprintf("%s%d", o.Kind().Prefix(), w.countKind(o.Kind())+1)
	}
	m.Position = physics.ClampToField(m.Position)
	if obs, ok := o.(*Obstacle); ok {
		obs.SetWidth(obs.Width)
		obs.SetHeight(obs.Height)
		obs.SetAngle(obs.Angle)
	}
	w.Objects = append(w.Objects, o)
	return o
}

// Find looks up a live object by ID.
func (w *World) Find(id ID) (Object, bool) {
	for _, o := range w.Objects {
		if o.Meta().ID == id {
			return o, true
		}
	}
	return nil, false
}

// Obstacle looks up a live obstacle by ID.
func (w *World) Obstacle(id ID) (*Obstacle, bool) {
	o, ok := w.Find(id)
	if !ok {
		return nil, false
	}
	obs, ok := o.(*Obstacle)
	return obs, ok
}

// Remove deletes the object with the given ID.
func (w *World) Remove(id ID) error {
	for i, o := range w.Objects {
		if o.Meta().ID == id {
			w.Objects = append(w.Objects[:i], w.Objects[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrObjectNotFound, "remove id %d", id)
}

// MoveObject places an object at p, clamped to the field.
func (w *World) MoveObject(id ID, p common.Vec2) error {
	o, ok := w.Find(id)
	if !ok {
		return errors.Wrapf(ErrObjectNotFound, "move id %d", id)
	}
	o.Meta().Position = physics.ClampToField(p)
	return nil
}

// SetOffset sets one sensor's slide offset, clamped to [-1, 1].
func (w *World) SetOffset(slot int, v float64) {
	if slot < 0 || slot >= SensorCount {
		return
	}
	w.Offsets[slot] = common.Clamp(v, -1, 1)
}

// Obstacles returns the blocking objects in draw order.
func (w *World) Obstacles() []*Obstacle {
	out := make([]*Obstacle, 0, len(w.Objects))
	for _, o := range w.Objects {
		if obs, ok := o.(*Obstacle); ok {
			out = append(out, obs)
		}
	}
	return out
}

// Clear removes every object and resets the robot and sensor offsets.
// The ID counter keeps running so IDs stay unique for the session.
func (w *World) Clear() {
	w.Objects = nil
	w.Robot.Reset()
	w.Offsets = [SensorCount]float64{}
}

// LastID reports the most recently issued ID.
func (w *World) LastID() ID {
	return w.lastID
}
