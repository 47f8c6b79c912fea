package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"localization-field/internal/agent"
	"localization-field/internal/common"
	"localization-field/internal/editor"
	"localization-field/internal/field"
	"localization-field/internal/physics"
	"localization-field/internal/sensor"
)

// Ray dash pattern in pixels
const (
	DashOn  = 6.0
	DashOff = 4.0
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	g.drawField(screen)

	for _, o := range g.Editor.World.Objects {
		switch v := o.(type) {
		case *field.Obstacle:
			g.drawObstacle(screen, v)
		case *field.Landmark:
			g.drawLandmark(screen, v)
		}
	}

	g.drawRays(screen)
	g.drawRobot(screen)
	if g.Estimate != nil {
		g.drawEstimate(screen)
	}
	g.drawPanel(screen)
}

// toScreen transforms field coordinates to screen coordinates
func (g *Game) toScreen(p common.Vec2) (float32, float32) {
	x, y := g.View.ToScreen(p)
	return float32(x), float32(y)
}

func (g *Game) fillPolygon(screen *ebiten.Image, pts []common.Vec2, col color.Color) {
	var path vector.Path
	for i, p := range pts {
		sx, sy := g.toScreen(p)
		if i == 0 {
			path.MoveTo(sx, sy)
		} else {
			path.LineTo(sx, sy)
		}
	}
	path.Close()

	var cs ebiten.ColorScale
	cs.ScaleWithColor(col)
	vector.FillPath(screen, &path, nil, &vector.DrawPathOptions{
		AntiAlias:  true,
		ColorScale: cs,
	})
}

func (g *Game) strokePolygon(screen *ebiten.Image, pts []common.Vec2, width float32, col color.Color) {
	for i := range pts {
		x1, y1 := g.toScreen(pts[i])
		x2, y2 := g.toScreen(pts[(i+1)%len(pts)])
		vector.StrokeLine(screen, x1, y1, x2, y2, width, col, true)
	}
}

func (g *Game) drawField(screen *ebiten.Image) {
	lo, hi := common.V(0, 0), common.V(physics.FieldUnits, physics.FieldUnits)
	x0, y1 := g.toScreen(lo)
	x1, y0 := g.toScreen(hi)
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, ColorField, true)

	// Grid with one line per unit, labelled every other unit
	for i := 0; i <= physics.FieldUnits; i++ {
		u := float64(i)
		ax, ay := g.toScreen(common.V(u, 0))
		bx, by := g.toScreen(common.V(u, physics.FieldUnits))
		vector.StrokeLine(screen, ax, ay, bx, by, 1, ColorGrid, true)

		ax, ay = g.toScreen(common.V(0, u))
		bx, by = g.toScreen(common.V(physics.FieldUnits, u))
		vector.StrokeLine(screen, ax, ay, bx, by, 1, ColorGrid, true)

		if i%2 == 0 {
			tx, ty := g.toScreen(common.V(u, 0))
			ebitenutil.DebugPrintAt(screen, fmt.Sprint(i), int(tx)-4, int(ty)+4)
			tx, ty = g.toScreen(common.V(0, u))
			ebitenutil.DebugPrintAt(screen, fmt.Sprint(i), int(tx)-20, int(ty)-8)
		}
	}

	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, ColorBorder, true)
}

func (g *Game) selected(id field.ID) bool {
	s := g.Editor.Selection
	return s.Kind == editor.SelectObject && s.ID == id
}

func (g *Game) drawObstacle(screen *ebiten.Image, o *field.Obstacle) {
	corners := o.Corners()
	col := ColorObstacle
	if g.selected(o.ID) {
		col = ColorObstacleSel
	}
	fill := col
	fill.A = 110
	g.fillPolygon(screen, corners[:], fill)
	g.strokePolygon(screen, corners[:], 2, col)

	cx, cy := g.toScreen(o.Position)
	ebitenutil.DebugPrintAt(screen, o.Label, int(cx)-6, int(cy)-8)

	if g.selected(o.ID) {
		g.drawHandle(screen, o.Position, o.RotHandle(), ColorObstacleHandle)
	}
}

func (g *Game) drawLandmark(screen *ebiten.Image, l *field.Landmark) {
	col := ColorLandmark
	if g.selected(l.ID) {
		col = ColorLandmarkSel
	}
	r := g.View.PxToUnits(10)
	tri := []common.Vec2{
		l.Position.Add(common.V(0, r)),
		l.Position.Add(common.V(-r*0.87, -r*0.5)),
		l.Position.Add(common.V(r*0.87, -r*0.5)),
	}
	g.fillPolygon(screen, tri, col)

	cx, cy := g.toScreen(l.Position)
	ebitenutil.DebugPrintAt(screen, l.Label, int(cx)+10, int(cy)-18)
}

func (g *Game) drawHandle(screen *ebiten.Image, from, handle common.Vec2, col color.Color) {
	ax, ay := g.toScreen(from)
	hx, hy := g.toScreen(handle)
	vector.StrokeLine(screen, ax, ay, hx, hy, 1, col, true)
	vector.FillCircle(screen, hx, hy, editor.RotHandlePx, col, true)
}

// drawRays draws each sensor beam dashed from its mount to the hit point.
func (g *Game) drawRays(screen *ebiten.Image) {
	for i, r := range g.Readings {
		if math.IsInf(r.Distance, 1) {
			continue
		}
		col := SensorColors[i]
		ax, ay := g.toScreen(r.Position)
		bx, by := g.toScreen(r.Hit())

		dx, dy := bx-ax, by-ay
		length := float32(math.Hypot(float64(dx), float64(dy)))
		if length > 0 {
			ux, uy := dx/length, dy/length
			for s := float32(0); s < length; s += DashOn + DashOff {
				e := min(s+DashOn, length)
				vector.StrokeLine(screen, ax+ux*s, ay+uy*s, ax+ux*e, ay+uy*e, 1.5, col, true)
			}
		}

		vector.FillCircle(screen, ax, ay, 3, col, true)
		vector.StrokeCircle(screen, bx, by, 4, 1.5, col, true)
	}
}

func (g *Game) drawRobot(screen *ebiten.Image) {
	robot := g.Editor.World.Robot
	corners := robot.Corners()

	col := ColorRobot
	if g.Editor.Selection.Kind == editor.SelectRobot {
		col = ColorRobotSelected
	}
	fill := col
	fill.A = 140
	g.fillPolygon(screen, corners[:], fill)
	g.strokePolygon(screen, corners[:], 2, col)

	// Heading arrow from center to front face
	cx, cy := g.toScreen(robot.Position)
	tx, ty := g.toScreen(robot.Position.Add(robot.Front().Scale(physics.RobotHalf)))
	vector.StrokeLine(screen, cx, cy, tx, ty, 2, ColorHeading, true)

	if g.Editor.Selection.Kind == editor.SelectRobot {
		g.drawHandle(screen, robot.Position, robot.RotHandle(), ColorRobotHandle)
	}
}

func (g *Game) drawEstimate(screen *ebiten.Image) {
	pose := g.Estimate.Pose
	corners := pose.Corners()
	g.strokePolygon(screen, corners[:], 1.5, ColorEstimate)

	cx, cy := g.toScreen(pose.Position)
	tx, ty := g.toScreen(pose.Position.Add(pose.Front().Scale(physics.RobotHalf)))
	vector.StrokeLine(screen, cx, cy, tx, ty, 1.5, ColorEstimate, true)
}

func (g *Game) drawPanel(screen *ebiten.Image) {
	panelX := float32(g.View.Size)
	vector.FillRect(screen, panelX, 0, float32(g.width)-panelX, float32(g.height), ColorPanel, true)

	w := g.Editor.World
	msg := "ROBOT\n"
	msg += "----------------\n"
	msg += fmt.Sprintf("Position: (%.2f, %.2f)\n", w.Robot.Position.X, w.Robot.Position.Y)
	msg += fmt.Sprintf("Heading:  %.1f deg\n", w.Robot.Heading)

	msg += "\nSENSORS\n"
	msg += "----------------\n"
	for i, r := range g.Readings {
		marker := " "
		if i == g.ActiveSensor {
			marker = ">"
		}
		msg += fmt.Sprintf("%s%d %-5s %6.2f  off %+.2f\n",
			marker, i+1, sensor.Slots[i], r.Rounded(sensor.DisplayPrecision), w.Offsets[i])
	}

	msg += "\nSELECTION\n"
	msg += "----------------\n"
	switch g.Editor.Selection.Kind {
	case editor.SelectRobot:
		msg += "Robot\n"
	case editor.SelectObject:
		if o, ok := g.Editor.SelectedObstacle(); ok {
			msg += fmt.Sprintf("%s at (%.2f, %.2f)\n", o.Label, o.Position.X, o.Position.Y)
			msg += fmt.Sprintf("Size:  %.2f x %.2f\n", o.Width, o.Height)
			msg += fmt.Sprintf("Angle: %.0f deg\n", o.Angle)
		} else if o, ok := g.Editor.SelectedObject(); ok {
			m := o.Meta()
			msg += fmt.Sprintf("%s at (%.2f, %.2f)\n", m.Label, m.Position.X, m.Position.Y)
		}
	default:
		msg += "None\n"
	}
	if g.Cursor != nil {
		msg += fmt.Sprintf("Cursor: (%.2f, %.2f)\n", g.Cursor.X, g.Cursor.Y)
	}

	msg += "\nLOCALIZER\n"
	msg += "----------------\n"
	msg += g.Agent.DebugInfoStr() + "\n"
	msg += agent.FormatEstimate(g.Estimate) + "\n"
	if g.Localizing {
		msg += "[searching]\n"
	}

	msg += "\nControls:\n"
	msg += "O/L add obstacle/landmark\n"
	msg += "Del remove, C clear\n"
	msg += "Q/E rotate robot\n"
	msg += "1-4 sensor, <-/-> offset\n"
	msg += "W/H size (Shift shrinks)\n"
	msg += "[ ] rotate obstacle\n"
	msg += "S save, K localize\n"

	if g.Status != "" {
		msg += "\n" + g.Status
	}

	ebitenutil.DebugPrintAt(screen, msg, int(panelX)+PanelPadding, PanelPadding)
}
