package eeg

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/geom"
)

// Color names a draw color understood by every consumer.
type Color string

const (
	Red    Color = "red"
	Green  Color = "green"
	Blue   Color = "blue"
	Yellow Color = "yellow"
	Orange Color = "orange"
	Pink   Color = "pink"
	White  Color = "white"
)

// Shape tags a Drawable.
type Shape string

const (
	ShapeGhostBall Shape = "ghost_ball"
	ShapeGhostCar  Shape = "ghost_car"
	ShapePrint     Shape = "print"
	ShapeArc       Shape = "arc"
	ShapeLine      Shape = "line"
	ShapeCrosshair Shape = "crosshair"
)

// Drawable is one overlay item. Only the fields meaningful to Shape are set.
type Drawable struct {
	Shape  Shape      `json:"shape"`
	Color  Color      `json:"color"`
	Loc    mgl64.Vec3 `json:"loc"`
	To     mgl64.Vec3 `json:"to"`
	Yaw    float64    `json:"yaw,omitempty"`
	Radius float64    `json:"radius,omitempty"`
	Theta1 float64    `json:"theta1,omitempty"`
	Theta2 float64    `json:"theta2,omitempty"`
	Text   string     `json:"text,omitempty"`
}

func GhostBall(loc mgl64.Vec3, c Color) Drawable {
	return Drawable{Shape: ShapeGhostBall, Color: c, Loc: loc}
}

func GhostCar(loc mgl64.Vec3, yaw float64, c Color) Drawable {
	return Drawable{Shape: ShapeGhostCar, Color: c, Loc: loc, Yaw: yaw}
}

func Print(text string, c Color) Drawable {
	return Drawable{Shape: ShapePrint, Color: c, Text: text}
}

// Arc is a ground-plane arc around center from theta1 to theta2 (theta1 ≤ theta2).
func Arc(center mgl64.Vec2, radius, theta1, theta2 float64, c Color) Drawable {
	return Drawable{Shape: ShapeArc, Color: c, Loc: geom.Lift(center, 0), Radius: radius, Theta1: theta1, Theta2: theta2}
}

func Line(from, to mgl64.Vec2, c Color) Drawable {
	return Drawable{Shape: ShapeLine, Color: c, Loc: geom.Lift(from, 0), To: geom.Lift(to, 0)}
}

func Crosshair(loc mgl64.Vec2, c Color) Drawable {
	return Drawable{Shape: ShapeCrosshair, Color: c, Loc: geom.Lift(loc, 0)}
}
