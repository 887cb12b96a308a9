// Package world holds the immutable snapshots exchanged between the simulator
// (or game) and the decision core: car and ball state, the per-tick packet, and
// the controller input the core answers with.
//
// Units follow the game: unreal units (uu) for distance, uu/s for speed,
// radians for angles and seconds for time.
package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/geom"
)

// Arena dimensions.
const (
	FieldMaxX   = 4096.0 // side wall
	FieldMaxY   = 5120.0 // goal line
	CeilingZ    = 2044.0
	GoalpostX   = 892.755
	GoalHeight  = 642.775
	GoalDepth   = 880.0
	BallRadius  = 92.75
	CarRestZ    = 17.01
	CarMaxSpeed = 2300.0
	Gravity     = -650.0 // uu/s²
)

// skidLateralSpeed is the sideways speed above which the car is sliding rather
// than rolling.
const skidLateralSpeed = 300.0

// flatTilt is the pitch or roll above which the car no longer counts as flat.
const flatTilt = 15 * math.Pi / 180

// CarState is a snapshot of the controlled car.
type CarState struct {
	Loc      mgl64.Vec3 `json:"loc"`
	Vel      mgl64.Vec3 `json:"vel"`
	AngVel   mgl64.Vec3 `json:"ang_vel"`
	Yaw      float64    `json:"yaw"`   // radians, 0 = +X
	Pitch    float64    `json:"pitch"` // radians
	Roll     float64    `json:"roll"`  // radians
	Boost    float64    `json:"boost"` // 0-100
	OnGround bool       `json:"on_ground"`
}

// Loc2D is the car's ground position.
func (c CarState) Loc2D() mgl64.Vec2 { return geom.Flatten(c.Loc) }

// Vel2D is the car's ground velocity.
func (c CarState) Vel2D() mgl64.Vec2 { return geom.Flatten(c.Vel) }

// Forward2D is the unit heading on the ground plane.
func (c CarState) Forward2D() mgl64.Vec2 { return geom.Unit(c.Yaw) }

// Speed is the ground speed regardless of direction.
func (c CarState) Speed() float64 { return c.Vel2D().Len() }

// ForwardSpeed is the signed ground speed along the heading.
func (c CarState) ForwardSpeed() float64 { return c.Vel2D().Dot(c.Forward2D()) }

// LateralSpeed is the signed ground speed across the heading (left positive).
func (c CarState) LateralSpeed() float64 { return c.Vel2D().Dot(geom.Perp(c.Forward2D())) }

// OnFlatGround reports whether the car has its wheels on the floor.
func (c CarState) OnFlatGround() bool {
	return c.OnGround && c.Loc.Z() < 50 && math.Abs(c.Pitch) < flatTilt && math.Abs(c.Roll) < flatTilt
}

// Skidding reports whether the car is sliding sideways.
func (c CarState) Skidding() bool { return math.Abs(c.LateralSpeed()) >= skidLateralSpeed }

// YawTo returns the signed yaw change that would point the car at target.
func (c CarState) YawTo(target mgl64.Vec2) float64 {
	return geom.AngleTo(c.Forward2D(), target.Sub(c.Loc2D()))
}

// BallState is a snapshot of the ball.
type BallState struct {
	Loc    mgl64.Vec3 `json:"loc"`
	Vel    mgl64.Vec3 `json:"vel"`
	AngVel mgl64.Vec3 `json:"ang_vel"`
}

// Packet is everything observed about the game on one tick.
type Packet struct {
	Time float64   `json:"time"` // game clock, seconds
	Car  CarState  `json:"car"`
	Ball BallState `json:"ball"`
}

// Input is the controller state sent for one tick.
type Input struct {
	Throttle  float64 `json:"throttle"` // [-1, 1]
	Steer     float64 `json:"steer"`    // [-1, 1]
	Pitch     float64 `json:"pitch"`
	Yaw       float64 `json:"yaw"`
	Roll      float64 `json:"roll"`
	Jump      bool    `json:"jump"`
	Boost     bool    `json:"boost"`
	Handbrake bool    `json:"handbrake"`
}

// Clamped returns in with every analog axis limited to [-1, 1].
func (in Input) Clamped() Input {
	in.Throttle = geom.Clamp(in.Throttle, -1, 1)
	in.Steer = geom.Clamp(in.Steer, -1, 1)
	in.Pitch = geom.Clamp(in.Pitch, -1, 1)
	in.Yaw = geom.Clamp(in.Yaw, -1, 1)
	in.Roll = geom.Clamp(in.Roll, -1, 1)
	return in
}

// CloseTo reports whether two car states describe the same pose within tol
// (uu for position, radians for yaw).
func CloseTo(a, b CarState, tol float64) bool {
	if a.Loc.Sub(b.Loc).Len() > tol {
		return false
	}
	return math.Abs(geom.NormalizeAngle(a.Yaw-b.Yaw)) <= tol
}
