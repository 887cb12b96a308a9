// Package sim is a simplified stand-in for the game: it steps one car and the ball
// at a fixed rate from controller input, for the harness, the CLI and tests.
package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/geom"
	"github.com/cxd309/pilot-engine/internal/kinematics"
	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/world"
)

// CarMotion describes what the car's drivetrain did on the last step.
type CarMotion string

const (
	MotionStationary CarMotion = "stationary"
	MotionAccel      CarMotion = "accelerating"
	MotionBoosting   CarMotion = "boosting"
	MotionBraking    CarMotion = "braking"
	MotionCoasting   CarMotion = "coasting"
	MotionAirborne   CarMotion = "airborne"
)

const (
	lateralFriction = 3000.0 // uu/s² removed from a sideways slide
	airRotateRate   = math.Pi
	contactDistance = 200.0 // car-to-ball centre distance that counts as a touch
	hitRestitution  = 1.5
)

// Scenario is the initial state of a simulation.
type Scenario struct {
	Car     world.CarState  `json:"car"`
	Ball    world.BallState `json:"ball"`
	Vehicle *Vehicle        `json:"vehicle,omitempty"` // nil = StockVehicle
}

// DefaultScenario is a stationary ball 2000 uu to the right of a car at kickoff
// height facing +Y with a full tank.
func DefaultScenario() Scenario {
	return Scenario{
		Car: world.CarState{
			Loc:      mgl64.Vec3{0, 0, world.CarRestZ},
			Yaw:      math.Pi / 2,
			Boost:    100,
			OnGround: true,
		},
		Ball: world.BallState{Loc: mgl64.Vec3{2000, 0, world.BallRadius}},
	}
}

// World is the live simulation state.
type World struct {
	Time    float64
	Car     world.CarState
	Motion  CarMotion
	Touches int

	vehicle  Vehicle
	ball     *predict.Ball
	touching bool
}

func NewWorld(s Scenario) *World {
	v := StockVehicle
	if s.Vehicle != nil {
		v = *s.Vehicle
	}
	return &World{
		Car:     s.Car,
		Motion:  MotionStationary,
		vehicle: v,
		ball:    predict.NewBall(s.Ball),
	}
}

// Model is the car's motion model.
func (w *World) Model() kinematics.MotionModel { return w.vehicle.Kinem }

// Scored reports whether the ball has left the field through a goal.
func (w *World) Scored() bool { return w.ball.Scored() }

// Ball is the current ball state.
func (w *World) Ball() world.BallState { return w.ball.State() }

// Packet is what the decision core observes this tick.
func (w *World) Packet() world.Packet {
	return world.Packet{Time: w.Time, Car: w.Car, Ball: w.ball.State()}
}

// Step applies in for dt seconds.
func (w *World) Step(dt float64, in world.Input) {
	in = in.Clamped()
	if w.Car.OnGround {
		w.drive(dt, in)
	} else {
		w.fly(dt, in)
	}
	w.ball.Step(dt)
	w.collide()
	w.Time += dt
}

func (w *World) drive(dt float64, in world.Input) {
	c := &w.Car
	m := w.vehicle.Kinem
	fwd, lat := c.ForwardSpeed(), c.LateralSpeed()
	useBoost := in.Boost && c.Boost > 0

	var v float64
	switch {
	case in.Throttle > 0 || useBoost:
		_, v = m.AccelerateStep(fwd, m.VMax(), dt, useBoost)
		w.Motion = MotionAccel
		if useBoost {
			w.Motion = MotionBoosting
		}
	case in.Throttle < 0 && fwd > 0:
		_, v = m.DecelerateStep(fwd, 0, dt)
		w.Motion = MotionBraking
	default:
		v = math.Max(0, fwd-kinematics.CoastDecel*dt)
		w.Motion = MotionCoasting
	}
	if v == 0 {
		w.Motion = MotionStationary
	}
	if useBoost {
		c.Boost = math.Max(0, c.Boost-kinematics.BoostPerSecond*dt)
	}
	if drop := lateralFriction * dt; math.Abs(lat) <= drop {
		lat = 0
	} else {
		lat -= math.Copysign(drop, lat)
	}

	yawRate := in.Steer * kinematics.Curvature(v) * v
	c.Yaw = geom.NormalizeAngle(c.Yaw + yawRate*dt)
	f := c.Forward2D()
	vel := f.Mul(v).Add(geom.Perp(f).Mul(lat))
	loc := clampToArena(c.Loc2D().Add(vel.Mul(dt)))

	c.Vel = geom.Lift(vel, 0)
	c.AngVel = mgl64.Vec3{0, 0, yawRate}
	c.Loc = geom.Lift(loc, world.CarRestZ)
	c.Pitch, c.Roll = 0, 0
}

func (w *World) fly(dt float64, in world.Input) {
	c := &w.Car
	w.Motion = MotionAirborne
	c.Pitch += in.Pitch * airRotateRate * dt
	c.Roll += in.Roll * airRotateRate * dt
	c.Vel = c.Vel.Add(mgl64.Vec3{0, 0, world.Gravity * dt})
	c.Loc = c.Loc.Add(c.Vel.Mul(dt))
	if c.Loc.Z() <= world.CarRestZ {
		c.Loc = mgl64.Vec3{c.Loc.X(), c.Loc.Y(), world.CarRestZ}
		c.Vel = mgl64.Vec3{c.Vel.X(), c.Vel.Y(), 0}
		c.Pitch, c.Roll = 0, 0
		c.OnGround = true
	}
}

func clampToArena(p mgl64.Vec2) mgl64.Vec2 {
	maxY := world.FieldMaxY
	if math.Abs(p.X()) < world.GoalpostX {
		maxY += world.GoalDepth
	}
	return mgl64.Vec2{
		geom.Clamp(p.X(), -world.FieldMaxX, world.FieldMaxX),
		geom.Clamp(p.Y(), -maxY, maxY),
	}
}

// collide gives the ball one impulse per contact with the car.
func (w *World) collide() {
	b := w.ball.State()
	d := b.Loc.Sub(w.Car.Loc)
	if d.Len() > contactDistance {
		w.touching = false
		return
	}
	if w.touching {
		return
	}
	w.touching = true
	w.Touches++

	n := geom.Lift(geom.Direction(w.Car.Loc2D(), geom.Flatten(b.Loc), w.Car.Forward2D()), 0)
	along := w.Car.Vel.Sub(b.Vel).Dot(n)
	if along <= 0 {
		return
	}
	w.ball.Push(n.Mul(along * hitRestitution))
}

// WorldLog is a point-in-time snapshot of the simulation.
type WorldLog struct {
	Time    float64         `json:"time"`
	Car     world.CarState  `json:"car"`
	Ball    world.BallState `json:"ball"`
	Motion  CarMotion       `json:"motion"`
	Touches int             `json:"touches"`
}

// GetLog returns a point-in-time snapshot of the world.
func (w *World) GetLog() WorldLog {
	return WorldLog{Time: w.Time, Car: w.Car, Ball: w.ball.State(), Motion: w.Motion, Touches: w.Touches}
}
