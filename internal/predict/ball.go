package predict

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/world"
)

// Ball physics constants.
const (
	ballDrag        = 0.0305 // fraction of velocity lost per second
	ballMaxSpeed    = 6000.0
	restitution     = 0.6
	bounceRetention = 0.8  // tangential velocity kept on a real bounce
	settleSpeed     = 30.0 // rebound speeds below this come to rest on the surface
)

var (
	floorNormal   = mgl64.Vec3{0, 0, 1}
	ceilingNormal = mgl64.Vec3{0, 0, -1}
)

// Ball is a small-step simulation of the ball: gravity, air drag and bounces off
// the floor, ceiling and walls. The goal mouths are open; once the ball is fully
// past a goal line it is scored and stops interacting with anything.
type Ball struct {
	loc, vel, angVel mgl64.Vec3
	scored           bool
}

// NewBall starts a simulation from an observed state.
func NewBall(s world.BallState) *Ball {
	return &Ball{loc: s.Loc, vel: s.Vel, angVel: s.AngVel}
}

// State returns the current snapshot.
func (b *Ball) State() world.BallState {
	return world.BallState{Loc: b.loc, Vel: b.vel, AngVel: b.angVel}
}

// Scored reports whether the ball has fully crossed a goal line.
func (b *Ball) Scored() bool { return b.scored }

// Push adds dv to the ball's velocity, as from a hit.
func (b *Ball) Push(dv mgl64.Vec3) { b.vel = b.vel.Add(dv) }

// Step advances the ball by dt seconds.
func (b *Ball) Step(dt float64) {
	if b.scored {
		return
	}
	b.vel = b.vel.Add(mgl64.Vec3{0, 0, world.Gravity * dt})
	b.vel = b.vel.Mul(1 - ballDrag*dt)
	if s := b.vel.Len(); s > ballMaxSpeed {
		b.vel = b.vel.Mul(ballMaxSpeed / s)
	}
	b.loc = b.loc.Add(b.vel.Mul(dt))
	b.collide()
}

func (b *Ball) collide() {
	const r = world.BallRadius
	x, y, z := b.loc.Elem()

	if z < r {
		z = r
		b.bounce(floorNormal, true)
	}
	if z > world.CeilingZ-r {
		z = world.CeilingZ - r
		b.bounce(ceilingNormal, false)
	}
	if math.Abs(x) > world.FieldMaxX-r {
		s := math.Copysign(1, x)
		x = s * (world.FieldMaxX - r)
		b.bounce(mgl64.Vec3{-s, 0, 0}, false)
	}
	inMouth := math.Abs(x) < world.GoalpostX-r && z < world.GoalHeight-r
	if math.Abs(y) > world.FieldMaxY-r && !inMouth {
		s := math.Copysign(1, y)
		y = s * (world.FieldMaxY - r)
		b.bounce(mgl64.Vec3{0, -s, 0}, false)
	}
	b.loc = mgl64.Vec3{x, y, z}
	if math.Abs(y) > world.FieldMaxY+r {
		b.scored = true
	}
}

// bounce reflects the velocity component heading into the surface with normal n.
func (b *Ball) bounce(n mgl64.Vec3, settle bool) {
	vn := b.vel.Dot(n)
	if vn >= 0 {
		return
	}
	vt := b.vel.Sub(n.Mul(vn))
	out := -restitution * vn
	if settle && out < settleSpeed {
		b.vel = vt
		return
	}
	b.vel = vt.Mul(bounceRetention).Add(n.Mul(out))
}
