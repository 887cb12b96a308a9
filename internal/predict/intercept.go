package predict

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/geom"
	"github.com/cxd309/pilot-engine/internal/kinematics"
	"github.com/cxd309/pilot-engine/internal/world"
)

// ContactRadius is the distance between car and ball centres when their meshes
// are just touching on the ground.
const ContactRadius = 240.0

// Intercept is the earliest reachable frame found by GroundIntercept.
type Intercept struct {
	Index    int        `json:"index"` // frame index within the searched sequence
	Time     float64    `json:"time"`
	BallLoc  mgl64.Vec3 `json:"ball_loc"`
	BallVel  mgl64.Vec3 `json:"ball_vel"`
	CarLoc   mgl64.Vec3 `json:"car_loc"` // where the car should be at contact
	CarSpeed float64    `json:"car_speed"`
}

// BallLoc2D is the ball's ground position at the intercept.
func (i Intercept) BallLoc2D() mgl64.Vec2 { return geom.Flatten(i.BallLoc) }

// CarLoc2D is the car's ground position at the intercept.
func (i Intercept) CarLoc2D() mgl64.Vec2 { return geom.Flatten(i.CarLoc) }

// GroundIntercept walks frames in order alongside a straight-line Car1D running at
// full throttle (and boost while the tank lasts) and returns the first frame that
// pred accepts and that the car could reach in time. Frames must be strictly
// increasing in time, so the earliest accepted frame is unique and no secondary
// ordering is applied. ok is false when no frame qualifies.
func GroundIntercept(frames iter.Seq[Frame], car world.CarState, model kinematics.MotionModel, pred Predicate) (Intercept, bool) {
	sim := kinematics.NewCar1D(model, car.Speed(), car.Boost)
	carLoc := car.Loc2D()
	var prevT float64
	i := -1
	for f := range frames {
		i++
		sim.Step(f.T-prevT, 1, true)
		prevT = f.T
		if !pred(f) {
			continue
		}
		ball := geom.Flatten(f.Loc)
		need := ball.Sub(carLoc).Len() - ContactRadius
		if sim.Distance() < need {
			continue
		}
		dir := geom.Direction(carLoc, ball, car.Forward2D())
		return Intercept{
			Index:    i,
			Time:     f.T,
			BallLoc:  f.Loc,
			BallVel:  f.Vel,
			CarLoc:   geom.Lift(ball.Sub(dir.Mul(ContactRadius)), car.Loc.Z()),
			CarSpeed: sim.Speed(),
		}, true
	}
	return Intercept{}, false
}
