// Package mechanics holds low-level driving skills: small behaviors that turn the
// current car state straight into controller input without any planning.
package mechanics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/geom"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

// steerGain converts yaw error (radians) into steer deflection.
const steerGain = 3.0

// SteerToward returns the steer value that turns car toward target.
func SteerToward(car world.CarState, target mgl64.Vec2) float64 {
	return geom.Clamp(car.YawTo(target)*steerGain, -1, 1)
}

// SkidRecover steers a sliding car so that it regains grip facing targetLoc. It
// yields every tick it is resumed; wrap it in a While to bound it.
type SkidRecover struct {
	targetLoc mgl64.Vec2
}

func NewSkidRecover(targetLoc mgl64.Vec2) *SkidRecover { return &SkidRecover{targetLoc: targetLoc} }

func (s *SkidRecover) Name() string { return "SkidRecover" }
func (s *SkidRecover) Priority() strategy.Priority { return strategy.Idle }

func (s *SkidRecover) Execute(ctx *strategy.Context) strategy.Action {
	me := ctx.Me()
	targetRot := geom.Angle(s.targetLoc.Sub(me.Loc2D()))
	// Aim where the slide will have carried the nose, or the car overshoots.
	futureRot := targetRot + me.AngVel.Z()*0.25
	steer := geom.Clamp(geom.NormalizeAngle(futureRot-me.Yaw), -1, 1)

	ctx.EEG.Draw(eeg.GhostCar(geom.Lift(s.targetLoc, world.CarRestZ), targetRot, eeg.Orange))
	return strategy.Yield(world.Input{Throttle: 1, Steer: steer})
}

// GetToFlatGround brings the car back onto its wheels on the floor: it levels the
// car while airborne and drives down toward midfield when stuck on a wall.
type GetToFlatGround struct{}

func NewGetToFlatGround() *GetToFlatGround { return &GetToFlatGround{} }

func (g *GetToFlatGround) Name() string { return "GetToFlatGround" }
func (g *GetToFlatGround) Priority() strategy.Priority { return strategy.Idle }

func (g *GetToFlatGround) Execute(ctx *strategy.Context) strategy.Action {
	me := ctx.Me()
	if me.OnFlatGround() {
		return strategy.Return()
	}
	if !me.OnGround {
		return strategy.Yield(world.Input{
			Throttle: 1,
			Pitch:    geom.Clamp(-me.Pitch*2, -1, 1),
			Roll:     geom.Clamp(-me.Roll*2, -1, 1),
		})
	}
	steer := SteerToward(me, mgl64.Vec2{})
	if math.Abs(me.Roll) > math.Pi/2 {
		// upside down on a surface: flip back over
		return strategy.Yield(world.Input{Jump: true, Roll: geom.Sign(me.Roll)})
	}
	return strategy.Yield(world.Input{Throttle: 1, Steer: steer})
}
