package mechanics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

func ctxFor(car world.CarState) *strategy.Context {
	return strategy.NewContext(world.Packet{Car: car}, predict.Prediction{}, nil, nil, nil)
}

func TestSteerToward(t *testing.T) {
	car := world.CarState{Yaw: 0}
	assert.Equal(t, 1.0, SteerToward(car, mgl64.Vec2{0, 100}))
	assert.Equal(t, -1.0, SteerToward(car, mgl64.Vec2{0, -100}))
	assert.InDelta(t, 0, SteerToward(car, mgl64.Vec2{100, 0}), 1e-9)
}

func TestSkidRecoverLeadsTheSlide(t *testing.T) {
	car := world.CarState{
		Loc:      mgl64.Vec3{0, 0, world.CarRestZ},
		Vel:      mgl64.Vec3{0, 800, 0},
		Yaw:      0,
		OnGround: true,
	}
	target := mgl64.Vec2{1000, 0}

	act := NewSkidRecover(target).Execute(ctxFor(car))
	assert.Equal(t, strategy.ActionYield, act.Kind)
	assert.Equal(t, 1.0, act.Input.Throttle)
	assert.InDelta(t, 0, act.Input.Steer, 1e-9, "already facing the target with no spin")

	car.AngVel = mgl64.Vec3{0, 0, -2}
	act = NewSkidRecover(target).Execute(ctxFor(car))
	assert.InDelta(t, -0.5, act.Input.Steer, 1e-9, "counter-steer into the spin")
}

func TestGetToFlatGround(t *testing.T) {
	flat := world.CarState{Loc: mgl64.Vec3{0, 0, world.CarRestZ}, OnGround: true}
	assert.Equal(t, strategy.ActionReturn, NewGetToFlatGround().Execute(ctxFor(flat)).Kind)

	air := world.CarState{Loc: mgl64.Vec3{0, 0, 400}, Pitch: 0.3, Roll: -0.2}
	act := NewGetToFlatGround().Execute(ctxFor(air))
	assert.Equal(t, strategy.ActionYield, act.Kind)
	assert.InDelta(t, -0.6, act.Input.Pitch, 1e-9)
	assert.InDelta(t, 0.4, act.Input.Roll, 1e-9)

	wall := world.CarState{Loc: mgl64.Vec3{world.FieldMaxX, 0, 300}, Roll: math.Pi / 2 * 0.9, Yaw: math.Pi / 2, OnGround: true}
	act = NewGetToFlatGround().Execute(ctxFor(wall))
	assert.Equal(t, 1.0, act.Input.Throttle)
	assert.Equal(t, 1.0, act.Input.Steer, "midfield is to the car's left")
}
