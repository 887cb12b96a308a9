package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestCarStateAxes(t *testing.T) {
	car := CarState{
		Loc:      mgl64.Vec3{0, 0, CarRestZ},
		Vel:      mgl64.Vec3{400, 1000, 0},
		Yaw:      math.Pi / 2,
		OnGround: true,
	}
	assert.InDelta(t, 1000, car.ForwardSpeed(), 1e-9)
	assert.InDelta(t, -400, car.LateralSpeed(), 1e-9)
	assert.True(t, car.Skidding())
	assert.True(t, car.OnFlatGround())
	assert.InDelta(t, -math.Pi/2, car.YawTo(mgl64.Vec2{100, 0}), 1e-9)
}

func TestOnFlatGround(t *testing.T) {
	car := CarState{Loc: mgl64.Vec3{0, 0, CarRestZ}, OnGround: true}
	assert.True(t, car.OnFlatGround())

	car.Roll = math.Pi / 2
	assert.False(t, car.OnFlatGround(), "on a wall")

	car.Roll = 0
	car.OnGround = false
	assert.False(t, car.OnFlatGround(), "airborne")
}

func TestInputClamped(t *testing.T) {
	in := Input{Throttle: 3, Steer: -2, Roll: 0.5}.Clamped()
	assert.Equal(t, 1.0, in.Throttle)
	assert.Equal(t, -1.0, in.Steer)
	assert.Equal(t, 0.5, in.Roll)
}

func TestCloseTo(t *testing.T) {
	a := CarState{Loc: mgl64.Vec3{1, 2, 3}, Yaw: math.Pi - 1e-6}
	b := CarState{Loc: mgl64.Vec3{1, 2, 3}, Yaw: -math.Pi + 1e-6}
	assert.True(t, CloseTo(a, b, 1e-3))
	b.Loc = mgl64.Vec3{1, 2, 4}
	assert.False(t, CloseTo(a, b, 1e-3))
}
