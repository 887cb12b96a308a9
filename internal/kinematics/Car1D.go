package kinematics

import "math"

const (
	// BoostPerSecond is the boost tank drained per second of boosting (tank is 0-100).
	BoostPerSecond = 33.3
	// CoastDecel is the slowdown with no throttle applied, uu/s².
	CoastDecel = 525.0
)

// Car1D integrates a car along a straight line, ignoring steering. The intercept
// search uses it as an optimistic bound on how far the car can get by a given time.
type Car1D struct {
	model MotionModel
	speed float64
	boost float64
	dist  float64
	time  float64
}

// NewCar1D starts a Car1D at the given speed (negative speeds count as stopped)
// and boost amount.
func NewCar1D(model MotionModel, speed, boost float64) *Car1D {
	return &Car1D{model: model, speed: math.Max(speed, 0), boost: boost}
}

// Step advances dt seconds. Positive throttle accelerates toward the model's top
// speed, negative throttle brakes, zero throttle coasts. Boost is used only while
// the tank is not empty.
func (c *Car1D) Step(dt, throttle float64, boost bool) {
	useBoost := boost && c.boost > 0
	var d, v float64
	switch {
	case throttle > 0 || useBoost:
		d, v = c.model.AccelerateStep(c.speed, c.model.VMax(), dt, useBoost)
	case throttle < 0:
		d, v = c.model.DecelerateStep(c.speed, 0, dt)
	default:
		v = math.Max(0, c.speed-CoastDecel*dt)
		d = (c.speed + v) / 2 * dt
	}
	if useBoost {
		c.boost = math.Max(0, c.boost-BoostPerSecond*dt)
	}
	c.speed = v
	c.dist += d
	c.time += dt
}

func (c *Car1D) Speed() float64 { return c.speed }
func (c *Car1D) Boost() float64 { return c.boost }
func (c *Car1D) Distance() float64 { return c.dist }
func (c *Car1D) Time() float64 { return c.time }
