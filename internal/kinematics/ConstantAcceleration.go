package kinematics

import "math"

// ConstantModelName is the JSON discriminator string for the Constant model.
const ConstantModelName = "constant"

// ConstantAcceleration implements MotionModel using fixed acceleration and deceleration rates.
// Handy for tests where closed-form distances are wanted.
//
// JSON discriminator: "model": "constant"
type ConstantAcceleration struct {
	AAcc    float64 `json:"a_acc"`   // throttle acceleration, uu/s²
	ABoost  float64 `json:"a_boost"` // extra acceleration while boosting, uu/s²
	ADcc    float64 `json:"a_dcc"`   // braking deceleration, uu/s² (positive)
	VMaxVal float64 `json:"v_max"`   // top speed, uu/s
}

func (c ConstantAcceleration) VMax() float64 { return c.VMaxVal }

func (c ConstantAcceleration) BrakingDistanceTo(v, targetV float64) float64 {
	if c.ADcc <= 0 {
		return math.Inf(1)
	}
	if v <= targetV {
		return 0
	}
	return (v*v - targetV*targetV) / (2 * c.ADcc)
}

func (c ConstantAcceleration) AccelerateStep(v, targetV, dt float64, boost bool) (float64, float64) {
	a := c.AAcc
	if boost {
		a += c.ABoost
	}
	targetV = math.Min(targetV, c.VMaxVal)
	if a <= 0 || v >= targetV {
		return targetV * dt, targetV
	}
	tToTarget := (targetV - v) / a
	if tToTarget <= dt {
		s1 := v*tToTarget + 0.5*a*tToTarget*tToTarget
		s2 := targetV * (dt - tToTarget)
		return s1 + s2, targetV
	}
	return v*dt + 0.5*a*dt*dt, v + a*dt
}

func (c ConstantAcceleration) DecelerateStep(v, targetV float64, dt float64) (float64, float64) {
	if c.ADcc <= 0 || v <= targetV {
		return targetV * dt, targetV
	}
	tToTarget := (v - targetV) / c.ADcc
	if tToTarget <= dt {
		s1 := v*tToTarget - 0.5*c.ADcc*tToTarget*tToTarget
		s2 := targetV * (dt - tToTarget)
		return math.Max(0, s1) + s2, targetV
	}
	return math.Max(0, v*dt-0.5*c.ADcc*dt*dt), v - c.ADcc*dt
}
