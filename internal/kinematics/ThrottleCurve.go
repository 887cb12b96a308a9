package kinematics

import "math"

// ThrottleCurveModelName is the JSON discriminator string for the ThrottleCurve model.
const ThrottleCurveModelName = "throttle_curve"

// Throttle acceleration breakpoints. Throttle alone cannot push the car past
// ThrottleMaxSpeed; only boost reaches VMax.
const (
	ThrottleMaxSpeed = 1410.0
	throttleKnee     = 1400.0
	throttleBase     = 1600.0
	throttleTail     = 160.0
)

// integration sub-steps per AccelerateStep call
const throttleSubsteps = 4

// ThrottleCurve implements MotionModel with the game's piecewise-linear throttle
// response plus a constant boost acceleration.
//
// JSON discriminator: "model": "throttle_curve"
type ThrottleCurve struct {
	BoostAccel float64 `json:"boost_accel"` // uu/s²
	BrakeDecel float64 `json:"brake_decel"` // uu/s² (positive)
	VMaxVal    float64 `json:"v_max"`       // uu/s
}

// Default is the stock car.
var Default = ThrottleCurve{BoostAccel: 991.667, BrakeDecel: 3500, VMaxVal: 2300}

func (c ThrottleCurve) VMax() float64 { return c.VMaxVal }

// ThrottleAccel returns the acceleration from full throttle at speed v.
func (c ThrottleCurve) ThrottleAccel(v float64) float64 {
	switch {
	case v < throttleKnee:
		return throttleBase - (throttleBase-throttleTail)*math.Max(v, 0)/throttleKnee
	case v < ThrottleMaxSpeed:
		return throttleTail
	default:
		return 0
	}
}

func (c ThrottleCurve) BrakingDistanceTo(v, targetV float64) float64 {
	if c.BrakeDecel <= 0 {
		return math.Inf(1)
	}
	if v <= targetV {
		return 0
	}
	return (v*v - targetV*targetV) / (2 * c.BrakeDecel)
}

func (c ThrottleCurve) AccelerateStep(v, targetV, dt float64, boost bool) (float64, float64) {
	targetV = math.Min(targetV, c.VMaxVal)
	if v >= targetV {
		return targetV * dt, targetV
	}
	h := dt / throttleSubsteps
	var dist float64
	for range throttleSubsteps {
		a := c.ThrottleAccel(v)
		if boost {
			a += c.BoostAccel
		}
		nv := math.Min(v+a*h, targetV)
		dist += (v + nv) / 2 * h
		v = nv
	}
	return dist, v
}

func (c ThrottleCurve) DecelerateStep(v, targetV, dt float64) (float64, float64) {
	return ConstantAcceleration{ADcc: c.BrakeDecel, VMaxVal: c.VMaxVal}.DecelerateStep(v, targetV, dt)
}
