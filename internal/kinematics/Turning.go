package kinematics

// curvature of the tightest full-lock turn, sampled by speed
var turnCurve = []struct{ speed, curvature float64 }{
	{0, 0.0069},
	{500, 0.00398},
	{1000, 0.00235},
	{1500, 0.001375},
	{1750, 0.0011},
	{2300, 0.00088},
}

// Curvature returns 1/radius of a full-lock turn at the given speed, interpolating
// linearly between samples and holding the end values outside them.
func Curvature(speed float64) float64 {
	if speed <= turnCurve[0].speed {
		return turnCurve[0].curvature
	}
	for i := 1; i < len(turnCurve); i++ {
		lo, hi := turnCurve[i-1], turnCurve[i]
		if speed <= hi.speed {
			f := (speed - lo.speed) / (hi.speed - lo.speed)
			return lo.curvature + f*(hi.curvature-lo.curvature)
		}
	}
	return turnCurve[len(turnCurve)-1].curvature
}

// TurnRadius returns the radius of a full-lock turn at the given speed.
func TurnRadius(speed float64) float64 { return 1 / Curvature(speed) }
