// Package kinematics defines the MotionModel interface for a car's straight-line
// traction, boost and braking physics, the built-in models, and the speed-dependent
// turning curve.
//
// Adding a new physics model requires only implementing MotionModel and registering it
// in the JSON discriminator in the sim package. Planners and the intercept search
// only ever talk to the interface.
package kinematics

// MotionModel is the physics contract every kinematics implementation must satisfy.
// Distances are in uu, velocities in uu/s and time in seconds.
type MotionModel interface {
	// VMax returns the car's top speed.
	VMax() float64

	// BrakingDistanceTo returns the distance needed to decelerate from v to targetV.
	// Returns 0 if v ≤ targetV.
	BrakingDistanceTo(v, targetV float64) float64

	// AccelerateStep drives the car toward targetV over dt seconds at full throttle,
	// with boost if requested. If targetV is reached before dt expires the car
	// cruises at targetV for the remainder.
	// Returns (distance travelled, new velocity).
	AccelerateStep(v, targetV, dt float64, boost bool) (dist, newV float64)

	// DecelerateStep brakes the car toward targetV (≥ 0) over dt seconds.
	// Returns (distance travelled, new velocity).
	DecelerateStep(v, targetV, dt float64) (dist, newV float64)
}
