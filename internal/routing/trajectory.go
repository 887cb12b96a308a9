package routing

import (
	"math"

	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/strategy"
)

const (
	// how far ahead the stored and live predictions are compared
	trajectoryLookahead = 0.5
	// uu of disagreement that counts as a different trajectory
	trajectoryTolerance = 50.0
)

// SameBallTrajectory remembers the ball prediction from the first tick it sees
// and reports when a later prediction no longer agrees with it, which means
// something touched the ball.
//
// Frames are matched by index rather than by time: both predictions share the
// tick length, and an accumulated clock drifts across frame boundaries.
type SameBallTrajectory struct {
	origin  float64
	initial predict.Prediction
	armed   bool
}

// Check returns false once the live prediction has diverged.
func (s *SameBallTrajectory) Check(ctx *strategy.Context) bool {
	if !s.armed {
		s.origin, s.initial, s.armed = ctx.Time(), ctx.Ball, true
		return true
	}
	if s.initial.Len() == 0 {
		return true
	}
	step := s.initial.At(0).T
	elapsed := int(math.Round((ctx.Time() - s.origin) / step))
	ahead := max(int(math.Round(trajectoryLookahead/step))-1, 0)
	if elapsed+ahead >= s.initial.Len() || ahead >= ctx.Ball.Len() {
		return true
	}
	expected, actual := s.initial.At(elapsed+ahead), ctx.Ball.At(ahead)
	return expected.Loc.Sub(actual.Loc).Len() <= trajectoryTolerance
}
