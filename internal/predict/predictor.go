// Package predict forecasts the ball's near-future trajectory and searches it for
// points the car can reach.
//
// A prediction is recomputed from the observed ball state every tick; nothing is
// carried between ticks.
package predict

import (
	"iter"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/world"
)

// Frame is the ball's predicted state at one future instant.
type Frame struct {
	T      float64    `json:"t"` // seconds from the prediction's origin
	Loc    mgl64.Vec3 `json:"loc"`
	Vel    mgl64.Vec3 `json:"vel"`
	AngVel mgl64.Vec3 `json:"ang_vel"`
}

// Predictor produces fixed-step ball predictions over a bounded horizon.
type Predictor struct {
	Step    float64 // seconds per frame
	Horizon float64 // seconds
}

// DefaultPredictor matches the 60 Hz game tick over six seconds.
var DefaultPredictor = Predictor{Step: 1.0 / 60, Horizon: 6}

// Steps is the maximum number of frames a prediction holds.
func (p Predictor) Steps() int {
	if p.Step <= 0 || p.Horizon <= 0 {
		return 0
	}
	return int(math.Round(p.Horizon / p.Step))
}

// Seq lazily simulates the ball from start. The first frame is one step after
// start. The sequence ends early if the ball is scored. Each call to the returned
// iterator restarts the simulation, so it can be ranged over any number of times.
func (p Predictor) Seq(start world.BallState) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		b := NewBall(start)
		for i := 1; i <= p.Steps(); i++ {
			b.Step(p.Step)
			s := b.State()
			if !yield(Frame{T: float64(i) * p.Step, Loc: s.Loc, Vel: s.Vel, AngVel: s.AngVel}) {
				return
			}
			if b.Scored() {
				return
			}
		}
	}
}

// Predict materialises the full sequence.
func (p Predictor) Predict(start world.BallState) Prediction {
	return Prediction{frames: slices.Collect(p.Seq(start))}
}

// Prediction is an immutable, time-ordered run of frames.
type Prediction struct {
	frames []Frame
}

func (p Prediction) Len() int { return len(p.frames) }

// At returns the i-th frame.
func (p Prediction) At(i int) Frame { return p.frames[i] }

// All iterates the frames in order.
func (p Prediction) All() iter.Seq[Frame] { return slices.Values(p.frames) }

// Last returns the final frame.
func (p Prediction) Last() (Frame, bool) {
	if len(p.frames) == 0 {
		return Frame{}, false
	}
	return p.frames[len(p.frames)-1], true
}

// AtTime returns the first frame at or after t.
func (p Prediction) AtTime(t float64) (Frame, bool) {
	i, _ := slices.BinarySearchFunc(p.frames, t, func(f Frame, t float64) int {
		switch {
		case f.T < t:
			return -1
		case f.T > t:
			return 1
		}
		return 0
	})
	if i >= len(p.frames) {
		return Frame{}, false
	}
	return p.frames[i], true
}

// Since returns the frames strictly after t, rebased so that t becomes the new
// origin. A non-positive t returns the prediction unchanged.
func (p Prediction) Since(t float64) Prediction {
	if t <= 0 {
		return p
	}
	i := 0
	for i < len(p.frames) && p.frames[i].T <= t {
		i++
	}
	out := make([]Frame, len(p.frames)-i)
	for j, f := range p.frames[i:] {
		f.T -= t
		out[j] = f
	}
	return Prediction{frames: out}
}
