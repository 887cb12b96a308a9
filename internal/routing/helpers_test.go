package routing

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/sim"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

const tick = 1.0 / 60

func carAt(x, y, yaw float64) world.CarState {
	return world.CarState{Loc: mgl64.Vec3{x, y, world.CarRestZ}, Yaw: yaw, Boost: 100, OnGround: true}
}

func restingBall(x, y float64) world.BallState {
	return world.BallState{Loc: mgl64.Vec3{x, y, world.BallRadius}}
}

func newWorld(car world.CarState, ball world.BallState) *sim.World {
	return sim.NewWorld(sim.Scenario{Car: car, Ball: ball})
}

func contextFor(w *sim.World, sink *eeg.EEG) *strategy.Context {
	return strategy.NewContext(w.Packet(), predict.DefaultPredictor.Predict(w.Ball()), w.Model(), nil, sink)
}

func planningFor(w *sim.World) PlanningContext {
	return NewPlanningContext(contextFor(w, nil))
}

// fixedPlanner returns a canned result and counts how often it is asked.
type fixedPlanner struct {
	name  string
	next  RoutePlanner
	err   error
	calls *int
	runs  *int
}

func (p fixedPlanner) Name() string { return p.name }

func (p fixedPlanner) Plan(ctx PlanningContext) (RoutePlan, error) {
	if p.calls != nil {
		*p.calls++
	}
	if p.err != nil {
		return RoutePlan{}, p.err
	}
	return RoutePlan{Segment: countingSegment{at: ctx.Start, dur: 0.25, runs: p.runs}, Next: p.next}, nil
}

// countingSegment succeeds on its first tick and counts how often it was run.
type countingSegment struct {
	at   world.CarState
	dur  float64
	runs *int
}

func (s countingSegment) Name() string { return "Counting" }
func (s countingSegment) Start() world.CarState { return s.at }
func (s countingSegment) End() world.CarState { return s.at }
func (s countingSegment) Duration() float64 { return s.dur }
func (s countingSegment) Shape() []eeg.Drawable { return nil }

func (s countingSegment) Run() SegmentRunner {
	if s.runs != nil {
		*s.runs++
	}
	return Hold(s.at).Run()
}

type plannerFunc func(PlanningContext) (RoutePlan, error)

func (plannerFunc) Name() string { return "plannerFunc" }
func (f plannerFunc) Plan(ctx PlanningContext) (RoutePlan, error) { return f(ctx) }

// holdPlanner always plans a zero-length segment where the car is.
type holdPlanner struct{}

func (holdPlanner) Name() string { return "HoldPlanner" }

func (holdPlanner) Plan(ctx PlanningContext) (RoutePlan, error) {
	return RoutePlan{Segment: Hold(ctx.Start)}, nil
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
