package routing

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/geom"
	"github.com/cxd309/pilot-engine/internal/kinematics"
	"github.com/cxd309/pilot-engine/internal/mechanics"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

// StraightMode selects how a straight segment is driven and when it ends.
type StraightMode int

const (
	// Asap drives flat out and ends on arrival.
	Asap StraightMode = iota
	// Fake paces the car to arrive on time but ends after a fixed duration,
	// handing over to whatever behavior makes the final approach.
	Fake
)

func (m StraightMode) String() string {
	if m == Fake {
		return "fake"
	}
	return "asap"
}

const (
	straightPlanStep   = 1.0 / 120
	straightMaxTime    = 10.0
	straightArrival    = 50.0 // uu short of the end that counts as arrived
	straightGrace      = 1.0  // seconds an Asap straight may overrun its estimate
	straightBoostAngle = 15 * math.Pi / 180
)

// Straight drives from start to endLoc.
type Straight struct {
	start     world.CarState
	endLoc    mgl64.Vec2
	duration  float64
	arrival   float64 // Fake: seconds after start the car should reach endLoc
	endSpeed  float64
	boostUsed float64
	mode      StraightMode
	boost     bool
}

func (s Straight) Name() string { return "Straight(" + s.mode.String() + ")" }
func (s Straight) Start() world.CarState { return s.start }
func (s Straight) Duration() float64 { return s.duration }
func (s Straight) Mode() StraightMode { return s.mode }
func (s Straight) EndLoc() mgl64.Vec2 { return s.endLoc }

func (s Straight) heading() mgl64.Vec2 {
	return geom.Direction(s.start.Loc2D(), s.endLoc, s.start.Forward2D())
}

func (s Straight) End() world.CarState {
	h := s.heading()
	e := s.start
	e.Loc = geom.Lift(s.endLoc, s.start.Loc.Z())
	e.Vel = geom.Lift(h.Mul(s.endSpeed), 0)
	e.AngVel = mgl64.Vec3{}
	e.Yaw = geom.Angle(h)
	e.Boost = math.Max(0, s.start.Boost-s.boostUsed)
	return e
}

func (s Straight) Shape() []eeg.Drawable {
	return []eeg.Drawable{eeg.Line(s.start.Loc2D(), s.endLoc, eeg.Green)}
}

func (s Straight) Run() SegmentRunner { return &straighter{plan: s} }

type straighter struct {
	plan      Straight
	started   bool
	startTime float64
}

func (r *straighter) Name() string { return "Straighter" }

func (r *straighter) Execute(ctx *strategy.Context) SegmentRunAction {
	me := ctx.Me()
	if !me.OnFlatGround() {
		ctx.EEG.Log(r.Name(), "not on flat ground")
		return segmentFailure
	}
	if !r.started {
		r.started, r.startTime = true, ctx.Time()
	}
	elapsed := ctx.Time() - r.startTime
	remaining := r.plan.endLoc.Sub(me.Loc2D()).Dot(r.plan.heading())

	switch r.plan.mode {
	case Fake:
		if elapsed >= r.plan.duration {
			return segmentSuccess
		}
	case Asap:
		if remaining <= straightArrival {
			return segmentSuccess
		}
		if elapsed > r.plan.duration+straightGrace {
			ctx.EEG.Logf(r.Name(), "overran estimate of %.2fs", r.plan.duration)
			return segmentFailure
		}
	}

	in := world.Input{Throttle: 1, Steer: mechanics.SteerToward(me, r.plan.endLoc)}
	aligned := math.Abs(me.YawTo(r.plan.endLoc)) < straightBoostAngle
	switch r.plan.mode {
	case Asap:
		in.Boost = r.plan.boost && aligned
	case Fake:
		speed := me.ForwardSpeed()
		required := remaining / math.Max(r.plan.arrival-elapsed, 1.0/60)
		switch {
		case speed > required && ctx.Model.BrakingDistanceTo(speed, required) >= remaining:
			in.Throttle = -1
		case speed > required:
			in.Throttle = 0
		default:
			in.Boost = aligned && required > kinematics.ThrottleMaxSpeed
		}
	}
	return segmentYield(in)
}

// GroundStraightPlanner plans a straight drive to a point.
type GroundStraightPlanner struct {
	target     mgl64.Vec2
	targetTime float64
	endChop    float64
	mode       StraightMode
	allowBoost bool
}

// StraightTo drives flat out to target.
func StraightTo(target mgl64.Vec2, allowBoost bool) GroundStraightPlanner {
	return GroundStraightPlanner{target: target, mode: Asap, allowBoost: allowBoost}
}

// StraightArriving paces the car to reach target targetTime seconds from now
// and ends the segment endChop seconds early.
func StraightArriving(target mgl64.Vec2, targetTime, endChop float64) GroundStraightPlanner {
	return GroundStraightPlanner{target: target, targetTime: targetTime, endChop: endChop, mode: Fake, allowBoost: true}
}

func (p GroundStraightPlanner) Name() string { return "GroundStraightPlanner" }

func (p GroundStraightPlanner) Plan(ctx PlanningContext) (RoutePlan, error) {
	if err := guardFlatGround(ctx.Start); err != nil {
		return RoutePlan{}, err
	}
	start := ctx.Start
	dist := p.target.Sub(start.Loc2D()).Len()
	car := kinematics.NewCar1D(ctx.Model, start.ForwardSpeed(), start.Boost)

	seg := Straight{start: start, endLoc: p.target, mode: p.mode, boost: p.allowBoost}
	switch p.mode {
	case Asap:
		for car.Distance() < dist && car.Time() < straightMaxTime {
			car.Step(straightPlanStep, 1, p.allowBoost)
		}
		seg.duration = car.Time()
		seg.endSpeed = car.Speed()
	case Fake:
		seg.arrival = math.Max(p.targetTime, 0)
		seg.duration = math.Max(p.targetTime-p.endChop, 0)
		if seg.arrival > 0 {
			seg.endSpeed = math.Min(dist/seg.arrival, ctx.Model.VMax())
		}
		// Rough boost estimate: full boost for the share of the trip above throttle speed.
		for car.Time() < seg.duration && car.Speed() < seg.endSpeed {
			car.Step(straightPlanStep, 1, seg.endSpeed > kinematics.ThrottleMaxSpeed)
		}
	}
	seg.boostUsed = start.Boost - car.Boost()
	return RoutePlan{Segment: seg}, nil
}

// Hold is a zero-length segment that succeeds immediately. Planners return it when
// the car already satisfies the goal.
func Hold(at world.CarState) SegmentPlan { return hold{at: at} }

type hold struct {
	at world.CarState
}

func (h hold) Name() string { return "Hold" }
func (h hold) Start() world.CarState { return h.at }
func (h hold) End() world.CarState { return h.at }
func (h hold) Duration() float64 { return 0 }
func (h hold) Shape() []eeg.Drawable { return nil }
func (h hold) Run() SegmentRunner { return h }
func (h hold) Execute(*strategy.Context) SegmentRunAction { return segmentSuccess }
