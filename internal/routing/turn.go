package routing

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/geom"
	"github.com/cxd309/pilot-engine/internal/kinematics"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

const (
	// turnTolerance is both the heading error at which a turn counts as done and
	// the slack allowed on the swept angle.
	turnTolerance = 3 * math.Pi / 180
	// a measured sweep this large means the car went the wrong way around
	degenerateSweep = 11 * math.Pi / 6
	// turns are timed as if the car were at least this fast
	turnMinSpeed = 800.0
)

// Turn is a full-lock arc of radius around center, sweeping a signed angle
// (counter-clockwise positive) until the car points at target.
type Turn struct {
	start  world.CarState
	target mgl64.Vec2
	center mgl64.Vec2
	radius float64
	sweep  float64
}

// NewTurn builds the arc from start to endLoc around center. direction (+1 for
// counter-clockwise, -1 for clockwise) decides which way round the circle the
// sweep goes.
func NewTurn(start world.CarState, target, center mgl64.Vec2, radius float64, endLoc mgl64.Vec2, direction float64) Turn {
	sweep := geom.AngleTo(start.Loc2D().Sub(center), endLoc.Sub(center))
	if direction > 0 && sweep < 0 {
		sweep += 2 * math.Pi
	} else if direction < 0 && sweep > 0 {
		sweep -= 2 * math.Pi
	}
	return Turn{start: start, target: target, center: center, radius: radius, sweep: sweep}
}

func (t Turn) Name() string { return "Turn" }
func (t Turn) Start() world.CarState { return t.start }
func (t Turn) Center() mgl64.Vec2 { return t.center }
func (t Turn) Radius() float64 { return t.radius }
func (t Turn) Sweep() float64 { return t.sweep }

func (t Turn) End() world.CarState {
	s := t.start
	s.Loc = geom.Lift(geom.RotateAbout(s.Loc2D(), t.center, t.sweep), s.Loc.Z())
	s.Vel = geom.Lift(geom.Rotate(s.Vel2D(), t.sweep), s.Vel.Z())
	s.Yaw = geom.NormalizeAngle(s.Yaw + t.sweep)
	return s
}

func (t Turn) Duration() float64 {
	speed := math.Max(t.start.Speed(), turnMinSpeed)
	return t.radius * math.Abs(t.sweep) / speed
}

func (t Turn) Shape() []eeg.Drawable {
	theta1 := geom.Angle(t.start.Loc2D().Sub(t.center))
	theta2 := theta1 + t.sweep
	return []eeg.Drawable{eeg.Arc(t.center, t.radius, math.Min(theta1, theta2), math.Max(theta1, theta2), eeg.Blue)}
}

func (t Turn) Run() SegmentRunner { return &turner{plan: t} }

// sweptTo is the signed angle already covered when the car is at loc, measured
// in the turn's direction.
func (t Turn) sweptTo(loc mgl64.Vec2) float64 {
	swept := geom.AngleTo(t.start.Loc2D().Sub(t.center), loc.Sub(t.center))
	if t.sweep >= 0 && swept < 0 {
		swept += 2 * math.Pi
	} else if t.sweep < 0 && swept > 0 {
		swept -= 2 * math.Pi
	}
	return swept
}

type turner struct {
	plan Turn
}

func (r *turner) Name() string { return "Turner" }

func (r *turner) Execute(ctx *strategy.Context) SegmentRunAction {
	me := ctx.Me()
	if !me.OnFlatGround() {
		ctx.EEG.Log(r.Name(), "not on flat ground")
		return segmentFailure
	}

	yawDiff := me.YawTo(r.plan.target)
	if math.Abs(yawDiff) < turnTolerance {
		return segmentSuccess
	}

	swept := r.plan.sweptTo(me.Loc2D())
	if math.Abs(swept) >= degenerateSweep {
		ctx.EEG.Logf(r.Name(), "degenerate sweep %.0f°", swept*180/math.Pi)
		ctx.EEG.Draw(eeg.Print("degenerate sweep", eeg.Red))
	} else if math.Abs(swept) >= math.Abs(r.plan.sweep)-turnTolerance {
		return segmentSuccess
	}

	ctx.EEG.Draw(eeg.Crosshair(r.plan.target, eeg.Blue))
	return segmentYield(world.Input{Throttle: 1, Steer: geom.Sign(yawDiff)})
}

// TurnPlanner turns at full lock until the car faces target. When target is
// across a goal wall it first detours around the post.
type TurnPlanner struct {
	target  mgl64.Vec2
	next    RoutePlanner
	pathing bool
}

// NewTurnPlanner plans a turn toward target followed by next (which may be nil).
func NewTurnPlanner(target mgl64.Vec2, next RoutePlanner) TurnPlanner {
	return TurnPlanner{target: target, next: next, pathing: true}
}

// newBareTurnPlanner skips the goal-wall check; detour legs use it.
func newBareTurnPlanner(target mgl64.Vec2, next RoutePlanner) TurnPlanner {
	return TurnPlanner{target: target, next: next}
}

func (p TurnPlanner) Name() string { return "TurnPlanner" }

func (p TurnPlanner) Plan(ctx PlanningContext) (RoutePlan, error) {
	if err := guardFlatGround(ctx.Start); err != nil {
		return RoutePlan{}, err
	}
	if p.pathing {
		if detour := AvoidGoalWall(ctx.Start, p.target); detour != nil {
			return ctx.Plan(Chain(detour, newBareTurnPlanner(p.target, p.next)))
		}
	}

	start := ctx.Start
	yawDiff := start.YawTo(p.target)
	if math.Abs(yawDiff) < turnTolerance {
		if p.next != nil {
			return ctx.Plan(p.next)
		}
		return RoutePlan{Segment: Hold(start)}, nil
	}

	dir := geom.Sign(yawDiff)
	loc := start.Loc2D()
	radius := kinematics.TurnRadius(start.Speed())
	center := loc.Add(geom.Perp(start.Forward2D()).Mul(dir * radius))

	toTarget := p.target.Sub(center)
	dist := toTarget.Len()
	if dist <= radius {
		return RoutePlan{}, &PlanError{Kind: ErrTurnTooTight}
	}
	// Tangent point: counter-clockwise turns leave the circle at φ - acos(r/d),
	// clockwise turns at φ + acos(r/d).
	tangent := geom.Angle(toTarget) - dir*math.Acos(radius/dist)
	endLoc := center.Add(geom.Unit(tangent).Mul(radius))

	return RoutePlan{
		Segment: NewTurn(start, p.target, center, radius, endLoc, dir),
		Next:    p.next,
	}, nil
}
