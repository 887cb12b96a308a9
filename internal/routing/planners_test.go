package routing

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/geom"
	"github.com/cxd309/pilot-engine/internal/kinematics"
	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/world"
)

func TestTurnThenStraightIsContinuous(t *testing.T) {
	target := mgl64.Vec2{1000, 1000}
	ctx := planningFor(newWorld(carAt(0, 0, math.Pi/2), restingBall(0, 3000)))

	plan, err := ctx.Plan(DriveTo(target, false))
	require.NoError(t, err)
	turn, ok := plan.Segment.(Turn)
	require.True(t, ok, "first segment is %s", plan.Segment.Name())
	assert.Negative(t, turn.Sweep(), "target is to the right")
	assert.InDelta(t, 0, turn.End().YawTo(target), 1e-6)

	tail, err := plan.ProvisionalExpand(ctx)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	straight, ok := tail[0].(Straight)
	require.True(t, ok)
	assert.True(t, world.CloseTo(turn.End(), straight.Start(), continuityTolerance))
	assert.Equal(t, target, straight.EndLoc())
	assert.Equal(t, Asap, straight.Mode())
	assert.Positive(t, straight.Duration())
}

func TestTurnPlannerAlignedSkipsTurn(t *testing.T) {
	ctx := planningFor(newWorld(carAt(0, 0, math.Pi/2), restingBall(0, 3000)))

	plan, err := ctx.Plan(NewTurnPlanner(mgl64.Vec2{0, 2000}, StraightTo(mgl64.Vec2{0, 2000}, true)))
	require.NoError(t, err)
	assert.IsType(t, Straight{}, plan.Segment)

	plan, err = ctx.Plan(NewTurnPlanner(mgl64.Vec2{0, 2000}, nil))
	require.NoError(t, err)
	assert.Equal(t, "Hold", plan.Segment.Name())
	assert.Zero(t, plan.Segment.Duration())
}

func TestTurnTooTight(t *testing.T) {
	car := carAt(0, 0, 0)
	car.Vel = mgl64.Vec3{2000, 0, 0}
	ctx := planningFor(newWorld(car, restingBall(0, 3000)))

	// Just to the left, well inside a ~1000 uu turning circle.
	_, err := ctx.Plan(NewTurnPlanner(mgl64.Vec2{100, 400}, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, &PlanError{Kind: ErrTurnTooTight})
	assert.Contains(t, err.Error(), "TurnPlanner")
}

func TestTurnSweepMatchesGeometry(t *testing.T) {
	car := carAt(0, 0, 0)
	car.Vel = mgl64.Vec3{kinematics.ThrottleMaxSpeed, 0, 0}
	r := kinematics.TurnRadius(kinematics.ThrottleMaxSpeed)
	ctx := planningFor(newWorld(car, restingBall(-3000, 0)))

	plan, err := ctx.Plan(NewTurnPlanner(mgl64.Vec2{r, r + 3000}, nil))
	require.NoError(t, err)
	turn := plan.Segment.(Turn)
	assert.InDelta(t, math.Pi/2, turn.Sweep(), 1e-9)
	assert.InDelta(t, r, turn.Radius(), 1e-9)
	assert.InDelta(t, 0, turn.Center().Sub(mgl64.Vec2{0, r}).Len(), 1e-9)
	assert.InDelta(t, r*math.Pi/2/kinematics.ThrottleMaxSpeed, turn.Duration(), 1e-9)

	end := turn.End()
	assert.InDelta(t, r, end.Loc.X(), 1e-6)
	assert.InDelta(t, r, end.Loc.Y(), 1e-6)
	assert.InDelta(t, math.Pi/2, end.Yaw, 1e-9)
}

func TestTurnCompletesInSimulation(t *testing.T) {
	car := carAt(0, 0, 0)
	car.Vel = mgl64.Vec3{kinematics.ThrottleMaxSpeed, 0, 0}
	r := kinematics.TurnRadius(kinematics.ThrottleMaxSpeed)
	w := newWorld(car, restingBall(-3000, 0))

	plan, err := planningFor(w).Plan(NewTurnPlanner(mgl64.Vec2{r, r + 3000}, nil))
	require.NoError(t, err)
	runner := plan.Segment.Run()

	ticks := 0
	for ; ticks < 120; ticks++ {
		res := runner.Execute(contextFor(w, nil))
		if res.Outcome != SegmentYield {
			require.Equal(t, SegmentSuccess, res.Outcome)
			break
		}
		assert.Equal(t, 1.0, res.Input.Steer)
		w.Step(tick, res.Input)
	}
	require.Less(t, ticks, 120, "turn never finished")
	assert.InDelta(t, plan.Segment.Duration(), float64(ticks)*tick, 0.1)
	assert.Less(t, math.Abs(degrees(w.Car.Yaw-math.Pi/2)), 3.0)
}

func TestTurnFailsOffTheGround(t *testing.T) {
	w := newWorld(carAt(0, 0, 0), restingBall(-3000, 0))
	plan, err := planningFor(w).Plan(NewTurnPlanner(mgl64.Vec2{0, 2000}, nil))
	require.NoError(t, err)
	runner := plan.Segment.Run()

	ctx := contextFor(w, nil)
	ctx.Packet.Car.OnGround = false
	assert.Equal(t, SegmentFailure, runner.Execute(ctx).Outcome)
}

func TestTurnDegenerateSweepKeepsTurning(t *testing.T) {
	start := carAt(0, 0, 0)
	center := mgl64.Vec2{0, 1000}
	turn := NewTurn(start, mgl64.Vec2{1000, 5000}, center, 1000, mgl64.Vec2{1000, 1000}, 1)
	require.InDelta(t, math.Pi/2, turn.Sweep(), 1e-9)

	// Just behind the start of the arc, so the swept angle wraps to almost a full turn.
	behind := geom.RotateAbout(start.Loc2D(), center, -3*math.Pi/180)
	w := newWorld(carAt(behind.X(), behind.Y(), 0), restingBall(-3000, 0))
	rec := eeg.NewRecorder()
	sink := eeg.New(eeg.Options{Consumers: []eeg.Consumer{rec}})

	res := turn.Run().Execute(contextFor(w, sink))
	sink.Show(w.Packet())
	sink.Close()

	require.Equal(t, SegmentYield, res.Outcome)
	assert.Equal(t, 1.0, res.Input.Steer)
	frames := rec.Snapshot()
	require.Len(t, frames, 1)
	logged := false
	for _, l := range frames[0].Logs {
		logged = logged || (l.Category == "Turner" && strings.HasPrefix(l.Message, "degenerate sweep"))
	}
	assert.True(t, logged, "logs: %v", frames[0].Logs)
}

func TestGuardsComeFirst(t *testing.T) {
	airborne := carAt(0, 0, 0)
	airborne.Loc = mgl64.Vec3{0, 0, 400}
	airborne.OnGround = false
	ctx := planningFor(newWorld(airborne, restingBall(0, 2000)))

	for _, p := range []RoutePlanner{DriveTo(mgl64.Vec2{0, 1000}, true), GroundIntercept{}, StraightTo(mgl64.Vec2{0, 1000}, true)} {
		_, err := ctx.Plan(p)
		assert.ErrorIs(t, err, &PlanError{Kind: ErrMustBeOnFlatGround}, p.Name())
	}
}

func TestSkiddingRedirectsRecovery(t *testing.T) {
	car := carAt(0, 0, math.Pi/2)
	car.Vel = mgl64.Vec3{900, 200, 0}
	require.True(t, car.Skidding())
	ctx := planningFor(newWorld(car, restingBall(0, 2000)))

	target := mgl64.Vec2{-1500, 2500}
	_, err := ctx.Plan(DriveTo(target, false))
	pe, ok := AsPlanError(err)
	require.True(t, ok)
	assert.Equal(t, ErrMustNotBeSkidding, pe.Kind)
	assert.Equal(t, target, pe.RecoverTargetLoc)
	assert.True(t, pe.Kind.Recoverable())

	_, err = ctx.Plan(GroundIntercept{})
	pe, ok = AsPlanError(err)
	require.True(t, ok)
	assert.Equal(t, ErrMustNotBeSkidding, pe.Kind)
	assert.NotEqual(t, mgl64.Vec2{}, pe.RecoverTargetLoc)
}

func TestGroundInterceptPlan(t *testing.T) {
	ball := world.BallState{Loc: mgl64.Vec3{500, 2000, 578}, Vel: mgl64.Vec3{0, -600, 0}}
	ctx := planningFor(newWorld(carAt(0, 0, math.Pi/2), ball))

	plan, err := ctx.Plan(GroundIntercept{})
	require.NoError(t, err)
	assert.Equal(t, "Turn", plan.Segment.Name())
	require.NotNil(t, plan.Next)
	assert.Equal(t, "GroundInterceptStraight", plan.Next.Name())

	tail, err := plan.ProvisionalExpand(ctx)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	straight, ok := tail[0].(Straight)
	require.True(t, ok)
	assert.Equal(t, Fake, straight.Mode())
	assert.Positive(t, straight.Duration())

	// The approach ends one contact radius short of where the ball will be.
	contact, ok := ctx.Ball.AtTime(plan.Segment.Duration() + straight.arrival)
	require.True(t, ok)
	assert.InDelta(t, predict.ContactRadius, straight.EndLoc().Sub(geom.Flatten(contact.Loc)).Len(), 30)
}

func TestGroundInterceptUnknown(t *testing.T) {
	ctx := planningFor(newWorld(carAt(0, 0, math.Pi/2), restingBall(0, 2000)))
	ctx.Intercept = func(predict.Frame) bool { return false }

	_, err := ctx.Plan(GroundIntercept{})
	assert.ErrorIs(t, err, &PlanError{Kind: ErrUnknownIntercept})
	pe, _ := AsPlanError(err)
	assert.False(t, pe.Kind.Recoverable())
}

func TestChain(t *testing.T) {
	assert.Nil(t, Chain())
	assert.Nil(t, Chain(nil, nil))
	single := StraightTo(mgl64.Vec2{0, 100}, false)
	assert.Equal(t, RoutePlanner(single), Chain(nil, single))

	c := Chain(holdPlanner{}, single)
	assert.Equal(t, "Chain(HoldPlanner, GroundStraightPlanner)", c.Name())

	_, err := ChainedPlanner{}.Plan(PlanningContext{})
	assert.ErrorIs(t, err, &PlanError{Kind: ErrEmptyChain})
}

func TestChainDefersInnerNextFirst(t *testing.T) {
	ctx := planningFor(newWorld(carAt(0, 0, math.Pi/2), restingBall(0, 3000)))
	inner := fixedPlanner{name: "inner", next: fixedPlanner{name: "inner-next"}}
	plan, err := ctx.Plan(Chain(inner, fixedPlanner{name: "outer"}))
	require.NoError(t, err)
	assert.Equal(t, "Chain(inner-next, outer)", plan.Next.Name())

	tail, err := plan.ProvisionalExpand(ctx)
	require.NoError(t, err)
	assert.Len(t, tail, 2)
}

func TestDiscontinuousSegmentRejected(t *testing.T) {
	ctx := planningFor(newWorld(carAt(0, 0, math.Pi/2), restingBall(0, 3000)))
	jumpy := plannerFunc(func(c PlanningContext) (RoutePlan, error) {
		s := c.Start
		s.Loc = s.Loc.Add(mgl64.Vec3{10, 0, 0})
		return RoutePlan{Segment: Hold(s)}, nil
	})
	_, err := ctx.Plan(jumpy)
	assert.ErrorIs(t, err, &PlanError{Kind: ErrDiscontinuous})
}

func TestExpansionReportsFailingStep(t *testing.T) {
	ctx := planningFor(newWorld(carAt(0, 0, math.Pi/2), restingBall(0, 3000)))
	bad := fixedPlanner{name: "bad", err: &PlanError{Kind: ErrUnknownIntercept}}
	plan, err := ctx.Plan(Chain(holdPlanner{}, holdPlanner{}, bad))
	require.NoError(t, err)

	_, err = plan.ProvisionalExpand(ctx)
	var ee *ExpansionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.Step)
	assert.ErrorIs(t, err, &PlanError{Kind: ErrUnknownIntercept})
}

func TestExpansionIsBounded(t *testing.T) {
	ctx := planningFor(newWorld(carAt(0, 0, math.Pi/2), restingBall(0, 3000)))
	var forever RoutePlanner
	forever = plannerFunc(func(c PlanningContext) (RoutePlan, error) {
		return RoutePlan{Segment: Hold(c.Start), Next: forever}, nil
	})
	plan, err := ctx.Plan(forever)
	require.NoError(t, err)
	_, err = plan.ProvisionalExpand(ctx)
	assert.ErrorIs(t, err, &PlanError{Kind: ErrExpansionTooLong})
}

func TestAvoidGoalWall(t *testing.T) {
	assert.Nil(t, AvoidGoalWall(carAt(0, 0, 0), mgl64.Vec2{2000, 3000}), "open field")
	assert.Nil(t, AvoidGoalWall(carAt(0, -5400, 0), mgl64.Vec2{500, -4000}), "straight out of the mouth")

	car := carAt(0, -5400, math.Pi/2)
	target := mgl64.Vec2{4000, -4500}
	require.NotNil(t, AvoidGoalWall(car, target))

	wps, ok := goalWallWaypoints(car.Loc2D(), target, -1)
	require.True(t, ok)
	require.Len(t, wps, 1)
	assert.InDelta(t, world.GoalpostX-postMargin, wps[0].X(), 1e-9)
	assert.InDelta(t, -(world.FieldMaxY - postMargin), wps[0].Y(), 1e-9)

	ctx := planningFor(newWorld(car, restingBall(0, 0)))
	plan, err := ctx.Plan(NewTurnPlanner(target, nil))
	require.NoError(t, err)
	assert.Equal(t, "Turn", plan.Segment.Name())
	tail, err := plan.ProvisionalExpand(ctx)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	straight, ok := tail[0].(Straight)
	require.True(t, ok)
	assert.Equal(t, wps[0], straight.EndLoc())
}

func TestCrossesGoalWall(t *testing.T) {
	assert.True(t, crossesGoalWall(mgl64.Vec2{2000, 4000}, mgl64.Vec2{2000, 5500}, 1, world.GoalpostX))
	assert.False(t, crossesGoalWall(mgl64.Vec2{0, 4000}, mgl64.Vec2{0, 5500}, 1, world.GoalpostX))
	assert.False(t, crossesGoalWall(mgl64.Vec2{2000, 0}, mgl64.Vec2{2000, 4000}, 1, world.GoalpostX))
}

func TestStraightArrivingPacesToTime(t *testing.T) {
	ctx := planningFor(newWorld(carAt(0, 0, math.Pi/2), restingBall(0, 3000)))
	plan, err := ctx.Plan(StraightArriving(mgl64.Vec2{0, 1000}, 2, 0.5))
	require.NoError(t, err)
	s := plan.Segment.(Straight)
	assert.Equal(t, Fake, s.Mode())
	assert.InDelta(t, 1.5, s.Duration(), 1e-9)
	assert.InDelta(t, 500, s.End().Speed(), 1e-9)
	assert.Equal(t, 100.0, s.End().Boost, "no boost needed below throttle speed")
}

func TestStraightAsapReachesEnd(t *testing.T) {
	w := newWorld(carAt(0, 0, math.Pi/2), restingBall(3000, 0))
	plan, err := planningFor(w).Plan(StraightTo(mgl64.Vec2{0, 2000}, true))
	require.NoError(t, err)
	runner := plan.Segment.Run()

	for i := 0; ; i++ {
		require.Less(t, i, 300)
		res := runner.Execute(contextFor(w, nil))
		if res.Outcome == SegmentSuccess {
			break
		}
		require.Equal(t, SegmentYield, res.Outcome)
		w.Step(tick, res.Input)
	}
	assert.GreaterOrEqual(t, w.Car.Loc.Y(), 2000-straightArrival)
	assert.InDelta(t, plan.Segment.Duration(), w.Time, 0.2)
}
