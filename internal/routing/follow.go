package routing

import (
	"fmt"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/strategy"
)

// DefaultMaxSegmentsPerTick bounds how many segments may finish within one tick.
const DefaultMaxSegmentsPerTick = 8

// routeState is either notStarted or running.
type routeState interface{ isRouteState() }

type notStarted struct {
	planner RoutePlanner
}

type running struct {
	plan      RoutePlan
	runner    SegmentRunner
	startedAt float64 // game time the segment was committed
}

func (notStarted) isRouteState() {}
func (running) isRouteState() {}

// FollowRoute is the behavior that plans a route and drives it segment by segment.
type FollowRoute struct {
	state        routeState
	neverRecover bool
	maxSegments  int
	trajectory   *SameBallTrajectory
}

// NewFollowRoute follows the route planner produces.
func NewFollowRoute(planner RoutePlanner) *FollowRoute {
	return &FollowRoute{state: notStarted{planner: planner}, maxSegments: DefaultMaxSegmentsPerTick}
}

// NeverRecover makes recoverable planning errors abort instead of starting a
// recovery. Recovery behaviors set it on their own routes.
func (f *FollowRoute) NeverRecover() *FollowRoute {
	f.neverRecover = true
	return f
}

// SameBallTrajectory aborts the route if the ball's predicted path changes.
func (f *FollowRoute) SameBallTrajectory() *FollowRoute {
	f.trajectory = &SameBallTrajectory{}
	return f
}

// MaxSegmentsPerTick overrides DefaultMaxSegmentsPerTick when n > 0.
func (f *FollowRoute) MaxSegmentsPerTick(n int) *FollowRoute {
	if n > 0 {
		f.maxSegments = n
	}
	return f
}

func (f *FollowRoute) Name() string { return "FollowRoute" }
func (f *FollowRoute) Priority() strategy.Priority { return strategy.Idle }

func (f *FollowRoute) Execute(ctx *strategy.Context) strategy.Action {
	if f.trajectory != nil && !f.trajectory.Check(ctx) {
		ctx.EEG.Log(f.Name(), "ball trajectory changed")
		return strategy.Abort()
	}
	if s, ok := f.state.(notStarted); ok {
		if action, ok := f.advance(ctx, s.planner); !ok {
			return action
		}
	}
	f.preview(ctx)
	return f.drive(ctx)
}

// advance plans planner against the live tick, expands the rest of the chain and
// only then commits. On failure it returns the action to take instead.
func (f *FollowRoute) advance(ctx *strategy.Context, planner RoutePlanner) (strategy.Action, bool) {
	pctx := NewPlanningContext(ctx)
	plan, err := pctx.Plan(planner)
	if err == nil {
		_, err = plan.ProvisionalExpand(pctx)
	}
	if err != nil {
		return f.handleError(ctx, planner, err), false
	}
	ctx.EEG.Logf(f.Name(), "committed %s from %s", plan.Segment.Name(), planner.Name())
	f.state = running{plan: plan, runner: plan.Segment.Run(), startedAt: ctx.Time()}
	return strategy.Action{}, true
}

func (f *FollowRoute) drive(ctx *strategy.Context) strategy.Action {
	for range f.maxSegments {
		cur := f.state.(running)
		ctx.EEG.Draw(eeg.Print(cur.runner.Name(), eeg.Green))
		result := cur.runner.Execute(ctx)
		switch result.Outcome {
		case SegmentYield:
			return strategy.Yield(result.Input)
		case SegmentFailure:
			ctx.EEG.Logf(f.Name(), "segment %s failed", cur.plan.Segment.Name())
			return strategy.Abort()
		}
		if cur.plan.Next == nil {
			return strategy.Return()
		}
		if action, ok := f.advance(ctx, cur.plan.Next); !ok {
			return action
		}
	}
	ctx.EEG.Logf(f.Name(), "more than %d segments finished in one tick", f.maxSegments)
	return strategy.Abort()
}

func (f *FollowRoute) handleError(ctx *strategy.Context, planner RoutePlanner, err error) strategy.Action {
	ctx.EEG.Logf(f.Name(), "planning failed: %v", err)
	pe, ok := AsPlanError(err)
	if !ok || !pe.Kind.Recoverable() {
		ctx.EEG.Logf(f.Name(), "%s is not recoverable", planner.Name())
		return strategy.Abort()
	}
	if f.neverRecover {
		ctx.EEG.Logf(f.Name(), "recovery from %s is forbidden", pe.Kind)
		return strategy.Abort()
	}
	recovery := pe.Recover(ctx.StackPriority())
	ctx.EEG.Track(fmt.Sprintf("recover: %s", pe.Kind))
	ctx.EEG.Logf(f.Name(), "recovering with %s", recovery.Name())
	return strategy.RootCall(recovery)
}

// preview draws the committed segment and a provisional expansion of what follows
// it from the live state. It never changes the route.
func (f *FollowRoute) preview(ctx *strategy.Context) {
	if ctx.EEG == nil {
		return
	}
	cur := f.state.(running)
	for _, d := range cur.plan.Segment.Shape() {
		ctx.EEG.Draw(d)
	}
	lag := ctx.Time() - cur.startedAt
	tail, err := cur.plan.ProvisionalExpand(NewPlanningContext(ctx).From(cur.plan.Segment.Start(), lag))
	if err != nil {
		ctx.EEG.Logf(f.Name(), "preview: %v", err)
		return
	}
	for _, seg := range tail {
		for _, d := range seg.Shape() {
			ctx.EEG.Draw(d)
		}
	}
}
