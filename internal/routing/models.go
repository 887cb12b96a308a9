// Package routing plans and drives multi-segment ground routes.
//
// A RoutePlanner turns a PlanningContext into a RoutePlan: one committed
// SegmentPlan plus, optionally, the planner to run once that segment is done.
// FollowRoute wraps the whole thing as a strategy.Behavior, re-planning each
// deferred step against the live world and refusing any plan whose remaining chain
// cannot be provisionally expanded.
package routing

import (
	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

// SegmentPlan is an analytic leg of a route with known start and end states.
type SegmentPlan interface {
	Name() string
	Start() world.CarState
	End() world.CarState
	Duration() float64
	Shape() []eeg.Drawable
	Run() SegmentRunner
}

// SegmentOutcome is a runner's verdict for one tick.
type SegmentOutcome int

const (
	SegmentYield SegmentOutcome = iota
	SegmentSuccess
	SegmentFailure
)

func (o SegmentOutcome) String() string {
	switch o {
	case SegmentYield:
		return "yield"
	case SegmentSuccess:
		return "success"
	case SegmentFailure:
		return "failure"
	}
	return "unknown"
}

// SegmentRunAction is what a SegmentRunner returns each tick.
type SegmentRunAction struct {
	Outcome SegmentOutcome
	Input   world.Input // SegmentYield only
}

func segmentYield(in world.Input) SegmentRunAction {
	return SegmentRunAction{Outcome: SegmentYield, Input: in}
}

var (
	segmentSuccess = SegmentRunAction{Outcome: SegmentSuccess}
	segmentFailure = SegmentRunAction{Outcome: SegmentFailure}
)

// SegmentRunner drives the car along one SegmentPlan.
type SegmentRunner interface {
	Name() string
	Execute(ctx *strategy.Context) SegmentRunAction
}

// RoutePlanner derives a RoutePlan from a planning context. Plan must not have
// side effects; it is called speculatively during provisional expansion.
type RoutePlanner interface {
	Name() string
	Plan(ctx PlanningContext) (RoutePlan, error)
}

// RoutePlan is one committed segment and the planner for whatever comes after.
type RoutePlan struct {
	Segment SegmentPlan
	Next    RoutePlanner // nil when the route ends after Segment
}
