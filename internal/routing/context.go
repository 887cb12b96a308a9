package routing

import (
	"fmt"

	"github.com/cxd309/pilot-engine/internal/kinematics"
	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

// continuity tolerance between a context's start and a planned segment's start
// (uu and radians)
const continuityTolerance = 1e-3

// maxExpansionSteps bounds a provisional expansion.
const maxExpansionSteps = 32

// PlanningContext is the immutable snapshot planners work from.
type PlanningContext struct {
	Start     world.CarState
	Ball      predict.Prediction
	Model     kinematics.MotionModel
	Intercept predict.Predicate

	// lag is how long before the origin of Ball the Start state was observed.
	lag float64
}

// NewPlanningContext snapshots the live tick.
func NewPlanningContext(ctx *strategy.Context) PlanningContext {
	return PlanningContext{Start: ctx.Me(), Ball: ctx.Ball, Model: ctx.Model, Intercept: ctx.Intercept}
}

// From returns a context starting at start, which was the car's state lag
// seconds before this context's ball prediction begins.
func (c PlanningContext) From(start world.CarState, lag float64) PlanningContext {
	c.Start = start
	c.lag = lag
	return c
}

// After is the context at the end of seg, with the ball prediction advanced by
// the segment's duration.
func (c PlanningContext) After(seg SegmentPlan) PlanningContext {
	return PlanningContext{
		Start:     seg.End(),
		Ball:      c.Ball.Since(seg.Duration() - c.lag),
		Model:     c.Model,
		Intercept: c.Intercept,
	}
}

// Plan runs planner and checks that its segment starts where this context does.
// Errors are wrapped with the planner's name, so nested planners leave a trail.
func (c PlanningContext) Plan(planner RoutePlanner) (RoutePlan, error) {
	plan, err := planner.Plan(c)
	if err != nil {
		return RoutePlan{}, fmt.Errorf("%s: %w", planner.Name(), err)
	}
	if plan.Segment == nil || !world.CloseTo(plan.Segment.Start(), c.Start, continuityTolerance) {
		return RoutePlan{}, fmt.Errorf("%s: %w", planner.Name(), &PlanError{Kind: ErrDiscontinuous})
	}
	return plan, nil
}

// ProvisionalExpand plans every deferred step of p, each against the end state of
// the step before, without committing anything. ctx must be the context p was
// planned in. The returned slice holds the segments after p.Segment.
func (p RoutePlan) ProvisionalExpand(ctx PlanningContext) ([]SegmentPlan, error) {
	var tail []SegmentPlan
	cur := p
	for step := 1; cur.Next != nil; step++ {
		if step > maxExpansionSteps {
			return nil, &ExpansionError{Planner: cur.Next.Name(), Step: step, Err: &PlanError{Kind: ErrExpansionTooLong}}
		}
		ctx = ctx.After(cur.Segment)
		next, err := ctx.Plan(cur.Next)
		if err != nil {
			return nil, &ExpansionError{Planner: cur.Next.Name(), Step: step, Err: err}
		}
		tail = append(tail, next.Segment)
		cur = next
	}
	return tail, nil
}
