package routing

import (
	"github.com/cxd309/pilot-engine/internal/predict"
)

// interceptEndChop is how early the approach straight hands over before contact.
const interceptEndChop = 0.5

func naiveIntercept(ctx PlanningContext) (predict.Intercept, error) {
	pred := ctx.Intercept
	if pred == nil {
		pred = predict.Grounded(110, 25)
	}
	guess, ok := predict.GroundIntercept(ctx.Ball.All(), ctx.Start, ctx.Model, pred)
	if !ok {
		return predict.Intercept{}, &PlanError{Kind: ErrUnknownIntercept}
	}
	return guess, nil
}

// GroundIntercept turns toward the earliest reachable grounded ball and then
// approaches it in a straight line.
type GroundIntercept struct{}

func (GroundIntercept) Name() string { return "GroundIntercept" }

func (GroundIntercept) Plan(ctx PlanningContext) (RoutePlan, error) {
	if err := guardFlatGround(ctx.Start); err != nil {
		return RoutePlan{}, err
	}
	guess, err := naiveIntercept(ctx)
	if err != nil {
		return RoutePlan{}, err
	}
	if err := guardSkidding(ctx.Start, guess.CarLoc2D()); err != nil {
		return RoutePlan{}, err
	}
	return NewTurnPlanner(guess.BallLoc2D(), GroundInterceptStraight{}).Plan(ctx)
}

// GroundInterceptStraight re-finds the intercept from wherever the turn left the
// car and paces a straight approach to it.
type GroundInterceptStraight struct{}

func (GroundInterceptStraight) Name() string { return "GroundInterceptStraight" }

func (GroundInterceptStraight) Plan(ctx PlanningContext) (RoutePlan, error) {
	if err := guardFlatGround(ctx.Start); err != nil {
		return RoutePlan{}, err
	}
	guess, err := naiveIntercept(ctx)
	if err != nil {
		return RoutePlan{}, err
	}
	if err := guardSkidding(ctx.Start, guess.CarLoc2D()); err != nil {
		return RoutePlan{}, err
	}
	return StraightArriving(guess.CarLoc2D(), guess.Time, interceptEndChop).Plan(ctx)
}
