package routing

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/world"
)

func guardFlatGround(car world.CarState) error {
	if !car.OnFlatGround() {
		return &PlanError{Kind: ErrMustBeOnFlatGround}
	}
	return nil
}

func guardSkidding(car world.CarState, recoverTo mgl64.Vec2) error {
	if car.Skidding() {
		return &PlanError{Kind: ErrMustNotBeSkidding, RecoverTargetLoc: recoverTo}
	}
	return nil
}

// ChainedPlanner runs planners back to back: the first plans now and the rest
// are deferred behind whatever the first deferred itself.
type ChainedPlanner struct {
	planners []RoutePlanner
}

// Chain joins planners into one. Nil planners are skipped; a single planner is
// returned as is and an empty chain is nil.
func Chain(planners ...RoutePlanner) RoutePlanner {
	var ps []RoutePlanner
	for _, p := range planners {
		if p != nil {
			ps = append(ps, p)
		}
	}
	switch len(ps) {
	case 0:
		return nil
	case 1:
		return ps[0]
	}
	return ChainedPlanner{planners: ps}
}

func (c ChainedPlanner) Name() string {
	names := make([]string, len(c.planners))
	for i, p := range c.planners {
		names[i] = p.Name()
	}
	return "Chain(" + strings.Join(names, ", ") + ")"
}

func (c ChainedPlanner) Plan(ctx PlanningContext) (RoutePlan, error) {
	if len(c.planners) == 0 {
		return RoutePlan{}, &PlanError{Kind: ErrEmptyChain}
	}
	plan, err := ctx.Plan(c.planners[0])
	if err != nil {
		return RoutePlan{}, err
	}
	rest := c.planners[1:]
	if plan.Next != nil {
		rest = append([]RoutePlanner{plan.Next}, rest...)
	}
	plan.Next = Chain(rest...)
	return plan, nil
}

// driveTo is a pathing-aware drive to a fixed point.
type driveTo struct {
	target     mgl64.Vec2
	allowBoost bool
}

// DriveTo turns toward target and then drives straight there, going around the
// goal posts when needed.
func DriveTo(target mgl64.Vec2, allowBoost bool) RoutePlanner {
	return driveTo{target: target, allowBoost: allowBoost}
}

func (d driveTo) Name() string { return "DriveTo" }

func (d driveTo) Plan(ctx PlanningContext) (RoutePlan, error) {
	if err := guardFlatGround(ctx.Start); err != nil {
		return RoutePlan{}, err
	}
	if err := guardSkidding(ctx.Start, d.target); err != nil {
		return RoutePlan{}, err
	}
	return NewTurnPlanner(d.target, StraightTo(d.target, d.allowBoost)).Plan(ctx)
}
