package behavior

import (
	"github.com/cxd309/pilot-engine/internal/routing"
	"github.com/cxd309/pilot-engine/internal/strategy"
)

// arrivedRadius is how close to RetreatPoint counts as already there.
const arrivedRadius = 200.0

// Soccar is the root strategy: strike when a ground intercept can be planned,
// otherwise fall back toward goal.
type Soccar struct {
	opts Options
}

func NewSoccar(opts Options) *Soccar { return &Soccar{opts: opts} }

// Propose dry-runs the intercept planner against the live tick.
func (s *Soccar) Propose(ctx *strategy.Context) strategy.Behavior {
	pctx := routing.NewPlanningContext(ctx)
	plan, err := pctx.Plan(routing.GroundIntercept{})
	if err == nil {
		_, err = plan.ProvisionalExpand(pctx)
	}
	if err == nil {
		return NewGroundStrike(s.opts)
	}
	if pe, ok := routing.AsPlanError(err); ok && pe.Kind.Recoverable() {
		// GroundStrike's route will run the recovery itself.
		return NewGroundStrike(s.opts)
	}
	if ctx.Me().Loc2D().Sub(RetreatPoint).Len() < arrivedRadius {
		return nil
	}
	return NewRetreat(s.opts)
}
