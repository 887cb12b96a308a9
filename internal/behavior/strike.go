// Package behavior holds the tactical behaviors the bot plays with and the root
// strategy that chooses between them.
package behavior

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/flow"
	"github.com/cxd309/pilot-engine/internal/routing"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

// Options tunes the behaviors built here.
type Options struct {
	// MaxSegmentsPerTick is handed to every FollowRoute; ≤ 0 keeps the default.
	MaxSegmentsPerTick int
}

// GroundStrike intercepts the ball on the ground and hits it.
type GroundStrike struct {
	opts Options
}

func NewGroundStrike(opts Options) *GroundStrike { return &GroundStrike{opts: opts} }

func (g *GroundStrike) Name() string { return "GroundStrike" }
func (g *GroundStrike) Priority() strategy.Priority { return strategy.Strike }

func (g *GroundStrike) Execute(ctx *strategy.Context) strategy.Action {
	ctx.EEG.Track("strike")
	route := routing.NewFollowRoute(routing.GroundIntercept{}).
		SameBallTrajectory().
		MaxSegmentsPerTick(g.opts.MaxSegmentsPerTick)
	return strategy.TailCall(flow.NewChain(strategy.Strike, route, NewTouch()))
}

// retreatDepth is how far in front of its own goal line the car waits.
const retreatDepth = 1000.0

// RetreatPoint is where Retreat drives to: in front of the goal at -Y.
var RetreatPoint = mgl64.Vec2{0, -world.FieldMaxY + retreatDepth}

// Retreat falls back in front of the car's own goal.
type Retreat struct {
	opts Options
}

func NewRetreat(opts Options) *Retreat { return &Retreat{opts: opts} }

func (r *Retreat) Name() string { return "Retreat" }
func (r *Retreat) Priority() strategy.Priority { return strategy.Defense }

func (r *Retreat) Execute(ctx *strategy.Context) strategy.Action {
	ctx.EEG.Track("retreat")
	route := routing.NewFollowRoute(routing.DriveTo(RetreatPoint, true)).
		MaxSegmentsPerTick(r.opts.MaxSegmentsPerTick)
	return strategy.TailCall(flow.NewChain(strategy.Defense, route))
}
