package behavior

import (
	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/geom"
	"github.com/cxd309/pilot-engine/internal/mechanics"
	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

const (
	// touchTimeout is how long Touch keeps charging before giving up.
	touchTimeout = 1.0
	// the ball is hit when its velocity strays this far from the one-tick
	// prediction; bounces are part of the prediction
	touchImpulse = 250.0
)

// Touch drives flat out at the ball until it is hit.
type Touch struct {
	started   bool
	startTime float64
	lastTime  float64
	lastBall  world.BallState
}

func NewTouch() *Touch { return &Touch{} }

func (t *Touch) Name() string { return "Touch" }
func (t *Touch) Priority() strategy.Priority { return strategy.Strike }

func (t *Touch) Execute(ctx *strategy.Context) strategy.Action {
	me, ball := ctx.Me(), ctx.Packet.Ball
	if !t.started {
		t.started, t.startTime = true, ctx.Time()
		t.lastTime, t.lastBall = ctx.Time(), ball
	}
	hit := t.hit(ctx.Time(), ball)
	t.lastTime, t.lastBall = ctx.Time(), ball
	if hit {
		ctx.EEG.Track("touch")
		return strategy.Return()
	}
	if ctx.Time()-t.startTime > touchTimeout {
		ctx.EEG.Log(t.Name(), "timed out")
		return strategy.Abort()
	}
	ctx.EEG.Draw(eeg.GhostBall(ball.Loc, eeg.Red))
	return strategy.Yield(world.Input{
		Throttle: 1,
		Steer:    mechanics.SteerToward(me, geom.Flatten(ball.Loc)),
		Boost:    me.OnFlatGround(),
	})
}

// hit compares ball with where last tick's ball would be by now.
func (t *Touch) hit(now float64, ball world.BallState) bool {
	dt := now - t.lastTime
	if dt <= 0 {
		return false
	}
	expected := predict.NewBall(t.lastBall)
	expected.Step(dt)
	return ball.Vel.Sub(expected.State().Vel).Len() > touchImpulse
}
