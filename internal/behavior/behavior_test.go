package behavior

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/geom"
	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/sim"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

const tick = 1.0 / 60

func contextFor(w *sim.World, sink *eeg.EEG) *strategy.Context {
	return strategy.NewContext(w.Packet(), predict.DefaultPredictor.Predict(w.Ball()), w.Model(), nil, sink)
}

func TestSoccarProposesStrikeWhenReachable(t *testing.T) {
	w := sim.NewWorld(sim.DefaultScenario())
	b := NewSoccar(Options{}).Propose(contextFor(w, nil))
	require.NotNil(t, b)
	assert.Equal(t, "GroundStrike", b.Name())
	assert.Equal(t, strategy.Strike, b.Priority())
}

func TestSoccarRetreatsWithoutIntercept(t *testing.T) {
	w := sim.NewWorld(sim.DefaultScenario())
	ctx := contextFor(w, nil)
	ctx.Intercept = func(predict.Frame) bool { return false }

	b := NewSoccar(Options{}).Propose(ctx)
	require.NotNil(t, b)
	assert.Equal(t, "Retreat", b.Name())
	assert.Equal(t, strategy.Defense, b.Priority())

	ctx.Packet.Car.Loc = geom.Lift(RetreatPoint, world.CarRestZ)
	assert.Nil(t, NewSoccar(Options{}).Propose(ctx), "already in position")
}

func TestSoccarStrikesThroughRecovery(t *testing.T) {
	s := sim.DefaultScenario()
	s.Car.Loc = mgl64.Vec3{0, 0, 500}
	s.Car.OnGround = false
	w := sim.NewWorld(s)

	b := NewSoccar(Options{}).Propose(contextFor(w, nil))
	require.NotNil(t, b)
	assert.Equal(t, "GroundStrike", b.Name())
}

func TestGroundStrikeBuildsChain(t *testing.T) {
	w := sim.NewWorld(sim.DefaultScenario())
	sink := eeg.New(eeg.Options{})
	defer sink.Close()

	action := NewGroundStrike(Options{MaxSegmentsPerTick: 2}).Execute(contextFor(w, sink))
	require.Equal(t, strategy.ActionTailCall, action.Kind)
	assert.Equal(t, "Chain(FollowRoute, Touch)", action.Behavior.Name())
	assert.Equal(t, strategy.Strike, action.Behavior.Priority())
	assert.Equal(t, []string{"strike"}, sink.Events())
}

func TestRetreatBuildsChain(t *testing.T) {
	w := sim.NewWorld(sim.DefaultScenario())
	sink := eeg.New(eeg.Options{})
	defer sink.Close()

	action := NewRetreat(Options{}).Execute(contextFor(w, sink))
	require.Equal(t, strategy.ActionTailCall, action.Kind)
	assert.Equal(t, "Chain(FollowRoute)", action.Behavior.Name())
	assert.Equal(t, strategy.Defense, action.Behavior.Priority())
	assert.Equal(t, []string{"retreat"}, sink.Events())
}

func TestTouchTimesOut(t *testing.T) {
	s := sim.DefaultScenario()
	s.Ball.Loc = mgl64.Vec3{0, 4000, world.BallRadius}
	w := sim.NewWorld(s)
	touch := NewTouch()

	for range 60 {
		action := touch.Execute(contextFor(w, nil))
		require.Equal(t, strategy.ActionYield, action.Kind)
		assert.Equal(t, 1.0, action.Input.Throttle)
		assert.True(t, action.Input.Boost)
		w.Step(tick, action.Input)
	}
	w.Step(tick, world.Input{})
	assert.Equal(t, strategy.ActionAbort, touch.Execute(contextFor(w, nil)).Kind)
}

func TestTouchReturnsOnHit(t *testing.T) {
	s := sim.DefaultScenario()
	s.Car.Vel = mgl64.Vec3{0, 1200, 0}
	s.Ball.Loc = mgl64.Vec3{0, 500, world.BallRadius}
	w := sim.NewWorld(s)
	sink := eeg.New(eeg.Options{})
	defer sink.Close()
	touch := NewTouch()

	var action strategy.Action
	for range 60 {
		action = touch.Execute(contextFor(w, sink))
		if action.Kind != strategy.ActionYield {
			break
		}
		w.Step(tick, action.Input)
	}
	assert.Equal(t, strategy.ActionReturn, action.Kind)
	assert.Equal(t, 1, w.Touches)
	assert.Equal(t, []string{"touch"}, sink.Events())
}

func TestTouchIgnoresBounce(t *testing.T) {
	s := sim.DefaultScenario()
	s.Ball.Loc = mgl64.Vec3{0, 4000, 500}
	s.Ball.Vel = mgl64.Vec3{0, 0, -600}
	w := sim.NewWorld(s)
	sink := eeg.New(eeg.Options{})
	touch := NewTouch()

	bounced := false
	for range 50 {
		action := touch.Execute(contextFor(w, sink))
		require.Equal(t, strategy.ActionYield, action.Kind, "t=%v", w.Time)
		w.Step(tick, action.Input)
		bounced = bounced || w.Ball().Vel.Z() > 0
	}
	sink.Close()

	assert.True(t, bounced)
	assert.Zero(t, w.Touches)
	assert.NotContains(t, sink.Events(), "touch")
}

func TestSoccarPlaysDefaultScenario(t *testing.T) {
	w := sim.NewWorld(sim.DefaultScenario())
	sink := eeg.New(eeg.Options{})
	runner := strategy.NewRunner(NewSoccar(Options{}), 0)

	for w.Time < 6 && w.Touches == 0 {
		in, _ := runner.Tick(contextFor(w, sink))
		sink.Show(w.Packet())
		w.Step(tick, in)
	}
	sink.Close()

	assert.Positive(t, w.Touches, "car never reached the ball")
	assert.Less(t, w.Time, 4.0)
	assert.Contains(t, sink.Events(), "strike")
	assert.NotContains(t, sink.Events(), "retreat")
	assert.Greater(t, w.Ball().Vel.Len(), 500.0)
	assert.Less(t, math.Abs(w.Car.Loc.Y()), 1000.0)
}
