package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

type steps struct {
	name string
	left int
	out  strategy.Action
}

func (s *steps) Name() string { return s.name }
func (s *steps) Priority() strategy.Priority { return strategy.Idle }
func (s *steps) Execute(*strategy.Context) strategy.Action {
	if s.left == 0 {
		return s.out
	}
	s.left--
	return strategy.Yield(world.Input{Throttle: 1})
}

func ctxAt(tm float64) *strategy.Context {
	return strategy.NewContext(world.Packet{Time: tm}, predict.Prediction{}, nil, nil, nil)
}

func TestChainRunsChildrenInOrder(t *testing.T) {
	a := &steps{name: "a", left: 1, out: strategy.Return()}
	b := &steps{name: "b", left: 2, out: strategy.Return()}
	r := strategy.NewRunner(nil, 0)
	r.Push(NewChain(strategy.Strike, a, b))

	var yields int
	for range 10 {
		if _, ok := r.Tick(ctxAt(0)); ok {
			yields++
		}
	}
	assert.Equal(t, 3, yields)
	assert.Zero(t, r.Depth())
}

func TestChainAbortsWithChild(t *testing.T) {
	a := &steps{name: "a", out: strategy.Abort()}
	b := &steps{name: "b", left: 5}
	c := NewChain(strategy.Strike, a, b)
	assert.Equal(t, "Chain(a, b)", c.Name())
	r := strategy.NewRunner(nil, 0)
	r.Push(c)

	_, ok := r.Tick(ctxAt(0))
	assert.False(t, ok)
	assert.Zero(t, r.Depth())
	assert.Equal(t, 5, b.left, "second child never ran")
}

func TestWhileStopsWhenConditionFails(t *testing.T) {
	board := &Board{}
	before := func(limit float64) func(*strategy.Context) bool {
		return func(ctx *strategy.Context) bool { return ctx.Time() < limit }
	}
	w := NewWhile(board, All(board.Cond(before(2)), Not(board.Cond(before(0)))), &steps{name: "drive", left: 100})
	r := strategy.NewRunner(nil, 0)
	r.Push(w)

	_, ok := r.Tick(ctxAt(1))
	require.True(t, ok)
	_, ok = r.Tick(ctxAt(2))
	assert.False(t, ok)
	assert.Zero(t, r.Depth())
}

func TestConditionOutsideBehaviorFails(t *testing.T) {
	board := &Board{}
	_, err := board.Cond(func(*strategy.Context) bool { return true }).Tick()
	assert.ErrorIs(t, err, errNoContext)
}
