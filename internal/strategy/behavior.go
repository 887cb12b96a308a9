// Package strategy is the behavior engine: a stack of resumable Behaviors driven
// one tick at a time by a Runner. Each tick the active Behavior answers with an
// Action that either emits a control input or reshapes the stack.
package strategy

import (
	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/kinematics"
	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/world"
)

// Priority orders behaviors for preemption. Higher preempts lower; equal never
// preempts.
type Priority int

const (
	Idle Priority = iota
	Defense
	Strike
)

func (p Priority) String() string {
	switch p {
	case Idle:
		return "idle"
	case Defense:
		return "defense"
	case Strike:
		return "strike"
	}
	return "unknown"
}

// ShouldPreempt reports whether a proposed behavior may replace a running one.
func ShouldPreempt(running, proposed Priority) bool { return proposed > running }

// Behavior is one resumable unit of decision making. Execute is called once per
// resumption and must return promptly.
type Behavior interface {
	Name() string
	Priority() Priority
	Execute(ctx *Context) Action
}

// ChildStatus tells a resumed parent how the frame above it ended.
type ChildStatus int

const (
	ChildNone ChildStatus = iota
	ChildReturned
	ChildAborted
)

// Context is the read-only view a Behavior sees for one tick.
type Context struct {
	Packet    world.Packet
	Ball      predict.Prediction // relative to Packet.Time
	Model     kinematics.MotionModel
	Intercept predict.Predicate
	EEG       *eeg.EEG

	child    ChildStatus
	priority Priority
}

// NewContext builds a tick context, filling the default car model and intercept
// predicate when they are nil.
func NewContext(packet world.Packet, ball predict.Prediction, model kinematics.MotionModel, intercept predict.Predicate, sink *eeg.EEG) *Context {
	if model == nil {
		model = kinematics.Default
	}
	if intercept == nil {
		intercept = predict.Grounded(110, 25)
	}
	return &Context{Packet: packet, Ball: ball, Model: model, Intercept: intercept, EEG: sink}
}

// Me is the controlled car.
func (c *Context) Me() world.CarState { return c.Packet.Car }

// Time is the game clock.
func (c *Context) Time() float64 { return c.Packet.Time }

// Child reports how the child this behavior last called ended. It is ChildNone
// unless the behavior is being resumed right after a Return or Abort.
func (c *Context) Child() ChildStatus { return c.child }

// StackPriority is the highest priority on the stack while the current behavior
// runs. Replacement behaviors built mid-tick should keep it so they are not
// immediately preempted.
func (c *Context) StackPriority() Priority { return c.priority }

// Strategy proposes the behavior that should be running, or nil for no opinion.
type Strategy interface {
	Propose(ctx *Context) Behavior
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx *Context) Behavior

func (f StrategyFunc) Propose(ctx *Context) Behavior { return f(ctx) }
