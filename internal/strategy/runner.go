package strategy

import (
	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/world"
)

// DefaultMaxActionsPerTick bounds the non-yielding actions processed in one tick.
const DefaultMaxActionsPerTick = 64

// Runner owns the behavior stack for one car.
type Runner struct {
	root       Strategy
	stack      []Behavior
	maxActions int
}

// NewRunner returns a runner that consults root (which may be nil) at the start of
// every tick. maxActions ≤ 0 selects DefaultMaxActionsPerTick.
func NewRunner(root Strategy, maxActions int) *Runner {
	if maxActions <= 0 {
		maxActions = DefaultMaxActionsPerTick
	}
	return &Runner{root: root, maxActions: maxActions}
}

// Push places b on top of the stack.
func (r *Runner) Push(b Behavior) { r.stack = append(r.stack, b) }

// Depth is the current stack depth.
func (r *Runner) Depth() int { return len(r.stack) }

// Stack returns the behavior names from bottom to top.
func (r *Runner) Stack() []string {
	names := make([]string, len(r.stack))
	for i, b := range r.stack {
		names[i] = b.Name()
	}
	return names
}

// Priority is the highest priority on the stack, or Idle when it is empty.
func (r *Runner) Priority() Priority {
	p := Idle
	for _, b := range r.stack {
		p = max(p, b.Priority())
	}
	return p
}

// Tick runs behaviors until one yields. ok is false when the stack empties or the
// action budget runs out; the car should then be left idle for this tick.
func (r *Runner) Tick(ctx *Context) (in world.Input, ok bool) {
	r.consult(ctx)
	ctx.child = ChildNone
	for range r.maxActions {
		if len(r.stack) == 0 {
			return world.Input{}, false
		}
		top := r.stack[len(r.stack)-1]
		ctx.priority = r.Priority()
		action := top.Execute(ctx)
		ctx.child = ChildNone
		switch action.Kind {
		case ActionYield:
			return action.Input.Clamped(), true
		case ActionReturn:
			r.pop()
			ctx.child = ChildReturned
		case ActionAbort:
			r.pop()
			ctx.child = ChildAborted
		case ActionCall, ActionRootCall, ActionTailCall:
			if action.Behavior == nil {
				ctx.EEG.Logf("Runner", "%s from %s carried no behavior", action.Kind, top.Name())
				r.pop()
				ctx.child = ChildAborted
				continue
			}
			ctx.EEG.Logf("Runner", "%s: %s", top.Name(), action)
			switch action.Kind {
			case ActionCall:
				r.stack = append(r.stack, action.Behavior)
			case ActionRootCall:
				clear(r.stack)
				r.stack = append(r.stack[:0], action.Behavior)
			case ActionTailCall:
				r.stack[len(r.stack)-1] = action.Behavior
			}
		}
	}
	ctx.EEG.Logf("Runner", "action budget of %d exhausted", r.maxActions)
	ctx.EEG.Draw(eeg.Print("runner stalled", eeg.Red))
	return world.Input{}, false
}

func (r *Runner) pop() {
	r.stack[len(r.stack)-1] = nil
	r.stack = r.stack[:len(r.stack)-1]
}

// consult asks the root strategy for a proposal and installs it when the stack is
// empty or the proposal strictly outranks what is running.
func (r *Runner) consult(ctx *Context) {
	if r.root == nil {
		return
	}
	proposal := r.root.Propose(ctx)
	if proposal == nil {
		return
	}
	if len(r.stack) == 0 {
		r.stack = append(r.stack, proposal)
		return
	}
	if running := r.Priority(); ShouldPreempt(running, proposal.Priority()) {
		ctx.EEG.Logf("Runner", "%s (%s) preempts %s", proposal.Name(), proposal.Priority(), running)
		clear(r.stack)
		r.stack = append(r.stack[:0], proposal)
	}
}
