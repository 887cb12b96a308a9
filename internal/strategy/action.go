package strategy

import (
	"fmt"

	"github.com/cxd309/pilot-engine/internal/world"
)

// ActionKind tags an Action.
type ActionKind int

const (
	// ActionYield emits Input for this tick and leaves the stack unchanged.
	ActionYield ActionKind = iota
	// ActionReturn pops the active behavior; the parent resumes with ChildReturned.
	ActionReturn
	// ActionAbort pops the active behavior; the parent resumes with ChildAborted.
	ActionAbort
	// ActionCall pushes Behavior above the active one.
	ActionCall
	// ActionRootCall replaces the whole stack with Behavior.
	ActionRootCall
	// ActionTailCall replaces the active behavior with Behavior.
	ActionTailCall
)

func (k ActionKind) String() string {
	switch k {
	case ActionYield:
		return "Yield"
	case ActionReturn:
		return "Return"
	case ActionAbort:
		return "Abort"
	case ActionCall:
		return "Call"
	case ActionRootCall:
		return "RootCall"
	case ActionTailCall:
		return "TailCall"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is what a behavior asks the runner to do.
type Action struct {
	Kind     ActionKind
	Input    world.Input // ActionYield
	Behavior Behavior    // ActionCall, ActionRootCall, ActionTailCall
}

func Yield(in world.Input) Action { return Action{Kind: ActionYield, Input: in} }
func Return() Action { return Action{Kind: ActionReturn} }
func Abort() Action { return Action{Kind: ActionAbort} }
func Call(b Behavior) Action { return Action{Kind: ActionCall, Behavior: b} }
func RootCall(b Behavior) Action { return Action{Kind: ActionRootCall, Behavior: b} }
func TailCall(b Behavior) Action { return Action{Kind: ActionTailCall, Behavior: b} }

func (a Action) String() string {
	if a.Behavior != nil {
		return fmt.Sprintf("%s(%s)", a.Kind, a.Behavior.Name())
	}
	return a.Kind.String()
}
