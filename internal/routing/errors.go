package routing

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/flow"
	"github.com/cxd309/pilot-engine/internal/mechanics"
	"github.com/cxd309/pilot-engine/internal/strategy"
)

// ErrorKind classifies a planning failure.
type ErrorKind int

const (
	// ErrUnknownIntercept: no reachable intercept in the prediction.
	ErrUnknownIntercept ErrorKind = iota
	// ErrTurnTooTight: the target lies inside the turning circle.
	ErrTurnTooTight
	// ErrDiscontinuous: a segment does not start where the context starts.
	ErrDiscontinuous
	// ErrEmptyChain: a chained planner has nothing to plan.
	ErrEmptyChain
	// ErrExpansionTooLong: the deferred chain did not terminate.
	ErrExpansionTooLong
	// ErrMustBeOnFlatGround: ground planners need the car on its wheels.
	ErrMustBeOnFlatGround
	// ErrMustNotBeSkidding: ground planners need the car to have grip.
	ErrMustNotBeSkidding
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownIntercept:
		return "unknown intercept"
	case ErrTurnTooTight:
		return "turn too tight"
	case ErrDiscontinuous:
		return "discontinuous segment"
	case ErrEmptyChain:
		return "empty chain"
	case ErrExpansionTooLong:
		return "expansion too long"
	case ErrMustBeOnFlatGround:
		return "must be on flat ground"
	case ErrMustNotBeSkidding:
		return "must not be skidding"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Recoverable reports whether a recovery behavior exists for the kind.
func (k ErrorKind) Recoverable() bool {
	return k == ErrMustBeOnFlatGround || k == ErrMustNotBeSkidding
}

// PlanError is the error every planner returns.
type PlanError struct {
	Kind ErrorKind
	// RecoverTargetLoc is where a skidding car should recover toward.
	RecoverTargetLoc mgl64.Vec2
}

func (e *PlanError) Error() string {
	if e.Kind == ErrMustNotBeSkidding {
		return fmt.Sprintf("%s (recover toward %.0f, %.0f)", e.Kind, e.RecoverTargetLoc.X(), e.RecoverTargetLoc.Y())
	}
	return e.Kind.String()
}

// Is matches any PlanError of the same kind.
func (e *PlanError) Is(target error) bool {
	t, ok := target.(*PlanError)
	return ok && t.Kind == e.Kind
}

// Recover builds the behavior that clears the condition, running at priority.
// It returns nil for fatal kinds. Routes started by a recovery never recover
// again themselves.
func (e *PlanError) Recover(priority strategy.Priority) strategy.Behavior {
	switch e.Kind {
	case ErrMustBeOnFlatGround:
		return flow.NewChain(priority, mechanics.NewGetToFlatGround())
	case ErrMustNotBeSkidding:
		board := &flow.Board{}
		skidding := board.Cond(func(ctx *strategy.Context) bool { return ctx.Me().Skidding() })
		airborne := board.Cond(func(ctx *strategy.Context) bool { return !ctx.Me().OnGround })
		return flow.NewChain(priority,
			flow.NewWhile(board, flow.All(skidding, flow.Not(airborne)), mechanics.NewSkidRecover(e.RecoverTargetLoc)),
			NewFollowRoute(DriveTo(e.RecoverTargetLoc, false)).NeverRecover(),
		)
	}
	return nil
}

// AsPlanError extracts the PlanError from an error chain.
func AsPlanError(err error) (*PlanError, bool) {
	var pe *PlanError
	ok := errors.As(err, &pe)
	return pe, ok
}

// ExpansionError reports which deferred step of a chain failed.
type ExpansionError struct {
	Planner string
	Step    int // 1 is the first deferred planner
	Err     error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("provisional expansion step %d (%s): %v", e.Step, e.Planner, e.Err)
}

func (e *ExpansionError) Unwrap() error { return e.Err }
