package predict

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultInterceptExpr accepts a ball low enough to hit from the ground and not
// bouncing upward steeply.
const DefaultInterceptExpr = "z < 110 && vz < 25"

// Predicate decides whether a predicted frame is a usable intercept.
type Predicate func(Frame) bool

// FrameEnv is the variable set available to predicate expressions.
type FrameEnv struct {
	T     float64 `expr:"t"`
	X     float64 `expr:"x"`
	Y     float64 `expr:"y"`
	Z     float64 `expr:"z"`
	VX    float64 `expr:"vx"`
	VY    float64 `expr:"vy"`
	VZ    float64 `expr:"vz"`
	Speed float64 `expr:"speed"`
}

func envFor(f Frame) FrameEnv {
	return FrameEnv{
		T: f.T,
		X: f.Loc.X(), Y: f.Loc.Y(), Z: f.Loc.Z(),
		VX: f.Vel.X(), VY: f.Vel.Y(), VZ: f.Vel.Z(),
		Speed: f.Vel.Len(),
	}
}

// CompilePredicate compiles a boolean expression over FrameEnv, e.g.
// "z < 110 && vz < 25". Evaluation errors count as a rejected frame.
func CompilePredicate(expression string) (Predicate, error) {
	program, err := expr.Compile(expression, expr.Env(FrameEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile intercept predicate %q: %w", expression, err)
	}
	return func(f Frame) bool { return runPredicate(program, f) }, nil
}

func runPredicate(program *vm.Program, f Frame) bool {
	out, err := expr.Run(program, envFor(f))
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// Grounded is the built-in equivalent of DefaultInterceptExpr with explicit limits.
func Grounded(maxZ, maxVZ float64) Predicate {
	return func(f Frame) bool { return f.Loc.Z() < maxZ && f.Vel.Z() < maxVZ }
}
