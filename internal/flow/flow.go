// Package flow composes behaviors: Chain runs children one after another and While
// keeps a child running while a behavior-tree condition holds.
package flow

import (
	"errors"
	"strings"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/strategy"
)

// Chain calls each child in order. It returns once the last child returns and
// aborts as soon as any child aborts.
type Chain struct {
	priority strategy.Priority
	children []strategy.Behavior
	next     int
}

func NewChain(priority strategy.Priority, children ...strategy.Behavior) *Chain {
	return &Chain{priority: priority, children: children}
}

func (c *Chain) Name() string {
	names := make([]string, len(c.children))
	for i, b := range c.children {
		names[i] = b.Name()
	}
	return "Chain(" + strings.Join(names, ", ") + ")"
}

func (c *Chain) Priority() strategy.Priority { return c.priority }

func (c *Chain) Execute(ctx *strategy.Context) strategy.Action {
	if ctx.Child() == strategy.ChildAborted {
		ctx.EEG.Logf("Chain", "child %d aborted", c.next)
		return strategy.Abort()
	}
	if c.next >= len(c.children) {
		return strategy.Return()
	}
	child := c.children[c.next]
	c.next++
	return strategy.Call(child)
}

// Board hands the current tick's context to condition leaves. The leaves are
// plain bt.Nodes, so they can be composed with All and Not.
type Board struct {
	ctx *strategy.Context
}

var errNoContext = errors.New("condition ticked outside a behavior")

// Cond wraps fn as a leaf that succeeds when fn holds for the board's context.
func (b *Board) Cond(fn func(*strategy.Context) bool) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if b.ctx == nil {
			return bt.Failure, errNoContext
		}
		if fn(b.ctx) {
			return bt.Success, nil
		}
		return bt.Failure, nil
	})
}

// Not inverts node.
func Not(node bt.Node) bt.Node {
	tick, children := node()
	return bt.New(bt.Not(tick), children...)
}

// All succeeds when every node succeeds.
func All(nodes ...bt.Node) bt.Node { return bt.New(bt.Sequence, nodes...) }

// While runs child for as long as cond ticks Success, and returns as soon as it
// doesn't. The child's own actions pass straight through.
type While struct {
	board *Board
	cond  bt.Node
	child strategy.Behavior
}

func NewWhile(board *Board, cond bt.Node, child strategy.Behavior) *While {
	return &While{board: board, cond: cond, child: child}
}

func (w *While) Name() string { return "While(" + w.child.Name() + ")" }
func (w *While) Priority() strategy.Priority { return w.child.Priority() }

func (w *While) Execute(ctx *strategy.Context) strategy.Action {
	w.board.ctx = ctx
	status, err := w.cond.Tick()
	w.board.ctx = nil
	if err != nil {
		ctx.EEG.Logf("While", "condition failed: %v", err)
		return strategy.Return()
	}
	if status != bt.Success {
		ctx.EEG.Log("While", "terminating")
		return strategy.Return()
	}
	ctx.EEG.Draw(eeg.Print(w.child.Name(), eeg.Yellow))
	return w.child.Execute(ctx)
}
