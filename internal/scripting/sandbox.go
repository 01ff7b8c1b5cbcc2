// Package scripting provides a sandboxed GopherLua environment for AI
// personality scripts. It has no dependency on game domain packages; the ai
// package passes plain snapshots in and reads scores out.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultOpcodeBudget is the maximum number of Lua opcodes allowed per
// script call when no override is configured. Scripts run inside the battle
// tick, so runaway loops must terminate deterministically.
const DefaultOpcodeBudget = 100_000

// budgetContext is a context.Context that cancels itself after Done() has
// been called budget times. GopherLua's main loop calls Done() once per
// opcode, which turns this into an exact opcode-count limit.
type budgetContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done returns the underlying cancellation channel. Each call decrements the
// remaining budget; at zero the cancel fires and the VM stops on the next
// opcode boundary.
func (c *budgetContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newBudgetContext returns a context that cancels after budget Done() calls.
// Precondition: budget > 0.
func newBudgetContext(budget int) context.Context {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(budget))
	return &budgetContext{Context: base, cancel: cancel, remaining: rem}
}

// NewSandboxedState creates a GopherLua LState with:
//   - only safe stdlib loaded: base, table, string, math
//   - dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - execution limited to at most budget Lua opcodes per run
//
// Precondition: budget >= 0; 0 uses DefaultOpcodeBudget.
// Postcondition: Returns a non-nil LState; the caller owns it and must call
// Close() when done.
func NewSandboxedState(budget int) *lua.LState {
	if budget <= 0 {
		budget = DefaultOpcodeBudget
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetContext(newBudgetContext(budget))

	return L
}
