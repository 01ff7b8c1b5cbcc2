package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestSandboxAllowsSafeLibraries(t *testing.T) {
	L := NewSandboxedState(0)
	defer L.Close()

	require.NoError(t, L.DoString(`
result = math.max(1, 2) + string.len("abc") + #({10, 20})
`))
	assert.Equal(t, lua.LNumber(7), L.GetGlobal("result"))
}

func TestSandboxStripsDangerousGlobals(t *testing.T) {
	L := NewSandboxedState(0)
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), name)
	}
	// io and os were never opened.
	assert.Equal(t, lua.LNil, L.GetGlobal("io"))
	assert.Equal(t, lua.LNil, L.GetGlobal("os"))
}

func TestSandboxHaltsRunawayLoop(t *testing.T) {
	L := NewSandboxedState(1000)
	defer L.Close()

	err := L.DoString(`while true do end`)
	assert.Error(t, err, "infinite loop must be stopped by the opcode budget")
}

func TestSandboxBudgetAllowsShortScripts(t *testing.T) {
	L := NewSandboxedState(DefaultOpcodeBudget)
	defer L.Close()

	assert.NoError(t, L.DoString(`
local sum = 0
for i = 1, 100 do
    sum = sum + i
end
`))
}
