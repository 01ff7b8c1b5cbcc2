package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// scoreHook is the function personality scripts must define.
const scoreHook = "score_target"

// TargetInfo is the snapshot of one candidate target passed to Lua.
type TargetInfo struct {
	Name                string
	AggregateDurability int
	PartsLeft           int
	Frame               string
}

// Manager owns one sandboxed LState per personality and dispatches the
// score_target hook.
//
// Manager is safe for concurrent ScoreTarget calls after loading completes;
// a mutex serializes access to each single-threaded LState.
type Manager struct {
	mu     sync.Mutex
	states map[string]*lua.LState
	logger *zap.Logger
}

// NewManager creates an empty Manager.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting: NewManager requires a non-nil logger")
	}
	return &Manager{states: make(map[string]*lua.LState), logger: logger}
}

// LoadPersonality creates a sandboxed VM named name and executes the script
// at path in it. Replaces any previously loaded personality of that name.
//
// Precondition: name must be non-empty; path must be a readable Lua file.
func (m *Manager) LoadPersonality(name, path string, budget int) error {
	if name == "" {
		return fmt.Errorf("scripting: personality name must not be empty")
	}
	L := NewSandboxedState(budget)
	if err := L.DoFile(path); err != nil {
		L.Close()
		return fmt.Errorf("loading personality %q from %s: %w", name, path, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.states[name]; ok {
		old.Close()
	}
	m.states[name] = L
	m.logger.Info("loaded ai personality",
		zap.String("personality", name),
		zap.String("path", path),
	)
	return nil
}

// LoadDir loads every *.lua file in dir as a personality named after the
// file's base name.
//
// Precondition: dir must be a readable directory.
func (m *Manager) LoadDir(dir string, budget int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading personality directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".lua")
		if err := m.LoadPersonality(name, filepath.Join(dir, entry.Name()), budget); err != nil {
			return err
		}
	}
	return nil
}

// Personalities returns the loaded personality names, sorted.
func (m *Manager) Personalities() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.states))
	for name := range m.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScoreTarget calls the personality's score_target hook with info and
// returns its numeric score. ok is false when the personality is unknown,
// the hook is not defined, the call fails, or the result is not a number —
// callers fall back to a built-in strategy in all those cases.
func (m *Manager) ScoreTarget(personality string, info TargetInfo) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[personality]
	if !ok {
		return 0, false
	}
	fn := L.GetGlobal(scoreHook)
	if fn.Type() != lua.LTFunction {
		return 0, false
	}

	tbl := L.NewTable()
	L.SetField(tbl, "name", lua.LString(info.Name))
	L.SetField(tbl, "durability", lua.LNumber(info.AggregateDurability))
	L.SetField(tbl, "parts_left", lua.LNumber(info.PartsLeft))
	L.SetField(tbl, "frame", lua.LString(info.Frame))

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, tbl); err != nil {
		m.logger.Warn("personality hook failed",
			zap.String("personality", personality),
			zap.Error(err),
		)
		return 0, false
	}
	ret := L.Get(-1)
	L.Pop(1)

	num, ok := ret.(lua.LNumber)
	if !ok {
		return 0, false
	}
	return float64(num), true
}

// Close shuts down every VM. The Manager is unusable afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, L := range m.states {
		L.Close()
		delete(m.states, name)
	}
}
