package scripting

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// OvercastScript hosts a Lua script that maps an overcast-failure severity
// roll to its consequence. The script must define:
//
//	function consequence(severity) ... return "description" end
//
// severity is the 1d6 result; the return value is the consequence text the
// engine records. The state is re-created per call group to keep script
// errors isolated; calls are serialised by an internal mutex so a single
// policy can serve one engine safely.
type OvercastScript struct {
	mu        sync.Mutex
	source    string
	instLimit int
}

// LoadOvercastScript reads and verifies a consequence script from path.
//
// Precondition: path must be a readable Lua file.
// Postcondition: the script compiled in a sandbox and defines a
// `consequence` function, or an error is returned.
func LoadOvercastScript(path string, instLimit int) (*OvercastScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading overcast script %q: %w", path, err)
	}
	return NewOvercastScript(string(data), instLimit)
}

// NewOvercastScript compiles and verifies a consequence script from source.
func NewOvercastScript(source string, instLimit int) (*OvercastScript, error) {
	s := &OvercastScript{source: source, instLimit: instLimit}
	L := NewSandboxedState(instLimit)
	defer L.Close()
	if err := L.DoString(source); err != nil {
		return nil, fmt.Errorf("scripting: overcast script failed to load: %w", err)
	}
	if _, ok := L.GetGlobal("consequence").(*lua.LFunction); !ok {
		return nil, fmt.Errorf("scripting: overcast script must define consequence(severity)")
	}
	return s, nil
}

// Consequence runs the script's consequence function for a severity roll.
// Script failures degrade to a generic description rather than erroring:
// an overcast has already incapacitated the caster by the time the policy
// runs, and a broken campaign script must not abort the combat.
func (s *OvercastScript) Consequence(severity int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	L := NewSandboxedState(s.instLimit)
	defer L.Close()
	if err := L.DoString(s.source); err != nil {
		return fallbackConsequence
	}
	fn, ok := L.GetGlobal("consequence").(*lua.LFunction)
	if !ok {
		return fallbackConsequence
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LNumber(severity)); err != nil {
		return fallbackConsequence
	}
	ret := L.Get(-1)
	L.Pop(1)
	str, ok := ret.(lua.LString)
	if !ok {
		return fallbackConsequence
	}
	return string(str)
}

const fallbackConsequence = "the caster is overwhelmed by anima feedback"
