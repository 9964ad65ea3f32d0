package costmodel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"maritime-route-service/internal/domain"
)

// ScriptedCriterion wraps a single sandboxed Lua script exposing a
// `cost(edge, vessel) -> number` function, the escape hatch spec.md's
// fixed four-criterion table leaves no room for. The state is loaded
// once and reused across requests; gopher-lua's *lua.LState is not
// safe for concurrent calls, so each ScriptedCriterion serializes
// access with a mutex.
type ScriptedCriterion struct {
	name  string
	state *lua.LState
	mu    chan struct{} // 1-buffered, used as a non-reentrant lock
}

// LoadScriptedCriteria loads every "*.lua" file in dir as a named
// criterion (a file "surge_pricing.lua" registers as "custom:surge_pricing").
// A missing or empty dir yields an empty set, not an error — the
// scripted-criterion feature is optional.
func LoadScriptedCriteria(dir string) (map[string]*ScriptedCriterion, error) {
	out := make(map[string]*ScriptedCriterion)
	if dir == "" {
		return out, nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load scripted criteria: read dir %q: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".lua")
		sc, err := newScriptedCriterion(name, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load scripted criteria: %s: %w", entry.Name(), err)
		}
		out[name] = sc
	}
	return out, nil
}

func newScriptedCriterion(name, path string) (*ScriptedCriterion, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Sandboxed: only base, table, string, and math libraries are
	// opened. No os/io/package libraries, so a script cannot touch the
	// filesystem or spawn processes.
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, pair := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := l.CallByParam(lua.P{Fn: l.NewFunction(pair.fn), NRet: 0, Protect: true}, lua.LString(pair.name)); err != nil {
			l.Close()
			return nil, fmt.Errorf("open lua lib %s: %w", pair.name, err)
		}
	}
	// The base library also defines dofile and loadfile; drop them.
	l.SetGlobal("dofile", lua.LNil)
	l.SetGlobal("loadfile", lua.LNil)

	if err := l.DoString(string(raw)); err != nil {
		l.Close()
		return nil, fmt.Errorf("run script: %w", err)
	}
	if l.GetGlobal("cost").Type() != lua.LTFunction {
		l.Close()
		return nil, fmt.Errorf("script %s: must define a global function cost(edge, vessel)", name)
	}

	sc := &ScriptedCriterion{name: name, state: l, mu: make(chan struct{}, 1)}
	sc.mu <- struct{}{}
	return sc, nil
}

// Cost invokes the script's cost(edge, vessel) function with the edge's
// public fields and the vessel's, and returns its numeric result.
func (s *ScriptedCriterion) Cost(edge domain.Edge, vessel domain.VesselConstraints) (float64, error) {
	<-s.mu
	defer func() { s.mu <- struct{}{} }()

	edgeTable := s.state.NewTable()
	edgeTable.RawSetString("distance_nm", lua.LNumber(edge.DistanceNM))
	edgeTable.RawSetString("congestion", lua.LNumber(edge.BaseCongestionFactor))
	edgeTable.RawSetString("weather_factor", lua.LNumber(edge.WeatherZoneFactor))
	edgeTable.RawSetString("piracy_risk", lua.LNumber(edge.PiracyRiskScore))
	edgeTable.RawSetString("political_risk", lua.LNumber(edge.PoliticalRiskScore))
	edgeTable.RawSetString("kind", lua.LString(edge.Kind))

	vesselTable := s.state.NewTable()
	vesselTable.RawSetString("cruise_speed_kn", lua.LNumber(vessel.CruiseSpeedKn))
	vesselTable.RawSetString("type", lua.LString(vessel.Type))

	if err := s.state.CallByParam(lua.P{
		Fn: s.state.GetGlobal("cost"), NRet: 1, Protect: true,
	}, edgeTable, vesselTable); err != nil {
		return 0, fmt.Errorf("scripted criterion %s: %w", s.name, err)
	}
	defer s.state.Pop(1)

	ret := s.state.Get(-1)
	num, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("scripted criterion %s: cost() must return a number, got %s", s.name, ret.Type())
	}
	return float64(num), nil
}

// Close releases the underlying Lua state.
func (s *ScriptedCriterion) Close() {
	s.state.Close()
}
