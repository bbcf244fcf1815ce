package system

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/portal"
	"github.com/milk9111/portal/prefabs"
)

const triggerDispatchScript = `
update(__engine, __state)
`

type triggerScriptRuntime struct {
	scriptPath string
	compiled   *tengo.Compiled
	stateData  *tengo.Map
	failed     bool
}

// TriggerScriptSystem runs a tengo script per portal each tick. The script
// defines update(engine, state) and requests transitions through engine.
type TriggerScriptSystem struct {
	cache map[ecs.Entity]*triggerScriptRuntime
}

func NewTriggerScriptSystem() *TriggerScriptSystem {
	return &TriggerScriptSystem{cache: map[ecs.Entity]*triggerScriptRuntime{}}
}

// Invalidate drops compiled scripts so the next update reloads them. An
// empty path drops everything.
func (s *TriggerScriptSystem) Invalidate(path string) {
	for e, rt := range s.cache {
		if path == "" || sameScript(rt.scriptPath, path) {
			delete(s.cache, e)
		}
	}
}

func (s *TriggerScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.cache {
		if !w.IsAlive(e) {
			delete(s.cache, e)
		}
	}

	var input *component.Input
	if e, ok := ecs.First(w, component.InputComponent); ok {
		input, _ = ecs.Get(w, e, component.InputComponent)
	}

	ecs.ForEach2(w, component.PortalComponent, component.TriggerScriptComponent, func(e ecs.Entity, p *component.Portal, ts *component.TriggerScript) {
		if p.Controller == nil {
			return
		}
		rt, err := s.runtime(e, ts.Path)
		if err != nil {
			log.Printf("portal: %s: load trigger script %s: %v", p.Name, ts.Path, err)
			return
		}
		if rt.failed {
			return
		}

		prox, _ := ecs.Get(w, e, component.ProximityComponent)
		engine := buildTriggerEngine(p, input, prox)
		if err := rt.run(engine); err != nil {
			// Stop running a broken script until it is reloaded.
			rt.failed = true
			log.Printf("portal: %s: trigger script %s: %v", p.Name, ts.Path, err)
		}
	})
}

// runtime returns the cached script for e, loading it on first use. A
// script that fails to load or compile is cached as failed, so the error
// is reported once until Invalidate drops it.
func (s *TriggerScriptSystem) runtime(e ecs.Entity, path string) (*triggerScriptRuntime, error) {
	if rt, ok := s.cache[e]; ok && rt.scriptPath == path {
		return rt, nil
	}

	rt, err := loadTriggerScript(path)
	if err != nil {
		s.cache[e] = &triggerScriptRuntime{scriptPath: path, failed: true}
		return nil, err
	}
	s.cache[e] = rt
	return rt, nil
}

func loadTriggerScript(path string) (*triggerScriptRuntime, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty script path")
	}
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}
	return compileTriggerScript(path, src)
}

func compileTriggerScript(path string, src []byte) (*triggerScriptRuntime, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + triggerDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &triggerScriptRuntime{
		scriptPath: path,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (rt *triggerScriptRuntime) run(engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildTriggerEngine(p *component.Portal, input *component.Input, prox *component.Proximity) *tengo.ImmutableMap {
	ctrl := p.Controller
	values := map[string]tengo.Object{}

	values["key"] = &tengo.UserFunction{Name: "key", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(input.Pressed(objectAsString(args[0]))), nil
	}}
	values["near"] = &tengo.UserFunction{Name: "near", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(prox != nil && prox.Inside), nil
	}}
	values["entered"] = &tengo.UserFunction{Name: "entered", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(prox != nil && prox.Entered), nil
	}}
	values["left"] = &tengo.UserFunction{Name: "left", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(prox != nil && prox.Left), nil
	}}
	values["is_open"] = &tengo.UserFunction{Name: "is_open", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(ctrl.State() == portal.Open), nil
	}}
	values["transitioning"] = &tengo.UserFunction{Name: "transitioning", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(ctrl.IsTransitioning()), nil
	}}
	values["progress"] = &tengo.UserFunction{Name: "progress", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: ctrl.Progress()}, nil
	}}
	values["open"] = &tengo.UserFunction{Name: "open", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p.OpenRequested = true
		return tengo.TrueValue, nil
	}}
	values["close"] = &tengo.UserFunction{Name: "close", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p.CloseRequested = true
		return tengo.TrueValue, nil
	}}
	values["toggle"] = &tengo.UserFunction{Name: "toggle", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p.ToggleRequested = true
		return tengo.TrueValue, nil
	}}
	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("portal: %s: %s", p.Name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

// sameScript compares by file name; scripts all live in prefabs/scripts.
func sameScript(a, b string) bool {
	return filepath.Base(filepath.ToSlash(a)) == filepath.Base(filepath.ToSlash(b))
}
