package system

import (
	"testing"

	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/ecs/entity"
	"github.com/milk9111/portal/prefabs"
)

const testTick = 1.0 / 60.0

type fakeKeys struct {
	pressed []string
	x, y    float64
}

func (f *fakeKeys) JustPressed() []string {
	out := f.pressed
	f.pressed = nil
	return out
}

func (f *fakeKeys) Axis() (float64, float64) {
	return f.x, f.y
}

func (f *fakeKeys) press(keys ...string) {
	f.pressed = append(f.pressed, keys...)
}

const twoPartPortal = `
name: test_portal
duration: 1
persist_key: test_portal
parts:
  - name: rim
    transform: { x: 0, y: 0, w: 100, h: 100 }
    uniforms: { circle_clip: 1.0, circle_width: 0.5, feather: 0.1 }
  - name: core
    transform: { x: 10, y: 10, w: 80, h: 80 }
    uniforms: { circle_clip: 0.8, circle_width: 0.3, feather: 0.05 }
`

func mustSpec(t *testing.T, yaml string) *prefabs.PortalSpec {
	t.Helper()
	spec, err := prefabs.ParsePortalSpec([]byte(yaml))
	if err != nil {
		t.Fatalf("parse spec: %v", err)
	}
	return spec
}

func mustPortal(t *testing.T, w *ecs.World, spec *prefabs.PortalSpec) (ecs.Entity, *component.Portal) {
	t.Helper()
	root, err := entity.BuildPortal(w, spec, nil, testTick)
	if err != nil {
		t.Fatalf("build portal: %v", err)
	}
	p, ok := ecs.Get(w, root, component.PortalComponent)
	if !ok {
		t.Fatalf("portal component missing")
	}
	return root, p
}

func mustInput(t *testing.T, w *ecs.World) {
	t.Helper()
	if _, err := entity.NewInput(w); err != nil {
		t.Fatalf("input: %v", err)
	}
}

func partUniform(t *testing.T, w *ecs.World, p *component.Portal, part int, name string) float64 {
	t.Helper()
	mat, ok := ecs.Get(w, ecs.Entity(p.Parts[part]), component.MaterialComponent)
	if !ok {
		t.Fatalf("part %d has no material", part)
	}
	v, ok := mat.Float(name)
	if !ok {
		t.Fatalf("part %d has no uniform %s", part, name)
	}
	return v
}

func eventTypes(events []ecs.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}
