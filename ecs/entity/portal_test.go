package entity

import (
	"testing"

	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/portal"
	"github.com/milk9111/portal/prefabs"
)

func TestBuildPortalFromEmbeddedPrefab(t *testing.T) {
	spec, err := prefabs.LoadPortalSpec("portal.yaml")
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}

	w := ecs.NewWorld()
	root, err := BuildPortal(w, spec, nil, 1.0/60.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	p, ok := ecs.Get(w, root, component.PortalComponent)
	if !ok {
		t.Fatalf("root has no portal component")
	}
	if len(p.Parts) != len(spec.Parts) {
		t.Fatalf("expected %d parts, got %d", len(spec.Parts), len(p.Parts))
	}
	if p.Controller.State() != portal.Open {
		t.Fatalf("expected open start state")
	}
	if p.Controller.Registry().Len() != len(spec.Parts) {
		t.Fatalf("registry size mismatch")
	}

	for i, id := range p.Parts {
		part, ok := ecs.Get(w, ecs.Entity(id), component.PortalPartComponent)
		if !ok {
			t.Fatalf("part %d missing part component", i)
		}
		if part.Owner != uint64(root) || part.Index != i {
			t.Fatalf("part %d has owner %d index %d", i, part.Owner, part.Index)
		}
		opened, err := p.Controller.Registry().Opened(i)
		if err != nil {
			t.Fatalf("opened %d: %v", i, err)
		}
		want := spec.Parts[i].Uniforms
		if float32(opened.CircleClip) != float32(want.CircleClip) || float32(opened.Feather) != float32(want.Feather) {
			t.Fatalf("part %d baseline %+v, want %+v", i, opened, want)
		}
	}

	if !ecs.Has(w, root, component.TriggerKeysComponent) {
		t.Fatalf("expected key trigger")
	}
	if !ecs.Has(w, root, component.PersistentComponent) {
		t.Fatalf("expected persistent component")
	}
	if ecs.Has(w, root, component.ProximityComponent) {
		t.Fatalf("radius 0 should not add proximity")
	}

	bounds, _ := ecs.Get(w, root, component.TransformComponent)
	if bounds.X != 440 || bounds.Y != 160 || bounds.W != 400 || bounds.H != 400 {
		t.Fatalf("unexpected bounds %+v", bounds)
	}
}

func TestBuildPortalStartClosed(t *testing.T) {
	spec, err := prefabs.LoadPortalSpec("portal_proximity.yaml")
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}

	w := ecs.NewWorld()
	root, err := BuildPortal(w, spec, nil, 1.0/60.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	p, _ := ecs.Get(w, root, component.PortalComponent)
	if p.Controller.State() != portal.Closed {
		t.Fatalf("expected closed start state")
	}
	mat, _ := ecs.Get(w, ecs.Entity(p.Parts[0]), component.MaterialComponent)
	if v, _ := mat.Float(portal.UniformCircleClip); v != 0 {
		t.Fatalf("closed start should seat the closed pose, got %v", v)
	}
	if !ecs.Has(w, root, component.TriggerScriptComponent) || ecs.Has(w, root, component.TriggerKeysComponent) {
		t.Fatalf("scripted portal should not get key triggers")
	}
	if !p.Controller.Config().FlipOnComplete {
		t.Fatalf("expected flip on complete")
	}
}

func TestBuildPortalRollsBackOnError(t *testing.T) {
	w := ecs.NewWorld()
	spec := &prefabs.PortalSpec{Name: "bad", Duration: 1}
	if _, err := BuildPortal(w, spec, nil, 1.0/60.0); err == nil {
		t.Fatalf("expected error for a spec without parts")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("expected no entities left behind, got %d", n)
	}
}

func TestDestroyPortal(t *testing.T) {
	spec, err := prefabs.LoadPortalSpec("portal.yaml")
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	w := ecs.NewWorld()
	root, err := BuildPortal(w, spec, nil, 1.0/60.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	DestroyPortal(w, root)
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("expected all portal entities destroyed, got %d", n)
	}
}

func TestConfigFromSpec(t *testing.T) {
	closed := false
	spec := &prefabs.PortalSpec{
		Duration:  2,
		StartOpen: &closed,
		Closed:    prefabs.UniformSpec{CircleClip: 0.1},
	}
	cfg := ConfigFromSpec(spec, 0)
	if cfg.Duration != 2 || cfg.StartOpen || cfg.Closed.CircleClip != 0.1 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.TickPeriod != portal.DefaultConfig().TickPeriod {
		t.Fatalf("zero tick period should keep the default, got %v", cfg.TickPeriod)
	}
}

func TestBuildPortalObservesFlips(t *testing.T) {
	spec, err := prefabs.LoadPortalSpec("portal.yaml")
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	w := ecs.NewWorld()
	root, err := BuildPortal(w, spec, nil, 1.0/60.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	p, _ := ecs.Get(w, root, component.PortalComponent)
	persist, _ := ecs.Get(w, root, component.PersistentComponent)

	if !p.Controller.RequestClose() {
		t.Fatalf("close request rejected")
	}
	for i := 0; i < 58; i++ {
		p.Controller.Tick(1.0 / 60.0)
	}
	if p.Flipped || persist.Dirty {
		t.Fatalf("nothing should be marked before the flip lands")
	}

	p.Controller.Tick(1.0 / 60.0)
	if p.Controller.State() != portal.Closed {
		t.Fatalf("expected the flip on tick 59")
	}
	if !p.Flipped || !persist.Dirty {
		t.Fatalf("flip should mark the portal flipped and dirty, got flipped=%v dirty=%v", p.Flipped, persist.Dirty)
	}
}
