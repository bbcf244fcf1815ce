package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/ecs/entity"
	"github.com/milk9111/portal/portal"
	"github.com/milk9111/portal/prefabs"
	"gopkg.in/yaml.v3"
)

func TestSnapshotUniformsRoundTripsIntoPrefab(t *testing.T) {
	spec, err := prefabs.LoadPortalSpec("portal.yaml")
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	w := ecs.NewWorld()
	root, err := entity.BuildPortal(w, spec, nil, 1.0/60.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	p, _ := ecs.Get(w, root, component.PortalComponent)
	mat, _ := ecs.Get(w, ecs.Entity(p.Parts[0]), component.MaterialComponent)
	mat.SetFloat(portal.UniformFeather, 0.25)

	data, err := snapshotUniforms(w, root)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(string(data), "name: rim") {
		t.Fatalf("snapshot is missing part names:\n%s", data)
	}

	var parsed struct {
		Parts []prefabs.PartSpec `yaml:"parts"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(parsed.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parsed.Parts))
	}
	if got := parsed.Parts[0].Uniforms.Feather; got != 0.25 {
		t.Fatalf("expected tuned feather 0.25, got %v", got)
	}
}

func TestSnapshotUniformsRejectsNonPortal(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if _, err := snapshotUniforms(w, e); err == nil {
		t.Fatalf("expected error for a non-portal entity")
	}
}

func newReloadGame(t *testing.T) (*Game, string) {
	t.Helper()
	dir := t.TempDir()
	prev := prefabs.DiskRoot
	prefabs.DiskRoot = dir
	t.Cleanup(func() { prefabs.DiskRoot = prev })

	g := &Game{
		opts:  gameOptions{SpecName: "portal.yaml"},
		tick:  1.0 / 60.0,
		world: ecs.NewWorld(),
	}
	spec, err := g.loadSpec()
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	if g.root, err = entity.BuildPortal(g.world, spec, nil, g.tick); err != nil {
		t.Fatalf("build: %v", err)
	}
	return g, filepath.Join(dir, "portal.yaml")
}

func TestReloadKeepsPortalOnBrokenPrefab(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "nan duration", yaml: "name: broken\nduration: .nan\nparts: [{transform: {w: 10, h: 10}}]\n"},
		{name: "infinite duration", yaml: "name: broken\nduration: .inf\nparts: [{transform: {w: 10, h: 10}}]\n"},
		{name: "no parts", yaml: "name: broken\n"},
		{name: "bad yaml", yaml: "parts: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, path := newReloadGame(t)
			before := g.root
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}

			g.reloadPortal()
			if g.root != before || !ecs.IsAlive(g.world, before) {
				t.Fatalf("running portal was replaced or destroyed")
			}
			p := g.portal()
			if p == nil || p.Name != "portal" {
				t.Fatalf("expected the original portal to keep running, got %+v", p)
			}
			for _, id := range p.Parts {
				if !ecs.IsAlive(g.world, ecs.Entity(id)) {
					t.Fatalf("part %d of the running portal was destroyed", id)
				}
			}
		})
	}
}

func TestReloadReplacesPortalAndKeepsState(t *testing.T) {
	g, path := newReloadGame(t)
	old := g.root
	oldParts := append([]uint64(nil), g.portal().Parts...)

	p := g.portal()
	p.Controller.RequestClose()
	for i := 0; i < 60; i++ {
		p.Controller.Tick(g.tick)
	}
	if p.Controller.State() != portal.Closed || p.Controller.IsTransitioning() {
		t.Fatalf("setup: expected an idle closed portal")
	}

	yaml := "name: edited\nduration: 0.5\nparts: [{name: solo, transform: {w: 10, h: 10}, uniforms: {circle_clip: 1}}]\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	g.reloadPortal()

	if g.root == old || ecs.IsAlive(g.world, old) {
		t.Fatalf("expected the old portal to be replaced")
	}
	for _, id := range oldParts {
		if ecs.IsAlive(g.world, ecs.Entity(id)) {
			t.Fatalf("old part %d left behind", id)
		}
	}
	np := g.portal()
	if np == nil || np.Name != "edited" || len(np.Parts) != 1 {
		t.Fatalf("unexpected reloaded portal %+v", np)
	}
	if np.Controller.State() != portal.Closed {
		t.Fatalf("reload should keep the closed state")
	}
}
