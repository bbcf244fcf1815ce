package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPortalSpecEmbedded(t *testing.T) {
	spec, err := LoadPortalSpec("portal.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "portal" {
		t.Fatalf("expected name portal, got %q", spec.Name)
	}
	if spec.Duration != 1 {
		t.Fatalf("expected duration 1, got %v", spec.Duration)
	}
	if !spec.Opened() {
		t.Fatalf("expected portal to start open")
	}
	if spec.Keys.Open != "W" || spec.Keys.Close != "Q" {
		t.Fatalf("unexpected keys %+v", spec.Keys)
	}
	if len(spec.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(spec.Parts))
	}
	if got := spec.Parts[0].Uniforms; got.CircleClip != 1 || got.CircleWidth != 0.5 || got.Feather != 0.1 {
		t.Fatalf("unexpected rim uniforms %+v", got)
	}
}

func TestLoadProximitySpecEmbedded(t *testing.T) {
	spec, err := LoadPortalSpec("prefabs/portal_proximity.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Opened() {
		t.Fatalf("expected portal to start closed")
	}
	if !spec.FlipOnComplete {
		t.Fatalf("expected flip_on_complete")
	}
	if spec.Proximity.Radius != 160 {
		t.Fatalf("expected radius 160, got %v", spec.Proximity.Radius)
	}
	if _, err := LoadScript(spec.TriggerScript); err != nil {
		t.Fatalf("trigger script %q: %v", spec.TriggerScript, err)
	}
}

func TestParsePortalSpecDefaults(t *testing.T) {
	spec, err := ParsePortalSpec([]byte(`
name: bare
parts:
  - name: only
    transform: { w: 10, h: 10 }
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if spec.Duration != DefaultDuration {
		t.Fatalf("expected default duration, got %v", spec.Duration)
	}
	if !spec.Opened() {
		t.Fatalf("expected start_open default true")
	}
	if spec.Keys.Open != DefaultOpenKey || spec.Keys.Close != DefaultCloseKey {
		t.Fatalf("unexpected default keys %+v", spec.Keys)
	}
	if got := spec.Parts[0].Tint.Vec4(); got != [4]float32{1, 1, 1, 1} {
		t.Fatalf("expected white default tint, got %v", got)
	}
}

func TestParsePortalSpecInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "negative duration", yaml: "duration: -1\nparts: [{transform: {w: 1, h: 1}}]"},
		{name: "nan duration", yaml: "duration: .nan\nparts: [{transform: {w: 1, h: 1}}]"},
		{name: "infinite duration", yaml: "duration: .inf\nparts: [{transform: {w: 1, h: 1}}]"},
		{name: "no parts", yaml: "name: empty"},
		{name: "zero size part", yaml: "parts: [{name: flat, transform: {w: 0, h: 1}}]"},
		{name: "negative radius", yaml: "proximity: {radius: -2}\nparts: [{transform: {w: 1, h: 1}}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePortalSpec([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("expected ErrInvalidSpec, got %v", err)
			}
		})
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [4]float32
		err  bool
	}{
		{name: "hex", in: "\"#ff0000\"", want: [4]float32{1, 0, 0, 1}},
		{name: "hex alpha", in: "\"#00ff0000\"", want: [4]float32{0, 1, 0, 0}},
		{name: "named", in: "white", want: [4]float32{1, 1, 1, 1}},
		{name: "named mixed case", in: "Black", want: [4]float32{0, 0, 0, 1}},
		{name: "bad length", in: "\"#fff\"", err: true},
		{name: "bad digits", in: "\"#gg0000\"", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParsePortalSpec([]byte("parts: [{transform: {w: 1, h: 1}, tint: " + tt.in + "}]"))
			if tt.err {
				if err == nil {
					t.Fatalf("expected error for %s", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := spec.Parts[0].Tint.Vec4(); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	prev := DiskRoot
	DiskRoot = dir
	t.Cleanup(func() { DiskRoot = prev })

	yaml := "name: override\nparts: [{transform: {w: 4, h: 4}}]\n"
	if err := os.WriteFile(filepath.Join(dir, "portal.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	spec, err := LoadPortalSpec("portal.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "override" {
		t.Fatalf("expected disk override, got %q", spec.Name)
	}
	if _, ok := ModTime("portal.yaml"); !ok {
		t.Fatalf("expected mod time for disk file")
	}
	if _, ok := ModTime("portal_proximity.yaml"); ok {
		t.Fatalf("expected no mod time for embedded-only file")
	}
}

func TestCleanScriptPath(t *testing.T) {
	tests := map[string]string{
		"portal_trigger.tengo":                 "scripts/portal_trigger.tengo",
		"scripts/portal_trigger.tengo":         "scripts/portal_trigger.tengo",
		"prefabs/scripts/portal_trigger.tengo": "scripts/portal_trigger.tengo",
	}
	for in, want := range tests {
		if got := cleanScriptPath(in); got != want {
			t.Fatalf("cleanScriptPath(%q) = %q, want %q", in, got, want)
		}
	}
}
