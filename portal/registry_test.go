package portal

import (
	"errors"
	"testing"
)

func TestNewRegistryRejectsBadParts(t *testing.T) {
	cases := []struct {
		name  string
		parts []Material
	}{
		{"nil_slice", nil},
		{"empty", []Material{}},
		{"nil_part", []Material{newFakeMaterial(part0Opened), nil}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewRegistry(c.parts, Params{}); !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestRegistryCapture(t *testing.T) {
	m0, m1, parts := twoParts()
	closed := Params{CircleClip: 0.1}
	reg, err := NewRegistry(parts, closed)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if _, err := reg.Opened(0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Opened before Capture: expected ErrOutOfRange, got %v", err)
	}
	if _, err := reg.Closed(); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Closed before Capture: expected ErrOutOfRange, got %v", err)
	}

	if err := reg.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	// later material writes must not move the baselines
	m0.SetFloat(UniformCircleClip, 42)
	m1.SetFloat(UniformFeather, 42)

	got0, err := reg.Opened(0)
	if err != nil || got0 != part0Opened {
		t.Fatalf("Opened(0) = %+v, %v; want %+v", got0, err, part0Opened)
	}
	got1, err := reg.Opened(1)
	if err != nil || got1 != part1Opened {
		t.Fatalf("Opened(1) = %+v, %v; want %+v", got1, err, part1Opened)
	}
	if c, err := reg.Closed(); err != nil || c != closed {
		t.Fatalf("Closed() = %+v, %v; want %+v", c, err, closed)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}

	if err := reg.Capture(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("second Capture: expected ErrConfiguration, got %v", err)
	}
}

func TestRegistryIndexRange(t *testing.T) {
	reg := capturedRegistry(t)
	for _, idx := range []int{-1, 2, 100} {
		if _, err := reg.Opened(idx); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Opened(%d): expected ErrOutOfRange, got %v", idx, err)
		}
		if _, err := reg.Part(idx); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Part(%d): expected ErrOutOfRange, got %v", idx, err)
		}
	}
}

func TestRegistryCaptureMissingUniform(t *testing.T) {
	m := newFakeMaterial(part0Opened)
	delete(m, UniformFeather)
	reg, err := NewRegistry([]Material{m}, Params{})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if err := reg.Capture(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if reg.Captured() {
		t.Fatalf("failed capture must leave the registry uncaptured")
	}
}
