package portal

import (
	"math"
	"testing"
)

// fakeMaterial stores uniforms the way component.Material does, minus the
// shader.
type fakeMaterial map[string]float64

func (m fakeMaterial) Float(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

func (m fakeMaterial) SetFloat(name string, v float64) {
	m[name] = v
}

func newFakeMaterial(p Params) fakeMaterial {
	return fakeMaterial{
		UniformCircleClip:  p.CircleClip,
		UniformCircleWidth: p.CircleWidth,
		UniformFeather:     p.Feather,
	}
}

func (m fakeMaterial) params() Params {
	return Params{
		CircleClip:  m[UniformCircleClip],
		CircleWidth: m[UniformCircleWidth],
		Feather:     m[UniformFeather],
	}
}

var (
	part0Opened = Params{CircleClip: 1, CircleWidth: 0.5, Feather: 0.1}
	part1Opened = Params{CircleClip: 0.8, CircleWidth: 0.3, Feather: 0.05}
)

func twoParts() (fakeMaterial, fakeMaterial, []Material) {
	m0 := newFakeMaterial(part0Opened)
	m1 := newFakeMaterial(part1Opened)
	return m0, m1, []Material{m0, m1}
}

func capturedRegistry(t *testing.T) *Registry {
	t.Helper()
	_, _, parts := twoParts()
	reg, err := NewRegistry(parts, Params{})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if err := reg.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	return reg
}

func approxParams(a, b Params, tol float64) bool {
	return math.Abs(a.CircleClip-b.CircleClip) <= tol &&
		math.Abs(a.CircleWidth-b.CircleWidth) <= tol &&
		math.Abs(a.Feather-b.Feather) <= tol
}
