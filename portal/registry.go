package portal

import "fmt"

// Registry owns the animated parts and their baselines. Opened baselines are
// read from the materials once by Capture; the closed baseline is shared by
// every part.
type Registry struct {
	parts    []Material
	opened   []Params
	closed   Params
	captured bool
}

func NewRegistry(parts []Material, closed Params) (*Registry, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no parts", ErrConfiguration)
	}
	for i, p := range parts {
		if p == nil {
			return nil, fmt.Errorf("%w: part %d is nil", ErrConfiguration, i)
		}
	}
	return &Registry{
		parts:  append([]Material(nil), parts...),
		closed: closed,
	}, nil
}

// Capture stores each part's current uniforms as its opened baseline. It
// must run exactly once, before any transition.
func (r *Registry) Capture() error {
	if r.captured {
		return fmt.Errorf("%w: baselines already captured", ErrConfiguration)
	}
	opened := make([]Params, len(r.parts))
	for i, m := range r.parts {
		p, err := readParams(m)
		if err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
		opened[i] = p
	}
	r.opened = opened
	r.captured = true
	return nil
}

func (r *Registry) Captured() bool {
	return r.captured
}

func (r *Registry) Len() int {
	return len(r.parts)
}

func (r *Registry) Part(i int) (Material, error) {
	if i < 0 || i >= len(r.parts) {
		return nil, fmt.Errorf("%w: part index %d of %d", ErrOutOfRange, i, len(r.parts))
	}
	return r.parts[i], nil
}

func (r *Registry) Opened(i int) (Params, error) {
	if !r.captured {
		return Params{}, fmt.Errorf("%w: baselines not captured", ErrOutOfRange)
	}
	if i < 0 || i >= len(r.opened) {
		return Params{}, fmt.Errorf("%w: part index %d of %d", ErrOutOfRange, i, len(r.opened))
	}
	return r.opened[i], nil
}

func (r *Registry) Closed() (Params, error) {
	if !r.captured {
		return Params{}, fmt.Errorf("%w: baselines not captured", ErrOutOfRange)
	}
	return r.closed, nil
}
