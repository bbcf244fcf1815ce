package portal

import "github.com/milk9111/portal/common"

// Direction selects which baseline a transition starts from.
type Direction int

const (
	Opening Direction = iota
	Closing
)

func (d Direction) String() string {
	switch d {
	case Opening:
		return "opening"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// Interpolate lerps from -> to by elapsed/duration clamped to [0,1]. A
// ratio of 1 yields to exactly.
func Interpolate(from, to Params, elapsed, duration float64) Params {
	t := 1.0
	if duration > 0 {
		t = common.Clamp01(elapsed / duration)
	}
	if t >= 1 {
		return to
	}
	return from.Lerp(to, t)
}

// OpenValues interpolates part from the closed baseline to its opened one.
func OpenValues(r *Registry, part int, elapsed, duration float64) (Params, error) {
	from, to, err := endpoints(r, part)
	if err != nil {
		return Params{}, err
	}
	return Interpolate(from, to, elapsed, duration), nil
}

// CloseValues interpolates part from its opened baseline to the closed one.
func CloseValues(r *Registry, part int, elapsed, duration float64) (Params, error) {
	from, to, err := endpoints(r, part)
	if err != nil {
		return Params{}, err
	}
	return Interpolate(to, from, elapsed, duration), nil
}

func Values(dir Direction, r *Registry, part int, elapsed, duration float64) (Params, error) {
	if dir == Closing {
		return CloseValues(r, part, elapsed, duration)
	}
	return OpenValues(r, part, elapsed, duration)
}

// endpoints returns (closed, opened) for part.
func endpoints(r *Registry, part int) (Params, Params, error) {
	opened, err := r.Opened(part)
	if err != nil {
		return Params{}, Params{}, err
	}
	closed, err := r.Closed()
	if err != nil {
		return Params{}, Params{}, err
	}
	return closed, opened, nil
}
