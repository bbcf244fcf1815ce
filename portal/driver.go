package portal

import (
	"fmt"
	"log"
)

// elapsedEpsilon absorbs the rounding of many accumulated frame deltas so
// that, e.g., ten 0.1s ticks finish a 1s transition on the tenth tick.
const elapsedEpsilon = 1e-9

// Driver advances one transition at a time and writes the interpolated
// uniforms to every part on each tick. It is the only code that writes
// material parameters.
type Driver struct {
	reg      *Registry
	duration float64

	running bool
	dir     Direction
	elapsed float64
	runs    int

	// OnComplete, if set, is called after the final write of a run.
	OnComplete func(Direction)
}

func NewDriver(reg *Registry, duration float64) (*Driver, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registry", ErrConfiguration)
	}
	if !reg.Captured() {
		return nil, fmt.Errorf("%w: baselines not captured", ErrOutOfRange)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration %v must be positive", ErrConfiguration, duration)
	}
	return &Driver{reg: reg, duration: duration}, nil
}

// Run starts a transition and writes its first pose (elapsed 0).
func (d *Driver) Run(dir Direction) error {
	if d.running {
		return ErrTransitionActive
	}
	d.running = true
	d.dir = dir
	d.elapsed = 0
	d.runs++
	d.write(0)
	return nil
}

// Tick is the per-frame resume point of a running transition.
func (d *Driver) Tick(dt float64) {
	if !d.running {
		return
	}
	if dt > 0 {
		d.elapsed += dt
	}
	if d.elapsed+elapsedEpsilon < d.duration {
		d.write(d.elapsed)
		return
	}

	d.elapsed = d.duration
	d.write(d.duration)
	d.running = false
	if d.OnComplete != nil {
		d.OnComplete(d.dir)
	}
}

// Apply writes the pose of dir at elapsed without starting a run.
func (d *Driver) Apply(dir Direction, elapsed float64) {
	prev := d.dir
	d.dir = dir
	d.write(elapsed)
	d.dir = prev
}

func (d *Driver) write(elapsed float64) {
	for i := 0; i < d.reg.Len(); i++ {
		p, err := Values(d.dir, d.reg, i, elapsed, d.duration)
		if err != nil {
			log.Printf("portal: %s part %d: %v", d.dir, i, err)
			continue
		}
		m, _ := d.reg.Part(i)
		writeParams(m, p)
	}
}

func (d *Driver) Running() bool {
	return d.running
}

func (d *Driver) Direction() Direction {
	return d.dir
}

func (d *Driver) Elapsed() float64 {
	return d.elapsed
}

func (d *Driver) Duration() float64 {
	return d.duration
}

// Runs counts how many transitions were started.
func (d *Driver) Runs() int {
	return d.runs
}
