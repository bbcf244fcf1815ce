package portal

import (
	"fmt"
	"math"
)

// State is the logical open/closed state of a portal.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Config holds the timing of a portal.
type Config struct {
	// Duration of one transition in seconds.
	Duration float64
	// TickPeriod is the fixed update period of the tick source. The logical
	// flip is scheduled one tick period before the transition ends.
	TickPeriod float64
	// Closed is the baseline shared by every part when fully closed.
	Closed    Params
	StartOpen bool
	// FlipOnComplete moves the logical flip to the tick on which the
	// driver writes its final pose.
	FlipOnComplete bool
}

func DefaultConfig() Config {
	return Config{
		Duration:   1,
		TickPeriod: 1.0 / 60.0,
		StartOpen:  true,
	}
}

func (c Config) Validate() error {
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration %v must be positive", ErrConfiguration, c.Duration)
	}
	if !(c.TickPeriod > 0) || math.IsInf(c.TickPeriod, 0) {
		return fmt.Errorf("%w: tick period %v must be positive", ErrConfiguration, c.TickPeriod)
	}
	return nil
}

// FlipDelay is how long after a trigger the logical state changes. A
// duration shorter than one tick clamps to zero, i.e. the next tick.
func (c Config) FlipDelay() float64 {
	return math.Max(0, c.Duration-c.TickPeriod)
}

// Controller gates open/close requests, starts the driver and flips the
// logical state on schedule. All methods must be called from the update
// loop.
type Controller struct {
	cfg    Config
	reg    *Registry
	driver *Driver
	timers Timers

	state   State
	pending State
	flipped []func(State)
}

// NewController captures the parts' baselines and returns a controller in
// cfg's start state. When the portal starts closed the closed pose is
// written right away.
func NewController(parts []Material, cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := NewRegistry(parts, cfg.Closed)
	if err != nil {
		return nil, err
	}
	if err := reg.Capture(); err != nil {
		return nil, err
	}
	driver, err := NewDriver(reg, cfg.Duration)
	if err != nil {
		return nil, err
	}

	c := &Controller{cfg: cfg, reg: reg, driver: driver, state: Open}
	if !cfg.StartOpen {
		c.state = Closed
		driver.Apply(Closing, cfg.Duration)
	}
	driver.OnComplete = func(Direction) {
		if c.cfg.FlipOnComplete {
			c.setState(c.pending)
		}
	}
	return c, nil
}

// RequestOpen starts an opening transition. It reports false and does
// nothing when the portal is already open or a transition is running.
func (c *Controller) RequestOpen() bool {
	return c.request(Open)
}

// RequestClose is the closing counterpart of RequestOpen.
func (c *Controller) RequestClose() bool {
	return c.request(Closed)
}

// Toggle requests the opposite of the current state.
func (c *Controller) Toggle() bool {
	if c.state == Open {
		return c.RequestClose()
	}
	return c.RequestOpen()
}

func (c *Controller) request(target State) bool {
	if c.driver.Running() || c.state == target {
		return false
	}
	dir := Opening
	if target == Closed {
		dir = Closing
	}
	if err := c.driver.Run(dir); err != nil {
		return false
	}
	c.pending = target
	if !c.cfg.FlipOnComplete {
		c.timers.After(c.cfg.FlipDelay(), func() { c.setState(target) })
	}
	return true
}

// Tick advances the running transition and then the deferred flip.
func (c *Controller) Tick(dt float64) {
	c.driver.Tick(dt)
	c.timers.Advance(dt)
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.state = s
	for _, fn := range c.flipped {
		fn(s)
	}
}

// OnStateChange registers fn to run whenever the logical state flips.
func (c *Controller) OnStateChange(fn func(State)) {
	if fn == nil {
		return
	}
	c.flipped = append(c.flipped, fn)
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) IsTransitioning() bool {
	return c.driver.Running()
}

// Progress is the elapsed ratio of the current or last transition.
func (c *Controller) Progress() float64 {
	return c.driver.Elapsed() / c.driver.Duration()
}

func (c *Controller) Direction() Direction {
	return c.driver.Direction()
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) Registry() *Registry {
	return c.reg
}

func (c *Controller) Driver() *Driver {
	return c.driver
}
