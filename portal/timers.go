package portal

// Timers is the deferred one-shot queue of the tick source. Callbacks are
// checked on every Advance, so a delay only lands on tick boundaries.
type Timers struct {
	pending []timer
}

type timer struct {
	remaining float64
	fn        func()
}

// After schedules fn to run once delay seconds of ticks have passed. A
// non-positive delay fires on the next Advance.
func (t *Timers) After(delay float64, fn func()) {
	if fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	t.pending = append(t.pending, timer{remaining: delay, fn: fn})
}

// Advance counts dt off every timer and fires the due ones in scheduling
// order.
func (t *Timers) Advance(dt float64) {
	if len(t.pending) == 0 {
		return
	}
	var due []func()
	kept := t.pending[:0]
	for _, tm := range t.pending {
		tm.remaining -= dt
		if tm.remaining <= elapsedEpsilon {
			due = append(due, tm.fn)
			continue
		}
		kept = append(kept, tm)
	}
	t.pending = kept
	for _, fn := range due {
		fn()
	}
}

func (t *Timers) Pending() int {
	return len(t.pending)
}
