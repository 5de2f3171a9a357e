// Package lifecycle implements the deterministic over -> hold -> revert
// phase machine that drives every active builder. It is grounded on the
// Python original's Lifecycle class (src_v2/lifecycle.py): phases with a
// zero or unset duration are skipped, and a single Advance call can cross
// several instantaneous phases by re-entering itself after firing that
// phase's callbacks.
package lifecycle

import (
	"time"

	"github.com/cursorig/rig/easing"
)

// Phase identifies where a Lifecycle currently is.
type Phase int

const (
	// None is both the pre-start and the terminal phase.
	None Phase = iota
	Over
	Hold
	Revert
)

func (p Phase) String() string {
	switch p {
	case Over:
		return "over"
	case Hold:
		return "hold"
	case Revert:
		return "revert"
	default:
		return "none"
	}
}

// PhaseConfig is the duration and easing for a single phase. A nil Ms
// (or Ms <= 0) means the phase is skipped entirely.
type PhaseConfig struct {
	Ms     *float64
	Easing string
}

func (c PhaseConfig) durationMs() float64 {
	if c.Ms == nil {
		return 0
	}
	return *c.Ms
}

func (c PhaseConfig) configured() bool { return c.Ms != nil && *c.Ms > 0 }

// callbackEntry is one registered (phase, fn) pair, fired once when
// the lifecycle leaves Phase, in insertion order relative to other
// entries on the same phase.
type callbackEntry struct {
	phase Phase
	fn    func()
	fired bool
}

// Lifecycle owns the phase/duration/easing state for one active
// builder. It is driven entirely by Advance(now); there is no internal
// timer or goroutine.
type Lifecycle struct {
	over, hold, revert PhaseConfig

	phase        Phase
	phaseStart   time.Time
	started      bool
	revertWasSet bool // true iff revert was explicitly configured, even as 0ms
	callbacks    []callbackEntry
}

// New builds a Lifecycle from per-phase configuration. revertConfigured
// distinguishes "revert was never requested" from "revert was requested
// with 0ms", which matters for HasReverted.
func New(over, hold, revert PhaseConfig, revertConfigured bool) *Lifecycle {
	return &Lifecycle{
		over:         over,
		hold:         hold,
		revert:       revert,
		revertWasSet: revertConfigured,
	}
}

// AddCallback registers fn to run when the lifecycle leaves phase.
func (l *Lifecycle) AddCallback(phase Phase, fn func()) {
	l.callbacks = append(l.callbacks, callbackEntry{phase: phase, fn: fn})
}

// Start begins the lifecycle at now, selecting the first non-skipped
// phase. Calling Start again has no effect.
func (l *Lifecycle) Start(now time.Time) {
	if l.started {
		return
	}
	l.started = true
	l.phaseStart = now
	l.phase = l.firstPhase()
}

func (l *Lifecycle) firstPhase() Phase {
	switch {
	case l.over.configured():
		return Over
	case l.hold.configured():
		return Hold
	case l.revert.configured():
		return Revert
	default:
		return None
	}
}

// Advance moves the lifecycle forward to now and returns the current
// phase and its eased progress in [0, 1]. A returned phase of None
// means the lifecycle is complete (or was never configured with any
// phase, i.e. instant application). Callers must pass a monotonic,
// non-decreasing now across calls within one tick.
func (l *Lifecycle) Advance(now time.Time) (Phase, float64) {
	if !l.started {
		l.Start(now)
	}
	if l.phase == None {
		return None, 1
	}

	elapsedMs := now.Sub(l.phaseStart).Seconds() * 1000

	switch l.phase {
	case Over:
		dur := l.over.durationMs()
		progress := progressFor(elapsedMs, dur, l.over.Easing)
		if dur == 0 || elapsedMs >= dur {
			l.advancePhase(now, Over)
			return l.Advance(now)
		}
		return Over, progress

	case Hold:
		dur := l.hold.durationMs()
		if dur == 0 || elapsedMs >= dur {
			l.advancePhase(now, Hold)
			return l.Advance(now)
		}
		return Hold, 1

	case Revert:
		dur := l.revert.durationMs()
		progress := progressFor(elapsedMs, dur, l.revert.Easing)
		if dur == 0 || elapsedMs >= dur {
			l.advancePhase(now, Revert)
			return l.Advance(now)
		}
		return Revert, progress
	}
	return None, 1
}

func progressFor(elapsedMs, durMs float64, easingName string) float64 {
	if durMs <= 0 {
		return 1
	}
	raw := elapsedMs / durMs
	if raw > 1 {
		raw = 1
	} else if raw < 0 {
		raw = 0
	}
	if fn, ok := easing.Lookup(easingName); ok {
		return fn(raw)
	}
	return raw
}

// advancePhase transitions strictly forward (over -> hold -> revert ->
// none), fires the callbacks registered for the phase just left (in
// insertion order), and resets phaseStart to now.
func (l *Lifecycle) advancePhase(now time.Time, left Phase) {
	for i := range l.callbacks {
		c := &l.callbacks[i]
		if c.phase == left && !c.fired {
			c.fired = true
			c.fn()
		}
	}
	l.phaseStart = now
	switch left {
	case Over:
		switch {
		case l.hold.configured():
			l.phase = Hold
		case l.revert.configured():
			l.phase = Revert
		default:
			l.phase = None
		}
	case Hold:
		if l.revert.configured() {
			l.phase = Revert
		} else {
			l.phase = None
		}
	case Revert:
		l.phase = None
	}
}

// IsComplete reports whether the lifecycle has started and has no
// remaining phase.
func (l *Lifecycle) IsComplete() bool { return l.started && l.phase == None }

// HasReverted reports whether the lifecycle completed via a revert
// phase that was explicitly configured, even with 0ms duration. This
// is the signal that on completion a builder should NOT bake into its
// group (§4.3).
func (l *Lifecycle) HasReverted() bool {
	return l.IsComplete() && l.revertWasSet
}

// CurrentPhase returns the phase last computed by Advance (or the
// pre-start None).
func (l *Lifecycle) CurrentPhase() Phase { return l.phase }

// ForceRevert jumps the lifecycle directly into the revert phase at
// now, firing any callbacks registered for a phase it is skipping
// past. It is the engine-side primitive behind an explicit .revert()
// call on an in-flight layer: the caller wants unwinding to begin
// immediately, regardless of where the lifecycle currently stands.
func (l *Lifecycle) ForceRevert(now time.Time, ms float64, easingName string) {
	if !l.started {
		l.Start(now)
	}
	for _, skipped := range []Phase{Over, Hold} {
		if l.phase != skipped {
			continue
		}
		for i := range l.callbacks {
			c := &l.callbacks[i]
			if c.phase == skipped && !c.fired {
				c.fired = true
				c.fn()
			}
		}
	}
	l.revert = PhaseConfig{Ms: &ms, Easing: easingName}
	l.revertWasSet = true
	l.phase = Revert
	l.phaseStart = now
}
