// Package tickdriver defines the external tick-driver interface the
// rig consumes (§6.2) and a reference, goroutine-backed implementation
// used by tests, examples, and cmd/rigdemo. The periodic scheduler is
// out of scope for the engine itself (spec.md §1 lists it as an
// external collaborator); this package exists so the rest of the
// module has something concrete to drive against.
package tickdriver

import (
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
)

// Handle identifies a scheduled callback so it can be cancelled.
type Handle interface {
	// Stop cancels the scheduled callback. Stopping an
	// already-stopped handle has no effect.
	Stop()
}

// TickDriver periodically (or once) invokes a callback. The rig
// itself never reaches for a concrete clock; it only calls Schedule
// once, lazily, when a builder is admitted and there is work to do,
// and calls After for debounce admission (§4.5, §4.6).
type TickDriver interface {
	// Schedule starts periodic invocation of fn every intervalMs.
	Schedule(intervalMs uint32, fn func()) Handle
	// After invokes fn once, after delayMs.
	After(delayMs uint32, fn func()) Handle
}

// Ticker is a reference TickDriver backed by time.Ticker/time.Timer
// and a goroutine per scheduled callback. Each goroutine reads from a
// done channel merged via channerics.OrDone so Stop is race-free and
// idempotent.
type Ticker struct{}

// NewTicker returns a ready-to-use reference TickDriver.
func NewTicker() *Ticker { return &Ticker{} }

type handle struct {
	done chan struct{}
	stop func()
}

func (h *handle) Stop() { h.stop() }

// Schedule starts a goroutine that calls fn every intervalMs until
// Stop is called on the returned Handle.
func (t *Ticker) Schedule(intervalMs uint32, fn func()) Handle {
	if intervalMs == 0 {
		intervalMs = 1
	}
	done := make(chan struct{})
	ticker := time.NewTicker(time.Duration(intervalMs) * time.Millisecond)

	ticks := make(chan time.Time)
	go func() {
		defer close(ticks)
		for {
			select {
			case tm := <-ticker.C:
				select {
				case ticks <- tm:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	go func() {
		for range channerics.OrDone(done, ticks) {
			fn()
		}
		ticker.Stop()
	}()

	var once sync.Once
	return &handle{
		done: done,
		stop: func() { once.Do(func() { close(done) }) },
	}
}

// After invokes fn once, after delayMs, unless Stop is called first.
func (t *Ticker) After(delayMs uint32, fn func()) Handle {
	done := make(chan struct{})
	timer := time.AfterFunc(time.Duration(delayMs)*time.Millisecond, func() {
		select {
		case <-done:
		default:
			fn()
		}
	})
	var once sync.Once
	return &handle{
		done: done,
		stop: func() {
			once.Do(func() {
				timer.Stop()
				close(done)
			})
		},
	}
}
