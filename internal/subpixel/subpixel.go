// Package subpixel implements the fractional-pixel accumulator (§4.7)
// that converts a stream of floating-point per-frame deltas into a
// stream of integer cursor deltas without ever losing more than one
// pixel of precision on either axis.
package subpixel

import "math"

// Accumulator holds the running fractional residual (rx, ry).
type Accumulator struct {
	rx, ry float64
}

// Accumulate folds (dx, dy) into the residual and emits the integer
// part, leaving any fractional remainder accumulated for the next
// call. The invariant held across any sequence of calls is that the
// total emitted integer movement never differs from the true
// floating-point accumulated input by 1 pixel or more, on either
// axis.
func (a *Accumulator) Accumulate(dx, dy float64) (ix, iy int) {
	a.rx += dx
	a.ry += dy
	tx, ty := math.Trunc(a.rx), math.Trunc(a.ry)
	a.rx -= tx
	a.ry -= ty
	return int(tx), int(ty)
}

// Reset clears the residual, e.g. on a back-end override or tick
// stop, so that a future resume does not emit a stale jump built up
// while the engine was not driving the cursor.
func (a *Accumulator) Reset() {
	a.rx, a.ry = 0, 0
}

// Residual returns the current fractional remainder, for
// introspection/testing.
func (a *Accumulator) Residual() (float64, float64) { return a.rx, a.ry }
