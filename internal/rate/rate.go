// Package rate converts a {speed-rate, angular-rate, pixel-rate} plus
// a before/after delta into a transition duration in milliseconds
// (§4.9). It is grounded line-for-line on the Python original's
// rate_utils.py (calculate_duration_from_rate and its per-property
// wrappers).
package rate

import (
	"math"

	"github.com/cursorig/rig/vec2"
)

// MinDurationMs is the floor returned for a near-zero delta, avoiding
// a divide-by-zero degeneracy when value is ~0.
const MinDurationMs = 1.0

// negligible mirrors the Python original's 0.01 threshold below which
// a delta is treated as "no meaningful transition" and the minimum
// duration is returned outright, rather than dividing a tiny numerator.
const negligible = 0.01

// fromMagnitude is the shared core: |value| / rate, in ms, floored at
// MinDurationMs.
func fromMagnitude(value, rate float64) float64 {
	if rate <= 0 {
		return MinDurationMs
	}
	if math.Abs(value) < negligible {
		return MinDurationMs
	}
	durationSec := math.Abs(value) / rate
	ms := durationSec * 1000
	if ms < MinDurationMs {
		return MinDurationMs
	}
	return ms
}

// Speed returns the duration to transition a scalar speed from
// current to target at rateUnitsPerSec.
func Speed(current, target, rateUnitsPerSec float64) float64 {
	return fromMagnitude(target-current, rateUnitsPerSec)
}

// ScalarDelta returns the duration to transition any plain scalar
// (e.g. a speed offset/scale delta) by delta at rateUnitsPerSec.
func ScalarDelta(delta, rateUnitsPerSec float64) float64 {
	return fromMagnitude(delta, rateUnitsPerSec)
}

// Direction returns the duration to rotate from current to target
// (both normalized) at rateDegreesPerSec, using shortest-arc angular
// distance.
func Direction(current, target vec2.Vec2, rateDegreesPerSec float64) float64 {
	dot := current.Dot(target)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	angleDeg := math.Acos(dot) * 180 / math.Pi
	return fromMagnitude(angleDeg, rateDegreesPerSec)
}

// DirectionByAngle returns the duration to rotate by angleDeltaDeg at
// rateDegreesPerSec, for relative (add/sub) direction rotations.
func DirectionByAngle(angleDeltaDeg, rateDegreesPerSec float64) float64 {
	return fromMagnitude(angleDeltaDeg, rateDegreesPerSec)
}

// Position returns the duration to move from current to target at
// ratePixelsPerSec, using Euclidean magnitude.
func Position(current, target vec2.Vec2, ratePixelsPerSec float64) float64 {
	return fromMagnitude(target.Sub(current).Magnitude(), ratePixelsPerSec)
}

// PositionDelta returns the duration for a relative position move of
// delta at ratePixelsPerSec.
func PositionDelta(delta vec2.Vec2, ratePixelsPerSec float64) float64 {
	return fromMagnitude(delta.Magnitude(), ratePixelsPerSec)
}

// Vector returns the duration to transition a velocity vector
// (speed*direction) from current to target at ratePixelsPerSec,
// using Euclidean magnitude in velocity space.
func Vector(currentSpeed float64, currentDir vec2.Vec2, targetSpeed float64, targetDir vec2.Vec2, ratePixelsPerSec float64) float64 {
	cur := currentDir.Scale(currentSpeed)
	tgt := targetDir.Scale(targetSpeed)
	return fromMagnitude(tgt.Sub(cur).Magnitude(), ratePixelsPerSec)
}
