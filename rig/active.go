package rig

import (
	"math"
	"time"

	"github.com/cursorig/rig/easing"
	"github.com/cursorig/rig/lifecycle"
	"github.com/cursorig/rig/modeop"
	"github.com/cursorig/rig/vec2"
)

// contribution is the value a single ActiveBuilder currently feeds
// into its group's apply_mode step. Which field is meaningful depends
// on the builder's property: Speed uses Scalar; Pos and Direction use
// Vec; Vector uses both (Scalar is the speed component, Vec the
// direction component), composed independently via modeop.ApplyVector.
type contribution struct {
	Scalar float64
	Vec    vec2.Vec2
}

// ActiveBuilder is one in-flight command (§4.2). It owns a Lifecycle
// and holds the base/target endpoints the lifecycle interpolates
// between; group is a weak back-reference, never used to extend this
// builder's lifetime.
type ActiveBuilder struct {
	config *BuilderConfig
	group  *LayerGroup

	base   contribution
	target contribution

	lifecycle *lifecycle.Lifecycle

	creationTime     time.Time
	markedForRemoval bool

	// usesRate is true when this builder's over phase was timed by
	// rate rather than a fixed ms, the signal the rate-cache admission
	// gate uses to decide whether a later same-layer admission should
	// rewrite this builder in place instead of stacking (§4.6).
	usesRate bool

	// relativeEmittedTotal tracks, for a relative-movement Pos
	// builder, the running total already emitted as integer cursor
	// deltas, so step 6 of the tick sequence can compute this frame's
	// incremental delta as round(current) - total_emitted.
	relativeEmittedTotal vec2.Vec2

	lastPhase    lifecycle.Phase
	lastProgress float64
}

// consumeRelativeDelta implements §4.5 step 6 for a single relative-
// movement Pos builder: this frame's integer contribution is
// round(current_interpolated) - relativeEmittedTotal, and the total is
// advanced by exactly the delta just returned so no fractional residual
// is ever silently dropped.
func (b *ActiveBuilder) consumeRelativeDelta() (dx, dy int32) {
	cur := b.InterpolatedValue().Vec
	roundedX := math.Round(cur.X)
	roundedY := math.Round(cur.Y)
	dx = int32(roundedX - b.relativeEmittedTotal.X)
	dy = int32(roundedY - b.relativeEmittedTotal.Y)
	b.relativeEmittedTotal = vec2.New(roundedX, roundedY)
	return dx, dy
}

// neutralFor returns the additive identity contribution for prop, used
// as the Offset-mode interpolation start and the Scale-mode "no scale
// has happened yet" reference is 1.0 rather than zero (handled
// separately in InterpolatedValue).
func neutralFor(prop Property) contribution {
	switch prop {
	case Speed:
		return contribution{Scalar: 0}
	case Direction:
		return contribution{Vec: vec2.Zero}
	default: // Pos, Vector
		return contribution{Vec: vec2.Zero}
	}
}

// Advance moves the builder's lifecycle to now and records the phase
// and progress InterpolatedValue will use. It returns the phase just
// computed; callers inspect lifecycle.IsComplete/HasReverted via the
// builder's Lifecycle accessor after this call.
func (b *ActiveBuilder) Advance(now time.Time) lifecycle.Phase {
	phase, progress := b.lifecycle.Advance(now)
	b.lastPhase = phase
	b.lastProgress = progress
	return phase
}

// Lifecycle exposes the builder's phase machine for completion/revert
// checks performed by the owning LayerGroup and State.
func (b *ActiveBuilder) Lifecycle() *lifecycle.Lifecycle { return b.lifecycle }

// InterpolatedValue computes what this builder currently contributes
// to its group, per §4.2: the endpoints depend on mode, the position
// along them on the lifecycle's current phase and eased progress.
func (b *ActiveBuilder) InterpolatedValue() contribution {
	mode := b.config.mode
	var from, to contribution

	switch b.lastPhase {
	case lifecycle.Over:
		from, to = b.overEndpoints(mode)
		return b.lerpContribution(from, to, b.lastProgress)
	case lifecycle.Hold:
		_, to = b.overEndpoints(mode)
		return to
	case lifecycle.Revert:
		_, held := b.overEndpoints(mode)
		revertTo := b.revertEndpoint(mode)
		return b.lerpContribution(held, revertTo, b.lastProgress)
	default: // None: not yet started, or complete
		_, to = b.overEndpoints(mode)
		return to
	}
}

// overEndpoints returns the (from, to) contribution pair the over
// phase interpolates between for mode.
func (b *ActiveBuilder) overEndpoints(mode modeop.Mode) (from, to contribution) {
	switch mode {
	case modeop.Override:
		return b.base, b.target
	case modeop.Scale:
		return scaleNeutral(b.config.property), b.target
	default: // Offset
		return neutralFor(b.config.property), b.target
	}
}

// revertEndpoint returns what the revert phase unwinds back to: the
// over phase's starting endpoint.
func (b *ActiveBuilder) revertEndpoint(mode modeop.Mode) contribution {
	from, _ := b.overEndpoints(mode)
	return from
}

func scaleNeutral(prop Property) contribution {
	switch prop {
	case Pos:
		return contribution{Vec: vec2.New(1, 1)}
	default: // Speed, Direction, Vector: scalar multiplier identity
		return contribution{Scalar: 1}
	}
}

// lerpContribution interpolates between from and to at t, dispatching
// on property: plain scalar lerp for Speed and Scale's scalar channel,
// component-wise for Pos, and interpolation-aware (lerp/slerp/linear,
// with auto-downgrade on a near-180-degree reversal) for Direction and
// Vector's direction channel.
func (b *ActiveBuilder) lerpContribution(from, to contribution, t float64) contribution {
	switch b.config.property {
	case Speed:
		return contribution{Scalar: from.Scalar + (to.Scalar-from.Scalar)*t}
	case Pos:
		return contribution{Vec: vec2.Lerp(from.Vec, to.Vec, t)}
	case Direction:
		interp := b.currentInterpolation()
		return contribution{
			Scalar: from.Scalar + (to.Scalar-from.Scalar)*t,
			Vec:    interpolateVec(interp, from.Vec, to.Vec, t),
		}
	case Vector:
		interp := b.currentInterpolation()
		return contribution{
			Scalar: from.Scalar + (to.Scalar-from.Scalar)*t,
			Vec:    interpolateVec(interp, from.Vec, to.Vec, t),
		}
	}
	return to
}

// currentInterpolation selects the active phase's configured
// interpolation name.
func (b *ActiveBuilder) currentInterpolation() string {
	switch b.lastPhase {
	case lifecycle.Revert:
		return b.config.revert.interpolation
	default:
		return b.config.over.interpolation
	}
}

// interpolateVec performs the named interpolation, auto-downgrading a
// requested "slerp" (or the lerp/linear default acting on a near-unit
// pair) to plain component-wise interpolation when a and b are nearly
// antiparallel, since slerp and the re-normalizing lerp path both
// collapse through the zero vector at a singular midpoint during a
// same-axis 180-degree reversal (§4.2, scenario 6).
func interpolateVec(name string, a, b vec2.Vec2, t float64) vec2.Vec2 {
	if isReversal(a, b) {
		return vec2.Lerp(a, b, t)
	}
	switch easing.Interpolation(name) {
	case easing.Slerp:
		if a.IsZero() || b.IsZero() {
			return vec2.Lerp(a, b, t)
		}
		return vec2.Slerp(a.Normalize(), b.Normalize(), t).Scale(lerpMagnitude(a, b, t))
	case easing.LinearInterp:
		return vec2.Lerp(a, b, t)
	default: // lerp: component-wise, re-normalized for direction-shaped values
		raw := vec2.Lerp(a, b, t)
		if raw.IsZero() {
			return raw
		}
		return raw.Normalize().Scale(lerpMagnitude(a, b, t))
	}
}

// isReversal reports whether a and b point in (nearly) opposite
// directions, the case that forces a linear path through zero rather
// than a rotation around an undefined axis.
func isReversal(a, b vec2.Vec2) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	na, nb := a.Normalize(), b.Normalize()
	return na.Dot(nb) < -1+1e-6
}

func lerpMagnitude(a, b vec2.Vec2, t float64) float64 {
	ma, mb := a.Magnitude(), b.Magnitude()
	return ma + (mb-ma)*t
}
