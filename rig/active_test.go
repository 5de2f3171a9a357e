package rig

import (
	"testing"
	"time"

	"github.com/cursorig/rig/lifecycle"
	"github.com/cursorig/rig/modeop"
	"github.com/cursorig/rig/vec2"
	"github.com/stretchr/testify/assert"
)

func runningBuilder(property Property, mode modeop.Mode, base, target contribution, overMs float64) *ActiveBuilder {
	lc := lifecycle.New(lifecycle.PhaseConfig{Ms: &overMs, Easing: "linear"}, lifecycle.PhaseConfig{}, lifecycle.PhaseConfig{}, false)
	ab := &ActiveBuilder{
		config:    &BuilderConfig{property: property, hasProp: true, mode: mode, hasMode: true, over: phaseTiming{interpolation: "lerp"}},
		base:      base,
		target:    target,
		lifecycle: lc,
	}
	return ab
}

func TestInterpolatedValueOffsetMidway(t *testing.T) {
	start := time.Now()
	b := runningBuilder(Speed, modeop.Offset, contribution{}, contribution{Scalar: 10}, 1000)
	b.Advance(start)
	b.Advance(start.Add(500 * time.Millisecond))
	v := b.InterpolatedValue()
	assert.InDelta(t, 5.0, v.Scalar, 1e-6)
}

func TestInterpolatedValueOverrideStartsFromBase(t *testing.T) {
	start := time.Now()
	b := runningBuilder(Pos, modeop.Override, contribution{Vec: vec2.New(0, 0)}, contribution{Vec: vec2.New(100, 0)}, 1000)
	b.Advance(start)
	v := b.InterpolatedValue()
	assert.True(t, v.Vec.Equal(vec2.New(0, 0)))
}

func TestInterpolatedValueScaleStartsFromIdentity(t *testing.T) {
	start := time.Now()
	b := runningBuilder(Speed, modeop.Scale, contribution{}, contribution{Scalar: 3}, 1000)
	b.Advance(start)
	v := b.InterpolatedValue()
	assert.InDelta(t, 1.0, v.Scalar, 1e-9)
}

func TestInterpolatedValueCompletesAtTarget(t *testing.T) {
	start := time.Now()
	b := runningBuilder(Speed, modeop.Offset, contribution{}, contribution{Scalar: 10}, 100)
	b.Advance(start)
	b.Advance(start.Add(200 * time.Millisecond))
	assert.True(t, b.lifecycle.IsComplete())
	v := b.InterpolatedValue()
	assert.Equal(t, 10.0, v.Scalar)
}

func TestDirectionReversalAutoDowngradesToLerp(t *testing.T) {
	// a 180-degree reversal must pass through zero linearly rather
	// than through slerp's undefined rotation axis or lerp's
	// renormalize-through-zero singularity.
	a := vec2.New(1, 0)
	b := vec2.New(-1, 0)
	mid := interpolateVec("slerp", a, b, 0.5)
	assert.True(t, mid.Equal(vec2.Zero))
}

func TestInterpolateVecSlerpFollowsShortestArc(t *testing.T) {
	a := vec2.New(1, 0)
	b := vec2.New(0, 1)
	mid := interpolateVec("slerp", a, b, 0.5)
	assert.InDelta(t, 1.0, mid.Magnitude(), 1e-6)
}

func TestInterpolateVecLinearDoesNotRenormalize(t *testing.T) {
	a := vec2.Zero
	b := vec2.New(1, 0)
	got := interpolateVec("linear", a, b, 0.5)
	assert.True(t, got.Equal(vec2.New(0.5, 0)))
}

func TestScaleNeutralPosIsOne(t *testing.T) {
	assert.True(t, scaleNeutral(Pos).Vec.Equal(vec2.New(1, 1)))
	assert.Equal(t, 1.0, scaleNeutral(Speed).Scalar)
}

func TestConsumeRelativeDeltaNeverDropsResidual(t *testing.T) {
	// A sub-integer-per-frame offset (0.4 px/tick) must still fully
	// land on its target once complete: every fractional remainder
	// carries forward via relativeEmittedTotal rather than being
	// rounded away each frame (§4.5 step 6).
	start := time.Now()
	b := runningBuilder(Pos, modeop.Offset, contribution{}, contribution{Vec: vec2.New(4, 0)}, 1000)

	var totalX int32
	now := start
	for i := 0; i < 10; i++ {
		now = now.Add(100 * time.Millisecond)
		b.Advance(now)
		dx, dy := b.consumeRelativeDelta()
		assert.Equal(t, int32(0), dy)
		totalX += dx
	}
	assert.Equal(t, int32(4), totalX)
	assert.Equal(t, 4.0, b.relativeEmittedTotal.X)
}
