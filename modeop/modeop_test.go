package modeop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/cursorig/rig/vec2"
)

func TestApplyScalarModes(t *testing.T) {
	assert.Equal(t, 13.0, ApplyScalar(Offset, 10, 3))
	assert.Equal(t, 10.0, ApplyScalar(Override, 10, 3))
	assert.Equal(t, 30.0, ApplyScalar(Scale, 10, 3))
}

func TestApplyScalarOffsetIsSelfInverse(t *testing.T) {
	// apply_mode(offset, -apply_mode(offset, v, neutral), v) == neutral
	neutral := 0.0
	v := 7.5
	contributed := ApplyScalar(Offset, v, neutral)
	back := ApplyScalar(Offset, -contributed, v)
	assert.InDelta(t, neutral, back, 1e-9)
}

func TestApplyScalarOverrideIdempotent(t *testing.T) {
	x := 5.0
	a := 10.0
	b := 20.0
	first := ApplyScalar(Override, a, x)
	second := ApplyScalar(Override, b, first)
	assert.Equal(t, b, second)
}

func TestApplyScalarScaleIdentity(t *testing.T) {
	x := 42.0
	assert.Equal(t, x, ApplyScalar(Scale, 1.0, x))
}

func TestApplyPositionModes(t *testing.T) {
	base := vec2.New(1, 2)
	val := vec2.New(3, 4)
	assert.Equal(t, vec2.New(4, 6), ApplyPosition(Offset, val, base))
	assert.Equal(t, val, ApplyPosition(Override, val, base))
	assert.Equal(t, vec2.New(3, 8), ApplyPosition(Scale, val, base))
}

func TestApplyDirectionOverrideNormalizes(t *testing.T) {
	got := ApplyDirection(Override, vec2.New(2, 0), false, 0, 0, vec2.New(1, 0))
	assert.InDelta(t, 1.0, got.Magnitude(), 1e-9)
}

func TestApplyDirectionOffsetAsAngle(t *testing.T) {
	base := vec2.New(1, 0)
	got := ApplyDirection(Offset, vec2.Zero, true, 1.5707963267948966, 0, base)
	assert.InDelta(t, 0, got.X, 1e-6)
	assert.InDelta(t, 1, got.Y, 1e-6)
}

func TestApplyVectorOffsetCombines(t *testing.T) {
	speed, dir := ApplyVector(Offset, 5, vec2.New(1, 0), 5, vec2.New(1, 0))
	assert.Equal(t, 10.0, speed)
	assert.InDelta(t, 1.0, dir.X, 1e-9)
}

func TestApplyVectorOverride(t *testing.T) {
	speed, dir := ApplyVector(Override, 3, vec2.New(0, 1), 5, vec2.New(1, 0))
	assert.Equal(t, 3.0, speed)
	assert.InDelta(t, 1.0, dir.Y, 1e-9)
}
