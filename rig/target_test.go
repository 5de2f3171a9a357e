package rig

import (
	"testing"

	"github.com/cursorig/rig/vec2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSpeedTargetOperators(t *testing.T) {
	base := contribution{Scalar: 10}
	cfg := &BuilderConfig{property: Speed, operator: Add, valueScalar: 5}
	v, err := resolveSpeedTarget(cfg, base)
	require.NoError(t, err)
	assert.Equal(t, 15.0, v.Scalar)

	cfg = &BuilderConfig{property: Speed, operator: Div, valueScalar: 0}
	_, err = resolveSpeedTarget(cfg, base)
	assert.Error(t, err)
}

func TestResolvePosTargetAdd(t *testing.T) {
	base := contribution{Vec: vec2.New(10, 10)}
	cfg := &BuilderConfig{property: Pos, operator: Add, valueVec: vec2.New(5, -5)}
	v, err := resolvePosTarget(cfg, base)
	require.NoError(t, err)
	assert.True(t, v.Vec.Equal(vec2.New(15, 5)))
}

func TestResolveDirectionTargetToAngle(t *testing.T) {
	base := contribution{Vec: vec2.New(1, 0)}
	cfg := &BuilderConfig{property: Direction, operator: To, asAngle: true, angleValue: 1.5707963267948966}
	v, err := resolveDirectionTarget(cfg, base)
	require.NoError(t, err)
	assert.InDelta(t, 0, v.Vec.X, 1e-6)
	assert.InDelta(t, 1, v.Vec.Y, 1e-6)
}

func TestResolveDirectionScaleRotatesByMultiplierOnAngle(t *testing.T) {
	base := contribution{Vec: vec2.New(0, 1)} // 90 degrees
	cfg := &BuilderConfig{property: Direction, operator: Mul, valueScalar: 2}
	v, err := resolveDirectionTarget(cfg, base)
	require.NoError(t, err)
	// base angle 90deg * multiplier 2 = 180deg -> (-1, 0)
	assert.InDelta(t, -1, v.Vec.X, 1e-6)
	assert.InDelta(t, 0, v.Vec.Y, 1e-6)
}

func TestResolveVectorTargetToDefaultsDirectionToBase(t *testing.T) {
	base := contribution{Scalar: 2, Vec: vec2.New(0, 1)}
	cfg := &BuilderConfig{property: Vector, operator: To, valueScalar: 9}
	v, err := resolveVectorTarget(cfg, base)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v.Scalar)
	assert.True(t, v.Vec.Equal(vec2.New(0, 1)))
}

func TestResolveVectorTargetAddCombinesAsVelocity(t *testing.T) {
	base := contribution{Scalar: 5, Vec: vec2.New(1, 0)}
	cfg := &BuilderConfig{property: Vector, operator: Add, valueScalar: 5, valueVec: vec2.New(0, 1)}
	v, err := resolveVectorTarget(cfg, base)
	require.NoError(t, err)
	assert.InDelta(t, 7.0710678, v.Scalar, 1e-5)
}

func TestCombinedVelocityFallsBackOnZero(t *testing.T) {
	v := combinedVelocity(vec2.Zero, vec2.New(0, 1))
	assert.Equal(t, 0.0, v.Scalar)
	assert.True(t, v.Vec.Equal(vec2.New(0, 1)))
}
