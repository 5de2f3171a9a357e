package vec2

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSub(t *testing.T) {
	a := New(1, 2)
	b := New(3, -1)
	assert.Equal(t, New(4, 1), a.Add(b))
	assert.Equal(t, New(-2, 3), a.Sub(b))
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Zero, New(0, 0).Normalize())
	assert.True(t, New(1e-12, 0).Normalize().IsZero())
}

func TestNormalizeUnit(t *testing.T) {
	n := New(3, 4).Normalize()
	assert.InDelta(t, 1.0, n.Magnitude(), 1e-9)
	assert.InDelta(t, 0.6, n.X, 1e-9)
	assert.InDelta(t, 0.8, n.Y, 1e-9)
}

func TestRotate90(t *testing.T) {
	r := New(1, 0).Rotate(math.Pi / 2)
	assert.InDelta(t, 0, r.X, 1e-9)
	assert.InDelta(t, 1, r.Y, 1e-9)
}

func TestSlerpShortestArc(t *testing.T) {
	a := New(1, 0)
	b := New(0, 1)
	mid := Slerp(a, b, 0.5)
	want := New(1, 0).Rotate(math.Pi / 4)
	assert.InDelta(t, want.X, mid.X, 1e-6)
	assert.InDelta(t, want.Y, mid.Y, 1e-6)
}

func TestSlerpEndpoints(t *testing.T) {
	a := New(1, 0)
	b := New(0, -1)
	assert.True(t, Slerp(a, b, 0).Equal(a))
	assert.True(t, Slerp(a, b, 1).Equal(b))
}

func TestLerpDoesNotNormalize(t *testing.T) {
	a := New(1, 0)
	b := New(-1, 0)
	mid := Lerp(a, b, 0.5)
	assert.True(t, mid.Equal(Zero))
}

func TestClampMagnitudeMax(t *testing.T) {
	max := 2.0
	v := ClampMagnitude(New(10, 0), nil, &max)
	assert.InDelta(t, 2.0, v.Magnitude(), 1e-9)
	assert.InDelta(t, 2.0, v.X, 1e-9)
}

func TestClampMagnitudeMin(t *testing.T) {
	min := 5.0
	v := ClampMagnitude(New(1, 0), &min, nil)
	assert.InDelta(t, 5.0, v.Magnitude(), 1e-9)
}

func TestClampMagnitudePreservesZero(t *testing.T) {
	min := 5.0
	v := ClampMagnitude(Zero, &min, nil)
	assert.True(t, v.IsZero())
}
