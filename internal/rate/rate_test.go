package rate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/cursorig/rig/vec2"
)

func TestSpeedBasic(t *testing.T) {
	// 10 units at 5 units/sec -> 2000ms
	assert.InDelta(t, 2000, Speed(0, 10, 5), 1e-6)
}

func TestSpeedFloorsAtMinimum(t *testing.T) {
	assert.Equal(t, MinDurationMs, Speed(0, 0.001, 5))
}

func TestSpeedZeroRateFloors(t *testing.T) {
	assert.Equal(t, MinDurationMs, Speed(0, 10, 0))
}

func TestDirectionQuarterTurn(t *testing.T) {
	d := Direction(vec2.New(1, 0), vec2.New(0, 1), 90)
	assert.InDelta(t, 1000, d, 1e-6)
}

func TestPositionMagnitude(t *testing.T) {
	d := Position(vec2.New(0, 0), vec2.New(300, 400), 500)
	assert.InDelta(t, 1000, d, 1e-6)
}

func TestVectorMagnitude(t *testing.T) {
	d := Vector(0, vec2.New(1, 0), 5, vec2.New(1, 0), 5)
	assert.InDelta(t, 1000, d, 1e-6)
}
