package subpixel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulatesFractionalMovement(t *testing.T) {
	var a Accumulator
	var totalEmittedX, totalEmittedY float64
	var totalTrueX, totalTrueY float64

	for i := 0; i < 100; i++ {
		dx, dy := 0.33, -0.6
		totalTrueX += dx
		totalTrueY += dy
		ix, iy := a.Accumulate(dx, dy)
		totalEmittedX += float64(ix)
		totalEmittedY += float64(iy)
		assert.Less(t, math.Abs(totalEmittedX-totalTrueX), 1.0)
		assert.Less(t, math.Abs(totalEmittedY-totalTrueY), 1.0)
	}
}

func TestResetClearsResidual(t *testing.T) {
	var a Accumulator
	a.Accumulate(0.9, 0.9)
	a.Reset()
	rx, ry := a.Residual()
	assert.Equal(t, 0.0, rx)
	assert.Equal(t, 0.0, ry)
}

func TestEmitsWholePixelOnceThresholdCrossed(t *testing.T) {
	var a Accumulator
	ix, iy := a.Accumulate(0.6, 0.6)
	assert.Equal(t, 0, ix)
	assert.Equal(t, 0, iy)
	ix, iy = a.Accumulate(0.6, 0.6)
	assert.Equal(t, 1, ix)
	assert.Equal(t, 1, iy)
}

func TestNegativeDeltasTruncateTowardZero(t *testing.T) {
	var a Accumulator
	ix, iy := a.Accumulate(-1.5, -0.2)
	assert.Equal(t, -1, ix)
	assert.Equal(t, 0, iy)
}
