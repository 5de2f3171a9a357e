package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(v float64) *float64 { return &v }

func TestInstantApplicationWhenNoPhasesConfigured(t *testing.T) {
	l := New(PhaseConfig{}, PhaseConfig{}, PhaseConfig{}, false)
	now := time.Now()
	phase, progress := l.Advance(now)
	assert.Equal(t, None, phase)
	assert.Equal(t, 1.0, progress)
	assert.True(t, l.IsComplete())
	assert.False(t, l.HasReverted())
}

func TestOverHoldRevertSequence(t *testing.T) {
	l := New(
		PhaseConfig{Ms: ms(100), Easing: "linear"},
		PhaseConfig{Ms: ms(50)},
		PhaseConfig{Ms: ms(100), Easing: "linear"},
		true,
	)
	now := time.Now()

	phase, progress := l.Advance(now)
	require.Equal(t, Over, phase)
	assert.InDelta(t, 0, progress, 1e-9)

	phase, progress = l.Advance(now.Add(50 * time.Millisecond))
	require.Equal(t, Over, phase)
	assert.InDelta(t, 0.5, progress, 1e-6)

	phase, _ = l.Advance(now.Add(100 * time.Millisecond))
	assert.Equal(t, Hold, phase)

	phase, _ = l.Advance(now.Add(150 * time.Millisecond))
	assert.Equal(t, Revert, phase)

	phase, progress = l.Advance(now.Add(250 * time.Millisecond))
	assert.Equal(t, None, phase)
	assert.Equal(t, 1.0, progress)
	assert.True(t, l.HasReverted())
}

func TestZeroDurationPhaseSkipped(t *testing.T) {
	l := New(
		PhaseConfig{Ms: ms(0)},
		PhaseConfig{Ms: ms(50)},
		PhaseConfig{},
		false,
	)
	phase, _ := l.Advance(time.Now())
	assert.Equal(t, Hold, phase)
}

func TestMultiPhaseCrossInSingleAdvance(t *testing.T) {
	l := New(
		PhaseConfig{Ms: ms(10)},
		PhaseConfig{Ms: ms(10)},
		PhaseConfig{Ms: ms(10)},
		true,
	)
	now := time.Now()
	l.Advance(now)
	// A huge jump should cross over, hold, and revert in one call.
	phase, _ := l.Advance(now.Add(time.Second))
	assert.Equal(t, None, phase)
	assert.True(t, l.HasReverted())
}

func TestCallbacksFireOnceInOrder(t *testing.T) {
	l := New(PhaseConfig{Ms: ms(10)}, PhaseConfig{}, PhaseConfig{}, false)
	var order []string
	l.AddCallback(Over, func() { order = append(order, "a") })
	l.AddCallback(Over, func() { order = append(order, "b") })

	now := time.Now()
	l.Advance(now)
	l.Advance(now.Add(20 * time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, order)

	// Advancing again must not re-fire.
	l.Advance(now.Add(30 * time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestCompleteWithoutRevertHasNotReverted(t *testing.T) {
	l := New(PhaseConfig{Ms: ms(10)}, PhaseConfig{}, PhaseConfig{}, false)
	now := time.Now()
	l.Advance(now)
	l.Advance(now.Add(20 * time.Millisecond))
	assert.True(t, l.IsComplete())
	assert.False(t, l.HasReverted())
}

func TestRevertConfiguredAtZeroMsStillCountsAsReverted(t *testing.T) {
	l := New(PhaseConfig{Ms: ms(10)}, PhaseConfig{}, PhaseConfig{Ms: ms(0)}, true)
	now := time.Now()
	l.Advance(now)
	phase, _ := l.Advance(now.Add(20 * time.Millisecond))
	assert.Equal(t, None, phase)
	assert.True(t, l.HasReverted())
}
