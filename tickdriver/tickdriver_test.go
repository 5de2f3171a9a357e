package tickdriver

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleFiresRepeatedly(t *testing.T) {
	tk := NewTicker()
	var count int32
	h := tk.Schedule(5, func() { atomic.AddInt32(&count, 1) })
	time.Sleep(60 * time.Millisecond)
	h.Stop()
	got := atomic.LoadInt32(&count)
	assert.Greater(t, got, int32(2))
}

func TestScheduleStopsCleanly(t *testing.T) {
	tk := NewTicker()
	var count int32
	h := tk.Schedule(5, func() { atomic.AddInt32(&count, 1) })
	time.Sleep(20 * time.Millisecond)
	h.Stop()
	h.Stop() // must not panic
	after := atomic.LoadInt32(&count)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&count))
}

func TestAfterFiresOnce(t *testing.T) {
	tk := NewTicker()
	var count int32
	tk.After(5, func() { atomic.AddInt32(&count, 1) })
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))
}

func TestAfterCancelledBeforeFiring(t *testing.T) {
	tk := NewTicker()
	var count int32
	h := tk.After(20, func() { atomic.AddInt32(&count, 1) })
	h.Stop()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&count))
}
