package workout

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimer(t *testing.T, clock Clock, interval time.Duration) *Timer {
	t.Helper()
	timer := NewTimer(clock, interval, NewDiscardLogger())
	t.Cleanup(timer.Shutdown)
	return timer
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{999 * time.Millisecond, "00:00:00"},
		{3661000 * time.Millisecond, "01:01:01"},
		{7265000 * time.Millisecond, "02:01:05"},
		{59*time.Minute + 59*time.Second + 999*time.Millisecond, "00:59:59"},
		{25 * time.Hour, "25:00:00"},
		{100*time.Hour + 5*time.Second, "100:00:05"},
		{-3 * time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.in), "FormatElapsed(%v)", tt.in)
	}
}

func TestNewTimer_ClampsInterval(t *testing.T) {
	clock := NewFakeClock()
	assert.Equal(t, DefaultTickInterval, newTestTimer(t, clock, 0).interval)
	assert.Equal(t, DefaultTickInterval, newTestTimer(t, clock, -time.Second).interval)
	assert.Equal(t, DefaultTickInterval, newTestTimer(t, clock, 2*time.Second).interval)
	assert.Equal(t, 250*time.Millisecond, newTestTimer(t, clock, 250*time.Millisecond).interval)
}

func TestNewTimer_PanicsOnNilDeps(t *testing.T) {
	assert.Panics(t, func() { NewTimer(nil, DefaultTickInterval, NewDiscardLogger()) })
	assert.Panics(t, func() { NewTimer(NewFakeClock(), DefaultTickInterval, nil) })
}

func TestTimer_Elapsed(t *testing.T) {
	clock := NewFakeClock()
	timer := newTestTimer(t, clock, DefaultTickInterval)

	state := BuildDefaultState(ModeFull)
	assert.Zero(t, timer.Elapsed(state))

	start := clock.Now().UnixMilli()
	state.StartTime = &start
	state.ElapsedTime = 2000
	clock.Advance(3 * time.Second)
	assert.Equal(t, 5*time.Second, timer.Elapsed(state))

	state.TimerEnabled = false
	assert.Zero(t, timer.Elapsed(state))
}

func TestTimer_Elapsed_ClockMovedBackwards(t *testing.T) {
	clock := NewFakeClock()
	timer := newTestTimer(t, clock, DefaultTickInterval)

	state := BuildDefaultState(ModeFull)
	future := clock.Now().Add(time.Hour).UnixMilli()
	state.StartTime = &future
	state.ElapsedTime = 1500

	assert.Equal(t, 1500*time.Millisecond, timer.Elapsed(state))
}

func TestTimer_StartPauseResume(t *testing.T) {
	clock := NewFakeClock()
	timer := newTestTimer(t, clock, DefaultTickInterval)

	state := timer.Start(BuildDefaultState(ModeFull))
	require.NotNil(t, state.StartTime)
	assert.Equal(t, clock.Now().UnixMilli(), *state.StartTime)
	assert.False(t, state.IsPaused)
	assert.True(t, timer.Running())

	clock.Advance(10 * time.Second)
	paused := timer.Pause(state)
	assert.True(t, paused.IsPaused)
	assert.Nil(t, paused.StartTime)
	assert.Equal(t, int64(10000), paused.ElapsedTime)
	assert.False(t, timer.Running())

	// a paused state ignores wall time
	clock.Advance(time.Hour)
	assert.Equal(t, 10*time.Second, timer.Elapsed(paused))

	// pausing twice is a no-op
	assert.Equal(t, paused, timer.Pause(paused))

	resumed := timer.Resume(paused)
	assert.False(t, resumed.IsPaused)
	assert.Equal(t, int64(10000), resumed.ElapsedTime)
	assert.True(t, timer.Running())

	clock.Advance(5 * time.Second)
	assert.Equal(t, 15*time.Second, timer.Elapsed(resumed))

	// resuming a running state is a no-op
	assert.Equal(t, resumed, timer.Resume(resumed))
}

func TestTimer_DisabledIsNoOp(t *testing.T) {
	clock := NewFakeClock()
	timer := newTestTimer(t, clock, DefaultTickInterval)

	state := BuildDefaultState(ModeFull)
	state.TimerEnabled = false

	assert.Equal(t, state, timer.Start(state))
	assert.False(t, timer.Running())
	assert.Equal(t, state, timer.Pause(state))
	state.IsPaused = true
	assert.Equal(t, state, timer.Resume(state))
	assert.Equal(t, state, timer.Initialize(state))
	assert.False(t, timer.Running())
}

func TestTimer_StartKeepsAccumulatedTime(t *testing.T) {
	clock := NewFakeClock()
	timer := newTestTimer(t, clock, DefaultTickInterval)

	state := BuildDefaultState(ModeFull)
	state.ElapsedTime = 90_000
	state = timer.Start(state)
	clock.Advance(time.Second)
	assert.Equal(t, 91*time.Second, timer.Elapsed(state))
}

func TestTimer_Initialize(t *testing.T) {
	clock := NewFakeClock()
	timer := newTestTimer(t, clock, DefaultTickInterval)

	stored := BuildDefaultState(ModeFull)
	start := clock.Now().Add(-20 * time.Minute).UnixMilli()
	stored.StartTime = &start

	state := timer.Initialize(stored)
	assert.Equal(t, stored, state)
	assert.True(t, timer.Running())
	assert.Equal(t, 20*time.Minute, timer.Elapsed(state))

	timer.Stop()
	paused := BuildDefaultState(ModeFull)
	paused.IsPaused = true
	paused.ElapsedTime = 1000
	assert.Equal(t, paused, timer.Initialize(paused))
	assert.False(t, timer.Running())
}

func TestTimer_TicksReportElapsed(t *testing.T) {
	clock := NewFakeClock()
	timer := newTestTimer(t, clock, 5*time.Millisecond)

	ticks := make(chan time.Duration, 64)
	unregister := timer.ListenToTick(func(elapsed time.Duration) {
		select {
		case ticks <- elapsed:
		default:
		}
	})
	defer unregister()

	state := BuildDefaultState(ModeFull)
	state.ElapsedTime = 1000
	timer.Start(state)
	clock.Advance(2 * time.Second)

	select {
	case elapsed := <-ticks:
		assert.Equal(t, 3*time.Second, elapsed)
	case <-time.After(2 * time.Second):
		t.Fatal("no tick received")
	}
}

func TestTimer_NoTickAfterPause(t *testing.T) {
	clock := NewFakeClock()
	timer := newTestTimer(t, clock, time.Millisecond)

	var stopped atomic.Bool
	var late atomic.Int32
	var count atomic.Int32
	timer.ListenToTick(func(time.Duration) {
		count.Add(1)
		if stopped.Load() {
			late.Add(1)
		}
	})

	state := timer.Start(BuildDefaultState(ModeFull))
	require.Eventually(t, func() bool { return count.Load() >= 3 }, 2*time.Second, time.Millisecond)

	timer.Pause(state)
	stopped.Store(true)

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, late.Load())
	assert.False(t, timer.Running())
}

func TestTimer_RestartReplacesSchedule(t *testing.T) {
	clock := NewFakeClock()
	timer := newTestTimer(t, clock, time.Millisecond)

	state := BuildDefaultState(ModeFull)
	first := timer.Start(state)
	clock.Advance(time.Minute)
	second := timer.Start(first)

	var last atomic.Int64
	var count atomic.Int32
	timer.ListenToTick(func(elapsed time.Duration) {
		last.Store(int64(elapsed))
		count.Add(1)
	})
	require.Eventually(t, func() bool { return count.Load() >= 5 }, 2*time.Second, time.Millisecond)
	timer.Stop()

	// only the second schedule is alive; it started a minute later
	assert.Equal(t, int64(timer.Elapsed(second)), last.Load())
	assert.Equal(t, time.Duration(0), timer.Elapsed(second))
}
