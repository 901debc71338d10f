package workout

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lowaak/murph-tracker/internal/events"
	"github.com/lowaak/murph-tracker/internal/go_func_utils"
)

// Clock is the time source of the timer
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

const (
	DefaultTickInterval = 100 * time.Millisecond
	maxTickInterval     = time.Second
)

// Timer computes elapsed workout time and publishes it periodically while
// running. The elapsed value is always derived from StartTime/ElapsedTime,
// never from counting ticks.
type Timer struct {
	clock     Clock
	interval  time.Duration
	logger    *log.Logger
	tickEvent *events.CallbackEvent[time.Duration]

	// Tick schedule (protected by mu)
	mu         sync.Mutex
	generation uint64        // bumped on every arm and stop
	stopCh     chan struct{} // nil when no ticks are armed

	// Held while tick observers run so Stop can wait for an in-flight tick
	dispatchMu sync.Mutex
	wg         sync.WaitGroup
}

// NewTimer creates a Timer. Intervals outside (0, 1s] fall back to DefaultTickInterval.
func NewTimer(clock Clock, tickInterval time.Duration, logger *log.Logger) *Timer {
	if clock == nil {
		panic("Timer: clock cannot be nil")
	}
	if logger == nil {
		panic("Timer: logger cannot be nil")
	}
	if tickInterval <= 0 || tickInterval > maxTickInterval {
		logger.Printf("Timer: tick interval %v out of range, using %v", tickInterval, DefaultTickInterval)
		tickInterval = DefaultTickInterval
	}
	return &Timer{
		clock:     clock,
		interval:  tickInterval,
		logger:    logger,
		tickEvent: events.NewCallbackEvent[time.Duration](false),
	}
}

// ListenToTick registers an observer for tick notifications.
// Observers run on the timer goroutine and must not call back into the Timer.
// Returns a deregistration function.
func (t *Timer) ListenToTick(callback func(elapsed time.Duration)) func() {
	return t.tickEvent.Listen(callback)
}

// Elapsed returns the accumulated time of state, including the stretch since
// the last (re)start when running. A clock that moved backwards contributes 0.
func (t *Timer) Elapsed(state WorkoutState) time.Duration {
	if !state.TimerEnabled {
		return 0
	}
	base := time.Duration(state.ElapsedTime) * time.Millisecond
	if state.IsPaused || state.StartTime == nil {
		return base
	}
	since := t.clock.Now().UnixMilli() - *state.StartTime
	if since < 0 {
		since = 0
	}
	return base + time.Duration(since)*time.Millisecond
}

// Start marks state as running from now and arms the ticks.
// ElapsedTime is kept so a restart continues accumulating.
func (t *Timer) Start(state WorkoutState) WorkoutState {
	if !state.TimerEnabled {
		return state
	}
	t.Stop()

	next := state.Clone()
	now := t.clock.Now().UnixMilli()
	next.StartTime = &now
	next.IsPaused = false

	t.arm(next)
	return next
}

// Pause freezes the elapsed time and cancels the ticks
func (t *Timer) Pause(state WorkoutState) WorkoutState {
	if !state.TimerEnabled || state.IsPaused {
		return state
	}
	t.Stop()

	next := state.Clone()
	next.ElapsedTime = t.Elapsed(state).Milliseconds()
	next.StartTime = nil
	next.IsPaused = true
	return next
}

// Resume restarts a paused timer, using the frozen elapsed time as the new base
func (t *Timer) Resume(state WorkoutState) WorkoutState {
	if !state.TimerEnabled || !state.IsPaused {
		return state
	}
	next := state.Clone()
	next.IsPaused = false
	return t.Start(next)
}

// Initialize re-arms the ticks for a workout loaded from storage.
// The stored StartTime is kept so time spent while the program was closed counts.
func (t *Timer) Initialize(state WorkoutState) WorkoutState {
	if !state.TimerEnabled {
		return state
	}
	if !state.IsPaused && state.StartTime != nil {
		t.Stop()
		t.arm(state.Clone())
	}
	return state
}

// Stop cancels the ticks without touching any state. When Stop returns no
// tick observer is running and none will run until the timer is armed again.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
	t.generation++
	t.mu.Unlock()

	// barrier: wait out a delivery that passed its generation check
	t.dispatchMu.Lock()
	t.dispatchMu.Unlock()
}

// Running reports whether ticks are armed
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopCh != nil
}

// Shutdown stops the ticks and waits for the tick goroutine to exit
func (t *Timer) Shutdown() {
	t.Stop()
	t.wg.Wait()
}

func (t *Timer) arm(snapshot WorkoutState) {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	t.mu.Unlock()

	go_func_utils.SafeGoTracked(t.logger, &t.wg, func() { t.runTickLoop(gen, snapshot, stopCh) })
}

func (t *Timer) runTickLoop(gen uint64, snapshot WorkoutState, stopCh <-chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			t.deliver(gen, snapshot)
		}
	}
}

func (t *Timer) deliver(gen uint64, snapshot WorkoutState) {
	t.dispatchMu.Lock()
	defer t.dispatchMu.Unlock()

	t.mu.Lock()
	current := t.generation == gen
	t.mu.Unlock()
	if !current {
		return
	}
	t.tickEvent.Notify(t.Elapsed(snapshot))
}

// FormatElapsed renders d as HH:MM:SS, truncated to whole seconds.
// Hours do not roll over into days.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
