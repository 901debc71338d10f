package workout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lowaak/murph-tracker/internal/events"
	"github.com/lowaak/murph-tracker/internal/go_func_utils"
)

var (
	ErrNoActiveWorkout = errors.New("no active workout")
	ErrWorkoutComplete = errors.New("workout already complete")
)

// DefaultAutoFinishDelay lets the final update render before the workout is archived
const DefaultAutoFinishDelay = 500 * time.Millisecond

// Phase is the lifecycle position of the machine
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhasePaused
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// PhaseOf derives the phase of a stored state
func PhaseOf(state WorkoutState) Phase {
	switch {
	case state.IsComplete:
		return PhaseComplete
	case state.IsPaused:
		return PhasePaused
	default:
		return PhaseRunning
	}
}

// MachineArgs holds the dependencies of a Machine
type MachineArgs struct {
	Store  Gateway
	Timer  *Timer
	Logger *log.Logger
	Clock  Clock // defaults to SystemClock

	// AutoFinishDelay is how long a workout stays "ready" before it is
	// completed automatically. Zero disables auto-finish.
	AutoFinishDelay time.Duration
}

// Machine owns the single active workout. Every mutation persists the full
// snapshot through the store before returning.
type Machine struct {
	store           Gateway
	timer           *Timer
	logger          *log.Logger
	clock           Clock
	autoFinishDelay time.Duration

	// Active workout (protected by mu), nil when not started
	mu    sync.Mutex
	state *WorkoutState

	// Pending auto-finish (protected by mu)
	autoFinish    *time.Timer
	autoFinishGen uint64

	readyEvent     *events.CallbackEvent[WorkoutState]
	completedEvent *events.CallbackEvent[WorkoutResult]

	shutdownOnce sync.Once
}

// NewMachine creates a Machine with no active workout
func NewMachine(args MachineArgs) *Machine {
	if args.Store == nil {
		panic("Machine: store cannot be nil")
	}
	if args.Timer == nil {
		panic("Machine: timer cannot be nil")
	}
	if args.Logger == nil {
		panic("Machine: logger cannot be nil")
	}
	clock := args.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	delay := args.AutoFinishDelay
	if delay < 0 {
		delay = 0
	}

	return &Machine{
		store:           args.Store,
		timer:           args.Timer,
		logger:          args.Logger,
		clock:           clock,
		autoFinishDelay: delay,
		readyEvent:      events.NewCallbackEvent[WorkoutState](false),
		completedEvent:  events.NewCallbackEvent[WorkoutResult](false),
	}
}

// ListenToReady is called when a mutation makes every section complete
func (m *Machine) ListenToReady(callback func(WorkoutState)) func() {
	return m.readyEvent.Listen(callback)
}

// ListenToCompleted is called with the archived result after Complete,
// including completions triggered by auto-finish
func (m *Machine) ListenToCompleted(callback func(WorkoutResult)) func() {
	return m.completedEvent.Listen(callback)
}

// Timer returns the timer driving this machine
func (m *Machine) Timer() *Timer {
	return m.timer
}

// Begin discards any active workout and starts a new one
func (m *Machine) Begin(ctx context.Context, mode WorkoutMode, timerEnabled bool) (WorkoutState, error) {
	state := BuildDefaultState(mode)
	state.TimerEnabled = timerEnabled

	m.mu.Lock()
	m.cancelAutoFinishLocked()
	m.timer.Stop()
	if timerEnabled {
		state = m.timer.Start(state)
	}
	m.state = &state
	err := m.persistLocked(ctx, state)
	m.mu.Unlock()

	m.logger.Printf("Machine: Started %s (timer: %v)", state.WorkoutMode.DisplayName(), timerEnabled)
	return state.Clone(), err
}

// ResumeSaved adopts the stored workout, if there is one that can be resumed.
// A running timer keeps counting from its stored start time.
func (m *Machine) ResumeSaved(ctx context.Context) (WorkoutState, bool) {
	loaded, ok := m.store.LoadCurrentWorkout(ctx)
	if !ok {
		return WorkoutState{}, false
	}
	if loaded.IsComplete {
		m.logger.Printf("Machine: Saved workout is already complete, not resuming")
		return WorkoutState{}, false
	}

	m.mu.Lock()
	m.cancelAutoFinishLocked()
	m.timer.Stop()
	loaded = m.timer.Initialize(loaded)
	m.state = &loaded
	ready := IsComplete(loaded)
	if ready {
		// closed before the pending finish ran
		m.scheduleAutoFinishLocked()
	}
	m.mu.Unlock()

	m.logger.Printf("Machine: Resumed %s (%d%% done)", loaded.WorkoutMode.DisplayName(), OverallProgress(loaded))
	if ready {
		m.readyEvent.Notify(loaded.Clone())
	}
	return loaded.Clone(), true
}

// State returns a copy of the active workout
func (m *Machine) State() (WorkoutState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return WorkoutState{}, false
	}
	return m.state.Clone(), true
}

// Phase returns where the active workout is in its lifecycle
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return PhaseNotStarted
	}
	return PhaseOf(*m.state)
}

// Elapsed returns the current elapsed time of the active workout
func (m *Machine) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return 0
	}
	return m.timer.Elapsed(*m.state)
}

func (m *Machine) AddReps(ctx context.Context, sectionID string, amount int) (WorkoutState, error) {
	return m.mutate(ctx, func(s WorkoutState) WorkoutState { return AddReps(s, sectionID, amount) })
}

func (m *Machine) UndoReps(ctx context.Context, sectionID string) (WorkoutState, error) {
	return m.mutate(ctx, func(s WorkoutState) WorkoutState { return UndoReps(s, sectionID) })
}

func (m *Machine) ToggleCheckbox(ctx context.Context, sectionID string) (WorkoutState, error) {
	return m.mutate(ctx, func(s WorkoutState) WorkoutState { return ToggleCheckbox(s, sectionID) })
}

func (m *Machine) PauseTimer(ctx context.Context) (WorkoutState, error) {
	return m.mutate(ctx, m.timer.Pause)
}

func (m *Machine) ResumeTimer(ctx context.Context) (WorkoutState, error) {
	return m.mutate(ctx, m.timer.Resume)
}

// Complete finishes the active workout, complete or not, and archives the result.
// The returned error joins any persistence failures; the returned state and
// result are valid either way.
func (m *Machine) Complete(ctx context.Context) (WorkoutState, WorkoutResult, error) {
	m.mu.Lock()
	if m.state == nil {
		m.mu.Unlock()
		return WorkoutState{}, WorkoutResult{}, ErrNoActiveWorkout
	}
	if m.state.IsComplete {
		state := m.state.Clone()
		m.mu.Unlock()
		return state, WorkoutResult{}, ErrWorkoutComplete
	}
	state, result, err := m.completeLocked(ctx)
	m.mu.Unlock()

	m.completedEvent.Notify(result)
	return state, result, err
}

// Discard drops the active workout and clears the stored slot
func (m *Machine) Discard(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timer.Stop()
	m.cancelAutoFinishLocked()
	m.state = nil
	if err := m.store.ClearCurrentWorkout(ctx); err != nil {
		return fmt.Errorf("clear workout: %w", err)
	}
	m.logger.Printf("Machine: Workout discarded")
	return nil
}

// Shutdown stops the ticks and any pending auto-finish.
// Safe to call multiple times - only the first call has effect
func (m *Machine) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.mu.Lock()
		m.cancelAutoFinishLocked()
		m.mu.Unlock()
		m.timer.Shutdown()
		m.logger.Printf("Machine: Shutdown complete")
	})
}

// --- Private Methods ---

// mutate applies op to the active workout, persists the result and handles
// completion readiness. Listeners are notified after releasing the lock.
func (m *Machine) mutate(ctx context.Context, op func(WorkoutState) WorkoutState) (WorkoutState, error) {
	m.mu.Lock()
	if m.state == nil {
		m.mu.Unlock()
		return WorkoutState{}, ErrNoActiveWorkout
	}
	if m.state.IsComplete {
		state := m.state.Clone()
		m.mu.Unlock()
		return state, ErrWorkoutComplete
	}

	prev := *m.state
	next := op(prev)
	m.state = &next
	err := m.persistLocked(ctx, next)

	wasReady, ready := IsComplete(prev), IsComplete(next)
	becameReady := ready && !wasReady
	switch {
	case becameReady:
		m.scheduleAutoFinishLocked()
	case !ready:
		m.cancelAutoFinishLocked()
	}
	m.mu.Unlock()

	if becameReady {
		m.logger.Printf("Machine: All sections complete")
		m.readyEvent.Notify(next.Clone())
	}
	return next.Clone(), err
}

// completeLocked MUST be called with mu held on an active, incomplete workout
func (m *Machine) completeLocked(ctx context.Context) (WorkoutState, WorkoutResult, error) {
	finalElapsed := m.timer.Elapsed(*m.state)
	m.timer.Stop()
	m.cancelAutoFinishLocked()

	next := clearLastActions(*m.state)
	next.IsComplete = true
	next.ElapsedTime = finalElapsed.Milliseconds()
	// frozen: Elapsed must not keep adding time since start
	next.StartTime = nil
	m.state = &next

	result := BuildResult(next, finalElapsed, m.clock.Now())

	var errs []error
	if err := m.persistLocked(ctx, next); err != nil {
		errs = append(errs, err)
	}
	id, err := m.store.AppendResult(ctx, result)
	if err != nil {
		errs = append(errs, fmt.Errorf("archive result: %w", err))
	} else {
		result.ID = id
	}

	m.logger.Printf("Machine: Completed %s in %s (%d reps, %d runs, full: %v)",
		result.Mode.DisplayName(), result.Duration, result.TotalReps, result.CompletedRuns, result.IsFullyComplete)
	return next.Clone(), result, errors.Join(errs...)
}

// persistLocked MUST be called with mu held
func (m *Machine) persistLocked(ctx context.Context, state WorkoutState) error {
	if err := m.store.SaveCurrentWorkout(ctx, state); err != nil {
		m.logger.Printf("Machine: Failed to save workout: %v", err)
		return fmt.Errorf("save workout: %w", err)
	}
	return nil
}

// scheduleAutoFinishLocked MUST be called with mu held
func (m *Machine) scheduleAutoFinishLocked() {
	if m.autoFinishDelay <= 0 {
		return
	}
	m.cancelAutoFinishLocked()
	gen := m.autoFinishGen
	m.autoFinish = time.AfterFunc(m.autoFinishDelay, func() {
		go_func_utils.SafeGo(m.logger, func() { m.runAutoFinish(gen) })
	})
}

// cancelAutoFinishLocked MUST be called with mu held
func (m *Machine) cancelAutoFinishLocked() {
	if m.autoFinish != nil {
		m.autoFinish.Stop()
		m.autoFinish = nil
	}
	m.autoFinishGen++
}

// runAutoFinish completes the workout only if it is still the one that was
// scheduled and still complete
func (m *Machine) runAutoFinish(gen uint64) {
	m.mu.Lock()
	if gen != m.autoFinishGen || m.state == nil || m.state.IsComplete || !IsComplete(*m.state) {
		m.mu.Unlock()
		m.logger.Printf("Machine: Auto-finish skipped")
		return
	}
	m.autoFinish = nil
	_, result, err := m.completeLocked(context.Background())
	m.mu.Unlock()

	if err != nil {
		m.logger.Printf("Machine: Auto-finish persistence failed: %v", err)
	}
	m.completedEvent.Notify(result)
}
