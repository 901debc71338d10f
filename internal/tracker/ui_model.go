package tracker

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/lowaak/murph-tracker/internal/events"
	"github.com/lowaak/murph-tracker/internal/go_func_utils"
	"github.com/lowaak/murph-tracker/internal/workout"
)

// UIState holds the current state of the UI that views need to render
type UIState struct {
	Mode  UIMode
	Theme Theme

	// Start screen choices
	SelectedMode workout.WorkoutMode
	TimerEnabled bool
	CanResume    bool

	// Pending yes/no question, ConfirmNone when no modal is open
	Confirm       ConfirmAction
	ConfirmTarget string // result id for ConfirmDeleteResult

	// Status is a one-line message for the user, empty when there is none
	Status string
}

// WorkoutModel is the active workout as the views render it
type WorkoutModel struct {
	Active   bool
	State    workout.WorkoutState
	Progress int  // 0..100
	Ready    bool // every section complete, finish pending
}

func newWorkoutModel(state workout.WorkoutState) WorkoutModel {
	return WorkoutModel{
		Active:   true,
		State:    state.Clone(),
		Progress: workout.OverallProgress(state),
		Ready:    workout.IsComplete(state),
	}
}

type UIModel struct {
	logEvent              *events.ChannelEvent[string]
	closeApplicationEvent *events.ChannelEvent[struct{}]
	uiStateEvent          *events.ChannelEvent[UIState]
	uiState               UIState
	workoutEvent          *events.ChannelEvent[WorkoutModel]
	workout               WorkoutModel
	elapsedEvent          *events.ChannelEvent[time.Duration]
	elapsed               time.Duration
	resultEvent           *events.ChannelEvent[workout.WorkoutResult]
	result                *workout.WorkoutResult
	historyEvent          *events.ChannelEvent[[]workout.WorkoutResult]
	history               []workout.WorkoutResult
	logLines              []string
	logMu                 sync.RWMutex
	mu                    sync.RWMutex
	ctx                   context.Context
	cancel                context.CancelFunc
	wg                    sync.WaitGroup
	logger                *log.Logger
}

const maxLogLines = 1000

// NewUIModel creates the model. uiLogChan delivers the application log lines
// shown in the log pane.
func NewUIModel(logger *log.Logger, uiLogChan <-chan string, initial UIState) *UIModel {
	if logger == nil {
		panic("UIModel: logger cannot be nil")
	}
	if uiLogChan == nil {
		panic("UIModel: uiLogChan cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	model := &UIModel{
		logEvent:              events.NewChannelEvent[string](false),
		closeApplicationEvent: events.NewChannelEvent[struct{}](true),
		uiStateEvent:          events.NewChannelEvent[UIState](true),
		uiState:               initial,
		workoutEvent:          events.NewChannelEvent[WorkoutModel](true),
		elapsedEvent:          events.NewChannelEvent[time.Duration](true),
		resultEvent:           events.NewChannelEvent[workout.WorkoutResult](true),
		historyEvent:          events.NewChannelEvent[[]workout.WorkoutResult](true),
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
		logger:                logger,
	}

	// Read from the UI log channel and populate logLines
	model.wg.Add(1)
	go_func_utils.SafeGo(model.logger, func() { model.readFromLogChannel(ctx, uiLogChan) })

	return model
}

// Shutdown stops all goroutines and waits for them to finish
func (m *UIModel) Shutdown() {
	m.logger.Println("UIModel: Shutting down")
	m.cancel()
	m.wg.Wait()
	m.logger.Println("UIModel: Shutdown complete")
}

// ListenToLog registers a channel to receive log messages
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

// ListenToCloseApplication registers a channel to receive close application signals
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.Listen(ch)
}

// RequestCloseApplication signals that the application should close
func (m *UIModel) RequestCloseApplication() {
	m.closeApplicationEvent.Notify(struct{}{})
}

// --- UI State ---

// ListenToUIState registers a channel to receive UI state changes
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToUIState(ch chan<- UIState) func() {
	return m.uiStateEvent.Listen(ch)
}

// GetUIState returns the current UI state
func (m *UIModel) GetUIState() UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uiState
}

// SetMode updates the current UI mode and notifies listeners
func (m *UIModel) SetMode(mode UIMode) {
	m.updateUIState(func(s *UIState) bool {
		if s.Mode == mode {
			return false
		}
		s.Mode = mode
		s.Status = ""
		return true
	})
}

func (m *UIModel) SetTheme(theme Theme) {
	m.updateUIState(func(s *UIState) bool {
		if s.Theme == theme {
			return false
		}
		s.Theme = theme
		return true
	})
}

// SetWorkoutOptions updates the start screen choices
func (m *UIModel) SetWorkoutOptions(mode workout.WorkoutMode, timerEnabled bool) {
	m.updateUIState(func(s *UIState) bool {
		if s.SelectedMode == mode && s.TimerEnabled == timerEnabled {
			return false
		}
		s.SelectedMode = mode
		s.TimerEnabled = timerEnabled
		return true
	})
}

// SetCanResume controls whether the start screen offers Resume
func (m *UIModel) SetCanResume(canResume bool) {
	m.updateUIState(func(s *UIState) bool {
		if s.CanResume == canResume {
			return false
		}
		s.CanResume = canResume
		return true
	})
}

// SetConfirm opens a confirmation for action; target identifies what the action applies to
func (m *UIModel) SetConfirm(action ConfirmAction, target string) {
	m.updateUIState(func(s *UIState) bool {
		if s.Confirm == action && s.ConfirmTarget == target {
			return false
		}
		s.Confirm = action
		s.ConfirmTarget = target
		return true
	})
}

// ClearConfirm closes the pending confirmation and returns what it was
func (m *UIModel) ClearConfirm() (ConfirmAction, string) {
	var action ConfirmAction
	var target string
	m.updateUIState(func(s *UIState) bool {
		action, target = s.Confirm, s.ConfirmTarget
		if action == ConfirmNone {
			return false
		}
		s.Confirm = ConfirmNone
		s.ConfirmTarget = ""
		return true
	})
	return action, target
}

func (m *UIModel) SetStatus(status string) {
	m.updateUIState(func(s *UIState) bool {
		if s.Status == status {
			return false
		}
		s.Status = status
		return true
	})
}

// updateUIState applies fn under the lock and notifies listeners when it reports a change
func (m *UIModel) updateUIState(fn func(*UIState) bool) {
	m.mu.Lock()
	if !fn(&m.uiState) {
		m.mu.Unlock()
		return
	}
	state := m.uiState
	m.mu.Unlock()

	m.uiStateEvent.Notify(state)
}

// --- Active Workout ---

// ListenToWorkout registers a channel to receive active workout updates
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToWorkout(ch chan<- WorkoutModel) func() {
	return m.workoutEvent.Listen(ch)
}

// GetWorkout returns the active workout
func (m *UIModel) GetWorkout() WorkoutModel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w := m.workout
	w.State = w.State.Clone()
	return w
}

// SetWorkout replaces the active workout and notifies listeners
func (m *UIModel) SetWorkout(state workout.WorkoutState) {
	w := newWorkoutModel(state)
	m.mu.Lock()
	m.workout = w
	m.mu.Unlock()

	m.workoutEvent.Notify(w)
}

// ClearWorkout marks that there is no active workout
func (m *UIModel) ClearWorkout() {
	m.mu.Lock()
	m.workout = WorkoutModel{}
	m.elapsed = 0
	m.mu.Unlock()

	m.workoutEvent.Notify(WorkoutModel{})
	m.elapsedEvent.Notify(0)
}

// ListenToElapsed registers a channel to receive timer updates
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToElapsed(ch chan<- time.Duration) func() {
	return m.elapsedEvent.Listen(ch)
}

func (m *UIModel) GetElapsed() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.elapsed
}

// SetElapsed records the elapsed time of the active workout.
// Called from the timer goroutine; never blocks.
func (m *UIModel) SetElapsed(elapsed time.Duration) {
	m.mu.Lock()
	m.elapsed = elapsed
	m.mu.Unlock()

	m.elapsedEvent.Notify(elapsed)
}

// --- Results ---

// ListenToResult registers a channel to receive the result of a finished workout
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToResult(ch chan<- workout.WorkoutResult) func() {
	return m.resultEvent.Listen(ch)
}

// GetResult returns the result of the last finished workout
func (m *UIModel) GetResult() (workout.WorkoutResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.result == nil {
		return workout.WorkoutResult{}, false
	}
	return *m.result, true
}

func (m *UIModel) SetResult(result workout.WorkoutResult) {
	m.mu.Lock()
	m.result = &result
	m.mu.Unlock()

	m.resultEvent.Notify(result)
}

// ListenToHistory registers a channel to receive history list updates
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToHistory(ch chan<- []workout.WorkoutResult) func() {
	return m.historyEvent.Listen(ch)
}

// GetHistory returns a copy of the history list, most recent first
func (m *UIModel) GetHistory() []workout.WorkoutResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.history)
}

func (m *UIModel) SetHistory(results []workout.WorkoutResult) {
	m.mu.Lock()
	m.history = slices.Clone(results)
	snapshot := slices.Clone(results)
	m.mu.Unlock()

	m.historyEvent.Notify(snapshot)
}

// --- Log ---

// readFromLogChannel reads log lines from the channel and populates logLines
func (m *UIModel) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				// Channel closed
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				// Keep the most recent maxLogLines
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			// Notify listeners for immediate display
			m.logEvent.Notify(line)
		}
	}
}

// GetLogTail returns the last n lines of logs
func (m *UIModel) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}
	if n >= len(m.logLines) {
		return slices.Clone(m.logLines)
	}
	return slices.Clone(m.logLines[len(m.logLines)-n:])
}
