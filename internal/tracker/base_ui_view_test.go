package tracker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/murph-tracker/internal/storage"
	"github.com/lowaak/murph-tracker/internal/workout"
)

// fakeView records what BaseUIView asks it to render
type fakeView struct {
	mu          sync.Mutex
	initialized bool
	keysSetUp   bool
	stopped     bool
	mode        UIMode
	uiState     UIState
	workout     WorkoutModel
	elapsed     time.Duration
	result      *workout.WorkoutResult
	history     []workout.WorkoutResult
	logLines    []string
	draws       int
}

func (v *fakeView) Initialize(*UIController)            { v.mu.Lock(); v.initialized = true; v.mu.Unlock() }
func (v *fakeView) SetupKeyboardHandlers(*UIController) { v.mu.Lock(); v.keysSetUp = true; v.mu.Unlock() }
func (v *fakeView) Run() error                          { return nil }
func (v *fakeView) Stop()                               { v.mu.Lock(); v.stopped = true; v.mu.Unlock() }
func (v *fakeView) GetLogViewHeight() int               { return 3 }
func (v *fakeView) ClearLogView()                       { v.mu.Lock(); v.logLines = nil; v.mu.Unlock() }

func (v *fakeView) Draw() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draws++
	return nil
}

func (v *fakeView) SetMode(mode UIMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = mode
}

func (v *fakeView) GetCurrentMode() UIMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

func (v *fakeView) UpdateUIState(state UIState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.uiState = state
}

func (v *fakeView) WriteLogLine(line string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logLines = append(v.logLines, line)
	return nil
}

func (v *fakeView) UpdateWorkout(w WorkoutModel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.workout = w
}

func (v *fakeView) UpdateElapsed(elapsed time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.elapsed = elapsed
}

func (v *fakeView) ShowResult(result workout.WorkoutResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = &result
}

func (v *fakeView) SetHistory(results []workout.WorkoutResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history = results
}

func (v *fakeView) read(fn func(v *fakeView) bool) func() bool {
	return func() bool {
		v.mu.Lock()
		defer v.mu.Unlock()
		return fn(v)
	}
}

type viewFixture struct {
	base       *BaseUIView
	view       *fakeView
	model      *UIModel
	controller *UIController
	logChan    chan string
}

func newViewFixture(t *testing.T) viewFixture {
	t.Helper()
	logger := newDiscardLogger()
	model, logChan := newTestModel(t)
	store := storage.NewMemoryGateway()
	machine := workout.NewMachine(workout.MachineArgs{
		Store:  store,
		Timer:  workout.NewTimer(workout.SystemClock{}, 10*time.Millisecond, logger),
		Logger: logger,
	})
	controller := NewUIController(NewUIControllerArg{
		Model:       model,
		Machine:     machine,
		Store:       store,
		Preferences: NewPreferences(t.TempDir(), logger),
		Logger:      logger,
	})
	t.Cleanup(controller.Shutdown)

	view := &fakeView{mode: -1}
	base := NewBaseUIView(NewBaseUIViewArg{
		UIViewImpl:   view,
		UIModel:      model,
		UIController: controller,
		Logger:       logger,
	})
	t.Cleanup(base.Shutdown)
	return viewFixture{base: base, view: view, model: model, controller: controller, logChan: logChan}
}

func TestNewBaseUIView_PanicsOnNilDeps(t *testing.T) {
	f := newViewFixture(t)
	logger := newDiscardLogger()

	assert.Panics(t, func() {
		NewBaseUIView(NewBaseUIViewArg{UIViewImpl: &fakeView{}, UIModel: f.model, UIController: f.controller})
	})
	assert.Panics(t, func() {
		NewBaseUIView(NewBaseUIViewArg{UIModel: f.model, UIController: f.controller, Logger: logger})
	})
	assert.Panics(t, func() {
		NewBaseUIView(NewBaseUIViewArg{UIViewImpl: &fakeView{}, UIController: f.controller, Logger: logger})
	})
	assert.Panics(t, func() {
		NewBaseUIView(NewBaseUIViewArg{UIViewImpl: &fakeView{}, UIModel: f.model, Logger: logger})
	})
}

func TestBaseUIView_InitialRender(t *testing.T) {
	f := newViewFixture(t)

	f.view.mu.Lock()
	defer f.view.mu.Unlock()
	assert.True(t, f.view.initialized)
	assert.True(t, f.view.keysSetUp)
	assert.Equal(t, UIModeStart, f.view.mode)
	assert.Equal(t, workout.ModeFull, f.view.uiState.SelectedMode)
	assert.False(t, f.view.workout.Active)
}

func TestBaseUIView_ForwardsModelChanges(t *testing.T) {
	f := newViewFixture(t)

	f.controller.BeginWorkout()
	require.Eventually(t, f.view.read(func(v *fakeView) bool {
		return v.mode == UIModeWorkout && v.workout.Active
	}), time.Second, 5*time.Millisecond)

	assert.Eventually(t, f.view.read(func(v *fakeView) bool { return v.elapsed > 0 }), time.Second, 5*time.Millisecond)

	f.controller.AddReps(workout.SectionPullups, 10)
	assert.Eventually(t, f.view.read(func(v *fakeView) bool {
		return sectionOf(v.workout, workout.SectionPullups).Count == 10
	}), time.Second, 5*time.Millisecond)

	f.controller.RequestFinish()
	assert.Eventually(t, f.view.read(func(v *fakeView) bool {
		return v.uiState.Confirm == ConfirmFinishEarly
	}), time.Second, 5*time.Millisecond)

	f.controller.ConfirmPending()
	assert.Eventually(t, f.view.read(func(v *fakeView) bool {
		return v.mode == UIModeComplete && v.result != nil && len(v.history) == 1
	}), time.Second, 5*time.Millisecond)

	f.view.mu.Lock()
	assert.Positive(t, f.view.draws)
	f.view.mu.Unlock()
}

func TestBaseUIView_ShowsLogTail(t *testing.T) {
	f := newViewFixture(t)
	for _, line := range []string{"a", "b", "c", "d"} {
		f.logChan <- line
	}

	assert.Eventually(t, f.view.read(func(v *fakeView) bool {
		return assert.ObjectsAreEqual([]string{"b", "c", "d"}, v.logLines)
	}), time.Second, 5*time.Millisecond)
}

func TestBaseUIView_StopsOnCloseRequest(t *testing.T) {
	f := newViewFixture(t)
	f.controller.Quit()

	assert.Eventually(t, f.view.read(func(v *fakeView) bool { return v.stopped }), time.Second, 5*time.Millisecond)
}
