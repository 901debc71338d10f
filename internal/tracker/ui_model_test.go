package tracker

import (
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/murph-tracker/internal/workout"
)

func newDiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func defaultUIState() UIState {
	return UIState{
		Mode:         UIModeStart,
		Theme:        ThemeDark,
		SelectedMode: workout.ModeFull,
		TimerEnabled: true,
	}
}

func newTestModel(t *testing.T) (*UIModel, chan string) {
	t.Helper()
	logChan := make(chan string, 16)
	model := NewUIModel(newDiscardLogger(), logChan, defaultUIState())
	t.Cleanup(model.Shutdown)
	return model, logChan
}

func TestNewUIModel_PanicsOnNilDeps(t *testing.T) {
	assert.Panics(t, func() { NewUIModel(nil, make(chan string), UIState{}) })
	assert.Panics(t, func() { NewUIModel(newDiscardLogger(), nil, UIState{}) })
}

func TestUIModel_SetModeNotifiesOnChange(t *testing.T) {
	model, _ := newTestModel(t)
	ch := make(chan UIState, 4)
	unregister := model.ListenToUIState(ch)
	defer unregister()

	model.SetMode(UIModeStart) // unchanged
	model.SetMode(UIModeHistory)

	select {
	case state := <-ch:
		assert.Equal(t, UIModeHistory, state.Mode)
	case <-time.After(time.Second):
		t.Fatal("expected a UI state notification")
	}
	assert.Empty(t, ch)
	assert.Equal(t, UIModeHistory, model.GetUIState().Mode)
}

func TestUIModel_SetModeClearsStatus(t *testing.T) {
	model, _ := newTestModel(t)
	model.SetStatus("Progress not saved")
	assert.Equal(t, "Progress not saved", model.GetUIState().Status)

	model.SetMode(UIModeWorkout)
	assert.Empty(t, model.GetUIState().Status)
}

func TestUIModel_Confirm(t *testing.T) {
	model, _ := newTestModel(t)

	action, target := model.ClearConfirm()
	assert.Equal(t, ConfirmNone, action)
	assert.Empty(t, target)

	model.SetConfirm(ConfirmDeleteResult, "abc")
	state := model.GetUIState()
	assert.Equal(t, ConfirmDeleteResult, state.Confirm)
	assert.Equal(t, "abc", state.ConfirmTarget)

	action, target = model.ClearConfirm()
	assert.Equal(t, ConfirmDeleteResult, action)
	assert.Equal(t, "abc", target)
	assert.Equal(t, ConfirmNone, model.GetUIState().Confirm)
}

func TestUIModel_SetWorkout(t *testing.T) {
	model, _ := newTestModel(t)
	ch := make(chan WorkoutModel, 1)
	defer model.ListenToWorkout(ch)()

	state := workout.BuildDefaultState(workout.ModeHalf)
	state = workout.ToggleCheckbox(state, workout.SectionRun1)
	model.SetWorkout(state)

	w := <-ch
	assert.True(t, w.Active)
	assert.Equal(t, workout.OverallProgress(state), w.Progress)
	assert.False(t, w.Ready)

	// the model keeps its own copy
	state.Sections[0].Done = false
	assert.True(t, model.GetWorkout().State.Sections[0].Done)
}

func TestUIModel_ClearWorkout(t *testing.T) {
	model, _ := newTestModel(t)
	model.SetWorkout(workout.BuildDefaultState(workout.ModeFull))
	model.SetElapsed(3 * time.Second)

	model.ClearWorkout()
	assert.False(t, model.GetWorkout().Active)
	assert.Zero(t, model.GetElapsed())
}

func TestUIModel_HistoryIsCopied(t *testing.T) {
	model, _ := newTestModel(t)
	results := []workout.WorkoutResult{{ID: "a"}, {ID: "b"}}
	model.SetHistory(results)
	results[0].ID = "changed"

	history := model.GetHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "a", history[0].ID)

	history[1].ID = "changed"
	assert.Equal(t, "b", model.GetHistory()[1].ID)
}

func TestUIModel_Result(t *testing.T) {
	model, _ := newTestModel(t)
	_, ok := model.GetResult()
	assert.False(t, ok)

	model.SetResult(workout.WorkoutResult{ID: "r1", TotalReps: 600})
	result, ok := model.GetResult()
	require.True(t, ok)
	assert.Equal(t, "r1", result.ID)
}

func TestUIModel_LogTail(t *testing.T) {
	model, logChan := newTestModel(t)
	for i := 0; i < 5; i++ {
		logChan <- fmt.Sprintf("line %d", i)
	}

	require.Eventually(t, func() bool { return len(model.GetLogTail(10)) == 5 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"line 3", "line 4"}, model.GetLogTail(2))
	assert.Empty(t, model.GetLogTail(0))
}

func TestUIModel_LogTailIsBounded(t *testing.T) {
	model, logChan := newTestModel(t)
	go func() {
		for i := 0; i < maxLogLines+50; i++ {
			logChan <- fmt.Sprintf("line %d", i)
		}
	}()

	require.Eventually(t, func() bool {
		tail := model.GetLogTail(1)
		return len(tail) == 1 && tail[0] == fmt.Sprintf("line %d", maxLogLines+49)
	}, 2*time.Second, 5*time.Millisecond)
	all := model.GetLogTail(maxLogLines * 2)
	assert.Len(t, all, maxLogLines)
	assert.Equal(t, "line 50", all[0])
}

func TestUIModel_CloseApplication(t *testing.T) {
	model, _ := newTestModel(t)
	ch := make(chan struct{}, 1)
	defer model.ListenToCloseApplication(ch)()

	model.RequestCloseApplication()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a close request")
	}
}
