package tracker

import (
	"context"
	"errors"
	"log"
	"slices"
	"time"

	"github.com/lowaak/murph-tracker/internal/workout"
)

const readyStatus = "All sections complete!"

// UIController handles UI events and coordinates the workout machine with the UIModel
type UIController struct {
	model       *UIModel
	machine     *workout.Machine
	store       workout.Gateway
	preferences *Preferences
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	unregister  []func()
}

// NewUIControllerArg holds the arguments for creating a new UIController
type NewUIControllerArg struct {
	Model       *UIModel
	Machine     *workout.Machine
	Store       workout.Gateway
	Preferences *Preferences
	Logger      *log.Logger
}

// NewUIController creates a new UIController with the given dependencies
func NewUIController(args NewUIControllerArg) *UIController {
	if args.Model == nil {
		panic("UIController: model cannot be nil")
	}
	if args.Machine == nil {
		panic("UIController: machine cannot be nil")
	}
	if args.Store == nil {
		panic("UIController: store cannot be nil")
	}
	if args.Preferences == nil {
		panic("UIController: preferences cannot be nil")
	}
	if args.Logger == nil {
		panic("UIController: logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &UIController{
		model:       args.Model,
		machine:     args.Machine,
		store:       args.Store,
		preferences: args.Preferences,
		logger:      args.Logger,
		ctx:         ctx,
		cancel:      cancel,
	}

	c.unregister = append(c.unregister,
		// runs on the timer goroutine: only touch the model here
		c.machine.Timer().ListenToTick(c.model.SetElapsed),
		c.machine.ListenToReady(c.onReady),
		c.machine.ListenToCompleted(c.onCompleted),
	)
	return c
}

// Load fills the model from storage. Called once before the UI runs.
func (c *UIController) Load() {
	c.refreshCanResume()
	c.refreshHistory()
}

// --- Start Screen ---

// SelectWorkoutMode chooses the mode used by the next BeginWorkout
func (c *UIController) SelectWorkoutMode(mode workout.WorkoutMode) {
	state := c.model.GetUIState()
	c.model.SetWorkoutOptions(mode, state.TimerEnabled)
}

// CycleWorkoutMode steps through full, half and quarter
func (c *UIController) CycleWorkoutMode() {
	state := c.model.GetUIState()
	idx := slices.Index(workout.AllModes, state.SelectedMode)
	next := workout.AllModes[(idx+1)%len(workout.AllModes)]
	c.model.SetWorkoutOptions(next, state.TimerEnabled)
}

func (c *UIController) ToggleTimerEnabled() {
	state := c.model.GetUIState()
	c.model.SetWorkoutOptions(state.SelectedMode, !state.TimerEnabled)
}

// BeginWorkout starts a new workout with the start screen choices,
// replacing any active one
func (c *UIController) BeginWorkout() {
	options := c.model.GetUIState()
	state, err := c.machine.Begin(c.ctx, options.SelectedMode, options.TimerEnabled)
	c.preferences.SetWorkoutDefaults(options.SelectedMode, options.TimerEnabled)

	c.model.SetWorkout(state)
	c.model.SetElapsed(0)
	c.model.SetMode(UIModeWorkout)
	if err != nil {
		c.reportError("Progress not saved", err)
	}
}

// ResumeWorkout returns to the active workout, loading the saved one if needed
func (c *UIController) ResumeWorkout() {
	state, ok := c.machine.State()
	if !ok || state.IsComplete {
		state, ok = c.machine.ResumeSaved(c.ctx)
	}
	if !ok {
		c.logger.Printf("UIController: No saved workout to resume")
		c.refreshCanResume()
		return
	}

	c.model.SetWorkout(state)
	c.model.SetElapsed(c.machine.Elapsed())
	c.model.SetMode(UIModeWorkout)
	if workout.IsComplete(state) {
		c.model.SetStatus(readyStatus)
	}
}

// --- Workout Screen ---

func (c *UIController) AddReps(sectionID string, amount int) {
	c.applyMutation("add reps", func(ctx context.Context) (workout.WorkoutState, error) {
		return c.machine.AddReps(ctx, sectionID, amount)
	})
}

func (c *UIController) UndoReps(sectionID string) {
	c.applyMutation("undo", func(ctx context.Context) (workout.WorkoutState, error) {
		return c.machine.UndoReps(ctx, sectionID)
	})
}

func (c *UIController) ToggleCheckbox(sectionID string) {
	c.applyMutation("toggle", func(ctx context.Context) (workout.WorkoutState, error) {
		return c.machine.ToggleCheckbox(ctx, sectionID)
	})
}

// TogglePause pauses a running timer or resumes a paused one
func (c *UIController) TogglePause() {
	w := c.model.GetWorkout()
	if !w.Active || !w.State.TimerEnabled {
		return
	}
	switch c.machine.Phase() {
	case workout.PhaseRunning:
		c.applyMutation("pause", c.machine.PauseTimer)
	case workout.PhasePaused:
		c.applyMutation("resume", c.machine.ResumeTimer)
	}
	c.model.SetElapsed(c.machine.Elapsed())
}

// RequestFinish finishes a complete workout right away and asks first otherwise
func (c *UIController) RequestFinish() {
	w := c.model.GetWorkout()
	if !w.Active || w.State.IsComplete {
		return
	}
	if w.Ready {
		c.finish()
		return
	}
	c.model.SetConfirm(ConfirmFinishEarly, "")
}

// RequestReset asks before discarding the active workout
func (c *UIController) RequestReset() {
	if !c.model.GetWorkout().Active {
		return
	}
	c.model.SetConfirm(ConfirmReset, "")
}

// --- Completion Screen ---

// NewWorkout leaves the completion screen for a fresh start screen
func (c *UIController) NewWorkout() {
	c.discard()
}

// --- History Screen ---

func (c *UIController) ShowHistory() {
	c.refreshHistory()
	c.model.SetMode(UIModeHistory)
}

func (c *UIController) ShowStart() {
	c.refreshCanResume()
	c.model.SetMode(UIModeStart)
}

func (c *UIController) RequestDeleteResult(id string) {
	if id == "" {
		return
	}
	c.model.SetConfirm(ConfirmDeleteResult, id)
}

func (c *UIController) RequestClearHistory() {
	if len(c.model.GetHistory()) == 0 {
		return
	}
	c.model.SetConfirm(ConfirmClearHistory, "")
}

// --- Confirmation ---

// ConfirmPending runs the action of the open confirmation
func (c *UIController) ConfirmPending() {
	action, target := c.model.ClearConfirm()
	switch action {
	case ConfirmFinishEarly:
		c.finish()
	case ConfirmReset:
		c.discard()
	case ConfirmDeleteResult:
		if err := c.store.DeleteResult(c.ctx, target); err != nil {
			c.reportError("Could not delete workout", err)
		}
		c.refreshHistory()
	case ConfirmClearHistory:
		if err := c.store.ClearAllResults(c.ctx); err != nil {
			c.reportError("Could not clear history", err)
		}
		c.refreshHistory()
	}
}

// CancelPending closes the open confirmation without acting
func (c *UIController) CancelPending() {
	c.model.ClearConfirm()
}

// --- Global ---

func (c *UIController) ToggleTheme() {
	theme := c.model.GetUIState().Theme.Toggle()
	c.model.SetTheme(theme)
	c.preferences.SetTheme(theme)
}

// OnEscapeKey closes a modal, steps back a screen, or quits from the start screen
func (c *UIController) OnEscapeKey() {
	state := c.model.GetUIState()
	if state.Confirm != ConfirmNone {
		c.CancelPending()
		return
	}
	switch state.Mode {
	case UIModeStart:
		c.model.RequestCloseApplication()
	case UIModeComplete:
		c.NewWorkout()
	default:
		c.ShowStart()
	}
}

func (c *UIController) Quit() {
	c.model.RequestCloseApplication()
}

// Shutdown stops listening to the machine and shuts it down
func (c *UIController) Shutdown() {
	c.cancel()
	for _, unregister := range c.unregister {
		unregister()
	}
	c.machine.Shutdown()
}

// --- Private Methods ---

func (c *UIController) applyMutation(action string, op func(context.Context) (workout.WorkoutState, error)) {
	state, err := op(c.ctx)
	switch {
	case errors.Is(err, workout.ErrNoActiveWorkout), errors.Is(err, workout.ErrWorkoutComplete):
		c.logger.Printf("UIController: Ignoring %s: %v", action, err)
		return
	case err != nil:
		// the in-memory state is updated even though it was not stored
		c.reportError("Progress not saved", err)
	}
	c.model.SetWorkout(state)
}

func (c *UIController) finish() {
	_, _, err := c.machine.Complete(c.ctx)
	switch {
	case errors.Is(err, workout.ErrNoActiveWorkout), errors.Is(err, workout.ErrWorkoutComplete):
		c.logger.Printf("UIController: Ignoring finish: %v", err)
	case err != nil:
		c.reportError("Result not saved", err)
	}
}

func (c *UIController) discard() {
	if err := c.machine.Discard(c.ctx); err != nil {
		c.logger.Printf("UIController: Discard failed: %v", err)
	}
	c.model.ClearWorkout()
	c.ShowStart()
}

// onReady runs on the goroutine that made the last section complete
func (c *UIController) onReady(workout.WorkoutState) {
	c.model.SetStatus(readyStatus)
}

// onCompleted runs after the machine archived a result, either from finish
// or from the auto-finish goroutine
func (c *UIController) onCompleted(result workout.WorkoutResult) {
	if state, ok := c.machine.State(); ok {
		c.model.SetWorkout(state)
	}
	c.model.ClearConfirm()
	c.model.SetElapsed(time.Duration(result.ElapsedMs) * time.Millisecond)
	c.model.SetResult(result)
	c.refreshHistory()
	c.model.SetMode(UIModeComplete)
}

func (c *UIController) refreshCanResume() {
	canResume := c.store.HasActiveWorkout(c.ctx)
	if phase := c.machine.Phase(); phase == workout.PhaseRunning || phase == workout.PhasePaused {
		canResume = true
	}
	c.model.SetCanResume(canResume)
}

func (c *UIController) refreshHistory() {
	results, err := c.store.ListResults(c.ctx)
	if err != nil {
		c.reportError("Could not load history", err)
		return
	}
	c.model.SetHistory(results)
}

// reportError logs err and shows message in the status line
func (c *UIController) reportError(message string, err error) {
	c.logger.Printf("UIController: %s: %v", message, err)
	c.model.SetStatus(message)
}
