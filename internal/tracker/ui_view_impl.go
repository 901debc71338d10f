package tracker

import (
	"time"

	"github.com/lowaak/murph-tracker/internal/workout"
)

// UIViewImpl defines the interface for framework-specific UI implementations
type UIViewImpl interface {
	// Initialize is called after construction to set up framework-specific widgets
	// controller is used to handle UI events
	Initialize(controller *UIController)

	// SetupKeyboardHandlers sets up keyboard event handlers
	// controller is used to handle keyboard events
	SetupKeyboardHandlers(controller *UIController)

	// Run starts the UI framework and blocks until it exits
	Run() error

	// Stop stops the UI framework
	Stop()

	// Draw refreshes/redraws the UI
	Draw() error

	// --- Mode Management ---

	// SetMode switches the UI to the specified mode
	SetMode(mode UIMode)

	// GetCurrentMode returns the currently active UI mode
	GetCurrentMode() UIMode

	// UpdateUIState renders the start screen choices, the theme, the status
	// line and the confirmation modal
	UpdateUIState(state UIState)

	// --- Log View (shared across modes) ---

	// GetLogViewHeight returns the visible height of the log view
	GetLogViewHeight() int

	// ClearLogView clears the log view
	ClearLogView()

	// WriteLogLine writes a line to the log view
	WriteLogLine(line string) error

	// --- Workout Mode ---

	// UpdateWorkout renders the sections and progress of the active workout
	UpdateWorkout(w WorkoutModel)

	// UpdateElapsed renders the timer
	UpdateElapsed(elapsed time.Duration)

	// --- Complete Mode ---

	// ShowResult renders the summary of a finished workout
	ShowResult(result workout.WorkoutResult)

	// --- History Mode ---

	// SetHistory populates the history list, most recent first
	SetHistory(results []workout.WorkoutResult)
}
