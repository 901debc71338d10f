package tracker

// UIMode represents the current UI mode/screen
type UIMode int

const (
	UIModeStart    UIMode = iota // Mode and timer selection, resume
	UIModeWorkout                // Live workout tracking
	UIModeComplete               // Summary of the finished workout
	UIModeHistory                // Past results
)

// UIModeInfo contains display information for a UI mode
type UIModeInfo struct {
	Mode        UIMode
	DisplayName string
	PageName    string // tview page backing the mode
}

// AllUIModes defines all available UI modes in order
var AllUIModes = []UIModeInfo{
	{Mode: UIModeStart, DisplayName: "Start", PageName: "start"},
	{Mode: UIModeWorkout, DisplayName: "Workout", PageName: "workout"},
	{Mode: UIModeComplete, DisplayName: "Workout Complete", PageName: "complete"},
	{Mode: UIModeHistory, DisplayName: "History", PageName: "history"},
}

// GetUIModeInfo returns the info for a given mode
func GetUIModeInfo(mode UIMode) (UIModeInfo, bool) {
	for _, info := range AllUIModes {
		if info.Mode == mode {
			return info, true
		}
	}
	return UIModeInfo{}, false
}

// RepIncrement binds a key to a rep amount on the workout screen
type RepIncrement struct {
	Key    rune
	Amount int
}

// RepIncrements are the quick-add buttons of the workout screen
var RepIncrements = []RepIncrement{
	{Key: '1', Amount: 1},
	{Key: '5', Amount: 5},
	{Key: '0', Amount: 10},
}

// GetRepIncrementByKey returns the amount bound to key
func GetRepIncrementByKey(key rune) (int, bool) {
	for _, inc := range RepIncrements {
		if inc.Key == key {
			return inc.Amount, true
		}
	}
	return 0, false
}

// Theme is the colour scheme of the terminal UI
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme returns the theme named s, defaulting to dark
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// ConfirmAction identifies an action waiting for a yes/no answer
type ConfirmAction int

const (
	ConfirmNone         ConfirmAction = iota
	ConfirmFinishEarly                // finish with sections left
	ConfirmReset                      // discard the active workout
	ConfirmDeleteResult               // delete one history entry
	ConfirmClearHistory               // delete all history entries
)

// Prompt is the question shown for the action
func (a ConfirmAction) Prompt() string {
	switch a {
	case ConfirmFinishEarly:
		return "You haven't completed all sections yet.\nFinish the workout anyway?"
	case ConfirmReset:
		return "Reset the workout?\nAll progress will be lost."
	case ConfirmDeleteResult:
		return "Delete this workout from history?"
	case ConfirmClearHistory:
		return "Delete ALL workouts from history?"
	default:
		return ""
	}
}

// Progress bar rendering
const (
	progressBarWidth = 30
	progressFilled   = '█'
	progressEmpty    = '░'
)
