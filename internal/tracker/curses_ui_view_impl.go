package tracker

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/murph-tracker/internal/workout"
)

const pageConfirm = "confirm"

// palette holds the colours of one theme. The *Tag fields are tview colour tag names.
type palette struct {
	background tcell.Color
	text       tcell.Color
	border     tcell.Color
	selected   tcell.Color
	accentTag  string
	mutedTag   string
	goodTag    string
}

var palettes = map[Theme]palette{
	ThemeDark: {
		background: tcell.ColorBlack,
		text:       tcell.ColorWhite,
		border:     tcell.ColorGray,
		selected:   tcell.ColorDarkCyan,
		accentTag:  "yellow",
		mutedTag:   "gray",
		goodTag:    "green",
	},
	ThemeLight: {
		background: tcell.ColorWhite,
		text:       tcell.ColorBlack,
		border:     tcell.ColorDarkGray,
		selected:   tcell.ColorLightSkyBlue,
		accentTag:  "navy",
		mutedTag:   "darkgray",
		goodTag:    "darkgreen",
	},
}

var modeHelp = map[UIMode]string{
	UIModeStart:    "↑/↓ select  |  Enter choose  |  t theme  |  Esc quit",
	UIModeWorkout:  "1/5/0 add 1/5/10  |  u undo  |  Space run done  |  p pause  |  f finish  |  r reset  |  Esc back",
	UIModeComplete: "n new workout  |  h history  |  t theme  |  Esc start",
	UIModeHistory:  "d delete  |  c clear all  |  Tab details  |  Esc back",
}

// CursesUIViewImpl implements UIViewImpl using tview (curses-based terminal UI)
type CursesUIViewImpl struct {
	logger      *log.Logger
	app         *tview.Application
	model       *UIModel
	controller  *UIController
	currentMode UIMode
	running     atomic.Bool

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible in all modes)
	logView   *tview.TextView
	statusBar *tview.TextView
	mainFlex  *tview.Flex

	// Start mode components
	startFlex  *tview.Flex
	startMenu  *tview.List
	startInfo  *tview.TextView
	tabWidgets map[UIMode][]tview.Primitive

	// Workout mode components
	workoutFlex   *tview.Flex
	workoutHeader *tview.TextView
	sectionList   *tview.List

	// Complete mode components
	completeFlex    *tview.Flex
	completeSummary *tview.TextView
	completeStats   *tview.TextView

	// History mode components
	historyFlex    *tview.Flex
	historyList    *tview.List
	historyDetails *tview.TextView

	confirmModal *tview.Modal

	// Rendered data, read by the key handlers (protected by mu)
	mu           sync.Mutex
	uiState      UIState
	workout      WorkoutModel
	elapsed      time.Duration
	history      []workout.WorkoutResult
	confirmShown ConfirmAction
	palette      palette
}

func NewCursesUIView(logger *log.Logger, app *tview.Application, model *UIModel) *CursesUIViewImpl {
	if logger == nil {
		panic("CursesUIView: logger cannot be nil")
	}
	if app == nil {
		panic("CursesUIView: app cannot be nil")
	}
	return &CursesUIViewImpl{
		logger:      logger,
		app:         app,
		model:       model,
		currentMode: UIModeStart,
		tabWidgets:  make(map[UIMode][]tview.Primitive),
		palette:     palettes[ThemeDark],
	}
}

// Initialize sets up the tview widgets
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	ui.controller = controller

	// No SetChangedFunc with app.Draw() here: it can hang during shutdown
	// while log lines are still arriving. BaseUIView draws after each update.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	ui.pages = tview.NewPages()

	ui.initStartMode(controller)
	ui.initWorkoutMode(controller)
	ui.initCompleteMode()
	ui.initHistoryMode(controller)
	ui.initConfirmModal(controller)

	for _, info := range AllUIModes {
		ui.pages.AddPage(info.PageName, ui.pageFor(info.Mode), true, info.Mode == ui.currentMode)
	}

	// Create main layout: pages on the left, logs on the right, status below
	content := tview.NewFlex().
		AddItem(ui.pages, 0, 3, true).
		AddItem(ui.logView, 0, 2, false)
	ui.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, true).
		AddItem(ui.statusBar, 1, 0, false)

	ui.applyTheme()
	ui.renderStatusBar()
	ui.setFocusForCurrentMode()
}

func (ui *CursesUIViewImpl) initStartMode(controller *UIController) {
	ui.startMenu = tview.NewList().ShowSecondaryText(true)
	ui.startMenu.SetBorder(true).SetTitle(" Murph ")

	ui.startInfo = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.startInfo.SetBorder(true).SetTitle(" Today's Workout ")

	ui.tabWidgets[UIModeStart] = []tview.Primitive{ui.startMenu, ui.startInfo}

	ui.startFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.startMenu, 0, 1, true).
		AddItem(ui.startInfo, 0, 1, false)

	ui.renderStartMode(UIState{SelectedMode: workout.ModeFull, TimerEnabled: true})
}

func (ui *CursesUIViewImpl) initWorkoutMode(controller *UIController) {
	ui.workoutHeader = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.workoutHeader.SetBorder(true).SetTitle(" Workout ")

	ui.sectionList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			sec, ok := ui.sectionAt(index)
			if !ok {
				return
			}
			if sec.IsCheckbox() {
				controller.ToggleCheckbox(sec.ID)
			} else {
				controller.AddReps(sec.ID, 1)
			}
		})
	ui.sectionList.SetBorder(true).SetTitle(" Sections ")

	ui.tabWidgets[UIModeWorkout] = []tview.Primitive{ui.sectionList}

	ui.workoutFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.workoutHeader, 7, 0, false).
		AddItem(ui.sectionList, 0, 1, true)
}

func (ui *CursesUIViewImpl) initCompleteMode() {
	ui.completeSummary = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.completeSummary.SetBorder(true).SetTitle(" Workout Complete ")

	ui.completeStats = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	ui.completeStats.SetBorder(true).SetTitle(" Share ")

	ui.tabWidgets[UIModeComplete] = []tview.Primitive{ui.completeStats}

	ui.completeFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.completeSummary, 9, 0, false).
		AddItem(ui.completeStats, 0, 1, true)
}

func (ui *CursesUIViewImpl) initHistoryMode(controller *UIController) {
	ui.historyList = tview.NewList().
		ShowSecondaryText(false).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.renderHistoryDetails(index)
		})
	ui.historyList.SetBorder(true).SetTitle(" History ")

	ui.historyDetails = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	ui.historyDetails.SetBorder(true).SetTitle(" Details ")

	ui.tabWidgets[UIModeHistory] = []tview.Primitive{ui.historyList, ui.historyDetails}

	ui.historyFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.historyList, 0, 1, true).
		AddItem(ui.historyDetails, 0, 1, false)
}

func (ui *CursesUIViewImpl) initConfirmModal(controller *UIController) {
	ui.confirmModal = tview.NewModal().
		AddButtons([]string{"Yes", "No"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if buttonLabel == "Yes" {
				controller.ConfirmPending()
			} else {
				controller.CancelPending()
			}
		})
}

func (ui *CursesUIViewImpl) pageFor(mode UIMode) tview.Primitive {
	switch mode {
	case UIModeWorkout:
		return ui.workoutFlex
	case UIModeComplete:
		return ui.completeFlex
	case UIModeHistory:
		return ui.historyFlex
	default:
		return ui.startFlex
	}
}

// SetMode switches the UI to the specified mode
func (ui *CursesUIViewImpl) SetMode(mode UIMode) {
	if ui.currentMode == mode {
		return
	}
	info, ok := GetUIModeInfo(mode)
	if !ok {
		return
	}

	ui.currentMode = mode
	ui.pages.SwitchToPage(info.PageName)
	ui.setFocusForCurrentMode()
	ui.renderStatusBar()
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesUIViewImpl) GetCurrentMode() UIMode {
	return ui.currentMode
}

// setFocusForCurrentMode sets focus to the first widget in the current mode
func (ui *CursesUIViewImpl) setFocusForCurrentMode() {
	if widgets := ui.tabWidgets[ui.currentMode]; len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

// UpdateUIState renders everything UIState drives
func (ui *CursesUIViewImpl) UpdateUIState(state UIState) {
	ui.mu.Lock()
	themeChanged := state.Theme != ui.uiState.Theme
	ui.uiState = state
	ui.palette = palettes[ParseTheme(string(state.Theme))]
	ui.mu.Unlock()

	if themeChanged {
		ui.applyTheme()
		ui.renderWorkoutHeader()
		ui.renderHistoryDetails(ui.historyList.GetCurrentItem())
	}
	ui.renderStartMode(state)
	ui.renderStatusBar()
	ui.updateConfirmModal(state.Confirm)
}

func (ui *CursesUIViewImpl) renderStartMode(state UIState) {
	controller := ui.controller
	current := ui.startMenu.GetCurrentItem()
	ui.startMenu.Clear()

	timerLabel := "Off"
	if state.TimerEnabled {
		timerLabel = "On"
	}
	if state.CanResume {
		ui.startMenu.AddItem("Resume Workout", "continue where you left off", 'r', controller.ResumeWorkout)
	}
	ui.startMenu.AddItem("Start "+state.SelectedMode.DisplayName(), "begin a new workout", 's', controller.BeginWorkout)
	ui.startMenu.AddItem("Mode: "+state.SelectedMode.DisplayName(), "full, half or quarter", 'm', controller.CycleWorkoutMode)
	ui.startMenu.AddItem("Timer: "+timerLabel, "time the workout", 'i', controller.ToggleTimerEnabled)
	ui.startMenu.AddItem("History", "past workouts", 'h', controller.ShowHistory)
	ui.startMenu.AddItem("Quit", "", 'q', controller.Quit)
	if current > 0 && current < ui.startMenu.GetItemCount() {
		ui.startMenu.SetCurrentItem(current)
	}

	p := ui.currentPalette()
	preview := workout.BuildDefaultState(state.SelectedMode)
	var b strings.Builder
	fmt.Fprintf(&b, "\n  [%s]%s[-]\n\n", p.accentTag, state.SelectedMode.DisplayName())
	for _, sec := range preview.Sections {
		if sec.IsCheckbox() {
			fmt.Fprintf(&b, "  %s %s\n", sec.Icon, sec.Name)
		} else {
			fmt.Fprintf(&b, "  %s %d %s\n", sec.Icon, sec.Total, sec.Name)
		}
	}
	fmt.Fprintf(&b, "\n  [%s]Partition the reps however you like.\n  In honor of Lt. Michael P. Murphy.[-]\n", p.mutedTag)
	ui.startInfo.SetText(b.String())
}

func (ui *CursesUIViewImpl) renderStatusBar() {
	ui.mu.Lock()
	status := ui.uiState.Status
	p := ui.palette
	ui.mu.Unlock()

	text := " " + modeHelp[ui.currentMode]
	if status != "" {
		text = fmt.Sprintf(" [%s]%s[-]  |%s", p.accentTag, tview.Escape(status), text)
	}
	ui.statusBar.SetText(text)
}

func (ui *CursesUIViewImpl) updateConfirmModal(action ConfirmAction) {
	ui.mu.Lock()
	shown := ui.confirmShown
	ui.confirmShown = action
	ui.mu.Unlock()

	if shown == action {
		return
	}
	if action == ConfirmNone {
		ui.pages.RemovePage(pageConfirm)
		ui.setFocusForCurrentMode()
		return
	}
	ui.confirmModal.SetText(action.Prompt())
	ui.confirmModal.SetFocus(1) // "No"
	ui.pages.AddPage(pageConfirm, ui.confirmModal, false, true)
	ui.app.SetFocus(ui.confirmModal)
}

// UpdateWorkout renders the active workout
func (ui *CursesUIViewImpl) UpdateWorkout(w WorkoutModel) {
	ui.mu.Lock()
	ui.workout = w
	ui.mu.Unlock()

	current := ui.sectionList.GetCurrentItem()
	ui.sectionList.Clear()
	for _, sec := range w.State.Sections {
		ui.sectionList.AddItem(tview.Escape(sectionLine(sec)), sectionHint(sec), 0, nil)
	}
	if current > 0 && current < ui.sectionList.GetItemCount() {
		ui.sectionList.SetCurrentItem(current)
	}
	ui.renderWorkoutHeader()
}

// UpdateElapsed renders the timer
func (ui *CursesUIViewImpl) UpdateElapsed(elapsed time.Duration) {
	ui.mu.Lock()
	ui.elapsed = elapsed
	ui.mu.Unlock()
	ui.renderWorkoutHeader()
}

func (ui *CursesUIViewImpl) renderWorkoutHeader() {
	ui.mu.Lock()
	w := ui.workout
	elapsed := ui.elapsed
	p := ui.palette
	ui.mu.Unlock()

	if !w.Active {
		ui.workoutHeader.SetText(fmt.Sprintf("\n  [%s]No active workout[-]", p.mutedTag))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%s]%s[-]\n\n", p.accentTag, w.State.WorkoutMode.DisplayName())
	if w.State.TimerEnabled {
		fmt.Fprintf(&b, "  ⏱  [::b]%s[::-]", workout.FormatElapsed(elapsed))
		if w.State.IsPaused {
			fmt.Fprintf(&b, "  [%s](PAUSED)[-]", p.mutedTag)
		}
	} else {
		fmt.Fprintf(&b, "  [%s]%s[-]", p.mutedTag, workout.NoTimerLabel)
	}
	fmt.Fprintf(&b, "\n\n  %s %d%%", progressBar(w.Progress), w.Progress)
	if w.Ready {
		fmt.Fprintf(&b, "  [%s]Ready to finish![-]", p.goodTag)
	}
	ui.workoutHeader.SetText(b.String())
}

// ShowResult renders the summary of a finished workout
func (ui *CursesUIViewImpl) ShowResult(result workout.WorkoutResult) {
	p := ui.currentPalette()

	title := fmt.Sprintf("[%s]🎉 Workout Complete![-]", p.goodTag)
	if !result.IsFullyComplete {
		title = fmt.Sprintf("[%s]Workout Finished (Partial)[-]", p.accentTag)
	}
	ui.completeSummary.SetText(fmt.Sprintf("\n  %s\n\n%s", title, indent(resultSummary(result))))
	ui.completeStats.SetText(tview.Escape(workout.StatsText(result)))
	ui.completeStats.ScrollToBeginning()
}

// SetHistory populates the history list
func (ui *CursesUIViewImpl) SetHistory(results []workout.WorkoutResult) {
	ui.mu.Lock()
	ui.history = results
	ui.mu.Unlock()

	current := ui.historyList.GetCurrentItem()
	ui.historyList.Clear()
	for _, r := range results {
		ui.historyList.AddItem(tview.Escape(resultLine(r)), "", 0, nil)
	}
	if current > 0 && current < len(results) {
		ui.historyList.SetCurrentItem(current)
	}
	ui.renderHistoryDetails(ui.historyList.GetCurrentItem())
}

func (ui *CursesUIViewImpl) renderHistoryDetails(index int) {
	if ui.historyDetails == nil {
		return
	}
	result, ok := ui.resultAt(index)
	p := ui.currentPalette()
	if !ok {
		ui.historyDetails.SetText(fmt.Sprintf("\n  [%s]No workouts yet.\n\n  Finished workouts show up here.[-]", p.mutedTag))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  [%s]%s[-]\n", p.accentTag, result.CompletedAt.Local().Format("Monday, 2 January 2006 15:04"))
	fmt.Fprintf(&b, "  [%s]%s[-]\n\n", p.mutedTag, result.ID)
	b.WriteString(indent(tview.Escape(workout.StatsText(result))))
	ui.historyDetails.SetText(b.String())
	ui.historyDetails.ScrollToBeginning()
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Escape closes a modal or goes back
		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		// The modal handles its own keys
		ui.mu.Lock()
		confirmOpen := ui.confirmShown != ConfirmNone
		ui.mu.Unlock()
		if confirmOpen {
			return event
		}

		// Tab to switch focus between widgets in current mode
		if event.Key() == tcell.KeyTab {
			ui.focusNextWidget()
			return nil
		}

		if event.Key() == tcell.KeyRune && event.Rune() == 't' {
			controller.ToggleTheme()
			return nil
		}

		// Mode-specific key handlers
		switch ui.currentMode {
		case UIModeWorkout:
			return ui.handleWorkoutKey(controller, event)
		case UIModeComplete:
			if event.Key() == tcell.KeyRune {
				switch event.Rune() {
				case 'n':
					controller.NewWorkout()
					return nil
				case 'h':
					controller.ShowHistory()
					return nil
				}
			}
		case UIModeHistory:
			if event.Key() == tcell.KeyRune {
				switch event.Rune() {
				case 'd':
					if result, ok := ui.resultAt(ui.historyList.GetCurrentItem()); ok {
						controller.RequestDeleteResult(result.ID)
					}
					return nil
				case 'c':
					controller.RequestClearHistory()
					return nil
				}
			}
		}

		return event
	})
}

func (ui *CursesUIViewImpl) handleWorkoutKey(controller *UIController, event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}
	sec, selected := ui.sectionAt(ui.sectionList.GetCurrentItem())

	if amount, ok := GetRepIncrementByKey(event.Rune()); ok {
		if selected && sec.IsReps() {
			controller.AddReps(sec.ID, amount)
		}
		return nil
	}

	switch event.Rune() {
	case 'u':
		if selected && sec.IsReps() {
			controller.UndoReps(sec.ID)
		}
	case ' ':
		if selected && sec.IsCheckbox() {
			controller.ToggleCheckbox(sec.ID)
		}
	case 'p':
		controller.TogglePause()
	case 'f':
		controller.RequestFinish()
	case 'r':
		controller.RequestReset()
	default:
		return event
	}
	return nil
}

func (ui *CursesUIViewImpl) focusNextWidget() {
	widgets := ui.tabWidgets[ui.currentMode]
	for i, w := range widgets {
		if w.HasFocus() {
			ui.app.SetFocus(widgets[(i+1)%len(widgets)])
			return
		}
	}
	if len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

func (ui *CursesUIViewImpl) sectionAt(index int) (workout.Section, bool) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	if index < 0 || index >= len(ui.workout.State.Sections) {
		return workout.Section{}, false
	}
	return ui.workout.State.Sections[index], true
}

func (ui *CursesUIViewImpl) resultAt(index int) (workout.WorkoutResult, bool) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	if index < 0 || index >= len(ui.history) {
		return workout.WorkoutResult{}, false
	}
	return ui.history[index], true
}

func (ui *CursesUIViewImpl) currentPalette() palette {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.palette
}

// applyTheme recolours every widget with the current palette
func (ui *CursesUIViewImpl) applyTheme() {
	p := ui.currentPalette()

	for _, flex := range []*tview.Flex{ui.mainFlex, ui.startFlex, ui.workoutFlex, ui.completeFlex, ui.historyFlex} {
		if flex != nil {
			flex.SetBackgroundColor(p.background)
		}
	}
	for _, tv := range []*tview.TextView{ui.logView, ui.statusBar, ui.startInfo, ui.workoutHeader, ui.completeSummary, ui.completeStats, ui.historyDetails} {
		tv.SetTextColor(p.text)
		tv.SetBackgroundColor(p.background)
		tv.SetBorderColor(p.border)
		tv.SetTitleColor(p.text)
	}
	for _, list := range []*tview.List{ui.startMenu, ui.sectionList, ui.historyList} {
		list.SetMainTextColor(p.text).
			SetSecondaryTextColor(p.border).
			SetShortcutColor(p.border).
			SetSelectedBackgroundColor(p.selected).
			SetSelectedTextColor(p.text)
		list.SetBackgroundColor(p.background)
		list.SetBorderColor(p.border)
		list.SetTitleColor(p.text)
	}
	ui.confirmModal.SetBackgroundColor(p.background)
	ui.confirmModal.SetTextColor(p.text)
	ui.confirmModal.SetButtonBackgroundColor(p.selected)
	ui.confirmModal.SetButtonTextColor(p.text)
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprintln(ui.logView, tview.Escape(line))
	return err
}

// Draw refreshes/redraws the UI. Before Run and after Stop it does nothing.
func (ui *CursesUIViewImpl) Draw() error {
	if ui.running.Load() {
		ui.app.Draw()
	}
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesUIViewImpl) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.setFocusForCurrentMode()
	ui.running.Store(true)
	defer ui.running.Store(false)
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesUIViewImpl) Stop() {
	ui.running.Store(false)
	ui.app.Stop()
}

func indent(text string) string {
	return "  " + strings.ReplaceAll(text, "\n", "\n  ")
}
