package tracker

import (
	"fmt"
	"strings"

	"github.com/lowaak/murph-tracker/internal/workout"
)

const historyTimeLayout = "2006-01-02 15:04"

// progressBar renders percent (clamped to 0..100) as a fixed width bar
func progressBar(percent int) string {
	percent = max(0, min(percent, 100))
	filled := percent * progressBarWidth / 100
	return strings.Repeat(string(progressFilled), filled) +
		strings.Repeat(string(progressEmpty), progressBarWidth-filled)
}

// sectionLine is the list entry of a section on the workout screen
func sectionLine(sec workout.Section) string {
	mark := " "
	if sec.IsDone() {
		mark = "✓"
	}
	if sec.IsCheckbox() {
		return fmt.Sprintf("[%s] %s %s", mark, sec.Icon, sec.Name)
	}
	return fmt.Sprintf("[%s] %s %s  %d/%d", mark, sec.Icon, sec.Name, sec.Count, sec.Total)
}

// sectionHint is the secondary text of a section on the workout screen
func sectionHint(sec workout.Section) string {
	if sec.IsCheckbox() {
		if sec.Done {
			return "done (space to undo)"
		}
		return "space to mark done"
	}
	if sec.Count >= sec.Total {
		return "done"
	}
	hint := fmt.Sprintf("%d to go", sec.Remaining())
	if sec.LastAction != nil {
		hint += fmt.Sprintf(" (u undoes +%d)", *sec.LastAction)
	}
	return hint
}

// resultLine is the list entry of a result on the history screen
func resultLine(result workout.WorkoutResult) string {
	status := "✓"
	if !result.IsFullyComplete {
		status = "½"
	}
	return fmt.Sprintf("%s %s  %s  %s",
		status, result.CompletedAt.Local().Format(historyTimeLayout), result.Mode.DisplayName(), result.Duration)
}

// resultSummary lists the headline numbers of a result
func resultSummary(result workout.WorkoutResult) string {
	var b strings.Builder
	if result.TimerEnabled {
		fmt.Fprintf(&b, "Time:       %s\n", result.Duration)
	}
	runs := 0
	for _, sec := range result.Sections {
		if sec.Type == workout.SectionCheckbox {
			runs++
		}
	}
	fmt.Fprintf(&b, "Runs:       %d/%d\n", result.CompletedRuns, runs)
	fmt.Fprintf(&b, "Total reps: %d\n", result.TotalReps)
	fmt.Fprintf(&b, "Workout:    %s", result.Mode.DisplayName())
	return b.String()
}
