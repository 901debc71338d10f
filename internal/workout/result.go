package workout

import (
	"fmt"
	"strings"
	"time"
)

// NoTimerLabel replaces the duration when the timer was disabled
const NoTimerLabel = "No timer"

const tribute = `"In honor of Lt. Michael P. Murphy"`

// SectionResult is the final snapshot of one section.
// Completed is 0 or 1 for checkbox sections.
type SectionResult struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      SectionType `json:"type"`
	Icon      string      `json:"icon,omitempty"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
}

// Done reports whether the section met its target
func (r SectionResult) Done() bool {
	return r.Completed >= r.Total
}

// WorkoutResult is the immutable history record created when a workout ends
type WorkoutResult struct {
	ID              string          `json:"id"`
	CompletedAt     time.Time       `json:"completedAt"`
	Mode            WorkoutMode     `json:"workoutMode"`
	TimerEnabled    bool            `json:"timerEnabled"`
	ElapsedMs       int64           `json:"elapsedMs"`
	Duration        string          `json:"duration"`
	Sections        []SectionResult `json:"sections"`
	TotalReps       int             `json:"totalReps"`
	CompletedRuns   int             `json:"completedRuns"`
	IsFullyComplete bool            `json:"isFullyComplete"`
}

// BuildResult snapshots state into a WorkoutResult. The ID is left empty
// for the history store to assign.
func BuildResult(state WorkoutState, elapsed time.Duration, completedAt time.Time) WorkoutResult {
	sections := make([]SectionResult, 0, len(state.Sections))
	for _, sec := range state.Sections {
		r := SectionResult{ID: sec.ID, Name: sec.Name, Type: sec.Type, Icon: sec.Icon}
		if sec.IsCheckbox() {
			r.Total = 1
			if sec.Done {
				r.Completed = 1
			}
		} else {
			r.Total = sec.Total
			r.Completed = sec.Count
		}
		sections = append(sections, r)
	}

	duration := NoTimerLabel
	if state.TimerEnabled {
		duration = FormatElapsed(elapsed)
	} else {
		elapsed = 0
	}

	return WorkoutResult{
		CompletedAt:     completedAt,
		Mode:            state.WorkoutMode,
		TimerEnabled:    state.TimerEnabled,
		ElapsedMs:       elapsed.Milliseconds(),
		Duration:        duration,
		Sections:        sections,
		TotalReps:       TotalReps(state),
		CompletedRuns:   CompletedRuns(state),
		IsFullyComplete: IsComplete(state),
	}
}

// ShareSubject is a one line summary suitable for a message subject
func ShareSubject(result WorkoutResult) string {
	return result.Mode.DisplayName() + " Complete!"
}

// StatsText renders the result as the plain text people paste into chats
func StatsText(result WorkoutResult) string {
	status := "Completed (Partial)"
	if result.IsFullyComplete {
		status = "Complete!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", result.Mode.DisplayName(), status)
	fmt.Fprintf(&b, "Time: %s\n", result.Duration)
	fmt.Fprintf(&b, "Total Reps: %d\n\n", result.TotalReps)
	for _, sec := range result.Sections {
		if sec.Type == SectionCheckbox {
			state := "Not completed"
			if sec.Done() {
				state = "Done"
			}
			fmt.Fprintf(&b, "%s %s: %s\n", sec.Icon, sec.Name, state)
		} else {
			fmt.Fprintf(&b, "%s %s: %d/%d\n", sec.Icon, sec.Name, sec.Completed, sec.Total)
		}
	}
	b.WriteString("\n")
	b.WriteString(tribute)
	return b.String()
}
