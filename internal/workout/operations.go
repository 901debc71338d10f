package workout

import "math"

// AddReps applies amount reps to a reps section, clamped to what remains.
// Unknown ids, checkbox sections, non-positive amounts and full sections
// leave the state unchanged.
func AddReps(state WorkoutState, sectionID string, amount int) WorkoutState {
	idx := state.FindSection(sectionID)
	if idx < 0 || !state.Sections[idx].IsReps() {
		return state
	}
	sec := state.Sections[idx]
	actual := min(amount, sec.Total-sec.Count)
	if actual <= 0 {
		return state
	}

	next := state.Clone()
	sec = next.Sections[idx]
	sec.LastAction = &actual
	sec.Count += actual
	next.Sections[idx] = sec
	return next
}

// UndoReps reverts the most recent increment of a reps section.
// Only one level of undo exists; a second call is a no-op.
func UndoReps(state WorkoutState, sectionID string) WorkoutState {
	idx := state.FindSection(sectionID)
	if idx < 0 || !state.Sections[idx].IsReps() || state.Sections[idx].LastAction == nil {
		return state
	}

	next := state.Clone()
	sec := next.Sections[idx]
	sec.Count = max(0, sec.Count-*sec.LastAction)
	sec.LastAction = nil
	next.Sections[idx] = sec
	return next
}

// ToggleCheckbox flips a checkbox section
func ToggleCheckbox(state WorkoutState, sectionID string) WorkoutState {
	idx := state.FindSection(sectionID)
	if idx < 0 || !state.Sections[idx].IsCheckbox() {
		return state
	}

	next := state.Clone()
	next.Sections[idx].Done = !next.Sections[idx].Done
	return next
}

// IsComplete reports whether every section met its target
func IsComplete(state WorkoutState) bool {
	for _, sec := range state.Sections {
		if !sec.IsDone() {
			return false
		}
	}
	return true
}

// OverallProgress returns the rounded completion percentage (0..100).
// Checkbox sections count as a single unit.
func OverallProgress(state WorkoutState) int {
	completed, total := 0, 0
	for _, sec := range state.Sections {
		if sec.IsCheckbox() {
			total++
			if sec.Done {
				completed++
			}
		} else {
			total += sec.Total
			completed += sec.Count
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// HasProgress reports whether any checkbox is ticked or any rep was logged
func HasProgress(state WorkoutState) bool {
	for _, sec := range state.Sections {
		if sec.IsCheckbox() && sec.Done {
			return true
		}
		if sec.IsReps() && sec.Count > 0 {
			return true
		}
	}
	return false
}

// TotalReps sums the completed reps across all reps sections
func TotalReps(state WorkoutState) int {
	total := 0
	for _, sec := range state.Sections {
		if sec.IsReps() {
			total += sec.Count
		}
	}
	return total
}

// CompletedRuns counts the ticked checkbox sections
func CompletedRuns(state WorkoutState) int {
	runs := 0
	for _, sec := range state.Sections {
		if sec.IsCheckbox() && sec.Done {
			runs++
		}
	}
	return runs
}

// clearLastActions drops every pending undo; used once a workout is complete
func clearLastActions(state WorkoutState) WorkoutState {
	next := state.Clone()
	for i := range next.Sections {
		next.Sections[i].LastAction = nil
	}
	return next
}
