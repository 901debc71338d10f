package workout

import (
	"fmt"
	"math"
)

// Section IDs of the fixed Murph sequence
const (
	SectionRun1    = "run1"
	SectionPullups = "pullups"
	SectionPushups = "pushups"
	SectionSquats  = "squats"
	SectionRun2    = "run2"
)

// sectionTemplate describes one entry of the catalog before scaling
type sectionTemplate struct {
	ID       string
	Type     SectionType
	Name     string // reps sections only; runs are named from the mode
	RunIndex int    // checkbox sections only
	BaseReps int    // reps sections only, full Murph target
	Icon     string
}

// murphSequence is the fixed order: run, pull-ups, push-ups, squats, run
var murphSequence = []sectionTemplate{
	{ID: SectionRun1, Type: SectionCheckbox, RunIndex: 1, Icon: "🏃"},
	{ID: SectionPullups, Type: SectionReps, Name: "Pull-ups", BaseReps: 100, Icon: "💪"},
	{ID: SectionPushups, Type: SectionReps, Name: "Push-ups", BaseReps: 200, Icon: "🫸"},
	{ID: SectionSquats, Type: SectionReps, Name: "Squats", BaseReps: 300, Icon: "🦵"},
	{ID: SectionRun2, Type: SectionCheckbox, RunIndex: 2, Icon: "🏃"},
}

// BuildDefaultState returns a fresh, not yet started workout for the given mode.
// Unknown modes are treated as a full Murph.
func BuildDefaultState(mode WorkoutMode) WorkoutState {
	if _, err := ParseWorkoutMode(string(mode)); err != nil {
		mode = ModeFull
	}
	scale := mode.ScaleFactor()

	sections := make([]Section, 0, len(murphSequence))
	for _, tmpl := range murphSequence {
		sec := Section{ID: tmpl.ID, Type: tmpl.Type, Icon: tmpl.Icon}
		if tmpl.Type == SectionCheckbox {
			sec.Name = fmt.Sprintf("%s Run #%d", mode.RunDistance(), tmpl.RunIndex)
		} else {
			sec.Name = tmpl.Name
			sec.Total = scaledTarget(tmpl.BaseReps, scale)
		}
		sections = append(sections, sec)
	}

	return WorkoutState{
		TimerEnabled:   true,
		WorkoutMode:    mode,
		IsHalfMurph:    mode == ModeHalf,
		IsQuarterMurph: mode == ModeQuarter,
		Sections:       sections,
	}
}

// scaledTarget rounds half up; targets are always positive so math.Round matches
func scaledTarget(base int, scale float64) int {
	return int(math.Round(float64(base) * scale))
}

// TotalUnits is the denominator of overall progress: one unit per checkbox
// section plus the rep target of every reps section
func TotalUnits(state WorkoutState) int {
	total := 0
	for _, sec := range state.Sections {
		if sec.IsCheckbox() {
			total++
		} else {
			total += sec.Total
		}
	}
	return total
}
