package workout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResult_Full(t *testing.T) {
	state := completeAll(BuildDefaultState(ModeFull))
	at := time.Date(2026, 5, 25, 9, 30, 0, 0, time.UTC)

	result := BuildResult(state, 47*time.Minute+12*time.Second, at)

	assert.Empty(t, result.ID)
	assert.Equal(t, at, result.CompletedAt)
	assert.Equal(t, ModeFull, result.Mode)
	assert.Equal(t, "00:47:12", result.Duration)
	assert.Equal(t, int64(2832000), result.ElapsedMs)
	assert.Equal(t, 600, result.TotalReps)
	assert.Equal(t, 2, result.CompletedRuns)
	assert.True(t, result.IsFullyComplete)

	require.Len(t, result.Sections, 5)
	assert.Equal(t, SectionResult{ID: SectionRun1, Name: "Mile Run #1", Type: SectionCheckbox, Icon: "🏃", Completed: 1, Total: 1}, result.Sections[0])
	assert.Equal(t, 300, result.Sections[3].Completed)
	assert.True(t, result.Sections[3].Done())
}

func TestBuildResult_Partial(t *testing.T) {
	state := BuildDefaultState(ModeQuarter)
	state = AddReps(state, SectionPullups, 10)

	result := BuildResult(state, time.Minute, time.Now())
	assert.False(t, result.IsFullyComplete)
	assert.Equal(t, 10, result.TotalReps)
	assert.Zero(t, result.CompletedRuns)
	assert.Equal(t, 0, result.Sections[0].Completed)
	assert.False(t, result.Sections[1].Done())
}

func TestBuildResult_NoTimer(t *testing.T) {
	state := BuildDefaultState(ModeHalf)
	state.TimerEnabled = false

	result := BuildResult(state, 5*time.Minute, time.Now())
	assert.Equal(t, NoTimerLabel, result.Duration)
	assert.Zero(t, result.ElapsedMs)
	assert.False(t, result.TimerEnabled)
}

func TestStatsText(t *testing.T) {
	state := completeAll(BuildDefaultState(ModeFull))
	result := BuildResult(state, time.Hour+time.Second, time.Now())

	expected := "Murph Challenge Complete!\n\n" +
		"Time: 01:00:01\n" +
		"Total Reps: 600\n\n" +
		"🏃 Mile Run #1: Done\n" +
		"💪 Pull-ups: 100/100\n" +
		"🫸 Push-ups: 200/200\n" +
		"🦵 Squats: 300/300\n" +
		"🏃 Mile Run #2: Done\n" +
		"\n\"In honor of Lt. Michael P. Murphy\""
	assert.Equal(t, expected, StatsText(result))
}

func TestStatsText_PartialWithoutTimer(t *testing.T) {
	state := BuildDefaultState(ModeHalf)
	state.TimerEnabled = false
	state = AddReps(state, SectionPushups, 40)

	text := StatsText(BuildResult(state, 0, time.Now()))
	assert.Contains(t, text, "Half Murph Completed (Partial)")
	assert.Contains(t, text, "Time: No timer")
	assert.Contains(t, text, "Total Reps: 40")
	assert.Contains(t, text, "Half Mile Run #1: Not completed")
	assert.Contains(t, text, "Push-ups: 40/100")
	assert.Contains(t, text, "Lt. Michael P. Murphy")
}

func TestShareSubject(t *testing.T) {
	assert.Equal(t, "Quarter Murph Complete!", ShareSubject(WorkoutResult{Mode: ModeQuarter}))
}
