package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/murph-tracker/internal/workout"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(t.TempDir(), newDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func resultAt(mode workout.WorkoutMode, completedAt time.Time) workout.WorkoutResult {
	return workout.BuildResult(startedState(mode), 90*time.Second, completedAt)
}

func TestHistory_AppendAndGet(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(t)
	completedAt := time.UnixMilli(time.Now().UnixMilli())
	result := resultAt(workout.ModeHalf, completedAt)

	id, err := h.AppendResult(ctx, result)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := h.GetResult(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, result.Sections, got.Sections)
	assert.True(t, completedAt.Equal(got.CompletedAt))
	assert.Equal(t, workout.ModeHalf, got.Mode)
	assert.Equal(t, "00:01:30", got.Duration)
	assert.Equal(t, int64(90000), got.ElapsedMs)
	assert.Equal(t, result.TotalReps, got.TotalReps)
	assert.Equal(t, 1, got.CompletedRuns)
	assert.False(t, got.IsFullyComplete)
	assert.True(t, got.TimerEnabled)
}

func TestHistory_AppendAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(t)
	result := resultAt(workout.ModeFull, time.Now())

	first, err := h.AppendResult(ctx, result)
	require.NoError(t, err)
	second, err := h.AppendResult(ctx, result)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHistory_AppendDefaultsCompletedAt(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(t)

	id, err := h.AppendResult(ctx, resultAt(workout.ModeFull, time.Time{}))
	require.NoError(t, err)
	got, err := h.GetResult(ctx, id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got.CompletedAt, time.Minute)
}

func TestHistory_ListMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(t)
	base := time.Now().Add(-24 * time.Hour)

	oldest, err := h.AppendResult(ctx, resultAt(workout.ModeFull, base))
	require.NoError(t, err)
	newest, err := h.AppendResult(ctx, resultAt(workout.ModeQuarter, base.Add(2*time.Hour)))
	require.NoError(t, err)
	middle, err := h.AppendResult(ctx, resultAt(workout.ModeHalf, base.Add(time.Hour)))
	require.NoError(t, err)

	results, err := h.ListResults(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{newest, middle, oldest}, []string{results[0].ID, results[1].ID, results[2].ID})
}

func TestHistory_ListEmpty(t *testing.T) {
	results, err := newTestHistory(t).ListResults(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHistory_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(t)
	a, err := h.AppendResult(ctx, resultAt(workout.ModeFull, time.Now()))
	require.NoError(t, err)
	_, err = h.AppendResult(ctx, resultAt(workout.ModeHalf, time.Now()))
	require.NoError(t, err)

	require.NoError(t, h.DeleteResult(ctx, a))
	_, err = h.GetResult(ctx, a)
	assert.ErrorIs(t, err, workout.ErrResultNotFound)
	assert.ErrorIs(t, h.DeleteResult(ctx, a), workout.ErrResultNotFound)

	results, err := h.ListResults(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	require.NoError(t, h.ClearAllResults(ctx))
	results, err = h.ListResults(ctx)
	require.NoError(t, err)
	assert.Empty(t, results)
	require.NoError(t, h.ClearAllResults(ctx), "clearing an empty history")
}

func TestHistory_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")

	h, err := OpenHistory(dir, newDiscardLogger())
	require.NoError(t, err)
	id, err := h.AppendResult(ctx, resultAt(workout.ModeFull, time.Now()))
	require.NoError(t, err)
	require.NoError(t, h.Close())

	h, err = OpenHistory(dir, newDiscardLogger())
	require.NoError(t, err)
	defer h.Close()
	got, err := h.GetResult(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestGateway_Open(t *testing.T) {
	ctx := context.Background()
	g, err := Open(t.TempDir(), newDiscardLogger())
	require.NoError(t, err)
	defer g.Close()

	require.NoError(t, g.SaveCurrentWorkout(ctx, startedState(workout.ModeFull)))
	assert.True(t, g.HasActiveWorkout(ctx))

	_, err = g.AppendResult(ctx, resultAt(workout.ModeFull, time.Now()))
	require.NoError(t, err)
	results, err := g.ListResults(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
