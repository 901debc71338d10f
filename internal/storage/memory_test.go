package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/murph-tracker/internal/workout"
)

func TestMemoryGateway_CurrentWorkout(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()

	_, ok := g.LoadCurrentWorkout(ctx)
	assert.False(t, ok)

	state := startedState(workout.ModeHalf)
	require.NoError(t, g.SaveCurrentWorkout(ctx, state))
	assert.Equal(t, 1, g.SaveCount())
	assert.True(t, g.HasActiveWorkout(ctx))

	loaded, ok := g.LoadCurrentWorkout(ctx)
	require.True(t, ok)
	assert.Equal(t, state, loaded)

	require.NoError(t, g.ClearCurrentWorkout(ctx))
	assert.False(t, g.HasActiveWorkout(ctx))
}

func TestMemoryGateway_SaveError(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()
	boom := errors.New("disk full")

	g.SetSaveError(boom)
	assert.ErrorIs(t, g.SaveCurrentWorkout(ctx, startedState(workout.ModeFull)), boom)
	assert.Zero(t, g.SaveCount())

	g.SetSaveError(nil)
	assert.NoError(t, g.SaveCurrentWorkout(ctx, startedState(workout.ModeFull)))
}

func TestMemoryGateway_RawPayloadIsValidated(t *testing.T) {
	g := NewMemoryGateway()
	g.SetRaw([]byte(`{"workoutMode": "full", "sections": []}`))

	_, ok := g.LoadCurrentWorkout(context.Background())
	assert.False(t, ok)
}

func TestMemoryGateway_History(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()
	base := time.Now()

	older, err := g.AppendResult(ctx, resultAt(workout.ModeFull, base))
	require.NoError(t, err)
	newer, err := g.AppendResult(ctx, resultAt(workout.ModeHalf, base.Add(time.Minute)))
	require.NoError(t, err)

	results, err := g.ListResults(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, newer, results[0].ID)
	assert.Equal(t, older, results[1].ID)

	got, err := g.GetResult(ctx, older)
	require.NoError(t, err)
	assert.Equal(t, workout.ModeFull, got.Mode)

	require.NoError(t, g.DeleteResult(ctx, older))
	assert.ErrorIs(t, g.DeleteResult(ctx, older), workout.ErrResultNotFound)
	_, err = g.GetResult(ctx, older)
	assert.ErrorIs(t, err, workout.ErrResultNotFound)

	require.NoError(t, g.ClearAllResults(ctx))
	results, err = g.ListResults(ctx)
	require.NoError(t, err)
	assert.Empty(t, results)
}
