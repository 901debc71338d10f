package workout

import (
	"context"
	"errors"
)

// ErrResultNotFound is returned by HistoryStore lookups for unknown ids
var ErrResultNotFound = errors.New("workout result not found")

// CurrentWorkoutStore holds the single in-progress workout slot
type CurrentWorkoutStore interface {
	// SaveCurrentWorkout overwrites the slot with the full snapshot
	SaveCurrentWorkout(ctx context.Context, state WorkoutState) error
	// LoadCurrentWorkout never fails: a missing or invalid payload yields false
	LoadCurrentWorkout(ctx context.Context) (WorkoutState, bool)
	ClearCurrentWorkout(ctx context.Context) error
	// HasActiveWorkout reports whether the slot holds a resumable workout
	HasActiveWorkout(ctx context.Context) bool
}

// HistoryStore keeps the results of finished workouts
type HistoryStore interface {
	// AppendResult stores result under a newly assigned id and returns the id
	AppendResult(ctx context.Context, result WorkoutResult) (string, error)
	// ListResults returns all results, most recent first
	ListResults(ctx context.Context) ([]WorkoutResult, error)
	GetResult(ctx context.Context, id string) (WorkoutResult, error)
	DeleteResult(ctx context.Context, id string) error
	ClearAllResults(ctx context.Context) error
}

// Gateway is everything the workout machine persists through
type Gateway interface {
	CurrentWorkoutStore
	HistoryStore
}

// IsResumable reports whether a stored state counts as an active workout:
// not complete and with some progress logged
func IsResumable(state WorkoutState) bool {
	return !state.IsComplete && HasProgress(state)
}
