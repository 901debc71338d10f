package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/lowaak/murph-tracker/internal/workout"
)

// MemoryGateway keeps everything in memory. Used by tests and by callers
// that run without a data directory.
type MemoryGateway struct {
	mu      sync.Mutex
	current []byte // encoded like the file store so load validation is identical
	results []workout.WorkoutResult
	saveErr error
	saves   int
}

var _ workout.Gateway = (*MemoryGateway)(nil)

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{}
}

// SetSaveError makes every following SaveCurrentWorkout fail with err (nil restores)
func (g *MemoryGateway) SetSaveError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saveErr = err
}

// SaveCount returns the number of successful saves
func (g *MemoryGateway) SaveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saves
}

// SetRaw stores a raw payload in the current workout slot
func (g *MemoryGateway) SetRaw(raw []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = append([]byte(nil), raw...)
}

func (g *MemoryGateway) SaveCurrentWorkout(ctx context.Context, state workout.WorkoutState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := encodeWorkoutState(state)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return g.saveErr
	}
	g.current = raw
	g.saves++
	return nil
}

func (g *MemoryGateway) LoadCurrentWorkout(ctx context.Context) (workout.WorkoutState, bool) {
	g.mu.Lock()
	raw := g.current
	g.mu.Unlock()
	if raw == nil || ctx.Err() != nil {
		return workout.WorkoutState{}, false
	}
	state, err := decodeWorkoutState(raw)
	if err != nil {
		return workout.WorkoutState{}, false
	}
	return state, true
}

func (g *MemoryGateway) ClearCurrentWorkout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = nil
	return nil
}

func (g *MemoryGateway) HasActiveWorkout(ctx context.Context) bool {
	state, ok := g.LoadCurrentWorkout(ctx)
	return ok && workout.IsResumable(state)
}

func (g *MemoryGateway) AppendResult(ctx context.Context, result workout.WorkoutResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	result.ID = uuid.NewString()
	g.results = append(g.results, result)
	return result.ID, nil
}

// ListResults returns results most recent first; ties keep reverse insertion order
func (g *MemoryGateway) ListResults(ctx context.Context) ([]workout.WorkoutResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]workout.WorkoutResult, 0, len(g.results))
	for i := len(g.results) - 1; i >= 0; i-- {
		out = append(out, g.results[i])
	}
	slices.SortStableFunc(out, func(a, b workout.WorkoutResult) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})
	return out, nil
}

func (g *MemoryGateway) GetResult(ctx context.Context, id string) (workout.WorkoutResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range g.results {
		if r.ID == id {
			return r, nil
		}
	}
	return workout.WorkoutResult{}, fmt.Errorf("%s: %w", id, workout.ErrResultNotFound)
}

func (g *MemoryGateway) DeleteResult(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, r := range g.results {
		if r.ID == id {
			g.results = append(g.results[:i], g.results[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", id, workout.ErrResultNotFound)
}

func (g *MemoryGateway) ClearAllResults(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.results = nil
	return nil
}
