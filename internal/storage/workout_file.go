package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/lowaak/murph-tracker/internal/workout"
)

const currentWorkoutFileName = "current_workout.json"

// WorkoutFile stores the in-progress workout as a JSON document
type WorkoutFile struct {
	filePath string
	logger   *log.Logger

	// serialises writers so two saves never interleave on the temp+rename
	mu sync.Mutex
}

func NewWorkoutFile(dataDir string, logger *log.Logger) *WorkoutFile {
	if logger == nil {
		panic("WorkoutFile: logger cannot be nil")
	}
	return &WorkoutFile{
		filePath: filepath.Join(dataDir, currentWorkoutFileName),
		logger:   logger,
	}
}

// Path returns the location of the JSON document
func (f *WorkoutFile) Path() string {
	return f.filePath
}

// SaveCurrentWorkout replaces the stored workout atomically
func (f *WorkoutFile) SaveCurrentWorkout(ctx context.Context, state workout.WorkoutState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := encodeWorkoutState(state)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".current_workout-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", f.filePath, err)
	}
	return nil
}

// LoadCurrentWorkout reads the stored workout. Missing, unreadable or
// structurally invalid documents are logged and reported as absent.
func (f *WorkoutFile) LoadCurrentWorkout(ctx context.Context) (workout.WorkoutState, bool) {
	if ctx.Err() != nil {
		return workout.WorkoutState{}, false
	}
	raw, err := os.ReadFile(f.filePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Printf("WorkoutFile: load %s failed: %v", f.filePath, err)
		}
		return workout.WorkoutState{}, false
	}
	state, err := decodeWorkoutState(raw)
	if err != nil {
		f.logger.Printf("WorkoutFile: load %s ignored: %v", f.filePath, err)
		return workout.WorkoutState{}, false
	}
	return state, true
}

// ClearCurrentWorkout removes the stored workout; clearing an empty slot is fine
func (f *WorkoutFile) ClearCurrentWorkout(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.filePath, err)
	}
	return nil
}

func (f *WorkoutFile) HasActiveWorkout(ctx context.Context) bool {
	state, ok := f.LoadCurrentWorkout(ctx)
	return ok && workout.IsResumable(state)
}

func encodeWorkoutState(state workout.WorkoutState) ([]byte, error) {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal workout: %w", err)
	}
	return raw, nil
}

// decodeWorkoutState parses and validates a stored workout. Documents from
// older versions without a workoutMode get it derived from the legacy flags.
func decodeWorkoutState(raw []byte) (workout.WorkoutState, error) {
	var state workout.WorkoutState
	if err := json.Unmarshal(raw, &state); err != nil {
		return workout.WorkoutState{}, fmt.Errorf("parse: %w", err)
	}
	if err := state.Validate(); err != nil {
		return workout.WorkoutState{}, fmt.Errorf("invalid: %w", err)
	}
	if _, err := workout.ParseWorkoutMode(string(state.WorkoutMode)); err != nil {
		switch {
		case state.IsQuarterMurph:
			state.WorkoutMode = workout.ModeQuarter
		case state.IsHalfMurph:
			state.WorkoutMode = workout.ModeHalf
		default:
			state.WorkoutMode = workout.ModeFull
		}
	}
	return state, nil
}
