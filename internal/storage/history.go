package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lowaak/murph-tracker/internal/workout"
)

const historyFileName = "history.db"

var historySchema = []string{
	`CREATE TABLE IF NOT EXISTS workout_results (
		id             TEXT PRIMARY KEY,
		completed_at   INTEGER NOT NULL,
		mode           TEXT NOT NULL,
		timer_enabled  INTEGER NOT NULL,
		elapsed_ms     INTEGER NOT NULL,
		duration       TEXT NOT NULL,
		total_reps     INTEGER NOT NULL,
		completed_runs INTEGER NOT NULL,
		fully_complete INTEGER NOT NULL,
		sections       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_results_completed_at
		ON workout_results (completed_at DESC)`,
}

const resultColumns = `id, completed_at, mode, timer_enabled, elapsed_ms, duration,
	total_reps, completed_runs, fully_complete, sections`

// History stores finished workouts in SQLite
type History struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenHistory opens (or creates) the history database at dir/history.db
func OpenHistory(dir string, logger *log.Logger) (*History, error) {
	if logger == nil {
		panic("History: logger cannot be nil")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, historyFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	// one writer; sqlite locks the whole file anyway
	db.SetMaxOpenConns(1)

	for _, stmt := range historySchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating history schema: %w", err)
		}
	}

	logger.Printf("History: opened %s", dbPath)
	return &History{db: db, logger: logger}, nil
}

// AppendResult stores result under a new UUID and returns it
func (h *History) AppendResult(ctx context.Context, result workout.WorkoutResult) (string, error) {
	id := uuid.NewString()
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now()
	}
	sections, err := json.Marshal(result.Sections)
	if err != nil {
		return "", fmt.Errorf("marshal sections: %w", err)
	}

	_, err = h.db.ExecContext(ctx,
		`INSERT INTO workout_results (`+resultColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, result.CompletedAt.UnixMilli(), string(result.Mode), result.TimerEnabled, result.ElapsedMs,
		result.Duration, result.TotalReps, result.CompletedRuns, result.IsFullyComplete, string(sections),
	)
	if err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	h.logger.Printf("History: stored result %s (%s)", id, result.Mode.DisplayName())
	return id, nil
}

// ListResults returns all results, most recent first
func (h *History) ListResults(ctx context.Context) ([]workout.WorkoutResult, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM workout_results ORDER BY completed_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []workout.WorkoutResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// GetResult returns workout.ErrResultNotFound for unknown ids
func (h *History) GetResult(ctx context.Context, id string) (workout.WorkoutResult, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM workout_results WHERE id = ?`, id)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workout.WorkoutResult{}, fmt.Errorf("%s: %w", id, workout.ErrResultNotFound)
	}
	return r, err
}

// DeleteResult returns workout.ErrResultNotFound for unknown ids
func (h *History) DeleteResult(ctx context.Context, id string) error {
	res, err := h.db.ExecContext(ctx, `DELETE FROM workout_results WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, workout.ErrResultNotFound)
	}
	h.logger.Printf("History: deleted result %s", id)
	return nil
}

func (h *History) ClearAllResults(ctx context.Context) error {
	res, err := h.db.ExecContext(ctx, `DELETE FROM workout_results`)
	if err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	n, _ := res.RowsAffected()
	h.logger.Printf("History: cleared %d results", n)
	return nil
}

// Close closes the history database
func (h *History) Close() error {
	return h.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (workout.WorkoutResult, error) {
	var (
		r           workout.WorkoutResult
		completedAt int64
		mode        string
		sections    string
	)
	err := row.Scan(&r.ID, &completedAt, &mode, &r.TimerEnabled, &r.ElapsedMs, &r.Duration,
		&r.TotalReps, &r.CompletedRuns, &r.IsFullyComplete, &sections)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scan result: %w", err)
	}
	r.CompletedAt = time.UnixMilli(completedAt)
	r.Mode = workout.WorkoutMode(mode)
	if err := json.Unmarshal([]byte(sections), &r.Sections); err != nil {
		return r, fmt.Errorf("result %s sections: %w", r.ID, err)
	}
	return r, nil
}
