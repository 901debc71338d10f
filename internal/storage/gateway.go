package storage

import (
	"log"

	"github.com/lowaak/murph-tracker/internal/workout"
)

// Gateway persists the current workout as JSON and the history in SQLite
type Gateway struct {
	*WorkoutFile
	*History
}

var _ workout.Gateway = (*Gateway)(nil)

// Open prepares both stores under dataDir
func Open(dataDir string, logger *log.Logger) (*Gateway, error) {
	history, err := OpenHistory(dataDir, logger)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		WorkoutFile: NewWorkoutFile(dataDir, logger),
		History:     history,
	}, nil
}

func (g *Gateway) Close() error {
	return g.History.Close()
}
