package tracker

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/lowaak/murph-tracker/internal/workout"
)

const preferencesFileName = "ui_state.json"

type preferencesData struct {
	Theme        Theme               `json:"theme"`
	LastMode     workout.WorkoutMode `json:"last_mode,omitempty"`
	TimerEnabled *bool               `json:"timer_enabled,omitempty"`
}

// Preferences remembers UI choices between runs in <data_dir>/ui_state.json.
// Failures are logged and never surface to the caller.
type Preferences struct {
	filePath string
	data     preferencesData
	mu       sync.Mutex
	logger   *log.Logger
}

func NewPreferences(dataDir string, logger *log.Logger) *Preferences {
	if logger == nil {
		panic("Preferences: logger cannot be nil")
	}
	p := &Preferences{
		filePath: filepath.Join(dataDir, preferencesFileName),
		logger:   logger,
	}
	p.load()
	return p
}

// Theme returns the stored theme, dark when nothing was stored
func (p *Preferences) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ParseTheme(string(p.data.Theme))
}

func (p *Preferences) SetTheme(theme Theme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger.Printf("Preferences: setTheme -> %s", theme)
	p.data.Theme = theme
	p.save()
}

// WorkoutDefaults returns the mode and timer choice of the last started
// workout, falling back to the given values for anything not stored
func (p *Preferences) WorkoutDefaults(mode workout.WorkoutMode, timerEnabled bool) (workout.WorkoutMode, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if stored, err := workout.ParseWorkoutMode(string(p.data.LastMode)); err == nil {
		mode = stored
	}
	if p.data.TimerEnabled != nil {
		timerEnabled = *p.data.TimerEnabled
	}
	return mode, timerEnabled
}

func (p *Preferences) SetWorkoutDefaults(mode workout.WorkoutMode, timerEnabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger.Printf("Preferences: setWorkoutDefaults -> %s, timer %v", mode, timerEnabled)
	p.data.LastMode = mode
	p.data.TimerEnabled = &timerEnabled
	p.save()
}

func (p *Preferences) load() {
	p.data = preferencesData{Theme: ThemeDark}
	raw, err := os.ReadFile(p.filePath)
	if err != nil {
		p.logger.Printf("Preferences: load %s (no existing file)", p.filePath)
		return
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		p.logger.Printf("Preferences: load %s failed to parse: %v", p.filePath, err)
		p.data = preferencesData{Theme: ThemeDark}
		return
	}
	p.logger.Printf("Preferences: load %s -> theme %s, mode %q", p.filePath, p.data.Theme, p.data.LastMode)
}

// save MUST be called with mu held
func (p *Preferences) save() {
	if err := os.MkdirAll(filepath.Dir(p.filePath), 0755); err != nil {
		p.logger.Printf("Preferences: save mkdir failed: %v", err)
		return
	}
	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		p.logger.Printf("Preferences: save marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(p.filePath, raw, 0644); err != nil {
		p.logger.Printf("Preferences: save %s failed: %v", p.filePath, err)
	}
}
