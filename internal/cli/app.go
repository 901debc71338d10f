package cli

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/lowaak/murph-tracker/internal/config"
	"github.com/lowaak/murph-tracker/internal/logging"
	"github.com/lowaak/murph-tracker/internal/storage"
	"github.com/lowaak/murph-tracker/internal/tracker"
	"github.com/lowaak/murph-tracker/internal/workout"
)

func logOptions(cfg *config.Config) logging.Options {
	return logging.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
}

// runTUI wires the workout machine to the terminal UI and blocks until the
// user quits. When defaultsFromFlags is set the configured mode and timer
// win over the ones remembered from the last session.
func runTUI(cfg *config.Config, defaultsFromFlags bool) error {
	setup := logging.NewSetup(logOptions(cfg), true)
	defer setup.Close()
	logger := setup.Logger
	logger.Printf("Main: Starting murph %s (data dir %s)", version, cfg.DataDir)
	if cfg.ConfigFile != "" {
		logger.Printf("Main: Using config file %s", cfg.ConfigFile)
	}

	store, err := storage.Open(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Printf("Main: Error closing storage: %v", err)
		}
	}()

	timer := workout.NewTimer(workout.SystemClock{}, cfg.Timer.TickInterval, logger)
	machine := workout.NewMachine(workout.MachineArgs{
		Store:           store,
		Timer:           timer,
		Logger:          logger,
		AutoFinishDelay: cfg.Workout.AutoFinishDelay,
	})

	prefs := tracker.NewPreferences(cfg.DataDir, logger)
	mode, timerEnabled := cfg.Workout.DefaultMode, cfg.Workout.TimerEnabled
	if !defaultsFromFlags {
		mode, timerEnabled = prefs.WorkoutDefaults(mode, timerEnabled)
	}

	model := tracker.NewUIModel(logger, setup.UI.Lines(), tracker.UIState{
		Mode:         tracker.UIModeStart,
		Theme:        prefs.Theme(),
		SelectedMode: mode,
		TimerEnabled: timerEnabled,
	})
	defer model.Shutdown()

	controller := tracker.NewUIController(tracker.NewUIControllerArg{
		Model:       model,
		Machine:     machine,
		Store:       store,
		Preferences: prefs,
		Logger:      logger,
	})
	defer controller.Shutdown()
	controller.Load()

	app := tview.NewApplication()
	view := tracker.NewCursesUIView(logger, app, model)
	base := tracker.NewBaseUIView(tracker.NewBaseUIViewArg{
		UIViewImpl:   view,
		UIModel:      model,
		UIController: controller,
		Logger:       logger,
	})
	defer base.Shutdown()

	if err := base.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	logger.Printf("Main: Exiting")
	return nil
}

// stores is what the non-interactive commands work against
type stores struct {
	cfg     *config.Config
	gateway *storage.Gateway
	logs    *logging.Setup
}

func openStores(opts *rootOptions) (*stores, error) {
	cfg, err := opts.load()
	if err != nil {
		return nil, err
	}
	logs := logging.NewSetup(logOptions(cfg), false)
	gateway, err := storage.Open(cfg.DataDir, logs.Logger)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return &stores{cfg: cfg, gateway: gateway, logs: logs}, nil
}

func (s *stores) Close() {
	if err := s.gateway.Close(); err != nil {
		s.logs.Logger.Printf("CLI: Error closing storage: %v", err)
	}
	s.logs.Close()
}
