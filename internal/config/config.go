// Package config loads murph settings from flags, environment, .env and murph.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lowaak/murph-tracker/internal/workout"
)

const (
	EnvPrefix       = "MURPH"
	configName      = "murph"
	configFileName  = "murph.yaml"
	logFileName     = "murph.log"
	dataDirName     = ".murph"
	maxTickInterval = time.Second
)

// Config is the resolved configuration
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Log     LogConfig     `mapstructure:"log"`
	Timer   TimerConfig   `mapstructure:"timer"`
	Workout WorkoutConfig `mapstructure:"workout"`

	// ConfigFile is the file the settings were read from, empty if none
	ConfigFile string `mapstructure:"-"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type TimerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

type WorkoutConfig struct {
	AutoFinishDelay time.Duration       `mapstructure:"auto_finish_delay"`
	DefaultMode     workout.WorkoutMode `mapstructure:"default_mode"`
	TimerEnabled    bool                `mapstructure:"timer_enabled"`
}

// DefaultDataDir returns ~/.murph, or .murph when there is no home directory
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return dataDirName
	}
	return filepath.Join(homeDir, dataDirName)
}

// DefaultConfigPath is where `murph config init` writes by default
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), configFileName)
}

// Loader layers flags > env (MURPH_*) > config file > defaults
type Loader struct {
	v           *viper.Viper
	dotEnvFiles []string
	dotEnvSet   bool
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("timer.tick_interval", workout.DefaultTickInterval)
	v.SetDefault("workout.auto_finish_delay", workout.DefaultAutoFinishDelay)
	v.SetDefault("workout.default_mode", string(workout.ModeFull))
	v.SetDefault("workout.timer_enabled", true)
	return &Loader{v: v}
}

// SetDotEnvFiles replaces the .env files read before the environment is
// consulted; no paths disables .env loading. By default ".env" in the
// working directory is used when present.
func (l *Loader) SetDotEnvFiles(paths ...string) {
	l.dotEnvFiles = paths
	l.dotEnvSet = true
}

// RegisterFlags adds the overridable settings to flags and binds them
func (l *Loader) RegisterFlags(flags *pflag.FlagSet) {
	flags.String("data-dir", "", "directory for the workout, history and log files")
	flags.String("log-file", "", "log file path (default <data-dir>/murph.log)")
	flags.Duration("tick-interval", 0, "timer refresh interval (max 1s)")
	flags.Duration("auto-finish-delay", 0, "delay before a finished workout is archived (0 disables)")
	flags.String("mode", "", "default workout mode: full, half or quarter")
	flags.Bool("timer", true, "time workouts by default")

	l.bind("data_dir", flags.Lookup("data-dir"))
	l.bind("log.file", flags.Lookup("log-file"))
	l.bind("timer.tick_interval", flags.Lookup("tick-interval"))
	l.bind("workout.auto_finish_delay", flags.Lookup("auto-finish-delay"))
	l.bind("workout.default_mode", flags.Lookup("mode"))
	l.bind("workout.timer_enabled", flags.Lookup("timer"))
}

func (l *Loader) bind(key string, flag *pflag.Flag) {
	// only panics on a nil flag, which would be a typo above
	if err := l.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("config: bind %s: %v", key, err))
	}
}

// Load resolves the configuration. An explicit configFile must exist;
// otherwise murph.yaml is looked up in the data directory and the working directory.
func (l *Loader) Load(configFile string) (*Config, error) {
	if err := l.loadDotEnv(); err != nil {
		return nil, err
	}

	v := l.v
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(expandHome(v.GetString("data_dir")))
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.DataDir = expandHome(cfg.DataDir)
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.DataDir, logFileName)
	} else {
		cfg.Log.File = expandHome(cfg.Log.File)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) loadDotEnv() error {
	if !l.dotEnvSet {
		// optional; existing environment variables win
		_ = godotenv.Load()
		return nil
	}
	if len(l.dotEnvFiles) == 0 {
		return nil
	}
	if err := godotenv.Load(l.dotEnvFiles...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	mode, err := workout.ParseWorkoutMode(string(c.Workout.DefaultMode))
	if err != nil {
		return fmt.Errorf("workout.default_mode: %w", err)
	}
	c.Workout.DefaultMode = mode
	if c.Timer.TickInterval <= 0 || c.Timer.TickInterval > maxTickInterval {
		return fmt.Errorf("timer.tick_interval must be in (0, %v], got %v", maxTickInterval, c.Timer.TickInterval)
	}
	if c.Workout.AutoFinishDelay < 0 {
		return fmt.Errorf("workout.auto_finish_delay must not be negative, got %v", c.Workout.AutoFinishDelay)
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be positive, got %d", c.Log.MaxSizeMB)
	}
	if c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log.max_backups and log.max_age_days must not be negative")
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

// fileDocument is the YAML layout of murph.yaml; durations are written as "100ms"
type fileDocument struct {
	DataDir string `yaml:"data_dir"`
	Log     struct {
		File       string `yaml:"file,omitempty"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Timer struct {
		TickInterval string `yaml:"tick_interval"`
	} `yaml:"timer"`
	Workout struct {
		AutoFinishDelay string `yaml:"auto_finish_delay"`
		DefaultMode     string `yaml:"default_mode"`
		TimerEnabled    bool   `yaml:"timer_enabled"`
	} `yaml:"workout"`
}

// Defaults returns the configuration used when nothing is overridden
func Defaults() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		DataDir: dataDir,
		Log: LogConfig{
			File:       filepath.Join(dataDir, logFileName),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Timer: TimerConfig{TickInterval: workout.DefaultTickInterval},
		Workout: WorkoutConfig{
			AutoFinishDelay: workout.DefaultAutoFinishDelay,
			DefaultMode:     workout.ModeFull,
			TimerEnabled:    true,
		},
	}
}

// WriteFile writes cfg as YAML to path. An existing file is only replaced when overwrite is set.
func WriteFile(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var doc fileDocument
	doc.DataDir = cfg.DataDir
	if cfg.Log.File != filepath.Join(cfg.DataDir, logFileName) {
		doc.Log.File = cfg.Log.File
	}
	doc.Log.MaxSizeMB = cfg.Log.MaxSizeMB
	doc.Log.MaxBackups = cfg.Log.MaxBackups
	doc.Log.MaxAgeDays = cfg.Log.MaxAgeDays
	doc.Timer.TickInterval = cfg.Timer.TickInterval.String()
	doc.Workout.AutoFinishDelay = cfg.Workout.AutoFinishDelay.String()
	doc.Workout.DefaultMode = string(cfg.Workout.DefaultMode)
	doc.Workout.TimerEnabled = cfg.Workout.TimerEnabled

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
