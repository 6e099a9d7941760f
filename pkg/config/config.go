package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for configurations the overlay cannot run with.
var ErrInvalid = errors.New("invalid configuration")

// Layout constants shared by every drawable.
const (
	AppAspect  = 4.27
	AppPadding = 0.1
	// DesignHeight is the window height the pixel constants of the layout
	// were designed for.
	DesignHeight = 500.0
)

// Config holds the application configuration.
type Config struct {
	General  GeneralConfig  `yaml:"general"`
	Traces   TracesConfig   `yaml:"traces"`
	Sim      SimConfig      `yaml:"sim"`
	Recorder RecorderConfig `yaml:"recorder"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// GeneralConfig holds window and unit settings.
type GeneralConfig struct {
	AppHeight int  `yaml:"app_height"`
	UseKMH    bool `yaml:"use_kmh"`
}

// TracesConfig holds the scrolling trace settings.
type TracesConfig struct {
	DisplayThrottle bool    `yaml:"display_throttle"`
	DisplayBrake    bool    `yaml:"display_brake"`
	DisplayClutch   bool    `yaml:"display_clutch"`
	DisplaySteering bool    `yaml:"display_steering"`
	TimeWindow      int     `yaml:"time_window"`  // seconds of history on screen
	SampleRate      int     `yaml:"sample_rate"`  // samples per second
	Thickness       float64 `yaml:"thickness"`    // pixels
	SteeringCap     float64 `yaml:"steering_cap"` // degrees mapped to the graph edge
}

// SimConfig holds settings for the telemetry source.
type SimConfig struct {
	Provider string          `yaml:"provider"` // "mock", "replay"
	Mock     MockSimConfig   `yaml:"mock"`
	Replay   ReplaySimConfig `yaml:"replay"`
}

// MockSimConfig holds settings for the mock simulation.
type MockSimConfig struct {
	DurationDrive  Duration `yaml:"duration_drive"`
	DurationPause  Duration `yaml:"duration_pause"`
	DurationRewind Duration `yaml:"duration_rewind"`
	SteeringLock   float64  `yaml:"steering_lock"`
}

// ReplaySimConfig selects the recorded session to play back.
type ReplaySimConfig struct {
	Session string `yaml:"session"` // empty plays the newest session
	Loop    bool   `yaml:"loop"`
}

// RecorderConfig holds the session recorder settings.
type RecorderConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	BatchSize int    `yaml:"batch_size"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Enabled           bool     `yaml:"enabled"`
	Address           string   `yaml:"address"`
	BroadcastInterval Duration `yaml:"broadcast_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
	Frames LogSettings `yaml:"frames"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			AppHeight: 200,
			UseKMH:    true,
		},
		Traces: TracesConfig{
			DisplayThrottle: true,
			DisplayBrake:    true,
			DisplayClutch:   false,
			DisplaySteering: false,
			TimeWindow:      5,
			SampleRate:      30,
			Thickness:       2,
			SteeringCap:     450,
		},
		Sim: SimConfig{
			Provider: "mock",
			Mock: MockSimConfig{
				DurationDrive:  Duration(60 * time.Second),
				DurationPause:  Duration(5 * time.Second),
				DurationRewind: Duration(3 * time.Second),
				SteeringLock:   270,
			},
			Replay: ReplaySimConfig{
				Loop: true,
			},
		},
		Recorder: RecorderConfig{
			Enabled:   false,
			Path:      "./data/sessions.db",
			BatchSize: 256,
		},
		Server: ServerConfig{
			Enabled:           true,
			Address:           "localhost:1921",
			BroadcastInterval: Duration(100 * time.Millisecond),
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Frames: LogSettings{
				Path:  "./logs/frames.log",
				Level: "INFO",
			},
		},
	}
}

// AppHeight returns the window height in pixels.
func (c *Config) AppHeight() float64 {
	return float64(c.General.AppHeight)
}

// AppWidth returns the window width in pixels.
func (c *Config) AppWidth() float64 {
	return c.AppHeight() * AppAspect
}

// AppScale returns the factor applied to the layout's pixel constants.
func (c *Config) AppScale() float64 {
	return c.AppHeight() / DesignHeight
}

// SampleSize returns the number of samples visible in a trace.
func (c *Config) SampleSize() int {
	return c.Traces.TimeWindow * c.Traces.SampleRate
}

// SteeringCapRad returns the steering cap in radians.
func (c *Config) SteeringCapRad() float64 {
	return c.Traces.SteeringCap * math.Pi / 180
}

var validProviders = map[string]bool{"mock": true, "replay": true}

// Validate reports settings that would produce degenerate geometry.
func (c *Config) Validate() error {
	var errs []error
	if c.General.AppHeight <= 0 {
		errs = append(errs, fmt.Errorf("general.app_height must be positive, got %d", c.General.AppHeight))
	}
	if c.Traces.TimeWindow <= 0 {
		errs = append(errs, fmt.Errorf("traces.time_window must be positive, got %d", c.Traces.TimeWindow))
	}
	if c.Traces.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("traces.sample_rate must be positive, got %d", c.Traces.SampleRate))
	}
	if len(errs) == 0 && c.SampleSize() < 2 {
		errs = append(errs, fmt.Errorf("time_window * sample_rate must be at least 2, got %d", c.SampleSize()))
	}
	if c.Traces.Thickness <= 0 {
		errs = append(errs, fmt.Errorf("traces.thickness must be positive, got %g", c.Traces.Thickness))
	}
	if c.Traces.SteeringCap <= 0 {
		errs = append(errs, fmt.Errorf("traces.steering_cap must be positive, got %g", c.Traces.SteeringCap))
	}
	if !validProviders[c.Sim.Provider] {
		errs = append(errs, fmt.Errorf("unknown sim.provider %q", c.Sim.Provider))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Environment overrides are applied in memory only
	if lvl := os.Getenv("TRACES_LOG_LEVEL"); lvl != "" {
		cfg.Log.Server.Level = strings.ToUpper(lvl)
	}

	return cfg, cfg.Validate()
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Traces Configuration
# --------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Window size: app_height pixels tall, app_height * 4.27 wide

`)
	data = append(header, data...)

	reProvider := regexp.MustCompile(`(?m)^(\s+)provider:`)
	data = reProvider.ReplaceAll(data, []byte("${1}# Options: mock, replay\n${1}provider:"))

	reCap := regexp.MustCompile(`(?m)^(\s+)steering_cap:`)
	data = reCap.ReplaceAll(data, []byte("${1}# Degrees either side of center at the graph edge\n${1}steering_cap:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
