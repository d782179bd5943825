// Package config loads the viewer's tuning constants from a TOML or YAML file.
//
// Every value has a default; a file only needs to name the keys it changes. Nothing here is
// mutable at runtime: the engine reads the values once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid config")
)

// Config is the full viewer configuration.
type Config struct {
	Window     WindowConfig     `toml:"window" yaml:"window"`
	Simulation SimulationConfig `toml:"simulation" yaml:"simulation"`
	Render     RenderConfig     `toml:"render" yaml:"render"`
	Input      InputConfig      `toml:"input" yaml:"input"`
	Debug      DebugConfig      `toml:"debug" yaml:"debug"`
}

// WindowConfig configures the native window.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`

	// PollIntervalMS bounds how long the window thread waits for events per loop iteration.
	PollIntervalMS int `toml:"poll_interval_ms" yaml:"poll_interval_ms"`
}

// SimulationConfig configures the fixed-timestep simulation.
type SimulationConfig struct {
	// TickRate is the number of simulation ticks per second.
	TickRate float64 `toml:"tick_rate" yaml:"tick_rate"`

	// Acceleration is the movement acceleration in units/s².
	Acceleration float32 `toml:"acceleration" yaml:"acceleration"`

	// Gravity is a constant downward acceleration in units/s². Zero disables it.
	Gravity float32 `toml:"gravity" yaml:"gravity"`

	// PolarEpsilon bounds how close the look direction may get to straight up or down.
	PolarEpsilon float32 `toml:"polar_epsilon" yaml:"polar_epsilon"`

	// FloorEnabled clamps the camera height to FloorHeight.
	FloorEnabled bool    `toml:"floor_enabled" yaml:"floor_enabled"`
	FloorHeight  float32 `toml:"floor_height" yaml:"floor_height"`

	// IdleIntervalMS is the longest the simulation sleeps between passes.
	IdleIntervalMS int `toml:"idle_interval_ms" yaml:"idle_interval_ms"`

	// ThreadPriority raises the simulation thread priority when possible.
	ThreadPriority bool `toml:"thread_priority" yaml:"thread_priority"`
}

// RenderConfig configures the render driver and GPU surface.
type RenderConfig struct {
	// MaxFrameRate caps frames per second. Zero opts out of pacing and renders uncapped.
	MaxFrameRate float64 `toml:"max_frame_rate" yaml:"max_frame_rate"`

	// PollIntervalMS is the longest the render driver sleeps between passes.
	PollIntervalMS int `toml:"poll_interval_ms" yaml:"poll_interval_ms"`

	// HeadroomUS is how early, in microseconds, the render driver wakes before a frame is due.
	HeadroomUS int `toml:"headroom_us" yaml:"headroom_us"`

	// PresentMode is one of "fifo", "mailbox" or "immediate".
	PresentMode string `toml:"present_mode" yaml:"present_mode"`

	// MSAA is the sample count: 1 or 4.
	MSAA int `toml:"msaa" yaml:"msaa"`

	// GridSize is the number of cubes along each side of the instance grid.
	GridSize int `toml:"grid_size" yaml:"grid_size"`

	// GridSpacing is the distance between neighbouring cubes.
	GridSpacing float32 `toml:"grid_spacing" yaml:"grid_spacing"`

	// ThreadPriority raises the render thread priority when possible.
	ThreadPriority bool `toml:"thread_priority" yaml:"thread_priority"`
}

// InputConfig configures control handling.
type InputConfig struct {
	// MouseLook lets pointer movement steer the camera.
	MouseLook bool `toml:"mouse_look" yaml:"mouse_look"`

	// LookSensitivity is the look rotation in radians per pixel.
	LookSensitivity float32 `toml:"look_sensitivity" yaml:"look_sensitivity"`
}

// DebugConfig configures diagnostics.
type DebugConfig struct {
	// Profile logs tick and frame rates once per second.
	Profile bool `toml:"profile" yaml:"profile"`
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:          "oxy-view",
			Width:          1280,
			Height:         720,
			PollIntervalMS: 5,
		},
		Simulation: SimulationConfig{
			TickRate:       25,
			Acceleration:   3,
			PolarEpsilon:   0.001,
			IdleIntervalMS: 5,
			ThreadPriority: true,
		},
		Render: RenderConfig{
			MaxFrameRate:   60,
			PollIntervalMS: 5,
			HeadroomUS:     1000,
			PresentMode:    "fifo",
			MSAA:           4,
			GridSize:       10,
			GridSpacing:    3,
			ThreadPriority: true,
		},
		Input: InputConfig{
			MouseLook:       false,
			LookSensitivity: 0.002,
		},
	}
}

// Load reads a config file on top of the defaults. The format is chosen by extension:
// .toml for TOML, .yaml or .yml for YAML. An empty path returns the defaults.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the loaded and validated configuration
//   - error: read, parse or validation failure
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := Decode(&cfg, filepath.Ext(path), data); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode unmarshals data in the format named by ext into cfg. Keys absent from data leave the
// corresponding fields of cfg untouched.
//
// Parameters:
//   - cfg: the configuration to decode into
//   - ext: the file extension, with or without the leading dot
//   - data: the raw file contents
//
// Returns:
//   - error: ErrUnsupportedFormat or the decoder's error
func Decode(cfg *Config, ext string, data []byte) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		return toml.Unmarshal(data, cfg)
	case "yaml", "yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Validate checks value ranges.
//
// Returns:
//   - error: an error wrapping ErrInvalid naming the first bad field, or nil
func (c Config) Validate() error {
	switch {
	case c.Simulation.TickRate <= 0:
		return fmt.Errorf("%w: simulation.tick_rate must be positive, got %v", ErrInvalid, c.Simulation.TickRate)
	case c.Simulation.Acceleration < 0:
		return fmt.Errorf("%w: simulation.acceleration must not be negative, got %v", ErrInvalid, c.Simulation.Acceleration)
	case c.Simulation.PolarEpsilon <= 0 || c.Simulation.PolarEpsilon >= 1:
		return fmt.Errorf("%w: simulation.polar_epsilon must be in (0, 1), got %v", ErrInvalid, c.Simulation.PolarEpsilon)
	case c.Simulation.IdleIntervalMS <= 0:
		return fmt.Errorf("%w: simulation.idle_interval_ms must be positive, got %d", ErrInvalid, c.Simulation.IdleIntervalMS)
	case c.Render.MaxFrameRate < 0:
		return fmt.Errorf("%w: render.max_frame_rate must not be negative, got %v", ErrInvalid, c.Render.MaxFrameRate)
	case c.Render.PollIntervalMS <= 0:
		return fmt.Errorf("%w: render.poll_interval_ms must be positive, got %d", ErrInvalid, c.Render.PollIntervalMS)
	case c.Render.HeadroomUS < 0:
		return fmt.Errorf("%w: render.headroom_us must not be negative, got %d", ErrInvalid, c.Render.HeadroomUS)
	case c.Render.MSAA != 1 && c.Render.MSAA != 4:
		return fmt.Errorf("%w: render.msaa must be 1 or 4, got %d", ErrInvalid, c.Render.MSAA)
	case c.Render.GridSize < 0:
		return fmt.Errorf("%w: render.grid_size must not be negative, got %d", ErrInvalid, c.Render.GridSize)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.PollIntervalMS <= 0:
		return fmt.Errorf("%w: window.poll_interval_ms must be positive, got %d", ErrInvalid, c.Window.PollIntervalMS)
	}
	switch c.Render.PresentMode {
	case "fifo", "mailbox", "immediate":
	default:
		return fmt.Errorf("%w: render.present_mode must be fifo, mailbox or immediate, got %q", ErrInvalid, c.Render.PresentMode)
	}
	return nil
}

// TickDuration returns the length of one simulation tick.
func (c SimulationConfig) TickDuration() time.Duration {
	return time.Duration(float64(time.Second) / c.TickRate)
}

// IdleInterval returns the simulation idle sleep bound.
func (c SimulationConfig) IdleInterval() time.Duration {
	return time.Duration(c.IdleIntervalMS) * time.Millisecond
}

// MinFrameInterval returns the shortest time between frames, or 0 when uncapped.
func (c RenderConfig) MinFrameInterval() time.Duration {
	if c.MaxFrameRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.MaxFrameRate)
}

// PollInterval returns the render driver sleep bound.
func (c RenderConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Headroom returns how early the render driver wakes before a frame is due.
func (c RenderConfig) Headroom() time.Duration {
	return time.Duration(c.HeadroomUS) * time.Microsecond
}

// PollInterval returns the window event wait bound.
func (c WindowConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}
