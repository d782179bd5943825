package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if got := cfg.Simulation.TickDuration(); got != 40*time.Millisecond {
		t.Fatalf("expected 25Hz tick of 40ms, got %v", got)
	}
	if got := cfg.Render.MinFrameInterval(); got != time.Second/60 {
		t.Fatalf("expected a 60Hz frame cap by default, got %v", got)
	}
	if cfg.Input.MouseLook {
		t.Fatalf("expected mouse-look off by default")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_TOMLOverridesOnlyNamedKeys(t *testing.T) {
	path := writeFile(t, "view.toml", `
[simulation]
tick_rate = 50.0
gravity = 9.8
floor_enabled = true
floor_height = 1.5

[render]
max_frame_rate = 120.0
present_mode = "mailbox"

[input]
mouse_look = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Simulation.TickDuration() != 20*time.Millisecond {
		t.Fatalf("expected 20ms tick, got %v", cfg.Simulation.TickDuration())
	}
	if cfg.Simulation.Gravity != 9.8 || !cfg.Simulation.FloorEnabled || cfg.Simulation.FloorHeight != 1.5 {
		t.Fatalf("simulation overrides not applied: %+v", cfg.Simulation)
	}
	if cfg.Render.PresentMode != "mailbox" || cfg.Render.MinFrameInterval() != time.Duration(float64(time.Second)/120) {
		t.Fatalf("render overrides not applied: %+v", cfg.Render)
	}
	if !cfg.Input.MouseLook {
		t.Fatalf("expected mouse-look enabled")
	}

	def := Default()
	if cfg.Simulation.Acceleration != def.Simulation.Acceleration || cfg.Render.GridSize != def.Render.GridSize {
		t.Fatalf("unnamed keys must keep their defaults: %+v", cfg)
	}
	if cfg.Window != def.Window {
		t.Fatalf("window section must keep defaults, got %+v", cfg.Window)
	}
}

func TestLoad_ZeroFrameRateUncaps(t *testing.T) {
	cfg, err := Load(writeFile(t, "view.toml", "[render]\nmax_frame_rate = 0.0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Render.MinFrameInterval() != 0 {
		t.Fatalf("expected an explicit zero to disable pacing, got %v", cfg.Render.MinFrameInterval())
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "view.yml", `
window:
  title: yaml view
  width: 800
  height: 600
render:
  msaa: 1
  headroom_us: 500
debug:
  profile: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Window.Title != "yaml view" || cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Fatalf("window overrides not applied: %+v", cfg.Window)
	}
	if cfg.Render.MSAA != 1 || cfg.Render.Headroom() != 500*time.Microsecond {
		t.Fatalf("render overrides not applied: %+v", cfg.Render)
	}
	if !cfg.Debug.Profile {
		t.Fatalf("expected profiling enabled")
	}
	if cfg.Simulation != Default().Simulation {
		t.Fatalf("simulation section must keep defaults")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr error
	}{
		{"unsupported extension", "view.json", `{}`, ErrUnsupportedFormat},
		{"zero tick rate", "view.toml", "[simulation]\ntick_rate = 0.0\n", ErrInvalid},
		{"bad msaa", "view.yaml", "render:\n  msaa: 2\n", ErrInvalid},
		{"bad present mode", "view.toml", "[render]\npresent_mode = \"vsync\"\n", ErrInvalid},
		{"epsilon out of range", "view.yaml", "simulation:\n  polar_epsilon: 1.5\n", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	_, err := Load(writeFile(t, "view.toml", "[simulation\n"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
}
