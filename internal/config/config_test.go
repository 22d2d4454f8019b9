package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Simulation.Width != 128 {
		t.Errorf("expected grid width 128, got %d", cfg.Simulation.Width)
	}
	if cfg.Simulation.Bounds != 512 {
		t.Errorf("expected bounds 512, got %v", cfg.Simulation.Bounds)
	}
	if cfg.Simulation.Viscosity != 0.98 {
		t.Errorf("expected viscosity 0.98, got %v", cfg.Simulation.Viscosity)
	}
	if cfg.Simulation.PerturbationRadius != 20 {
		t.Errorf("expected perturbation radius 20, got %v", cfg.Simulation.PerturbationRadius)
	}
	if cfg.Simulation.MaxNoiseHeight != 10 {
		t.Errorf("expected max noise height 10, got %v", cfg.Simulation.MaxNoiseHeight)
	}
	if cfg.Simulation.Boundary != "reflect" {
		t.Errorf("expected reflect boundary, got %s", cfg.Simulation.Boundary)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Frame.MaxDelta != 100*time.Millisecond {
		t.Errorf("expected max delta 100ms, got %v", cfg.Frame.MaxDelta)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  vsync: false

simulation:
  width: 256
  bounds: 1024
  viscosity: 0.95
  boundary: fixed
  seed: 42

agent:
  orbit_radius: 200

frame:
  max_delta: 50ms
  frames: 600

telemetry:
  dir: out
  interval: 10

logging:
  level: "debug"
  log_file: "wavepool.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Simulation.Width != 256 || cfg.Simulation.Bounds != 1024 {
		t.Errorf("expected grid 256 over 1024 units, got %d over %v", cfg.Simulation.Width, cfg.Simulation.Bounds)
	}
	if cfg.Simulation.Boundary != "fixed" {
		t.Errorf("expected fixed boundary, got %s", cfg.Simulation.Boundary)
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Simulation.Seed)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Simulation.PerturbationRadius != 20 {
		t.Errorf("expected default radius 20, got %v", cfg.Simulation.PerturbationRadius)
	}
	if cfg.Agent.OrbitRadius != 200 {
		t.Errorf("expected orbit radius 200, got %v", cfg.Agent.OrbitRadius)
	}
	if cfg.Frame.MaxDelta != 50*time.Millisecond {
		t.Errorf("expected max delta 50ms, got %v", cfg.Frame.MaxDelta)
	}
	if cfg.Frame.Frames != 600 {
		t.Errorf("expected 600 frames, got %d", cfg.Frame.Frames)
	}
	if cfg.Telemetry.Dir != "out" || cfg.Telemetry.Interval != 10 {
		t.Errorf("unexpected telemetry config %+v", cfg.Telemetry)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "wavepool.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestValidateGPUVerify(t *testing.T) {
	cfg := Default()
	cfg.Simulation.GPU = true
	cfg.Simulation.Readback = true
	cfg.Simulation.VerifyInterval = 30
	if err := cfg.Validate(); err != nil {
		t.Errorf("gpu verification with readback should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := map[string]string{
		"bad syntax":  "simulation:\n  width: not a number\n  invalid syntax here\n",
		"unknown key": "simulation:\n  viscosty: 0.5\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if *cfg != *Default() {
		t.Error("empty file should leave defaults untouched")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.Window.Width = 0 }},
		{"zero agent radius", func(c *Config) { c.Agent.Radius = 0 }},
		{"unknown agent driver", func(c *Config) { c.Agent.Driver = "teleport" }},
		{"zero max delta", func(c *Config) { c.Frame.MaxDelta = 0 }},
		{"negative frames", func(c *Config) { c.Frame.Frames = -1 }},
		{"zero telemetry interval", func(c *Config) { c.Telemetry.Interval = 0 }},
		{"readback without gpu", func(c *Config) { c.Simulation.Readback = true }},
		{"verify without readback", func(c *Config) {
			c.Simulation.GPU = true
			c.Simulation.VerifyInterval = 10
		}},
		{"negative verify interval", func(c *Config) { c.Simulation.VerifyInterval = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "gpu flag",
			setup: func() { *flagGPU = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Simulation.GPU {
					t.Error("expected gpu to be enabled")
				}
			},
			teardown: func() { *flagGPU = false },
		},
		{
			name:  "seed and grid flags",
			setup: func() { *flagSeed = 7; *flagGrid = 64 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Seed != 7 {
					t.Errorf("expected seed 7, got %d", cfg.Simulation.Seed)
				}
				if cfg.Simulation.Width != 64 {
					t.Errorf("expected grid 64, got %d", cfg.Simulation.Width)
				}
			},
			teardown: func() { *flagSeed = 0; *flagGrid = 0 },
		},
		{
			name:  "width and height flags",
			setup: func() { *flagWidth = 2560; *flagHeight = 1440 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() { *flagWidth = 0; *flagHeight = 0 },
		},
		{
			name:  "telemetry and frames flags",
			setup: func() { *flagTelemetry = "runs/a"; *flagFrames = 10 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Telemetry.Dir != "runs/a" {
					t.Errorf("expected telemetry dir runs/a, got %s", cfg.Telemetry.Dir)
				}
				if cfg.Frame.Frames != 10 {
					t.Errorf("expected 10 frames, got %d", cfg.Frame.Frames)
				}
			},
			teardown: func() { *flagTelemetry = ""; *flagFrames = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := "window:\n  width: 1600\n  height: 900\n"
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Simulation.Seed = 99
	cfg.Frame.MaxDelta = 40 * time.Millisecond
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("saved config did not round trip:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}
