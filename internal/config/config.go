// Package config handles configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all settings for a run.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Simulation SimulationConfig `yaml:"simulation"`
	Agent      AgentConfig      `yaml:"agent"`
	Frame      FrameConfig      `yaml:"frame"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings. Ignored by headless runs.
type WindowConfig struct {
	Title        string  `yaml:"title"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Fullscreen   bool    `yaml:"fullscreen"`
	VSync        bool    `yaml:"vsync"`
	SunLongitude float32 `yaml:"sun_longitude"` // Degrees around Y
	SunLatitude  float32 `yaml:"sun_latitude"`  // Degrees above the horizon
}

// SimulationConfig holds the heightfield parameters.
type SimulationConfig struct {
	Width                int     `yaml:"width"`  // Grid cells per side
	Bounds               float32 `yaml:"bounds"` // World units covered by the grid
	Viscosity            float32 `yaml:"viscosity"`
	PerturbationRadius   float32 `yaml:"perturbation_radius"` // Grid cells
	PerturbationStrength float32 `yaml:"perturbation_strength"`
	HeightCompensation   float32 `yaml:"height_compensation"`
	Boundary             string  `yaml:"boundary"` // reflect | fixed
	RestHeight           float32 `yaml:"rest_height"`
	WaterLevel           float32 `yaml:"water_level"` // World Y of the water plane

	Seed           int64   `yaml:"seed"`
	MaxNoiseHeight float32 `yaml:"max_noise_height"`
	NoiseOctaves   int     `yaml:"noise_octaves"`

	Workers  int  `yaml:"workers"` // 0 = GOMAXPROCS
	GPU      bool `yaml:"gpu"`
	Readback bool `yaml:"readback"` // Copy GPU results back to host memory every frame

	// Every VerifyInterval frames the GPU step is recomputed on the host and
	// compared; 0 disables it. Needs readback.
	VerifyInterval  int     `yaml:"verify_interval"`
	VerifyTolerance float64 `yaml:"verify_tolerance"`
}

// Agent drivers.
const (
	DriverOrbit = "orbit"
	DriverSeek  = "seek"
)

// AgentConfig describes the sphere and how it moves.
type AgentConfig struct {
	Driver       string  `yaml:"driver"` // "orbit" or "seek" (click to move)
	Radius       float32 `yaml:"radius"`
	OrbitRadius  float32 `yaml:"orbit_radius"`
	AngularSpeed float32 `yaml:"angular_speed"` // Radians per second
	MoveSpeed    float32 `yaml:"move_speed"`    // World units per second for seek
	Altitude     float32 `yaml:"altitude"`      // Height of the sphere center above the water plane
}

// FrameConfig holds frame loop settings.
type FrameConfig struct {
	MaxDelta    time.Duration `yaml:"max_delta"`
	HeadlessFPS int           `yaml:"headless_fps"` // 0 = unpaced
	Frames      int           `yaml:"frames"`       // 0 = run until closed
}

// TelemetryConfig holds CSV output settings.
type TelemetryConfig struct {
	Dir      string `yaml:"dir"` // Empty disables output
	Interval int    `yaml:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:        "wavepool",
			Width:        1280,
			Height:       720,
			VSync:        true,
			SunLongitude: 53,
			SunLatitude:  66,
		},
		Simulation: SimulationConfig{
			Width:                128,
			Bounds:               512,
			Viscosity:            0.98,
			PerturbationRadius:   20,
			PerturbationStrength: 0.28,
			HeightCompensation:   0.02,
			Boundary:             "reflect",
			Seed:                 1,
			MaxNoiseHeight:       10,
			NoiseOctaves:         15,
		},
		Agent: AgentConfig{
			Driver:       DriverOrbit,
			Radius:       16,
			OrbitRadius:  150,
			AngularSpeed: 0.5,
			MoveSpeed:    60,
		},
		Frame: FrameConfig{
			MaxDelta:    100 * time.Millisecond,
			HeadlessFPS: 60,
		},
		Telemetry: TelemetryConfig{
			Interval: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the settings that are not owned by the simulation package.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Agent.Radius <= 0 {
		errs = append(errs, fmt.Errorf("agent radius %v must be positive", c.Agent.Radius))
	}
	if c.Agent.Driver != DriverOrbit && c.Agent.Driver != DriverSeek {
		errs = append(errs, fmt.Errorf("unknown agent driver %q", c.Agent.Driver))
	}
	if c.Frame.MaxDelta <= 0 {
		errs = append(errs, fmt.Errorf("frame max_delta %v must be positive", c.Frame.MaxDelta))
	}
	if c.Frame.HeadlessFPS < 0 || c.Frame.Frames < 0 {
		errs = append(errs, errors.New("frame headless_fps and frames must not be negative"))
	}
	if c.Telemetry.Interval <= 0 {
		errs = append(errs, fmt.Errorf("telemetry interval %d must be positive", c.Telemetry.Interval))
	}
	if c.Simulation.VerifyInterval < 0 {
		errs = append(errs, fmt.Errorf("simulation verify_interval %d must not be negative", c.Simulation.VerifyInterval))
	}
	if c.Simulation.VerifyInterval > 0 && !c.Simulation.Readback {
		errs = append(errs, errors.New("simulation verify_interval requires readback"))
	}
	if c.Simulation.Readback && !c.Simulation.GPU {
		errs = append(errs, errors.New("simulation readback requires gpu"))
	}
	return errors.Join(errs...)
}
