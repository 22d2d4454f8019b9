package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagHeadless  = flag.Bool("headless", false, "Run the simulation without a window")
	flagGPU       = flag.Bool("gpu", false, "Step the heightfield on the GPU")
	flagFrames    = flag.Int("frames", 0, "Stop after N frames (0 = unlimited)")
	flagSeed      = flag.Int64("seed", 0, "Noise seed (0 = config value)")
	flagWidth     = flag.Int("width", 0, "Window width")
	flagHeight    = flag.Int("height", 0, "Window height")
	flagGrid      = flag.Int("grid", 0, "Simulation grid width in cells")
	flagTelemetry = flag.String("telemetry", "", "Directory for telemetry CSV output")
	flagLogFile   = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Headless reports whether --headless was given.
func Headless() bool {
	return *flagHeadless
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagGPU {
		cfg.Simulation.GPU = true
	}
	if *flagFrames > 0 {
		cfg.Frame.Frames = *flagFrames
	}
	if *flagSeed != 0 {
		cfg.Simulation.Seed = *flagSeed
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagGrid > 0 {
		cfg.Simulation.Width = *flagGrid
	}
	if *flagTelemetry != "" {
		cfg.Telemetry.Dir = *flagTelemetry
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
