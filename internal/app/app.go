// Package app wires configuration, simulation, coupling and telemetry into
// a runnable host. The headless host lives here; the windowed host in
// package desktop builds on the same App.
package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wavepool/internal/config"
	"github.com/Faultbox/wavepool/internal/engine/agent"
	"github.com/Faultbox/wavepool/internal/engine/coupling"
	"github.com/Faultbox/wavepool/internal/engine/frame"
	"github.com/Faultbox/wavepool/internal/engine/transform"
	"github.com/Faultbox/wavepool/internal/engine/water"
	"github.com/Faultbox/wavepool/internal/logger"
	"github.com/Faultbox/wavepool/internal/telemetry"
	"github.com/Faultbox/wavepool/pkg/math"
)

// ErrHeadlessGPU is returned when the GPU kernel is requested without a window.
var ErrHeadlessGPU = errors.New("the GPU simulation needs a window")

// App is a configured host.
type App struct {
	config   *config.Config
	params   water.Params
	initial  *water.Heightmap
	coupler  *coupling.Coupler
	recorder *telemetry.Recorder
	driver   *frame.Driver
	seek     *agent.Seek
	parity   *telemetry.ParityCheck
	ticker   frame.Ticker
	closers  []func()
}

// Params converts the simulation config into validated water parameters.
func Params(cfg config.SimulationConfig) (water.Params, error) {
	boundary, err := water.ParseBoundary(cfg.Boundary)
	if err != nil {
		return water.Params{}, err
	}
	p := water.Params{
		Width:        cfg.Width,
		Bounds:       cfg.Bounds,
		Viscosity:    cfg.Viscosity,
		Radius:       cfg.PerturbationRadius,
		Strength:     cfg.PerturbationStrength,
		Compensation: cfg.HeightCompensation,
		Boundary:     boundary,
		RestHeight:   cfg.RestHeight,
	}
	if err := p.Validate(); err != nil {
		return water.Params{}, err
	}
	return p, nil
}

// NoiseField returns the initial-state generator described by cfg.
func NoiseField(cfg config.SimulationConfig) water.NoiseField {
	f := water.DefaultNoiseField(cfg.Seed)
	if cfg.NoiseOctaves > 0 {
		f.Octaves = cfg.NoiseOctaves
	}
	f.MaxHeight = cfg.MaxNoiseHeight
	return f
}

// New validates cfg and builds the host-independent parts: parameters,
// initial heightmap, coupling and telemetry. Call Start once the simulation
// exists.
func New(cfg *config.Config) (*App, error) {
	params, err := Params(cfg.Simulation)
	if err != nil {
		return nil, err
	}

	recorder, err := telemetry.NewRecorder(cfg.Telemetry.Dir, cfg.Telemetry.Interval)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   cfg,
		params:   params,
		initial:  NoiseField(cfg.Simulation).Generate(params.Width),
		coupler:  coupling.New(params, transform.WaterPlacement(cfg.Simulation.WaterLevel)),
		recorder: recorder,
	}, nil
}

// Start creates the agent and the frame driver around sim. r may be nil.
func (a *App) Start(sim frame.Simulation, r frame.Renderer, ticker frame.Ticker) error {
	cfg := a.config
	level := cfg.Simulation.WaterLevel
	start := agent.NewState(math.Vec3{X: cfg.Agent.OrbitRadius, Y: level + cfg.Agent.Altitude}, cfg.Agent.Radius)

	var motion agent.Driver
	switch cfg.Agent.Driver {
	case config.DriverSeek:
		a.seek = &agent.Seek{
			MoveSpeed: cfg.Agent.MoveSpeed,
			Altitude:  cfg.Agent.Altitude,
			Surface:   a.coupler,
		}
		motion = a.seek
	default:
		motion = &agent.Circular{
			Center:       math.Vec3{Y: level},
			OrbitRadius:  cfg.Agent.OrbitRadius,
			AngularSpeed: cfg.Agent.AngularSpeed,
			Altitude:     cfg.Agent.Altitude,
			Surface:      a.coupler,
		}
	}

	a.driver = frame.NewDriver(frame.Config{
		MaxDelta:  cfg.Frame.MaxDelta,
		MaxFrames: uint64(cfg.Frame.Frames),
	}, sim, a.coupler, start, motion, r)
	if a.recorder != nil {
		a.driver.AddObserver(a.recorder)
	}
	if n := cfg.Simulation.VerifyInterval; n > 0 {
		// The host stage is the reference for the GPU kernel.
		stage, err := water.NewCPUStage(a.params, cfg.Simulation.Workers)
		if err != nil {
			return err
		}
		a.parity = telemetry.NewParityCheck(stage, n, cfg.Simulation.VerifyTolerance)
		a.driver.AddObserver(a.parity)
		logger.Info("kernel verification enabled", zap.Int("interval", n))
	}
	a.ticker = ticker
	return nil
}

// NewHeadless creates a host without a window. It always runs the host
// simulation; frames are paced at frame.headless_fps, or run back to back
// with a fixed 1/60 s step when that is 0.
func NewHeadless(cfg *config.Config) (*App, error) {
	if cfg.Simulation.GPU {
		return nil, ErrHeadlessGPU
	}
	a, err := New(cfg)
	if err != nil {
		return nil, err
	}

	sim, err := water.NewSimulator(a.params, a.initial, cfg.Simulation.Workers)
	if err != nil {
		a.Close()
		return nil, err
	}

	var ticker frame.Ticker
	if fps := cfg.Frame.HeadlessFPS; fps > 0 {
		t := frame.NewIntervalTicker(fps)
		a.OnClose(t.Stop)
		ticker = t
	} else {
		ticker = frame.NewFixedTicker(time.Second/60, uint64(cfg.Frame.Frames))
	}
	if err := a.Start(sim, nil, ticker); err != nil {
		a.Close()
		return nil, err
	}

	logger.Info("headless host ready",
		zap.Int("grid", a.params.Width),
		zap.Int("fps", cfg.Frame.HeadlessFPS),
		zap.Int("frames", cfg.Frame.Frames),
	)
	return a, nil
}

// Run drives frames until the host stops, ctx is cancelled or the frame
// limit is reached.
func (a *App) Run(ctx context.Context) error {
	return a.driver.Run(ctx, a.ticker)
}

// OnClose registers fn to run on Close, in reverse registration order.
func (a *App) OnClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases everything the host created.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	if err := a.recorder.Close(); err != nil {
		logger.Warn("closing telemetry", zap.Error(err))
	}
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config { return a.config }

// Params returns the simulation parameters in use.
func (a *App) Params() water.Params { return a.params }

// Initial returns the generated initial heightmap.
func (a *App) Initial() *water.Heightmap { return a.initial }

// Coupler returns the agent-water coupling.
func (a *App) Coupler() *coupling.Coupler { return a.coupler }

// Seek returns the click-to-move driver, nil unless agent.driver is "seek".
func (a *App) Seek() *agent.Seek { return a.seek }

// Parity returns the kernel verification observer, nil unless
// simulation.verify_interval is set.
func (a *App) Parity() *telemetry.ParityCheck { return a.parity }

// Driver returns the frame driver, nil before Start.
func (a *App) Driver() *frame.Driver { return a.driver }
