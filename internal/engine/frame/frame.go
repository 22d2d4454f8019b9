// Package frame drives the per-frame loop: advance the agent, couple it into
// the simulation, step the simulation, publish the result and draw.
package frame

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wavepool/internal/engine/agent"
	"github.com/Faultbox/wavepool/internal/engine/coupling"
	"github.com/Faultbox/wavepool/internal/engine/uniform"
	"github.com/Faultbox/wavepool/internal/engine/water"
	"github.com/Faultbox/wavepool/internal/logger"
	"github.com/Faultbox/wavepool/pkg/math"
)

var (
	// ErrClosed is returned by a Ticker when the host has gone away.
	ErrClosed = errors.New("frame source closed")
	// ErrReentrant is returned when Step is called from inside a step.
	ErrReentrant = errors.New("frame step already in progress")
)

// DefaultMaxDelta caps the elapsed time fed into a single frame.
const DefaultMaxDelta = 100 * time.Millisecond

// State is the driver state.
type State int

const (
	Idle State = iota
	Stepping
)

func (s State) String() string {
	if s == Stepping {
		return "stepping"
	}
	return "idle"
}

// Simulation is the double-buffered heightfield as seen by the driver.
type Simulation interface {
	Step(in water.Inputs) error
	CurrentTexture() uniform.Texture
	// HostHeightmap returns a host copy of the current state, or nil when the
	// state only lives on the GPU.
	HostHeightmap() *water.Heightmap
}

// Renderer issues the draw calls for a frame.
type Renderer interface {
	Render() error
}

// Ticker paces the loop. Next blocks until the next frame is due and returns
// its timestamp, or ErrClosed when no more frames will come.
type Ticker interface {
	Next(ctx context.Context) (time.Time, error)
}

// Info describes a completed frame.
type Info struct {
	Frame     uint64
	Delta     time.Duration
	Agent     agent.State
	Source    math.Vec2 // Perturbation source used for this frame's step
	Heightmap *water.Heightmap
}

// Observer is notified after each frame is drawn.
type Observer interface {
	ObserveFrame(info Info) error
}

// Config configures a Driver.
type Config struct {
	MaxDelta  time.Duration // Cap on elapsed time per frame; 0 means DefaultMaxDelta
	MaxFrames uint64        // Run stops after this many frames; 0 means no limit
}

// Driver owns the frame loop.
type Driver struct {
	config    Config
	sim       Simulation
	coupler   *coupling.Coupler
	agent     agent.State
	motion    agent.Driver
	renderer  Renderer
	observers []Observer

	state   State
	last    time.Time
	started bool
	frames  uint64
	log     *zap.Logger
}

// NewDriver creates a driver. renderer may be nil for headless runs.
func NewDriver(cfg Config, sim Simulation, coupler *coupling.Coupler, initial agent.State, motion agent.Driver, renderer Renderer) *Driver {
	if cfg.MaxDelta <= 0 {
		cfg.MaxDelta = DefaultMaxDelta
	}
	if motion == nil {
		motion = agent.Stationary{}
	}
	return &Driver{
		config:   cfg,
		sim:      sim,
		coupler:  coupler,
		agent:    initial,
		motion:   motion,
		renderer: renderer,
		log:      logger.Named("frame"),
	}
}

// AddObserver registers an observer called after every frame.
func (d *Driver) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
}

// Frame runs one frame stamped now. The first frame advances by zero; later
// frames advance by the time since the previous one, capped at MaxDelta.
func (d *Driver) Frame(now time.Time) error {
	var dt time.Duration
	if d.started {
		dt = now.Sub(d.last)
	}
	d.last = now
	d.started = true
	return d.Step(dt)
}

// Step runs one frame with an explicit elapsed time.
func (d *Driver) Step(dt time.Duration) error {
	if d.state == Stepping {
		return ErrReentrant
	}
	d.state = Stepping
	defer func() { d.state = Idle }()

	dt = min(max(dt, 0), d.config.MaxDelta)

	// 1. Agent kinematics
	d.motion.Advance(&d.agent, float32(dt.Seconds()))

	// 2. Agent position into the simulation
	in := d.coupler.PerturbationSource(d.agent)

	// 3. Simulation step
	if err := d.sim.Step(in); err != nil {
		return fmt.Errorf("frame %d: %w", d.frames+1, err)
	}

	// 4. Result into the render uniforms
	host := d.sim.HostHeightmap()
	d.coupler.Publish(d.sim.CurrentTexture(), host, d.agent)

	// 5. Draw
	if d.renderer != nil {
		if err := d.renderer.Render(); err != nil {
			return fmt.Errorf("frame %d: render: %w", d.frames+1, err)
		}
	}

	d.frames++
	info := Info{
		Frame:     d.frames,
		Delta:     dt,
		Agent:     d.agent,
		Source:    in.Source,
		Heightmap: host,
	}
	for _, o := range d.observers {
		if err := o.ObserveFrame(info); err != nil {
			return fmt.Errorf("frame %d: observer: %w", d.frames, err)
		}
	}
	return nil
}

// Run drives frames from ticker until it closes, ctx is cancelled, a frame
// fails or MaxFrames is reached. A closed ticker ends the loop without error.
func (d *Driver) Run(ctx context.Context, ticker Ticker) error {
	d.log.Info("starting frame loop", zap.Uint64("max_frames", d.config.MaxFrames))

	frameCount := 0
	fpsTimer := time.Now()

	for d.config.MaxFrames == 0 || d.frames < d.config.MaxFrames {
		now, err := ticker.Next(ctx)
		if errors.Is(err, ErrClosed) {
			break
		}
		if err != nil {
			return err
		}

		if err := d.Frame(now); err != nil {
			return err
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			d.log.Debug("fps", zap.Int("count", frameCount), zap.Uint64("frame", d.frames))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	d.log.Info("frame loop stopped", zap.Uint64("frames", d.frames))
	return nil
}

// CurrentHeightmap returns the host copy of the latest simulation state, or
// nil when the simulation keeps it on the GPU only.
func (d *Driver) CurrentHeightmap() *water.Heightmap {
	return d.sim.HostHeightmap()
}

// Agent returns the current agent state.
func (d *Driver) Agent() agent.State {
	return d.agent
}

// State returns the driver state.
func (d *Driver) State() State {
	return d.state
}

// Frames returns the number of completed frames.
func (d *Driver) Frames() uint64 {
	return d.frames
}
