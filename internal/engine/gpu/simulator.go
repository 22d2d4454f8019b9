package gpu

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/wavepool/internal/engine/framebuffer"
	"github.com/Faultbox/wavepool/internal/engine/uniform"
	"github.com/Faultbox/wavepool/internal/engine/water"
	"github.com/Faultbox/wavepool/internal/logger"
)

// Simulator keeps the heightfield in two GPU render targets. With readback
// enabled every step is also copied into a host heightmap.
type Simulator struct {
	params  water.Params
	stage   *Stage
	buf     *water.DoubleBuffer[*framebuffer.Target]
	host    *water.Heightmap
	targets [2]*framebuffer.Target
}

// New uploads initial into the first target and compiles the simulation pass.
// Requires a current GL context.
func New(params water.Params, initial *water.Heightmap, set *uniform.Set, readback bool) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if initial == nil {
		initial = water.NewHeightmap(params.Width)
	}
	if initial.Width != params.Width {
		return nil, fmt.Errorf("%w: initial heightmap is %d wide, grid is %d", water.ErrInvalidParams, initial.Width, params.Width)
	}

	s := &Simulator{params: params}
	var err error
	if s.targets[0], err = framebuffer.New(int32(params.Width), initial.Pix); err != nil {
		return nil, fmt.Errorf("simulation target: %w", err)
	}
	if s.targets[1], err = framebuffer.New(int32(params.Width), nil); err != nil {
		s.targets[0].Destroy()
		return nil, fmt.Errorf("simulation target: %w", err)
	}
	if s.stage, err = NewStage(params, set); err != nil {
		s.targets[0].Destroy()
		s.targets[1].Destroy()
		return nil, err
	}

	s.buf = water.NewDoubleBuffer(s.targets[0], s.targets[1], water.Stage[*framebuffer.Target](s.stage))
	if readback {
		s.host = initial.Clone()
	}

	logger.Info("GPU simulator created",
		zap.Int("width", params.Width),
		zap.Float32("bounds", params.Bounds),
		zap.Stringer("boundary", params.Boundary),
		zap.Bool("readback", readback),
	)
	return s, nil
}

// Step advances the heightfield once and, with readback, refreshes the host copy.
func (s *Simulator) Step(in water.Inputs) error {
	cur, err := s.buf.Step(in)
	if err != nil {
		return err
	}
	if s.host != nil {
		if err := cur.ReadInto(s.host.Pix); err != nil {
			return fmt.Errorf("readback: %w", err)
		}
	}
	return nil
}

// CurrentTexture returns the render target holding the latest result.
func (s *Simulator) CurrentTexture() uniform.Texture {
	return s.buf.Current()
}

// HostHeightmap returns the host copy, or nil without readback.
func (s *Simulator) HostHeightmap() *water.Heightmap {
	return s.host
}

// Steps returns the number of completed steps.
func (s *Simulator) Steps() uint64 {
	return s.buf.Steps()
}

// Close releases GL resources.
func (s *Simulator) Close() {
	s.stage.Destroy()
	for _, t := range s.targets {
		t.Destroy()
	}
}
