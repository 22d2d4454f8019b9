package water

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/wavepool/internal/engine/uniform"
	"github.com/Faultbox/wavepool/internal/logger"
)

// Simulator runs the heightfield on the host.
type Simulator struct {
	params Params
	buf    *DoubleBuffer[*Heightmap]
}

// NewSimulator creates a host simulator starting from initial. The initial
// heightmap is copied; the caller keeps ownership of its argument.
func NewSimulator(params Params, initial *Heightmap, workers int) (*Simulator, error) {
	stage, err := NewCPUStage(params, workers)
	if err != nil {
		return nil, err
	}
	if initial == nil {
		initial = NewHeightmap(params.Width)
	}
	if initial.Width != params.Width {
		return nil, fmt.Errorf("%w: initial heightmap is %d wide, grid is %d", ErrInvalidParams, initial.Width, params.Width)
	}

	logger.Info("host simulator created",
		zap.Int("width", params.Width),
		zap.Float32("bounds", params.Bounds),
		zap.Float32("viscosity", params.Viscosity),
		zap.Stringer("boundary", params.Boundary),
		zap.Int("workers", stage.workers),
	)

	return &Simulator{
		params: params,
		buf:    NewDoubleBuffer(initial.Clone(), NewHeightmap(params.Width), Stage[*Heightmap](stage)),
	}, nil
}

// Params returns the simulation parameters.
func (s *Simulator) Params() Params {
	return s.params
}

// Step advances the heightfield once.
func (s *Simulator) Step(in Inputs) error {
	_, err := s.buf.Step(in)
	return err
}

// CurrentHeightmap returns the latest result. It stays valid until the next
// Step after this one, when it is overwritten.
func (s *Simulator) CurrentHeightmap() *Heightmap {
	return s.buf.Current()
}

// CurrentTexture returns the latest result as a sampler binding.
func (s *Simulator) CurrentTexture() uniform.Texture {
	return s.buf.Current()
}

// HostHeightmap returns the latest result; host results are always available.
func (s *Simulator) HostHeightmap() *Heightmap {
	return s.buf.Current()
}

// Steps returns the number of completed steps.
func (s *Simulator) Steps() uint64 {
	return s.buf.Steps()
}
