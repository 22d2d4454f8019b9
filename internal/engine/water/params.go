// Package water implements the heightfield water simulation: the per-cell
// update rule, the ping-pong buffer that owns simulation state, the noise
// field that seeds it and the water surface mesh.
package water

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/wavepool/pkg/math"
)

// ErrInvalidParams is returned when simulation parameters are rejected at setup.
var ErrInvalidParams = errors.New("invalid simulation parameters")

// Sentinel is the perturbation source meaning "no perturbation". It lies far
// outside any grid so the distance test never passes.
var Sentinel = math.Vec2{X: 10000, Y: 10000}

// Boundary selects how cells on the grid edge see their missing neighbours.
type Boundary int

const (
	// BoundaryReflect mirrors the edge cell into the missing neighbour (no flux).
	BoundaryReflect Boundary = iota
	// BoundaryFixed reads the rest height for missing neighbours.
	BoundaryFixed
)

func (b Boundary) String() string {
	switch b {
	case BoundaryReflect:
		return "reflect"
	case BoundaryFixed:
		return "fixed"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// ParseBoundary converts a config name to a Boundary.
func ParseBoundary(name string) (Boundary, error) {
	switch name {
	case "reflect", "":
		return BoundaryReflect, nil
	case "fixed":
		return BoundaryFixed, nil
	default:
		return 0, fmt.Errorf("%w: unknown boundary %q", ErrInvalidParams, name)
	}
}

// Params are the immutable simulation parameters.
type Params struct {
	Width        int     // Grid cells per side
	Bounds       float32 // World units covered by the grid
	Viscosity    float32 // 1 = pure neighbour averaging, lower keeps more momentum
	Radius       float32 // Perturbation radius in cells
	Strength     float32 // Peak height added per step at the perturbation source
	Compensation float32 // Fraction of edge displacement removed per step
	Boundary     Boundary
	RestHeight   float32
}

// DefaultParams returns the stock 128x128 grid over 512 world units.
func DefaultParams() Params {
	return Params{
		Width:        128,
		Bounds:       512,
		Viscosity:    0.98,
		Radius:       20,
		Strength:     0.28,
		Compensation: 0.02,
		Boundary:     BoundaryReflect,
	}
}

// Validate rejects out-of-range parameters.
func (p Params) Validate() error {
	var errs []error
	if p.Width < 2 || p.Width&(p.Width-1) != 0 {
		errs = append(errs, fmt.Errorf("width %d must be a power of two >= 2", p.Width))
	}
	if !finite(p.Bounds) || p.Bounds <= 0 {
		errs = append(errs, fmt.Errorf("bounds %v must be positive", p.Bounds))
	}
	if !finite(p.Viscosity) || p.Viscosity < 0 || p.Viscosity > 1 {
		errs = append(errs, fmt.Errorf("viscosity %v outside [0, 1]", p.Viscosity))
	}
	if !finite(p.Radius) || p.Radius < 0 {
		errs = append(errs, fmt.Errorf("perturbation radius %v must not be negative", p.Radius))
	}
	if !finite(p.Strength) {
		errs = append(errs, fmt.Errorf("perturbation strength %v must be finite", p.Strength))
	}
	if !finite(p.Compensation) || p.Compensation < 0 || p.Compensation > 1 {
		errs = append(errs, fmt.Errorf("height compensation %v outside [0, 1]", p.Compensation))
	}
	if p.Boundary != BoundaryReflect && p.Boundary != BoundaryFixed {
		errs = append(errs, fmt.Errorf("unknown boundary %v", p.Boundary))
	}
	if !finite(p.RestHeight) {
		errs = append(errs, fmt.Errorf("rest height %v must be finite", p.RestHeight))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
	}
	return nil
}

// CellSize returns the world size of one grid cell.
func (p Params) CellSize() float32 {
	return p.Bounds / float32(p.Width)
}

// Inputs are the per-step inputs of the simulation stage.
type Inputs struct {
	Source math.Vec2 // Perturbation source in grid space
}

// NoPerturbation returns inputs that leave the field undisturbed.
func NoPerturbation() Inputs {
	return Inputs{Source: Sentinel}
}

// Sanitize replaces a non-finite source with the sentinel. A single NaN in the
// update would spread through the whole grid within a few steps.
func (in Inputs) Sanitize() Inputs {
	if !in.Source.IsFinite() {
		in.Source = Sentinel
	}
	return in
}

// Perturbed reports whether the source is anything but the sentinel.
func (in Inputs) Perturbed() bool {
	return in.Source != Sentinel
}

func finite(f float32) bool {
	return !gomath.IsNaN(float64(f)) && !gomath.IsInf(float64(f), 0)
}
