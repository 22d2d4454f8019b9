// Package transform provides named coordinate transforms between the frames
// the simulation and renderer share: agent-local, world, water-local and the
// simulation grid.
package transform

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/wavepool/pkg/math"
)

// ErrSingular is returned when a transform has no inverse.
var ErrSingular = errors.New("transform is not invertible")

// Frame names a coordinate frame.
type Frame string

const (
	Agent Frame = "agent"
	World Frame = "world"
	Water Frame = "water"
	Grid  Frame = "grid"
)

// Transform maps points from one frame to another.
type Transform struct {
	From, To Frame
	M        math.Mat4
}

// New creates a transform from -> to with matrix m.
func New(from, to Frame, m math.Mat4) Transform {
	return Transform{From: from, To: to, M: m}
}

// Name returns the uniform name of the transform, e.g. "tf_water_to_world".
func (t Transform) Name() string {
	return "tf_" + string(t.From) + "_to_" + string(t.To)
}

func (t Transform) String() string {
	return t.Name()
}

// Apply maps a point from t.From to t.To.
func (t Transform) Apply(p math.Vec3) math.Vec3 {
	return t.M.TransformPoint(p)
}

// Inverse returns the transform t.To -> t.From.
func (t Transform) Inverse() (Transform, error) {
	inv, ok := t.M.Inverse()
	if !ok {
		return Transform{}, fmt.Errorf("%w: %s", ErrSingular, t.Name())
	}
	return New(t.To, t.From, inv), nil
}

// Then composes t with next, giving t.From -> next.To. The frames must chain.
func (t Transform) Then(next Transform) (Transform, error) {
	if t.To != next.From {
		return Transform{}, fmt.Errorf("cannot chain %s with %s", t.Name(), next.Name())
	}
	return New(t.From, next.To, next.M.Mul(t.M)), nil
}

// WaterPlacement places the water plane at height level in the world. Water
// local X and Y span the plane and local Z is its normal: a -90 degree turn
// about X sends local Z to world +Y and local Y to world -Z.
func WaterPlacement(level float32) Transform {
	m := math.Translate(0, level, 0).Mul(math.RotateX(-gomath.Pi / 2))
	return New(Water, World, m)
}

// WaterToGrid maps water-local coordinates to grid cells for a width x width
// grid spanning bounds world units. The water origin lands on cell
// (width/2, width/2).
func WaterToGrid(width int, bounds float32) Transform {
	scale := float32(width) / bounds
	half := float32(width) / 2
	m := math.Translate(half, half, 0).Mul(math.Scale(scale, scale, 1))
	return New(Water, Grid, m)
}
