// Package agent provides the sphere agent: its kinematic state, the drivers
// that move it and its mesh.
package agent

import (
	"github.com/Faultbox/wavepool/internal/engine/transform"
	"github.com/Faultbox/wavepool/pkg/math"
)

// State is the agent's kinematic state in world space.
type State struct {
	Position    math.Vec3 // Sphere center
	Radius      float32
	Orientation math.Quat // Rolling rotation, applied before translation
	Time        float32   // Seconds since start
}

// NewState creates an agent at position with the given radius.
func NewState(position math.Vec3, radius float32) State {
	return State{
		Position:    position,
		Radius:      radius,
		Orientation: math.QuatIdentity(),
	}
}

// ToWorld returns the agent -> world transform: rotate about the sphere
// center, then move to Position. Radius is not baked in; the mesh already
// has it.
func (s State) ToWorld() transform.Transform {
	p := s.Position
	m := math.Translate(p.X, p.Y, p.Z).Mul(s.Orientation.ToMat4())
	return transform.New(transform.Agent, transform.World, m)
}

// Driver advances agent state by dt seconds.
type Driver interface {
	Advance(s *State, dt float32)
}

// Surface reports the world height of the water surface under a point.
// ok is false when the point is not over the simulated water.
type Surface interface {
	SurfaceHeight(worldX, worldZ float32) (height float32, ok bool)
}
