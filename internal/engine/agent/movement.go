package agent

import (
	gomath "math"

	"github.com/Faultbox/wavepool/pkg/math"
)

// ArrivalThreshold is the distance at which a seeking agent has arrived.
const ArrivalThreshold = 1.0

// DefaultMoveSpeed is the seek speed in world units per second.
const DefaultMoveSpeed = 60.0

// Circular moves the agent around Center on the XZ plane at a constant
// angular speed, rolling the sphere along its path.
type Circular struct {
	Center       math.Vec3
	OrbitRadius  float32
	AngularSpeed float32 // Radians per second
	Altitude     float32 // Height of the sphere center above Center.Y

	// Surface, when set, makes the sphere ride the water: Altitude is then
	// measured from the surface height under the agent.
	Surface Surface
}

// Advance implements Driver.
func (c *Circular) Advance(s *State, dt float32) {
	prev := s.Position
	s.Time += dt

	angle := float64(c.AngularSpeed * s.Time)
	s.Position = math.Vec3{
		X: c.Center.X + c.OrbitRadius*float32(gomath.Cos(angle)),
		Y: c.Center.Y + c.Altitude,
		Z: c.Center.Z + c.OrbitRadius*float32(gomath.Sin(angle)),
	}
	ride(s, c.Surface, c.Altitude)
	roll(s, prev)
}

// Seek moves the agent in a straight line toward a destination, like a
// click-to-move character.
type Seek struct {
	DestX, DestZ   float32
	HasDestination bool
	MoveSpeed      float32
	Altitude       float32
	Surface        Surface
}

// SetDestination starts moving toward (worldX, worldZ).
func (k *Seek) SetDestination(worldX, worldZ float32) {
	k.DestX = worldX
	k.DestZ = worldZ
	k.HasDestination = true
}

// Advance implements Driver.
func (k *Seek) Advance(s *State, dt float32) {
	s.Time += dt
	prev := s.Position
	moved := k.move(s, dt)
	// Idle agents still follow the surface under them.
	ride(s, k.Surface, k.Altitude)
	if moved {
		roll(s, prev)
	}
}

// move translates s toward the destination and reports whether it moved.
func (k *Seek) move(s *State, dt float32) bool {
	if !k.HasDestination {
		return false
	}

	dx := k.DestX - s.Position.X
	dz := k.DestZ - s.Position.Z
	dist := float32(gomath.Sqrt(float64(dx*dx + dz*dz)))
	if dist < ArrivalThreshold {
		k.HasDestination = false
		return false
	}
	dx /= dist
	dz /= dist

	speed := k.MoveSpeed
	if speed <= 0 {
		speed = DefaultMoveSpeed
	}
	step := min(speed*dt, dist)

	s.Position.X += dx * step
	s.Position.Z += dz * step
	return true
}

// Stationary keeps the agent where it is.
type Stationary struct{}

// Advance implements Driver.
func (Stationary) Advance(s *State, dt float32) {
	s.Time += dt
}

// ride places the sphere center altitude above the water surface.
func ride(s *State, surface Surface, altitude float32) {
	if surface == nil {
		return
	}
	if h, ok := surface.SurfaceHeight(s.Position.X, s.Position.Z); ok {
		s.Position.Y = h + altitude
	}
}

// roll turns the sphere by the angle it would roll without slipping over the
// horizontal distance moved since prev.
func roll(s *State, prev math.Vec3) {
	if s.Radius <= 0 {
		return
	}
	dx := s.Position.X - prev.X
	dz := s.Position.Z - prev.Z
	dist := float32(gomath.Sqrt(float64(dx*dx + dz*dz)))
	if dist == 0 {
		return
	}
	// Rolling along d turns about up x d.
	axis := math.Vec3{X: dz / dist, Z: -dx / dist}
	q := math.QuatFromAxisAngle(axis, dist/s.Radius)
	s.Orientation = q.Mul(s.Orientation).Normalize()
}
