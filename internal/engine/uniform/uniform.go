// Package uniform holds per-material render bindings keyed by name.
//
// A Set is written by the simulation side every frame and read by whatever
// issues the draw call. It only remembers the last value written per name.
package uniform

import (
	"fmt"

	"github.com/Faultbox/wavepool/pkg/math"
)

// Binding names shared between the simulation, the coupling layer and the shaders.
const (
	Heightmap          = "heightmap"
	AgentPosition      = "agentPosition"
	AgentToWorld       = "tf_agent_to_world"
	WaterToWorld       = "tf_water_to_world"
	WorldToWater       = "tf_world_to_water"
	AgentWaterHeight   = "agentWaterHeight"
	MousePos           = "mousePos"
	MouseSize          = "mouseSize"
	MouseStrength      = "mouseStrength"
	Viscosity          = "viscosityConstant"
	HeightCompensation = "heightCompensation"
	Bounds             = "bounds"
	CameraPosition     = "cameraPosition"
	View               = "view"
	Projection         = "projection"
)

// Texture is anything that can be bound to a sampler slot: host-resident
// pixels or a GPU texture object.
type Texture interface {
	Dimensions() (width, height int)
}

// Kind identifies the type stored in a Value.
type Kind int

const (
	KindFloat Kind = iota
	KindVec2
	KindVec3
	KindMat4
	KindTexture
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindMat4:
		return "mat4"
	case KindTexture:
		return "texture"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single binding. Only the field matching Kind is meaningful.
type Value struct {
	Kind    Kind
	Float   float32
	Vec2    math.Vec2
	Vec3    math.Vec3
	Mat4    math.Mat4
	Texture Texture
}

// Set is a named collection of bindings for one material.
type Set struct {
	name   string
	values map[string]Value
	order  []string
}

// NewSet creates an empty set.
func NewSet(name string) *Set {
	return &Set{
		name:   name,
		values: make(map[string]Value),
	}
}

// Name returns the material name the set belongs to.
func (s *Set) Name() string {
	return s.name
}

func (s *Set) put(name string, v Value) {
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = v
}

// SetFloat binds a scalar.
func (s *Set) SetFloat(name string, f float32) {
	s.put(name, Value{Kind: KindFloat, Float: f})
}

// SetVec2 binds a 2-component vector.
func (s *Set) SetVec2(name string, v math.Vec2) {
	s.put(name, Value{Kind: KindVec2, Vec2: v})
}

// SetVec3 binds a 3-component vector.
func (s *Set) SetVec3(name string, v math.Vec3) {
	s.put(name, Value{Kind: KindVec3, Vec3: v})
}

// SetMat4 binds a matrix.
func (s *Set) SetMat4(name string, m math.Mat4) {
	s.put(name, Value{Kind: KindMat4, Mat4: m})
}

// SetTexture binds a texture.
func (s *Set) SetTexture(name string, t Texture) {
	s.put(name, Value{Kind: KindTexture, Texture: t})
}

// Get returns the binding for name.
func (s *Set) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Float returns a scalar binding; ok is false if absent or of another kind.
func (s *Set) Float(name string) (float32, bool) {
	v, ok := s.values[name]
	return v.Float, ok && v.Kind == KindFloat
}

// Vec2 returns a vec2 binding.
func (s *Set) Vec2(name string) (math.Vec2, bool) {
	v, ok := s.values[name]
	return v.Vec2, ok && v.Kind == KindVec2
}

// Vec3 returns a vec3 binding.
func (s *Set) Vec3(name string) (math.Vec3, bool) {
	v, ok := s.values[name]
	return v.Vec3, ok && v.Kind == KindVec3
}

// Mat4 returns a matrix binding.
func (s *Set) Mat4(name string) (math.Mat4, bool) {
	v, ok := s.values[name]
	return v.Mat4, ok && v.Kind == KindMat4
}

// Texture returns a texture binding.
func (s *Set) Texture(name string) (Texture, bool) {
	v, ok := s.values[name]
	return v.Texture, ok && v.Kind == KindTexture
}

// Len returns the number of bindings.
func (s *Set) Len() int {
	return len(s.order)
}

// Each visits bindings in first-write order.
func (s *Set) Each(fn func(name string, v Value)) {
	for _, name := range s.order {
		fn(name, s.values[name])
	}
}
