// Package lighting provides the directional light the scene shaders consume.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/wavepool/internal/engine/uniform"
	"github.com/Faultbox/wavepool/pkg/math"
)

// LightDirection is the uniform holding the normalized direction toward the sun.
const LightDirection = "lightDir"

// Sun is a directional light placed by angles in degrees. Longitude is the
// rotation around Y, latitude the elevation above the horizon.
type Sun struct {
	Longitude float32
	Latitude  float32
}

// DefaultSun is a high sun slightly off the Z axis.
func DefaultSun() Sun {
	return Sun{Longitude: 53, Latitude: 66}
}

// Direction returns the normalized vector pointing toward the sun.
func (s Sun) Direction() math.Vec3 {
	lon := float64(s.Longitude) * gomath.Pi / 180
	lat := float64(s.Latitude) * gomath.Pi / 180

	return math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
}

// Publish writes the light direction into each set.
func (s Sun) Publish(sets ...*uniform.Set) {
	dir := s.Direction()
	for _, set := range sets {
		set.SetVec3(LightDirection, dir)
	}
}
