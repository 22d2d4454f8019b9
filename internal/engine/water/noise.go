package water

import (
	"github.com/ojrac/opensimplex-go"
)

// NoiseField seeds the initial heightmap with fractal simplex noise.
type NoiseField struct {
	Seed            int64
	Octaves         int
	MaxHeight       float32 // Amplitude of the first octave
	BaseFrequency   float64
	FrequencyGrowth float64
}

// DefaultNoiseField returns the 15-octave field with a 10 unit first octave.
func DefaultNoiseField(seed int64) NoiseField {
	return NoiseField{
		Seed:            seed,
		Octaves:         15,
		MaxHeight:       10,
		BaseFrequency:   0.025,
		FrequencyGrowth: 1.25,
	}
}

// noiseReferenceWidth keeps the pattern the same size on screen at any grid width.
const noiseReferenceWidth = 128

// sampler evaluates the field for one seed.
type sampler struct {
	field NoiseField
	noise opensimplex.Noise
}

func (f NoiseField) sampler() sampler {
	return sampler{field: f, noise: opensimplex.New(f.Seed)}
}

// Height returns the field value at grid-space coordinate (x, y).
func (f NoiseField) Height(x, y float64) float32 {
	return f.sampler().height(x, y)
}

func (s sampler) height(x, y float64) float32 {
	amplitude := float64(s.field.MaxHeight)
	frequency := s.field.BaseFrequency
	var sum float64
	for i := 0; i < s.field.Octaves; i++ {
		sum += amplitude * s.noise.Eval2(x*frequency, y*frequency)
		amplitude *= 0.53 + 0.025*float64(i)
		frequency *= s.field.FrequencyGrowth
	}
	return float32(sum)
}

// Fill writes the field into every cell of h: height from the noise, zero velocity.
func (f NoiseField) Fill(h *Heightmap) {
	s := f.sampler()
	scale := float64(noiseReferenceWidth) / float64(h.Width)
	for y := 0; y < h.Width; y++ {
		for x := 0; x < h.Width; x++ {
			h.SetCell(x, y, s.height(float64(x)*scale, float64(y)*scale), 0)
		}
	}
}

// Generate allocates a width x width heightmap and fills it.
func (f NoiseField) Generate(width int) *Heightmap {
	h := NewHeightmap(width)
	f.Fill(h)
	return h
}
