package water

import (
	gomath "math"
	"testing"
)

func TestNoiseDeterministic(t *testing.T) {
	a := DefaultNoiseField(42).Generate(64)
	b := DefaultNoiseField(42).Generate(64)

	for i := range a.Pix {
		if gomath.Float32bits(a.Pix[i]) != gomath.Float32bits(b.Pix[i]) {
			t.Fatalf("value %d differs between runs: %v vs %v", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestNoiseSeedsDiffer(t *testing.T) {
	a := DefaultNoiseField(1).Generate(64)
	b := DefaultNoiseField(2).Generate(64)
	if a.Equal(b) {
		t.Error("different seeds produced the same field")
	}
}

func TestNoiseFillShape(t *testing.T) {
	f := DefaultNoiseField(9)
	h := NewHeightmap(128)
	for i := range h.Pix {
		h.Pix[i] = 99
	}
	f.Fill(h)

	// Upper bound on |height| given |Eval2| <= 1.
	var bound float64
	amplitude := float64(f.MaxHeight)
	for i := 0; i < f.Octaves; i++ {
		bound += amplitude
		amplitude *= 0.53 + 0.025*float64(i)
	}

	lo, hi := float32(gomath.MaxFloat32), float32(-gomath.MaxFloat32)
	for y := 0; y < h.Width; y++ {
		for x := 0; x < h.Width; x++ {
			v := h.Height(x, y)
			if gomath.Abs(float64(v)) > bound {
				t.Fatalf("height %v at (%d,%d) exceeds octave bound %v", v, x, y, bound)
			}
			if h.Velocity(x, y) != 0 {
				t.Fatalf("velocity at (%d,%d) = %v, want 0", x, y, h.Velocity(x, y))
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if hi-lo < 1 {
		t.Errorf("field is nearly flat: range [%v, %v]", lo, hi)
	}
}

func TestNoiseScalesWithWidth(t *testing.T) {
	f := DefaultNoiseField(5)
	small := f.Generate(64)
	large := f.Generate(128)

	// Cell (x, y) of the 64 grid samples the same point as (2x, 2y) of the 128 grid.
	for _, c := range [][2]int{{0, 0}, {10, 20}, {31, 63}} {
		x, y := c[0], c[1]
		if small.Height(x, y) != large.Height(2*x, 2*y) {
			t.Errorf("(%d,%d): %v vs %v", x, y, small.Height(x, y), large.Height(2*x, 2*y))
		}
	}
}
