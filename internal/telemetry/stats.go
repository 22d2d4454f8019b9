// Package telemetry measures the heightfield and records the measurements
// as CSV.
package telemetry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/wavepool/internal/engine/water"
)

// HeightStats summarises the height channel of a heightmap.
type HeightStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Energy float64 // Sum of squared heights
}

// Measure computes HeightStats for h.
func Measure(h *water.Heightmap) HeightStats {
	heights := h.Heights(make([]float64, 0, h.Width*h.Width))
	if len(heights) == 0 {
		return HeightStats{}
	}

	mean, std := stat.MeanStdDev(heights, nil)
	return HeightStats{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(heights),
		Max:    floats.Max(heights),
		Energy: floats.Dot(heights, heights),
	}
}

// MaxAbsDiff returns the largest absolute difference between any channel of
// a and b. Used to compare host and GPU results.
func MaxAbsDiff(a, b *water.Heightmap) (float64, error) {
	if a.Width != b.Width {
		return 0, fmt.Errorf("heightmap widths differ: %d vs %d", a.Width, b.Width)
	}
	x := make([]float64, len(a.Pix))
	y := make([]float64, len(b.Pix))
	for i := range a.Pix {
		x[i] = float64(a.Pix[i])
		y[i] = float64(b.Pix[i])
	}
	return floats.Distance(x, y, math.Inf(1)), nil
}
