package telemetry

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/Faultbox/wavepool/internal/engine/water"
)

// SnapshotName is the PNG written next to telemetry.csv on Close.
const SnapshotName = "heightmap.png"

// HeightImage renders the height channel as grayscale, black at the lowest
// cell and white at the highest. Grid row 0 is the bottom of the image.
func HeightImage(h *water.Heightmap) *image.Gray {
	heights := h.Heights(make([]float64, 0, h.Width*h.Width))
	img := image.NewGray(image.Rect(0, 0, h.Width, h.Width))
	if len(heights) == 0 {
		return img
	}

	lo, hi := floats.Min(heights), floats.Max(heights)
	span := hi - lo
	for y := 0; y < h.Width; y++ {
		row := h.Width - 1 - y // Flip Y
		for x := 0; x < h.Width; x++ {
			var v uint8
			if span > 0 {
				v = uint8((heights[y*h.Width+x] - lo) / span * 255)
			}
			img.SetGray(x, row, color.Gray{Y: v})
		}
	}
	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}
