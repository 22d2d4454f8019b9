package water

import "fmt"

// Channels per cell: height, velocity, and two reserved slots.
const Channels = 4

const (
	chHeight   = 0
	chVelocity = 1
)

// Heightmap is a square grid of RGBA32F-shaped cells. The layout matches a
// GL_RGBA/GL_FLOAT texture so it can be uploaded or read back without repacking.
type Heightmap struct {
	Width int
	Pix   []float32
}

// NewHeightmap allocates a zeroed width x width heightmap.
func NewHeightmap(width int) *Heightmap {
	return &Heightmap{
		Width: width,
		Pix:   make([]float32, width*width*Channels),
	}
}

// Dimensions implements uniform.Texture.
func (h *Heightmap) Dimensions() (int, int) {
	return h.Width, h.Width
}

func (h *Heightmap) offset(x, y int) int {
	return (y*h.Width + x) * Channels
}

// Height returns channel 0 of cell (x, y).
func (h *Heightmap) Height(x, y int) float32 {
	return h.Pix[h.offset(x, y)+chHeight]
}

// Velocity returns channel 1 of cell (x, y).
func (h *Heightmap) Velocity(x, y int) float32 {
	return h.Pix[h.offset(x, y)+chVelocity]
}

// SetCell writes height and velocity and clears the reserved channels.
func (h *Heightmap) SetCell(x, y int, height, velocity float32) {
	o := h.offset(x, y)
	h.Pix[o+0] = height
	h.Pix[o+1] = velocity
	h.Pix[o+2] = 0
	h.Pix[o+3] = 0
}

// CopyFrom overwrites h with src. Both must have the same width.
func (h *Heightmap) CopyFrom(src *Heightmap) error {
	if src.Width != h.Width {
		return fmt.Errorf("copy %dx%d into %dx%d", src.Width, src.Width, h.Width, h.Width)
	}
	copy(h.Pix, src.Pix)
	return nil
}

// Clone returns a deep copy.
func (h *Heightmap) Clone() *Heightmap {
	c := NewHeightmap(h.Width)
	copy(c.Pix, h.Pix)
	return c
}

// Equal reports whether both heightmaps hold identical values.
func (h *Heightmap) Equal(other *Heightmap) bool {
	if h.Width != other.Width || len(h.Pix) != len(other.Pix) {
		return false
	}
	for i := range h.Pix {
		if h.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// Heights appends channel 0 of every cell, row by row, to dst as float64.
func (h *Heightmap) Heights(dst []float64) []float64 {
	for i := chHeight; i < len(h.Pix); i += Channels {
		dst = append(dst, float64(h.Pix[i]))
	}
	return dst
}

// Sample returns the bilinearly interpolated height at a fractional grid
// position. Positions outside the grid are clamped to the edge.
func (h *Heightmap) Sample(gx, gy float32) float32 {
	maxIdx := float32(h.Width - 1)
	gx = clampf(gx, 0, maxIdx)
	gy = clampf(gy, 0, maxIdx)

	x0 := int(gx)
	y0 := int(gy)
	x1 := min(x0+1, h.Width-1)
	y1 := min(y0+1, h.Width-1)

	fx := gx - float32(x0)
	fy := gy - float32(y0)

	// Lerp along x on both rows, then between the rows.
	bottom := h.Height(x0, y0)*(1-fx) + h.Height(x1, y0)*fx
	top := h.Height(x0, y1)*(1-fx) + h.Height(x1, y1)*fx
	return bottom*(1-fy) + top*fy
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
