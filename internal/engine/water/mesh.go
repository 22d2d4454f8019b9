package water

// Mesh is the water surface in water-local space: a flat grid on the XY plane
// centred at the origin, one vertex per simulation cell. The vertex shader
// displaces each vertex along local Z by the cell height.
type Mesh struct {
	Vertices []float32 // Flat x,y,z per vertex
	Indices  []uint32  // Triangle list
	Segments int       // Quads per side
}

// BuildMesh creates a grid of (width x width) vertices spanning bounds units.
// Vertex (x, y) sits exactly over cell (x, y).
func BuildMesh(width int, bounds float32) *Mesh {
	if width < 2 {
		width = 2
	}
	cell := bounds / float32(width)
	half := bounds / 2

	vertices := make([]float32, 0, width*width*3)
	for y := 0; y < width; y++ {
		for x := 0; x < width; x++ {
			vertices = append(vertices,
				float32(x)*cell-half,
				float32(y)*cell-half,
				0,
			)
		}
	}

	segments := width - 1
	indices := make([]uint32, 0, segments*segments*6)
	for y := 0; y < segments; y++ {
		for x := 0; x < segments; x++ {
			i0 := uint32(y*width + x)
			i1 := i0 + 1
			i2 := i0 + uint32(width)
			i3 := i2 + 1
			indices = append(indices, i0, i1, i2, i1, i3, i2)
		}
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Segments: segments,
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}
