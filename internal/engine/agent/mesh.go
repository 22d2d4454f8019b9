package agent

import gomath "math"

// Mesh is an indexed UV sphere centred at the origin.
type Mesh struct {
	Vertices []float32 // Interleaved position (3) + normal (3)
	Indices  []uint32
}

// BuildSphere creates a UV sphere with the given number of stacks and slices.
func BuildSphere(radius float32, stacks, slices int) *Mesh {
	stacks = max(stacks, 2)
	slices = max(slices, 3)

	m := &Mesh{
		Vertices: make([]float32, 0, (stacks+1)*(slices+1)*6),
		Indices:  make([]uint32, 0, stacks*slices*6),
	}

	for i := 0; i <= stacks; i++ {
		phi := gomath.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * gomath.Pi * float64(j) / float64(slices)
			nx := float32(gomath.Sin(phi) * gomath.Cos(theta))
			ny := float32(gomath.Cos(phi))
			nz := float32(gomath.Sin(phi) * gomath.Sin(theta))
			m.Vertices = append(m.Vertices, nx*radius, ny*radius, nz*radius, nx, ny, nz)
		}
	}

	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 6
}
