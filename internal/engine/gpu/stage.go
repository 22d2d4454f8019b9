// Package gpu runs the heightfield simulation as a fragment pass over a pair
// of float render targets.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/wavepool/internal/engine/framebuffer"
	"github.com/Faultbox/wavepool/internal/engine/shader"
	"github.com/Faultbox/wavepool/internal/engine/uniform"
	"github.com/Faultbox/wavepool/internal/engine/water"
)

// Stage is water.Stage over GL render targets. It needs a current GL context.
type Stage struct {
	params  water.Params
	program *shader.Program
	vao     uint32
	set     *uniform.Set
}

// NewStage compiles the simulation pass. set holds the simulation uniforms;
// Apply refreshes it before every draw.
func NewStage(params water.Params, set *uniform.Set) (*Stage, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	program, err := shader.New(passVertexShader, stepFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("simulation shader: %w", err)
	}

	s := &Stage{params: params, program: program, set: set}
	gl.GenVertexArrays(1, &s.vao)

	program.Use()
	gl.Uniform1i(program.Location(uniformWidth), int32(params.Width))
	boundary := int32(0)
	if params.Boundary == water.BoundaryFixed {
		boundary = 1
	}
	gl.Uniform1i(program.Location(uniformBoundary), boundary)
	gl.Uniform1f(program.Location(uniformRestHeight), params.RestHeight)
	gl.UseProgram(0)

	return s, nil
}

// Apply renders one step from src into dst.
func (s *Stage) Apply(dst, src *framebuffer.Target, in water.Inputs) error {
	if dst == nil || src == nil {
		return errors.New("nil render target")
	}
	if dst == src {
		return errors.New("stage cannot update a render target in place")
	}
	in = in.Sanitize()

	s.set.SetTexture(uniform.Heightmap, src)
	s.set.SetVec2(uniform.MousePos, in.Source)
	s.set.SetFloat(uniform.MouseSize, s.params.Radius)
	s.set.SetFloat(uniform.MouseStrength, s.params.Strength)
	s.set.SetFloat(uniform.Viscosity, s.params.Viscosity)
	s.set.SetFloat(uniform.HeightCompensation, s.params.Compensation)

	restore := dst.BindWithViewport()
	defer restore()

	s.program.Use()
	if err := s.program.Bind(s.set, ResolveTexture); err != nil {
		return err
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("simulation pass: GL error 0x%x", code)
	}
	return nil
}

// Destroy releases GL resources.
func (s *Stage) Destroy() {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
	s.program.Delete()
}

// ResolveTexture maps render targets to their GL texture.
func ResolveTexture(t uniform.Texture) (uint32, bool) {
	if target, ok := t.(*framebuffer.Target); ok {
		return target.Texture(), true
	}
	return 0, false
}
