// Package shader provides OpenGL shader compilation and uniform binding.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/wavepool/internal/engine/uniform"
)

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", log)
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, log)
	}

	return shader, nil
}

func infoLog(object uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var logLen int32
	getiv(object, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return "(no log)"
	}
	log := make([]byte, logLen)
	getLog(object, logLen, nil, &log[0])
	return string(log)
}

// TextureResolver returns the GL texture object behind a bound texture.
type TextureResolver func(t uniform.Texture) (id uint32, ok bool)

// Program is a linked program with a cache of uniform locations.
type Program struct {
	id        uint32
	locations map[string]int32
}

// New compiles and links a program.
func New(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{id: id, locations: make(map[string]int32)}, nil
}

// ID returns the GL program object.
func (p *Program) ID() uint32 {
	return p.id
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Location returns the uniform location for name, or -1 when the program
// has no active uniform of that name.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// Bind uploads every value in set to the program, which must be current.
// Textures take consecutive units starting at 0 in the order they were
// first written to the set. Names the program does not use are skipped.
func (p *Program) Bind(set *uniform.Set, resolve TextureResolver) error {
	var unit int32
	var err error
	set.Each(func(name string, v uniform.Value) {
		if err != nil {
			return
		}
		loc := p.Location(name)
		if loc < 0 {
			return
		}
		switch v.Kind {
		case uniform.KindFloat:
			gl.Uniform1f(loc, v.Float)
		case uniform.KindVec2:
			gl.Uniform2f(loc, v.Vec2.X, v.Vec2.Y)
		case uniform.KindVec3:
			gl.Uniform3f(loc, v.Vec3.X, v.Vec3.Y, v.Vec3.Z)
		case uniform.KindMat4:
			gl.UniformMatrix4fv(loc, 1, false, v.Mat4.Ptr())
		case uniform.KindTexture:
			id, ok := resolve(v.Texture)
			if !ok {
				err = fmt.Errorf("uniform %q: texture %T has no GL object", name, v.Texture)
				return
			}
			gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
			gl.BindTexture(gl.TEXTURE_2D, id)
			gl.Uniform1i(loc, unit)
			unit++
		}
	})
	return err
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
