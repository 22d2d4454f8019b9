// Package renderer draws the water surface and the agent from the uniforms
// the coupling layer publishes.
package renderer

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/wavepool/internal/engine/agent"
	"github.com/Faultbox/wavepool/internal/engine/camera"
	"github.com/Faultbox/wavepool/internal/engine/framebuffer"
	"github.com/Faultbox/wavepool/internal/engine/lighting"
	"github.com/Faultbox/wavepool/internal/engine/shader"
	"github.com/Faultbox/wavepool/internal/engine/uniform"
	"github.com/Faultbox/wavepool/internal/engine/water"
	"github.com/Faultbox/wavepool/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	Sun    lighting.Sun
}

// Scene is what the renderer draws.
type Scene struct {
	Water     *water.Mesh
	Agent     *agent.Mesh
	Camera    *camera.OrbitCamera
	WaterSet  *uniform.Set
	AgentSet  *uniform.Set
	GridWidth int // Size of the host heightmap texture
}

type meshBuffers struct {
	vao, vbo, ebo uint32
	count         int32
}

// Renderer handles all OpenGL rendering. It implements frame.Renderer.
type Renderer struct {
	config Config
	scene  Scene

	waterProgram *shader.Program
	agentProgram *shader.Program
	water        meshBuffers
	agent        meshBuffers

	// host mirrors a host-side heightmap for drawing.
	host *framebuffer.Target
}

// New creates the renderer. Must be called after the GL context exists.
func New(cfg Config, scene Scene) (*Renderer, error) {
	r := &Renderer{config: cfg, scene: scene}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background

	var err error
	if r.waterProgram, err = shader.New(waterVertexShader, waterFragmentShader); err != nil {
		return nil, fmt.Errorf("water shader: %w", err)
	}
	if r.agentProgram, err = shader.New(agentVertexShader, agentFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("agent shader: %w", err)
	}

	r.water = upload(scene.Water.Vertices, scene.Water.Indices, 3)
	r.agent = upload(scene.Agent.Vertices, scene.Agent.Indices, 3, 3)

	if r.host, err = framebuffer.New(int32(scene.GridWidth), nil); err != nil {
		r.Close()
		return nil, fmt.Errorf("host heightmap texture: %w", err)
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	logger.Info("renderer created",
		zap.Int("water_vertices", scene.Water.VertexCount()),
		zap.Int("agent_vertices", scene.Agent.VertexCount()),
	)
	return r, nil
}

// upload creates a VAO with interleaved float attributes of the given sizes.
func upload(vertices []float32, indices []uint32, sizes ...int32) meshBuffers {
	var m meshBuffers
	m.count = int32(len(indices))

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	var stride int32
	for _, s := range sizes {
		stride += s
	}
	var offset int32
	for i, s := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), s, gl.FLOAT, false, stride*4, uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += s
	}

	gl.BindVertexArray(0)
	return m
}

// Render draws one frame.
func (r *Renderer) Render() error {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	aspect := float32(r.config.Width) / float32(max(r.config.Height, 1))
	r.scene.Camera.Publish(r.scene.WaterSet, aspect)
	r.scene.Camera.Publish(r.scene.AgentSet, aspect)
	r.config.Sun.Publish(r.scene.WaterSet, r.scene.AgentSet)

	if tex, ok := r.scene.WaterSet.Texture(uniform.Heightmap); ok {
		if host, ok := tex.(*water.Heightmap); ok {
			if err := r.uploadHost(host); err != nil {
				return err
			}
		}
	}

	if err := r.draw(r.waterProgram, r.scene.WaterSet, r.water); err != nil {
		return fmt.Errorf("water: %w", err)
	}
	if err := r.draw(r.agentProgram, r.scene.AgentSet, r.agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("GL error 0x%x", code)
	}
	return nil
}

func (r *Renderer) draw(p *shader.Program, set *uniform.Set, m meshBuffers) error {
	p.Use()
	if err := p.Bind(set, r.resolve); err != nil {
		return err
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	return nil
}

func (r *Renderer) uploadHost(h *water.Heightmap) error {
	if h.Width != r.scene.GridWidth {
		return fmt.Errorf("heightmap is %d wide, texture is %d", h.Width, r.scene.GridWidth)
	}
	return r.host.Upload(h.Pix)
}

// resolve maps bound textures to GL objects: render targets directly, host
// heightmaps through the mirror texture.
func (r *Renderer) resolve(t uniform.Texture) (uint32, bool) {
	switch tex := t.(type) {
	case *framebuffer.Target:
		return tex.Texture(), true
	case *water.Heightmap:
		return r.host.Texture(), true
	}
	return 0, false
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, m := range []*meshBuffers{&r.water, &r.agent} {
		if m.vao != 0 {
			gl.DeleteVertexArrays(1, &m.vao)
			gl.DeleteBuffers(1, &m.vbo)
			gl.DeleteBuffers(1, &m.ebo)
			*m = meshBuffers{}
		}
	}
	if r.host != nil {
		r.host.Destroy()
		r.host = nil
	}
	if r.waterProgram != nil {
		r.waterProgram.Delete()
	}
	if r.agentProgram != nil {
		r.agentProgram.Delete()
	}
}
