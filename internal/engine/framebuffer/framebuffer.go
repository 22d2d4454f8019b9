// Package framebuffer provides float render targets for GPU simulation passes.
package framebuffer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Target is a square RGBA32F texture attached to its own framebuffer. It is
// both the output of one simulation pass and the input of the next.
type Target struct {
	fbo     uint32
	texture uint32
	width   int32
}

// New creates a width x width float target, optionally initialised from pix
// (RGBA32F, row-major from the bottom row; may be nil).
func New(width int32, pix []float32) (*Target, error) {
	if width < 1 {
		return nil, fmt.Errorf("invalid target width %d", width)
	}
	if pix != nil && len(pix) != int(width*width*4) {
		return nil, fmt.Errorf("initial data has %d values, want %d", len(pix), width*width*4)
	}

	t := &Target{width: width}
	if err := t.create(pix); err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return t, nil
}

func (t *Target) create(pix []float32) error {
	// Create color texture. Neighbour reads use texelFetch, so no filtering.
	gl.GenTextures(1, &t.texture)
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, t.width, t.width, 0, gl.RGBA, gl.FLOAT, ptr(pix))

	// Create framebuffer object
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.texture, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Destroy()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

func ptr(pix []float32) unsafe.Pointer {
	if len(pix) == 0 {
		return nil
	}
	return gl.Ptr(pix)
}

// BindWithViewport binds the target for drawing and sets the viewport to
// cover it. Returns a function restoring the previous framebuffer and viewport.
func (t *Target) BindWithViewport() func() {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.width)

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	}
}

// Upload replaces the texture contents with pix (RGBA32F).
func (t *Target) Upload(pix []float32) error {
	if len(pix) != int(t.width*t.width*4) {
		return fmt.Errorf("upload has %d values, want %d", len(pix), t.width*t.width*4)
	}
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, t.width, t.width, gl.RGBA, gl.FLOAT, gl.Ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// ReadInto copies the target contents into dst (RGBA32F). Rows come back
// bottom first, which matches the heightmap's y-up row order.
func (t *Target) ReadInto(dst []float32) error {
	if len(dst) != int(t.width*t.width*4) {
		return fmt.Errorf("readback buffer has %d values, want %d", len(dst), t.width*t.width*4)
	}

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.ReadPixels(0, 0, t.width, t.width, gl.RGBA, gl.FLOAT, gl.Ptr(dst))

	// Restore previous framebuffer
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
	return nil
}

// Dimensions implements uniform.Texture.
func (t *Target) Dimensions() (int, int) {
	return int(t.width), int(t.width)
}

// Texture returns the color attachment texture ID.
func (t *Target) Texture() uint32 {
	return t.texture
}

// Destroy releases all OpenGL resources.
func (t *Target) Destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.texture != 0 {
		gl.DeleteTextures(1, &t.texture)
		t.texture = 0
	}
}
