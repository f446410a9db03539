package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

// OpenGLRenderer draws with an OpenGL 4.1 core context. The context must be
// current on the calling thread before Initialize.
type OpenGLRenderer struct {
	FrameNumber       uint64
	framebufferWidth  uint32
	framebufferHeight uint32
}

func New() *OpenGLRenderer {
	return &OpenGLRenderer{}
}

func (r *OpenGLRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.LogInfo("%s running on OpenGL %s (%s)", appName, gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	r.framebufferWidth = appWidth
	r.framebufferHeight = appHeight

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return nil
}

func (r *OpenGLRenderer) Shutdown() error {
	core.LogDebug("shutting down OpenGL renderer after %d frames", r.FrameNumber)
	return nil
}

func (r *OpenGLRenderer) Resized(width, height uint32) error {
	r.framebufferWidth = width
	r.framebufferHeight = height
	return nil
}

func (r *OpenGLRenderer) BeginFrame(deltaTime float64, clearColour mgl32.Vec4) error {
	gl.Viewport(0, 0, int32(r.framebufferWidth), int32(r.framebufferHeight))
	gl.ClearColor(clearColour[0], clearColour[1], clearColour[2], clearColour[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (r *OpenGLRenderer) EndFrame(deltaTime float64) error {
	r.FrameNumber++
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("OpenGL error 0x%x in frame %d", code, r.FrameNumber)
	}
	return nil
}

func (r *OpenGLRenderer) SetViewport(viewport metadata.Viewport) {
	gl.Viewport(viewport.X, viewport.Y, viewport.Width, viewport.Height)
	// The minimap is drawn over the main view, so it needs its own depth.
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(viewport.X, viewport.Y, viewport.Width, viewport.Height)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Disable(gl.SCISSOR_TEST)
}
