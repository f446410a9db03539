package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

var ErrNoShader = errors.New("renderer has no active shader")

type RendererType uint8

const (
	OpenGL RendererType = iota
)

// Renderer is the front end the engine talks to. It turns render packets into
// backend calls.
type Renderer struct {
	backend RendererBackend
	shader  *metadata.Shader
	width   uint32
	height  uint32
}

func New(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32, shaderConfig *metadata.ShaderConfig) error {
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		return err
	}
	r.width, r.height = appWidth, appHeight

	shader, err := r.backend.ShaderCreate(shaderConfig)
	if err != nil {
		return fmt.Errorf("creating shader %s: %w", shaderConfig.Name, err)
	}
	r.shader = shader
	return nil
}

func (r *Renderer) Shutdown() error {
	if r.shader != nil {
		r.backend.ShaderDestroy(r.shader)
		r.shader = nil
	}
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) error {
	r.width, r.height = width, height
	return r.backend.Resized(width, height)
}

func (r *Renderer) Size() (uint32, uint32) {
	return r.width, r.height
}

func (r *Renderer) DrawFrame(renderPacket *metadata.RenderPacket) error {
	if r.shader == nil {
		return ErrNoShader
	}
	if err := r.backend.BeginFrame(renderPacket.DeltaTime, renderPacket.ClearColor); err != nil {
		core.LogError(err.Error())
		return err
	}
	if err := r.backend.ShaderUse(r.shader); err != nil {
		return err
	}
	// Samplers read texture unit 0.
	if err := r.backend.SetUniform(r.shader, UniformTexture, int32(0)); err != nil {
		return err
	}

	for i := range renderPacket.Views {
		if err := r.drawView(&renderPacket.Views[i]); err != nil {
			return err
		}
	}

	if err := r.backend.EndFrame(renderPacket.DeltaTime); err != nil {
		core.LogError("RendererEndFrame failed. Application shutting down...")
		return err
	}
	return nil
}

func (r *Renderer) drawView(view *metadata.RenderViewPacket) error {
	if view.Viewport.Empty() {
		return nil
	}
	r.backend.SetViewport(view.Viewport)

	viewProjection := view.Projection.Mul4(view.View)
	for _, g := range view.Geometries {
		if g.Geometry == nil || g.Geometry.VertexCount == 0 {
			continue
		}
		if err := r.backend.SetUniform(r.shader, UniformMVP, viewProjection.Mul4(g.Model)); err != nil {
			return err
		}

		ambient, diffuse, useTexture := g.Colour, g.Colour, false
		if m := g.Material; m != nil {
			ambient, diffuse = m.Ambient, m.Diffuse
			useTexture = m.HasTexture()
		}
		if useTexture {
			r.backend.TextureBind(g.Material.DiffuseTexture, 0)
		}
		if err := r.backend.SetUniform(r.shader, UniformAmbient, ambient); err != nil {
			return err
		}
		if err := r.backend.SetUniform(r.shader, UniformDiffuse, diffuse); err != nil {
			return err
		}
		if err := r.backend.SetUniform(r.shader, UniformUseTexture, useTexture); err != nil {
			return err
		}
		r.backend.GeometryDraw(g.Geometry)
	}
	return nil
}

func (r *Renderer) CreateGeometry(geometry *metadata.Geometry, vertices []float32) error {
	return r.backend.GeometryCreate(geometry, vertices)
}

func (r *Renderer) DestroyGeometry(geometry *metadata.Geometry) {
	r.backend.GeometryDestroy(geometry)
}

func (r *Renderer) CreateTexture(pixels []uint8, texture *metadata.Texture) error {
	return r.backend.TextureCreate(pixels, texture)
}

func (r *Renderer) DestroyTexture(texture *metadata.Texture) {
	r.backend.TextureDestroy(texture)
}
