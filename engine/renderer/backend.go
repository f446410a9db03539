package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

// Uniform names shared by the renderer and the shaders in assets/shaders.
const (
	UniformMVP        = "MVP"
	UniformAmbient    = "uAmbient"
	UniformDiffuse    = "uDiffuse"
	UniformUseTexture = "uUseTexture"
	UniformTexture    = "uTexture"
)

type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64, clearColour mgl32.Vec4) error
	EndFrame(deltaTime float64) error
	SetViewport(viewport metadata.Viewport)
	ShaderCreate(config *metadata.ShaderConfig) (*metadata.Shader, error)
	ShaderUse(shader *metadata.Shader) error
	ShaderDestroy(shader *metadata.Shader)
	// SetUniform accepts mgl32.Mat4, mgl32.Vec3, mgl32.Vec4, float32, int32 and bool.
	SetUniform(shader *metadata.Shader, name string, value interface{}) error
	TextureCreate(pixels []uint8, texture *metadata.Texture) error
	TextureDestroy(texture *metadata.Texture)
	TextureBind(handle uint32, unit uint32)
	GeometryCreate(geometry *metadata.Geometry, vertices []float32) error
	GeometryDraw(geometry *metadata.Geometry)
	GeometryDestroy(geometry *metadata.Geometry)
}
