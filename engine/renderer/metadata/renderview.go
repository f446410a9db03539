package metadata

import "github.com/go-gl/mathgl/mgl32"

/** @brief A rectangle of the framebuffer, origin bottom-left. */
type Viewport struct {
	X, Y          int32
	Width, Height int32
}

func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

/** @brief A single draw. */
type GeometryRenderData struct {
	Model    mgl32.Mat4
	Geometry *Geometry
	Material *Material
	// Colour is used when Material is nil.
	Colour mgl32.Vec3
}

/** @brief Everything drawn in one viewport. */
type RenderViewPacket struct {
	Name       string
	Viewport   Viewport
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Geometries []GeometryRenderData
}

/** @brief One frame. */
type RenderPacket struct {
	DeltaTime  float64
	ClearColor mgl32.Vec4
	Views      []RenderViewPacket
}
