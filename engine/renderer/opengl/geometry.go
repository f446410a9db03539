package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

const floatSize = 4

// GeometryCreate uploads interleaved position/normal/texcoord records into a
// new vertex array. Attribute 0 is the position, 1 the normal, 2 the texcoord.
func (r *OpenGLRenderer) GeometryCreate(geometry *metadata.Geometry, vertices []float32) error {
	if len(vertices) == 0 || len(vertices)%metadata.VertexStride != 0 {
		return fmt.Errorf("geometry %s: %d floats is not a whole number of vertices", geometry.Name, len(vertices))
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(metadata.VertexStride * floatSize)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*floatSize)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*floatSize)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	geometry.ID = vao
	geometry.InternalID = vbo
	geometry.VertexCount = int32(len(vertices) / metadata.VertexStride)
	return nil
}

func (r *OpenGLRenderer) GeometryDraw(geometry *metadata.Geometry) {
	gl.BindVertexArray(geometry.ID)
	gl.DrawArrays(gl.TRIANGLES, 0, geometry.VertexCount)
	gl.BindVertexArray(0)
}

func (r *OpenGLRenderer) GeometryDestroy(geometry *metadata.Geometry) {
	if geometry == nil {
		return
	}
	if geometry.InternalID != 0 {
		gl.DeleteBuffers(1, &geometry.InternalID)
	}
	if geometry.ID != 0 {
		gl.DeleteVertexArrays(1, &geometry.ID)
	}
	geometry.ID, geometry.InternalID, geometry.VertexCount = 0, 0, 0
}
