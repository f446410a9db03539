package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

// TableSize is the extent of the built-in table box: 18 long, 1 thick, 11 wide.
var TableSize = mgl32.Vec3{18, 1, 11}

// TableColour is the cloth green used when the table has no material.
var TableColour = mgl32.Vec3{0.4, 0.8, 0.5}

type boxFace struct {
	normal, u, v mgl32.Vec3
}

// u x v == normal for every face, so the triangles wind counter-clockwise
// seen from outside.
var boxFaces = [6]boxFace{
	{normal: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},
	{normal: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},
	{normal: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
}

// Corner signs along u and v for the two triangles of a face.
var boxCorners = [6][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, -1}, {1, 1}, {-1, 1}}

// GenerateBoxVertices returns an axis-aligned box centred on the origin in the
// interleaved vertex layout the model loader produces.
func GenerateBoxVertices(size mgl32.Vec3) []float32 {
	half := size.Mul(0.5)
	out := make([]float32, 0, len(boxFaces)*len(boxCorners)*metadata.VertexStride)
	for _, f := range boxFaces {
		for _, corner := range boxCorners {
			dir := f.normal.Add(f.u.Mul(corner[0])).Add(f.v.Mul(corner[1]))
			p := mgl32.Vec3{dir[0] * half[0], dir[1] * half[1], dir[2] * half[2]}
			out = append(out,
				p[0], p[1], p[2],
				f.normal[0], f.normal[1], f.normal[2],
				(corner[0]+1)/2, (corner[1]+1)/2,
			)
		}
	}
	return out
}
