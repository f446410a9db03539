package metadata

import "github.com/go-gl/mathgl/mgl32"

// VertexStride is the number of float32 values per interleaved vertex:
// position xyz, normal xyz, texcoord uv.
const VertexStride = 8

// ModelData is the parsed form of an OBJ file together with the materials of
// the library it references.
type ModelData struct {
	Path string

	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Texcoords []mgl32.Vec2

	// Parallel, 0-based, one entry per face vertex.
	VertexIndices   []uint32
	TexcoordIndices []uint32
	NormalIndices   []uint32

	Interleaved []float32

	Materials       map[string]*Material
	CurrentMaterial string

	// Dependencies lists the material libraries and textures the model read,
	// so a change to any of them can trigger a reload.
	Dependencies []string
	// Warnings holds the non-fatal problems found while parsing.
	Warnings []error
}

func NewModelData(path string) *ModelData {
	return &ModelData{
		Path:      path,
		Materials: make(map[string]*Material),
	}
}

func (md *ModelData) VertexCount() int {
	return len(md.Interleaved) / VertexStride
}

func (md *ModelData) TriangleCount() int {
	return md.VertexCount() / 3
}

func (md *ModelData) Empty() bool {
	return md == nil || len(md.Interleaved) == 0
}

// ActiveMaterial returns the material named by the last usemtl, or nil when
// that name was never declared.
func (md *ModelData) ActiveMaterial() *Material {
	if md.CurrentMaterial == "" {
		return nil
	}
	return md.Materials[md.CurrentMaterial]
}

func (md *ModelData) DependsOn(path string) bool {
	if path == md.Path {
		return true
	}
	for _, d := range md.Dependencies {
		if d == path {
			return true
		}
	}
	return false
}

func (md *ModelData) AddDependency(path string) {
	if !md.DependsOn(path) {
		md.Dependencies = append(md.Dependencies, path)
	}
}
