package systems_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	qt "github.com/frankban/quicktest"

	"github.com/spaghettifunk/bilhar/engine/assets"
	"github.com/spaghettifunk/bilhar/engine/assets/loaders"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

// diskAssets loads straight from disk with the real loaders and counts reads.
type diskAssets struct {
	loads map[string]int
}

func newDiskAssets() *diskAssets {
	return &diskAssets{loads: make(map[string]int)}
}

func (d *diskAssets) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	d.loads[path]++
	var l assets.Loader
	switch assetType {
	case metadata.ResourceTypeModel:
		l = &loaders.ModelLoader{}
	case metadata.ResourceTypeImage:
		l = &loaders.ImageLoader{}
	case metadata.ResourceTypeShader:
		l = &loaders.ShaderLoader{}
	default:
		return nil, fmt.Errorf("no loader for %s", assetType)
	}
	return l.Load(path, assetType, params)
}

// fakeGPU hands out increasing ids and tracks what is alive.
type fakeGPU struct {
	next       uint32
	geometries map[uint32]int32
	textures   map[uint32]string
	failUpload bool
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{geometries: make(map[uint32]int32), textures: make(map[uint32]string)}
}

func (g *fakeGPU) CreateGeometry(geometry *metadata.Geometry, vertices []float32) error {
	if g.failUpload {
		return fmt.Errorf("out of memory")
	}
	g.next++
	geometry.ID = g.next
	geometry.VertexCount = int32(len(vertices) / metadata.VertexStride)
	g.geometries[geometry.ID] = geometry.VertexCount
	return nil
}

func (g *fakeGPU) DestroyGeometry(geometry *metadata.Geometry) {
	delete(g.geometries, geometry.ID)
	geometry.ID = 0
}

func (g *fakeGPU) CreateTexture(pixels []uint8, texture *metadata.Texture) error {
	g.next++
	texture.ID = g.next
	g.textures[texture.ID] = texture.Path
	return nil
}

func (g *fakeGPU) DestroyTexture(texture *metadata.Texture) {
	delete(g.textures, texture.ID)
	texture.ID = 0
}

func whitePNG(c *qt.C) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, img), qt.IsNil)
	return buf.Bytes()
}

const ballOBJ = `mtllib ball.mtl
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
usemtl Ball
f 1/1/1 2/2/1 3/3/1
`

const ballMTL = `newmtl Ball
Kd 1 1 1
map_Kd ball.png
`

func writeBall(c *qt.C) (dir string) {
	dir = c.TempDir()
	for name, content := range map[string][]byte{
		"ball.obj": []byte(ballOBJ),
		"ball.mtl": []byte(ballMTL),
		"ball.png": whitePNG(c),
	} {
		c.Assert(os.WriteFile(filepath.Join(dir, name), content, 0o644), qt.IsNil)
	}
	return dir
}
