package systems_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/math"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
	"github.com/spaghettifunk/bilhar/engine/systems"
)

func newMeshSystem(c *qt.C) (*systems.MeshSystem, *systems.TextureSystem, *diskAssets, *fakeGPU) {
	am, gpu := newDiskAssets(), newFakeGPU()
	ts, err := systems.NewTextureSystem(&systems.TextureSystemConfig{MaxTextureCount: 8}, am, gpu)
	c.Assert(err, qt.IsNil)
	ms, err := systems.NewMeshSystem(am, ts, gpu)
	c.Assert(err, qt.IsNil)
	return ms, ts, am, gpu
}

func TestMeshSystemLoadsModelWithTexture(t *testing.T) {
	c := qt.New(t)
	ms, ts, _, gpu := newMeshSystem(c)
	dir := writeBall(c)

	mesh, err := ms.Load(metadata.MeshLoadParams{
		Name:      "ball1",
		Path:      filepath.Join(dir, "ball.obj"),
		Transform: math.TransformFromPosition(mgl32.Vec3{1, 0, 0}),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(mesh.Geometry.VertexCount, qt.Equals, int32(3))
	c.Assert(ts.Count(), qt.Equals, 1)
	c.Assert(gpu.textures, qt.HasLen, 1)

	mat := mesh.Data.ActiveMaterial()
	c.Assert(mat, qt.Not(qt.IsNil))
	c.Assert(mat.HasTexture(), qt.IsTrue)

	data := ms.RenderData()
	c.Assert(data, qt.HasLen, 1)
	c.Assert(data[0].Material, qt.Equals, mat)
	c.Assert(data[0].Model.ApproxEqual(mgl32.Translate3D(1, 0, 0)), qt.IsTrue)

	_, err = ms.Load(metadata.MeshLoadParams{Name: "ball1", Path: filepath.Join(dir, "ball.obj")})
	c.Assert(err, qt.ErrorMatches, `mesh 'ball1' already exists`)
}

func TestMeshSystemSharesTextures(t *testing.T) {
	c := qt.New(t)
	ms, ts, am, _ := newMeshSystem(c)
	dir := writeBall(c)
	obj := filepath.Join(dir, "ball.obj")

	for _, name := range []string{"a", "b", "c"} {
		_, err := ms.Load(metadata.MeshLoadParams{Name: name, Path: obj})
		c.Assert(err, qt.IsNil)
	}
	c.Assert(ts.Count(), qt.Equals, 1)
	c.Assert(am.loads[filepath.Join(dir, "ball.png")], qt.Equals, 1)
	c.Assert(ms.Count(), qt.Equals, 3)
}

func TestMeshSystemRejectsBrokenModels(t *testing.T) {
	c := qt.New(t)
	ms, _, _, _ := newMeshSystem(c)
	dir := c.TempDir()

	bad := filepath.Join(dir, "bad.obj")
	c.Assert(os.WriteFile(bad, []byte("v 0 0 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n"), 0o644), qt.IsNil)
	_, err := ms.Load(metadata.MeshLoadParams{Name: "bad", Path: bad})
	c.Assert(err, qt.ErrorMatches, `.*face 1: position index 2 outside \[1, 1\].*`)

	empty := filepath.Join(dir, "empty.obj")
	c.Assert(os.WriteFile(empty, []byte("# nothing\n"), 0o644), qt.IsNil)
	_, err = ms.Load(metadata.MeshLoadParams{Name: "empty", Path: empty})
	c.Assert(err, qt.ErrorIs, systems.ErrEmptyModel)
	c.Assert(ms.Count(), qt.Equals, 0)
}

func TestMeshSystemReload(t *testing.T) {
	c := qt.New(t)
	ms, _, _, gpu := newMeshSystem(c)
	dir := writeBall(c)
	obj := filepath.Join(dir, "ball.obj")

	ball, err := ms.Load(metadata.MeshLoadParams{Name: "ball", Path: obj})
	c.Assert(err, qt.IsNil)
	_, err = ms.CreateFromVertices(metadata.MeshLoadParams{Name: "table", Colour: systems.TableColour}, systems.GenerateBoxVertices(systems.TableSize))
	c.Assert(err, qt.IsNil)
	oldGeometry := ball.Geometry.ID

	// A changed texture reloads the models that use it.
	c.Assert(ms.Reload(filepath.Join(dir, "ball.png")), qt.DeepEquals, []string{"ball"})
	c.Assert(ball.Generation, qt.Equals, uint8(2))
	c.Assert(gpu.geometries[oldGeometry], qt.Equals, int32(0))
	c.Assert(gpu.textures, qt.HasLen, 1)

	// A triangle added to the model shows up after reload.
	c.Assert(os.WriteFile(obj, []byte(ballOBJ+"f 3/3/1 2/2/1 1/1/1\n"), 0o644), qt.IsNil)
	c.Assert(ms.Reload(obj), qt.DeepEquals, []string{"ball"})
	c.Assert(ball.Data.TriangleCount(), qt.Equals, 2)

	// A broken edit keeps the last good data.
	c.Assert(os.WriteFile(obj, []byte("f 9/9/9 9/9/9 9/9/9\n"), 0o644), qt.IsNil)
	c.Assert(ms.Reload(obj), qt.HasLen, 0)
	c.Assert(ball.Data.TriangleCount(), qt.Equals, 2)

	c.Assert(ms.Reload(filepath.Join(dir, "unrelated.png")), qt.HasLen, 0)
}

func TestMeshSystemFailedReloadKeepsTextureAlive(t *testing.T) {
	c := qt.New(t)
	ms, _, _, gpu := newMeshSystem(c)
	dir := writeBall(c)
	obj := filepath.Join(dir, "ball.obj")

	ball, err := ms.Load(metadata.MeshLoadParams{Name: "ball", Path: obj})
	c.Assert(err, qt.IsNil)
	handle := ball.Data.ActiveMaterial().DiffuseTexture

	c.Assert(os.WriteFile(obj, []byte("f 9/9/9 9/9/9 9/9/9\n"), 0o644), qt.IsNil)
	c.Assert(ms.Reload(obj), qt.HasLen, 0)
	c.Assert(ms.Reload(filepath.Join(dir, "ball.png")), qt.HasLen, 0)

	mat := ball.Data.ActiveMaterial()
	c.Assert(mat.HasTexture(), qt.IsTrue)
	c.Assert(mat.DiffuseTexture, qt.Equals, handle)
	c.Assert(gpu.textures[handle], qt.Not(qt.Equals), "", qt.Commentf("handle %d was destroyed", handle))

	// Once the model is fixed the same texture is reused.
	c.Assert(os.WriteFile(obj, []byte(ballOBJ), 0o644), qt.IsNil)
	c.Assert(ms.Reload(obj), qt.DeepEquals, []string{"ball"})
	c.Assert(ball.Data.ActiveMaterial().DiffuseTexture, qt.Equals, handle)
	c.Assert(gpu.textures, qt.HasLen, 1)
}

func TestMeshSystemReloadMovesKeptMeshesToNewTexture(t *testing.T) {
	c := qt.New(t)
	ms, _, _, gpu := newMeshSystem(c)
	dir := writeBall(c)
	other := filepath.Join(dir, "other.obj")
	c.Assert(os.WriteFile(other, []byte(ballOBJ), 0o644), qt.IsNil)

	good, err := ms.Load(metadata.MeshLoadParams{Name: "good", Path: filepath.Join(dir, "ball.obj")})
	c.Assert(err, qt.IsNil)
	kept, err := ms.Load(metadata.MeshLoadParams{Name: "kept", Path: other})
	c.Assert(err, qt.IsNil)
	old := good.Data.ActiveMaterial().DiffuseTexture
	c.Assert(kept.Data.ActiveMaterial().DiffuseTexture, qt.Equals, old)

	c.Assert(os.WriteFile(other, []byte("f 9/9/9 9/9/9 9/9/9\n"), 0o644), qt.IsNil)
	c.Assert(ms.Reload(filepath.Join(dir, "ball.png")), qt.DeepEquals, []string{"good"})

	fresh := good.Data.ActiveMaterial().DiffuseTexture
	c.Assert(fresh, qt.Not(qt.Equals), old)
	c.Assert(kept.Generation, qt.Equals, uint8(1))
	c.Assert(kept.Data.ActiveMaterial().DiffuseTexture, qt.Equals, fresh)
	c.Assert(gpu.textures, qt.HasLen, 1)
	c.Assert(gpu.textures[fresh], qt.Not(qt.Equals), "")
}

func TestMeshSystemShutdownReleasesEverything(t *testing.T) {
	c := qt.New(t)
	ms, ts, _, gpu := newMeshSystem(c)
	dir := writeBall(c)

	_, err := ms.Load(metadata.MeshLoadParams{Name: "ball", Path: filepath.Join(dir, "ball.obj")})
	c.Assert(err, qt.IsNil)
	_, err = ms.CreateFromVertices(metadata.MeshLoadParams{Name: "table"}, systems.GenerateBoxVertices(systems.TableSize))
	c.Assert(err, qt.IsNil)
	c.Assert(gpu.geometries, qt.HasLen, 2)

	c.Assert(ms.Release("table"), qt.IsTrue)
	c.Assert(ms.Release("table"), qt.IsFalse)
	c.Assert(ms.Meshes(), qt.HasLen, 1)

	c.Assert(ms.Shutdown(), qt.IsNil)
	c.Assert(ts.Shutdown(), qt.IsNil)
	c.Assert(gpu.geometries, qt.HasLen, 0)
	c.Assert(gpu.textures, qt.HasLen, 0)
	c.Assert(ms.Count(), qt.Equals, 0)
}

func TestGenerateBoxVertices(t *testing.T) {
	c := qt.New(t)

	v := systems.GenerateBoxVertices(systems.TableSize)
	c.Assert(v, qt.HasLen, 36*metadata.VertexStride)

	for i := 0; i < len(v); i += 3 * metadata.VertexStride {
		a := mgl32.Vec3{v[i], v[i+1], v[i+2]}
		b := mgl32.Vec3{v[i+8], v[i+9], v[i+10]}
		d := mgl32.Vec3{v[i+16], v[i+17], v[i+18]}
		n := mgl32.Vec3{v[i+3], v[i+4], v[i+5]}
		c.Assert(b.Sub(a).Cross(d.Sub(a)).Dot(n) > 0, qt.IsTrue, qt.Commentf("triangle %d winds inwards", i/(3*metadata.VertexStride)))

		for _, p := range []mgl32.Vec3{a, b, d} {
			c.Assert(mgl32.Abs(p.X()), qt.Equals, float32(9))
			c.Assert(mgl32.Abs(p.Y()), qt.Equals, float32(0.5))
			c.Assert(mgl32.Abs(p.Z()), qt.Equals, float32(5.5))
		}
	}
}
