package testbed

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	qt "github.com/frankban/quicktest"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine"
	"github.com/spaghettifunk/bilhar/engine/assets"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
	"github.com/spaghettifunk/bilhar/engine/systems"
)

type fakeGPU struct {
	next uint32
}

func (g *fakeGPU) CreateGeometry(geometry *metadata.Geometry, vertices []float32) error {
	g.next++
	geometry.ID = g.next
	geometry.VertexCount = int32(len(vertices) / metadata.VertexStride)
	return nil
}

func (g *fakeGPU) DestroyGeometry(geometry *metadata.Geometry) {}

func (g *fakeGPU) CreateTexture(pixels []uint8, texture *metadata.Texture) error {
	g.next++
	texture.ID = g.next
	return nil
}

func (g *fakeGPU) DestroyTexture(texture *metadata.Texture) {}

const triangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2/1/1 3/1/1
`

// newGame writes ball0..ball15 under an assets directory and wires the game to
// systems backed by it.
func newGame(c *qt.C) (*BilharGame, *engine.ApplicationConfig) {
	dir := c.TempDir()
	balls := filepath.Join(dir, "models", "PoolBalls")
	c.Assert(os.MkdirAll(balls, 0o755), qt.IsNil)
	for i := 0; i <= 15; i++ {
		c.Assert(os.WriteFile(filepath.Join(balls, fmt.Sprintf("ball%d.obj", i)), []byte(triangleOBJ), 0o644), qt.IsNil)
	}

	cfg := engine.DefaultApplicationConfig()
	cfg.AssetsDir = dir

	am, err := assets.NewAssetManager(nil)
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { am.Shutdown() })
	sm, err := systems.NewSystemManager(am, &fakeGPU{})
	c.Assert(err, qt.IsNil)

	g := NewBilharGame(cfg)
	g.SystemManager = sm
	return g, cfg
}

func TestRackPositions(t *testing.T) {
	c := qt.New(t)
	apex := mgl32.Vec3{4.5, -1.2, 0}
	const radius = 0.3

	positions := RackPositions(apex, radius)
	c.Assert(positions, qt.HasLen, 15)
	c.Assert(positions[0], qt.Equals, apex)

	for i, p := range positions {
		c.Assert(p.Y(), qt.Equals, apex.Y())
		for _, q := range positions[i+1:] {
			c.Assert(p.Sub(q).Len() >= 2*radius-1e-4, qt.IsTrue, qt.Commentf("%v and %v overlap", p, q))
		}
	}

	// The back row holds five balls spread symmetrically around the axis.
	back := positions[10:]
	for _, p := range back {
		c.Assert(math32.Abs(p.X()-(apex.X()+4*radius*math32.Sqrt(3))) < 1e-4, qt.IsTrue)
	}
	c.Assert(math32.Abs(back[0].Z()+back[4].Z()) < 1e-4, qt.IsTrue)
	c.Assert(math32.Abs(back[2].Z()) < 1e-4, qt.IsTrue)
}

func TestInitializeBuildsDefaultScene(t *testing.T) {
	c := qt.New(t)
	g, cfg := newGame(c)

	c.Assert(g.Initialize(), qt.IsNil)

	table := g.Table()
	c.Assert(table.Name, qt.Equals, TableMeshName)
	c.Assert(table.Geometry.VertexCount, qt.Equals, int32(36))
	c.Assert(table.Colour, qt.Equals, cfg.Table.Colour)
	c.Assert(table.Transform.Position, qt.Equals, mgl32.Vec3{0, -2, 0})

	balls := g.Balls()
	c.Assert(balls, qt.HasLen, 16)
	names := make(map[string]bool)
	for _, b := range balls {
		names[b.Name] = true
		c.Assert(math32.Abs(b.Transform.Position.Y()-(-1.2)) < 1e-4, qt.IsTrue, qt.Commentf("%s at %v", b.Name, b.Transform.Position))
	}
	for i := 0; i <= 15; i++ {
		c.Assert(names[fmt.Sprintf("ball%d", i)], qt.IsTrue)
	}

	cue, ok := g.SystemManager.Meshes().Get(CueBallName)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cue.Transform.Position.X(), qt.Equals, float32(-4.5))
	c.Assert(cue.Data.Path, qt.Equals, filepath.Join(cfg.AssetsDir, "models", "PoolBalls", "ball0.obj"))

	c.Assert(g.SystemManager.Meshes().RenderData(), qt.HasLen, 17)
	c.Assert(g.Shutdown(), qt.IsNil)
	c.Assert(g.Balls(), qt.HasLen, 0)
}

func TestInitializeSkipsMissingBalls(t *testing.T) {
	c := qt.New(t)
	g, cfg := newGame(c)
	c.Assert(os.Remove(filepath.Join(cfg.AssetsDir, "models", "PoolBalls", "ball8.obj")), qt.IsNil)

	c.Assert(g.Initialize(), qt.IsNil)
	c.Assert(g.Balls(), qt.HasLen, 15)
	_, ok := g.SystemManager.Meshes().Get("ball8")
	c.Assert(ok, qt.IsFalse)
}

func TestInitializeUsesConfiguredRack(t *testing.T) {
	c := qt.New(t)
	g, cfg := newGame(c)
	cfg.Balls.Scale = 2
	cfg.Balls.Rack = []engine.BallConfig{
		{Name: "cue", Model: "models/PoolBalls/ball0.obj", Position: mgl32.Vec3{-1, -1.2, 0}},
		{Name: "eight", Model: "models/PoolBalls/ball8.obj", Position: mgl32.Vec3{1, -1.2, 0}},
	}

	c.Assert(g.Initialize(), qt.IsNil)
	balls := g.Balls()
	c.Assert(balls, qt.HasLen, 2)
	c.Assert(balls[1].Name, qt.Equals, "eight")
	c.Assert(balls[1].Transform.Position, qt.Equals, mgl32.Vec3{1, -1.2, 0})
	c.Assert(balls[1].Transform.Scale, qt.Equals, mgl32.Vec3{2, 2, 2})
}

func TestInitializeFailsOnMissingTableModel(t *testing.T) {
	c := qt.New(t)
	g, cfg := newGame(c)
	cfg.Table.Model = "models/table.obj"

	c.Assert(g.Initialize(), qt.Not(qt.IsNil))
}

func TestInitializeNeedsSystems(t *testing.T) {
	c := qt.New(t)
	g := NewBilharGame(engine.DefaultApplicationConfig())
	c.Assert(g.Initialize(), qt.ErrorMatches, `the engine is not yet initialized.*`)
}
