package testbed

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine"
	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/math"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
	"github.com/spaghettifunk/bilhar/engine/systems"
)

const (
	TableMeshName = "table"
	CueBallName   = "ball0"
)

// Racked ball numbers, apex first, row by row. The 8 sits in the middle of
// the third row.
var rackOrder = [15]int{1, 9, 2, 10, 8, 3, 11, 7, 14, 4, 5, 13, 15, 6, 12}

// BilharGame is the billiards scene: the table and the balls on it.
type BilharGame struct {
	*engine.Game
}

type gameState struct {
	table *metadata.Mesh
	balls []*metadata.Mesh
}

func NewBilharGame(config *engine.ApplicationConfig) *BilharGame {
	g := &BilharGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}
	g.FnInitialize = g.Initialize
	g.FnShutdown = g.Shutdown
	return g
}

func (g *BilharGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *BilharGame) Initialize() error {
	core.LogDebug("BilharGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := g.state()

	table, err := g.loadTable()
	if err != nil {
		core.LogError("failed to load the table: %s", err)
		return err
	}
	state.table = table

	for _, ball := range g.ballPlacements() {
		transform := math.TransformFromPosition(ball.Position)
		transform.SetUniformScale(g.ApplicationConfig.Balls.Scale)
		mesh, err := g.SystemManager.Meshes().Load(metadata.MeshLoadParams{
			Name:      ball.Name,
			Path:      g.ApplicationConfig.AssetPath(ball.Model),
			Transform: transform,
			Colour:    mgl32.Vec3{1, 1, 1},
		})
		if err != nil {
			// A missing ball still leaves a usable table.
			core.LogWarn("skipping ball '%s': %s", ball.Name, err)
			continue
		}
		state.balls = append(state.balls, mesh)
	}
	core.LogInfo("scene ready: table and %d balls", len(state.balls))
	return nil
}

func (g *BilharGame) loadTable() (*metadata.Mesh, error) {
	cfg := g.ApplicationConfig.Table
	params := metadata.MeshLoadParams{
		Name:      TableMeshName,
		Path:      g.ApplicationConfig.AssetPath(cfg.Model),
		Transform: math.TransformFromPosition(cfg.Position),
		Colour:    cfg.Colour,
	}
	if cfg.Model == "" {
		return g.SystemManager.Meshes().CreateFromVertices(params, systems.GenerateBoxVertices(systems.TableSize))
	}
	return g.SystemManager.Meshes().Load(params)
}

// ballPlacements returns the configured balls, or the generated rack plus the
// cue ball resting on the table top.
func (g *BilharGame) ballPlacements() []engine.BallConfig {
	balls := g.ApplicationConfig.Balls
	if len(balls.Rack) > 0 {
		return balls.Rack
	}

	table := g.ApplicationConfig.Table
	surface := table.Position.Y() + systems.TableSize.Y()/2
	centre := mgl32.Vec3{table.Position.X(), surface + balls.Radius, table.Position.Z()}
	// Apex on the foot spot, cue ball on the head spot.
	quarter := systems.TableSize.X() / 4

	out := make([]engine.BallConfig, 0, len(rackOrder)+1)
	for i, p := range RackPositions(centre.Add(mgl32.Vec3{quarter, 0, 0}), balls.Radius) {
		out = append(out, engine.BallConfig{
			Name:     fmt.Sprintf("ball%d", rackOrder[i]),
			Model:    fmt.Sprintf(balls.ModelPattern, rackOrder[i]),
			Position: p,
		})
	}
	out = append(out, engine.BallConfig{
		Name:     CueBallName,
		Model:    balls.CueModel,
		Position: centre.Sub(mgl32.Vec3{quarter, 0, 0}),
	})
	return out
}

// RackPositions lays 15 touching balls of the given radius in a triangle whose
// apex is at apex and whose rows grow along +X.
func RackPositions(apex mgl32.Vec3, radius float32) []mgl32.Vec3 {
	rowStep := radius * math32.Sqrt(3)
	out := make([]mgl32.Vec3, 0, 15)
	for row := 0; row < 5; row++ {
		for i := 0; i <= row; i++ {
			out = append(out, apex.Add(mgl32.Vec3{
				float32(row) * rowStep,
				0,
				(float32(i) - float32(row)/2) * 2 * radius,
			}))
		}
	}
	return out
}

func (g *BilharGame) Shutdown() error {
	state := g.state()
	state.table = nil
	state.balls = nil
	return nil
}

func (g *BilharGame) Balls() []*metadata.Mesh {
	return g.state().balls
}

func (g *BilharGame) Table() *metadata.Mesh {
	return g.state().table
}
